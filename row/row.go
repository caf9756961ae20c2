// Package row implements the fixed schema (id, username, email) that
// spec.md treats as an external collaborator: the storage core only
// ever sees an opaque RowSize-byte payload keyed by a uint32 id.
package row

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Column sizes, matching original_source/persistent_btree/table.h.
const (
	IDSize       = 4
	UsernameSize = 32
	EmailSize    = 255

	idOffset       = 0
	usernameOffset = idOffset + IDSize
	emailOffset    = usernameOffset + UsernameSize

	// RowSize is the fixed width of a serialized row, and therefore of
	// every leaf cell's value portion.
	RowSize = IDSize + UsernameSize + EmailSize
)

// ErrStringTooLong is returned when a username or email exceeds its
// column's maximum length.
var ErrStringTooLong = errors.New("row: string is too long")

// Row is the concrete schema the shell understands. The B+tree core
// never constructs one: it only moves RowSize-byte slices around.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Validate checks the shell-level length bounds without touching the
// wire format.
func (r Row) Validate() error {
	if len(r.Username) > UsernameSize {
		return fmt.Errorf("%w: username", ErrStringTooLong)
	}
	if len(r.Email) > EmailSize {
		return fmt.Errorf("%w: email", ErrStringTooLong)
	}
	return nil
}

// Serialize writes r into dst, which must be exactly RowSize bytes.
func Serialize(r Row, dst []byte) error {
	if len(dst) != RowSize {
		return fmt.Errorf("row: dst length %d, want %d", len(dst), RowSize)
	}
	if err := r.Validate(); err != nil {
		return err
	}

	for i := range dst {
		dst[i] = 0
	}

	binary.LittleEndian.PutUint32(dst[idOffset:idOffset+IDSize], r.ID)
	copy(dst[usernameOffset:usernameOffset+UsernameSize], r.Username)
	copy(dst[emailOffset:emailOffset+EmailSize], r.Email)
	return nil
}

// Deserialize reads a Row out of src, which must be exactly RowSize
// bytes.
func Deserialize(src []byte) (Row, error) {
	if len(src) != RowSize {
		return Row{}, fmt.Errorf("row: src length %d, want %d", len(src), RowSize)
	}

	id := binary.LittleEndian.Uint32(src[idOffset : idOffset+IDSize])
	username := strings.TrimRight(string(src[usernameOffset:usernameOffset+UsernameSize]), "\x00")
	email := strings.TrimRight(string(src[emailOffset:emailOffset+EmailSize]), "\x00")

	return Row{ID: id, Username: username, Email: email}, nil
}
