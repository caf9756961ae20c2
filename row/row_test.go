package row

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	r := Row{ID: 42, Username: "alice", Email: "alice@example.com"}

	buf := make([]byte, RowSize)
	require.NoError(t, Serialize(r, buf))

	got, err := Deserialize(buf)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestSerializeRejectsLongUsername(t *testing.T) {
	r := Row{ID: 1, Username: string(make([]byte, UsernameSize+1)), Email: "e@e"}
	buf := make([]byte, RowSize)
	err := Serialize(r, buf)
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestSerializeRejectsLongEmail(t *testing.T) {
	r := Row{ID: 1, Username: "u", Email: string(make([]byte, EmailSize+1))}
	buf := make([]byte, RowSize)
	err := Serialize(r, buf)
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestSerializeRejectsWrongBufferSize(t *testing.T) {
	r := Row{ID: 1, Username: "u", Email: "e"}
	err := Serialize(r, make([]byte, RowSize-1))
	require.Error(t, err)
}

func TestDeserializeTrimsTrailingZeroes(t *testing.T) {
	buf := make([]byte, RowSize)
	r := Row{ID: 7, Username: "bob", Email: "bob@example.com"}
	require.NoError(t, Serialize(r, buf))

	got, err := Deserialize(buf)
	require.NoError(t, err)
	require.Equal(t, "bob", got.Username)
	require.Equal(t, "bob@example.com", got.Email)
}
