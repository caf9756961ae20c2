// Package table implements the on-disk B+tree that backs a single
// fixed-schema table: pager.Pager supplies fixed-size pages, and
// btree.go/leaf.go/internal.go lay a key-ordered tree across them
// rooted permanently at page 0.
package table

import (
	"errors"
	"fmt"

	"fixedkv/pager"
	"fixedkv/row"
)

// RootPageNum is the fixed page the root node occupies for the
// lifetime of a database file. Table never relocates it; growing the
// tree moves the old root's content to a new page instead (see
// createNewRoot).
const RootPageNum = 0

// ErrTableFull is returned by Insert when the pager has already handed
// out pager.TableMaxPages pages and the insert needs a new page to split
// a full leaf; the tree is left unchanged. Running out of pages later in
// a split, after the tree has been changed, poisons the Table instead.
var ErrTableFull = errors.New("table: table full, cannot allocate more pages")

// ErrPoisoned is returned by every operation once an earlier one has
// left the tree in an indeterminate state, e.g. after a split failed
// partway through. There is no repair path: the caller must discard
// the Table and reopen it.
var ErrPoisoned = errors.New("table: table is poisoned by a previous failed operation")

// Table is the open handle a shell or caller interacts with. It owns
// the pager and tracks whether a prior operation left the tree
// unsafe to use further.
type Table struct {
	pgr      *pager.Pager
	poisoned bool
}

// Open opens filename, creating and initializing a fresh root leaf at
// page 0 if the file is empty.
func Open(filename string) (*Table, error) {
	pgr, err := pager.Open(filename)
	if err != nil {
		return nil, err
	}

	t := &Table{pgr: pgr}
	if pgr.NumPages() == 0 {
		rootPage, err := pgr.GetPage(RootPageNum)
		if err != nil {
			return nil, err
		}
		root := InitializeLeaf(rootPage)
		root.SetRoot(true)
	}
	return t, nil
}

// Close flushes every resident page and closes the backing file. It
// refuses on a poisoned table: there is nothing safe left to flush.
func (t *Table) Close() error {
	if t.poisoned {
		return ErrPoisoned
	}
	return t.pgr.Close()
}

// Trace installs a page-fault/flush observer, forwarded to the
// underlying pager for the --page-trace shell flag.
func (t *Table) Trace(fn func(event string, pageNum uint32)) {
	t.pgr.Trace = fn
}

// Insert adds r to the table. It fails with ErrDuplicateKey if r.ID
// is already present, and with ErrTableFull if the tree cannot grow
// to accommodate it.
func (t *Table) Insert(r row.Row) error {
	if t.poisoned {
		return ErrPoisoned
	}
	if err := r.Validate(); err != nil {
		return err
	}

	buf := make([]byte, row.RowSize)
	if err := row.Serialize(r, buf); err != nil {
		return err
	}

	pagesBefore := t.pgr.NumPages()
	err := Insert(t.pgr, RootPageNum, r.ID, buf)
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return err
		}
		// Running out of pages leaves the tree intact only if no page was
		// allocated yet; later in a split the tree is already half-updated.
		if errors.Is(err, pager.ErrTableFull) && t.pgr.NumPages() == pagesBefore {
			return ErrTableFull
		}
		t.poisoned = true
		return fmt.Errorf("table: insert left tree in an unknown state: %w", err)
	}
	return nil
}

// SelectAll returns every row in key order.
func (t *Table) SelectAll() ([]row.Row, error) {
	if t.poisoned {
		return nil, ErrPoisoned
	}

	cur, err := Start(t.pgr, RootPageNum)
	if err != nil {
		return nil, err
	}

	var rows []row.Row
	for cur.Valid() {
		buf, err := cur.Value()
		if err != nil {
			return nil, err
		}
		r, err := row.Deserialize(buf)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
		if err := cur.Advance(); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// Get looks up a single row by id. found is false if no such row
// exists.
func (t *Table) Get(id uint32) (r row.Row, found bool, err error) {
	if t.poisoned {
		return row.Row{}, false, ErrPoisoned
	}

	cur, err := Seek(t.pgr, RootPageNum, id)
	if err != nil {
		return row.Row{}, false, err
	}
	if !cur.Valid() {
		return row.Row{}, false, nil
	}
	key, err := cur.Key()
	if err != nil {
		return row.Row{}, false, err
	}
	if key != id {
		return row.Row{}, false, nil
	}
	buf, err := cur.Value()
	if err != nil {
		return row.Row{}, false, err
	}
	r, err = row.Deserialize(buf)
	if err != nil {
		return row.Row{}, false, err
	}
	return r, true, nil
}

// NumPages reports how many pages the pager has allocated, including
// pages not yet flushed to the file, for the .stats shell meta-command.
func (t *Table) NumPages() uint32 { return t.pgr.NumPages() }

// FileLength reports the on-disk file length at open time, for the
// .stats shell meta-command.
func (t *Table) FileLength() int64 { return t.pgr.FileLength() }
