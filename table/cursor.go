package table

import "fixedkv/pager"

// Cursor walks the rows of a table in key order, one leaf cell at a
// time, following sibling pointers across leaf boundaries.
type Cursor struct {
	pgr        *pager.Pager
	pageNum    uint32
	cellNum    uint32
	endOfTable bool
}

// Start returns a cursor positioned at the first row in key order,
// i.e. the leftmost cell of the leftmost leaf.
func Start(pgr *pager.Pager, rootPageNum uint32) (*Cursor, error) {
	pageNum := rootPageNum
	for {
		page, err := pgr.GetPage(pageNum)
		if err != nil {
			return nil, err
		}
		if NodeTypeOf(page) == NodeTypeLeaf {
			leaf := AsLeaf(page)
			return &Cursor{
				pgr:        pgr,
				pageNum:    pageNum,
				cellNum:    0,
				endOfTable: leaf.NumCells() == 0,
			}, nil
		}
		pageNum = AsInternal(page).Child(0)
	}
}

// Seek returns a cursor positioned at the cell key would occupy,
// whether or not key is already present; the caller checks Valid and
// compares keys itself. This is additive convenience over Find, not
// a primitive the on-disk format requires.
func Seek(pgr *pager.Pager, rootPageNum, key uint32) (*Cursor, error) {
	leafPageNum, cellNum, err := Find(pgr, rootPageNum, key)
	if err != nil {
		return nil, err
	}
	page, err := pgr.GetPage(leafPageNum)
	if err != nil {
		return nil, err
	}
	leaf := AsLeaf(page)
	return &Cursor{
		pgr:        pgr,
		pageNum:    leafPageNum,
		cellNum:    cellNum,
		endOfTable: cellNum >= leaf.NumCells(),
	}, nil
}

// Valid reports whether the cursor is positioned on a row.
func (c *Cursor) Valid() bool {
	return !c.endOfTable
}

// Value returns a mutable slice over the row payload the cursor is
// positioned on. The caller must check Valid first.
func (c *Cursor) Value() ([]byte, error) {
	page, err := c.pgr.GetPage(c.pageNum)
	if err != nil {
		return nil, err
	}
	leaf := AsLeaf(page)
	return leaf.Value(c.cellNum), nil
}

// Key returns the key of the cell the cursor is positioned on. The
// caller must check Valid first.
func (c *Cursor) Key() (uint32, error) {
	page, err := c.pgr.GetPage(c.pageNum)
	if err != nil {
		return 0, err
	}
	return AsLeaf(page).Key(c.cellNum), nil
}

// Advance moves the cursor to the next cell in key order, crossing
// into the next leaf via its sibling pointer when the current leaf is
// exhausted. A next-leaf pointer of 0 means there is no sibling.
func (c *Cursor) Advance() error {
	page, err := c.pgr.GetPage(c.pageNum)
	if err != nil {
		return err
	}
	leaf := AsLeaf(page)

	c.cellNum++
	if c.cellNum >= leaf.NumCells() {
		nextLeaf := leaf.NextLeaf()
		if nextLeaf == 0 {
			c.endOfTable = true
		} else {
			c.pageNum = nextLeaf
			c.cellNum = 0
		}
	}
	return nil
}
