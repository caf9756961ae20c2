package table

import (
	"encoding/binary"
	"sort"

	"fixedkv/pager"
)

// InternalNode is a typed accessor over a page buffer interpreted as
// an internal node: cells of (childPage, key) plus a terminal right
// child. Subtree Ci holds keys <= keys[i]; the right child holds keys
// greater than the last key.
type InternalNode struct {
	nodeHeader
}

// AsInternal wraps p for internal-node-shaped access.
func AsInternal(p *pager.Page) *InternalNode {
	return &InternalNode{nodeHeader{buf: p.Data[:]}}
}

// InitializeInternal marks p as an empty, non-root internal node whose
// right child is InvalidPageNum. The parent pointer is left as it was.
func InitializeInternal(p *pager.Page) *InternalNode {
	n := AsInternal(p)
	n.setNodeType(NodeTypeInternal)
	n.SetRoot(false)
	n.SetNumKeys(0)
	n.SetRightChild(InvalidPageNum)
	return n
}

func (n *InternalNode) NumKeys() uint32 {
	return binary.LittleEndian.Uint32(n.buf[internalNodeNumKeysOffset : internalNodeNumKeysOffset+4])
}

func (n *InternalNode) SetNumKeys(v uint32) {
	binary.LittleEndian.PutUint32(n.buf[internalNodeNumKeysOffset:internalNodeNumKeysOffset+4], v)
}

func (n *InternalNode) RightChild() uint32 {
	return binary.LittleEndian.Uint32(n.buf[internalNodeRightChildOffset : internalNodeRightChildOffset+4])
}

func (n *InternalNode) SetRightChild(pageNum uint32) {
	binary.LittleEndian.PutUint32(n.buf[internalNodeRightChildOffset:internalNodeRightChildOffset+4], pageNum)
}

func (n *InternalNode) cellOffset(i uint32) uint32 {
	return internalNodeHeaderSize + i*uint32(internalNodeCellSize)
}

// Child returns the page number of the i-th child (i < NumKeys()).
// Use RightChild() for child NumKeys().
func (n *InternalNode) Child(i uint32) uint32 {
	off := n.cellOffset(i)
	return binary.LittleEndian.Uint32(n.buf[off : off+internalNodeChildSize])
}

func (n *InternalNode) SetChild(i uint32, pageNum uint32) {
	off := n.cellOffset(i)
	binary.LittleEndian.PutUint32(n.buf[off:off+internalNodeChildSize], pageNum)
}

// Key returns separator key i.
func (n *InternalNode) Key(i uint32) uint32 {
	off := n.cellOffset(i) + internalNodeChildSize
	return binary.LittleEndian.Uint32(n.buf[off : off+internalNodeKeySize])
}

func (n *InternalNode) SetKey(i uint32, key uint32) {
	off := n.cellOffset(i) + internalNodeChildSize
	binary.LittleEndian.PutUint32(n.buf[off:off+internalNodeKeySize], key)
}

func (n *InternalNode) writeCell(i uint32, child, key uint32) {
	n.SetChild(i, child)
	n.SetKey(i, key)
}

func copyInternalCell(dst *InternalNode, dstIdx uint32, src *InternalNode, srcIdx uint32) {
	dOff := dst.cellOffset(dstIdx)
	sOff := src.cellOffset(srcIdx)
	copy(dst.buf[dOff:dOff+uint32(internalNodeCellSize)], src.buf[sOff:sOff+uint32(internalNodeCellSize)])
}

// InternalNodeFindChild performs a binary search over the separator
// keys for the smallest index i with key <= keys[i]; it returns
// NumKeys() if key exceeds every separator (meaning: follow
// RightChild()).
func InternalNodeFindChild(n *InternalNode, key uint32) uint32 {
	numKeys := n.NumKeys()
	idx := sort.Search(int(numKeys), func(i int) bool {
		return key <= n.Key(uint32(i))
	})
	return uint32(idx)
}

// ChildAt resolves the page number to descend into for key: either
// Child(idx) or RightChild() when idx == NumKeys().
func (n *InternalNode) ChildAt(key uint32) uint32 {
	idx := InternalNodeFindChild(n, key)
	if idx < n.NumKeys() {
		return n.Child(idx)
	}
	return n.RightChild()
}

// UpdateKey replaces the separator equal to oldKey with newKey,
// refreshing the bound after the child it points to sheds cells in a
// split.
func (n *InternalNode) UpdateKey(oldKey, newKey uint32) {
	idx := InternalNodeFindChild(n, oldKey)
	n.SetKey(idx, newKey)
}

// Insert records childPageNum (whose greatest key is childMaxKey) as
// a child of n, which lives at ownPageNum, and points childPageNum's
// own parent pointer back at ownPageNum. If n is already at capacity,
// it instead splits n and returns the newly allocated sibling's page
// number with splitNeeded=true; the caller propagates the split to
// n's parent the same way a leaf split is propagated.
func (n *InternalNode) Insert(pgr *pager.Pager, ownPageNum, childPageNum, childMaxKey uint32) (newPageNum uint32, splitNeeded bool, err error) {
	if n.NumKeys() >= InternalNodeMaxKeys {
		return n.splitAndInsert(pgr, ownPageNum, childPageNum, childMaxKey)
	}

	if err := setChildParent(pgr, childPageNum, ownPageNum); err != nil {
		return 0, false, err
	}

	index := InternalNodeFindChild(n, childMaxKey)
	originalNumKeys := n.NumKeys()

	rightChildPageNum := n.RightChild()
	if rightChildPageNum == InvalidPageNum {
		n.SetRightChild(childPageNum)
		return 0, false, nil
	}

	rightChildMaxKey, err := MaxKey(pgr, rightChildPageNum)
	if err != nil {
		return 0, false, err
	}

	n.SetNumKeys(originalNumKeys + 1)

	if childMaxKey > rightChildMaxKey {
		n.writeCell(originalNumKeys, rightChildPageNum, rightChildMaxKey)
		n.SetRightChild(childPageNum)
		return 0, false, nil
	}

	for i := originalNumKeys; i > index; i-- {
		copyInternalCell(n, i, n, i-1)
	}
	n.writeCell(index, childPageNum, childMaxKey)
	return 0, false, nil
}

// splitAndInsert redistributes n's MaxKeys+1 cells (the existing keys
// plus the new child) across n and a freshly allocated sibling, the
// same left/right partition shape as a leaf split but over
// (child, key) cells and the trailing right-child slot.
func (n *InternalNode) splitAndInsert(pgr *pager.Pager, ownPageNum, childPageNum, childMaxKey uint32) (newPageNum uint32, splitNeeded bool, err error) {
	oldMax, err := MaxKey(pgr, ownPageNum)
	if err != nil {
		return 0, false, err
	}

	newPageNum, err = pgr.AllocatePage()
	if err != nil {
		return 0, false, err
	}
	newPage, err := pgr.GetPage(newPageNum)
	if err != nil {
		return 0, false, err
	}
	newInternal := InitializeInternal(newPage)
	newInternal.SetParent(n.Parent())

	// Gather the old cells, with the old right child turned into a
	// trailing (child, key) cell, into key order; then insert the new
	// (child, key) pair at its sorted position. The old right child's
	// key must take part in that ordering too, since childMaxKey may
	// exceed it.
	type cell struct {
		child uint32
		key   uint32
	}
	cells := make([]cell, 0, InternalNodeMaxKeys+2)
	for i := uint32(0); i < n.NumKeys(); i++ {
		cells = append(cells, cell{n.Child(i), n.Key(i)})
	}
	cells = append(cells, cell{n.RightChild(), oldMax})

	insertAt := len(cells)
	for i, c := range cells {
		if childMaxKey < c.key {
			insertAt = i
			break
		}
	}
	cells = append(cells, cell{})
	copy(cells[insertAt+1:], cells[insertAt:])
	cells[insertAt] = cell{childPageNum, childMaxKey}

	splitAt := uint32(internalNodeLeftSplitCount)

	for i := uint32(0); i < splitAt; i++ {
		n.writeCell(i, cells[i].child, cells[i].key)
	}
	n.SetNumKeys(splitAt - 1)
	n.SetRightChild(cells[splitAt-1].child)

	rightCells := cells[splitAt:]
	for i, c := range rightCells[:len(rightCells)-1] {
		newInternal.writeCell(uint32(i), c.child, c.key)
	}
	newInternal.SetNumKeys(uint32(len(rightCells) - 1))
	newInternal.SetRightChild(rightCells[len(rightCells)-1].child)

	reparent := func(in *InternalNode, parentPageNum uint32) error {
		for i := uint32(0); i < in.NumKeys(); i++ {
			if err := setChildParent(pgr, in.Child(i), parentPageNum); err != nil {
				return err
			}
		}
		return setChildParent(pgr, in.RightChild(), parentPageNum)
	}
	if err := reparent(n, ownPageNum); err != nil {
		return 0, false, err
	}
	if err := reparent(newInternal, newPageNum); err != nil {
		return 0, false, err
	}

	return newPageNum, true, nil
}

func setChildParent(pgr *pager.Pager, childPageNum, parentPageNum uint32) error {
	page, err := pgr.GetPage(childPageNum)
	if err != nil {
		return err
	}
	nodeHeader{buf: page.Data[:]}.SetParent(parentPageNum)
	return nil
}
