package table

import (
	"encoding/binary"
	"sort"

	"fixedkv/pager"
)

// LeafNode is a typed accessor over a page buffer interpreted as a
// leaf: an ordered sequence of (key, row) cells plus a sibling
// pointer. It holds no decoded state of its own.
type LeafNode struct {
	nodeHeader
}

// AsLeaf wraps p for leaf-shaped access. The caller is responsible for
// having initialized or verified the page's node type.
func AsLeaf(p *pager.Page) *LeafNode {
	return &LeafNode{nodeHeader{buf: p.Data[:]}}
}

// InitializeLeaf marks p as an empty, non-root leaf with no next
// sibling. The parent pointer is left as it was.
func InitializeLeaf(p *pager.Page) *LeafNode {
	n := AsLeaf(p)
	n.setNodeType(NodeTypeLeaf)
	n.SetRoot(false)
	n.SetNumCells(0)
	n.SetNextLeaf(0)
	return n
}

func (n *LeafNode) NumCells() uint32 {
	return binary.LittleEndian.Uint32(n.buf[leafNodeNumCellsOffset : leafNodeNumCellsOffset+4])
}

func (n *LeafNode) SetNumCells(v uint32) {
	binary.LittleEndian.PutUint32(n.buf[leafNodeNumCellsOffset:leafNodeNumCellsOffset+4], v)
}

// NextLeaf returns the page number of the next leaf in key order, or 0
// if there is none.
func (n *LeafNode) NextLeaf() uint32 {
	return binary.LittleEndian.Uint32(n.buf[leafNodeNextLeafOffset : leafNodeNextLeafOffset+4])
}

func (n *LeafNode) SetNextLeaf(pageNum uint32) {
	binary.LittleEndian.PutUint32(n.buf[leafNodeNextLeafOffset:leafNodeNextLeafOffset+4], pageNum)
}

func (n *LeafNode) cellOffset(i uint32) uint32 {
	return leafNodeHeaderSize + i*uint32(leafNodeCellSize)
}

// Key returns the key of cell i.
func (n *LeafNode) Key(i uint32) uint32 {
	off := n.cellOffset(i) + leafNodeKeyOffset
	return binary.LittleEndian.Uint32(n.buf[off : off+leafNodeKeySize])
}

// SetKey overwrites the key of cell i.
func (n *LeafNode) SetKey(i uint32, key uint32) {
	off := n.cellOffset(i) + leafNodeKeyOffset
	binary.LittleEndian.PutUint32(n.buf[off:off+leafNodeKeySize], key)
}

// Value returns a mutable slice over the row payload of cell i.
func (n *LeafNode) Value(i uint32) []byte {
	off := n.cellOffset(i) + leafNodeValueOffset
	rowSize := uint32(leafNodeCellSize - leafNodeKeySize)
	return n.buf[off : off+rowSize]
}

// copyCell copies cell src of node src into slot dst of node dst.
// Source and destination may be the same node.
func copyCell(dst *LeafNode, dstIdx uint32, src *LeafNode, srcIdx uint32) {
	dOff := dst.cellOffset(dstIdx)
	sOff := src.cellOffset(srcIdx)
	copy(dst.buf[dOff:dOff+uint32(leafNodeCellSize)], src.buf[sOff:sOff+uint32(leafNodeCellSize)])
}

// writeCell stores key/value directly into slot i.
func (n *LeafNode) writeCell(i uint32, key uint32, value []byte) {
	n.SetKey(i, key)
	copy(n.Value(i), value)
}

// LeafNodeFind performs a binary search for the smallest index i with
// keys[i] >= key, or NumCells() if key exceeds every key present.
func LeafNodeFind(n *LeafNode, key uint32) uint32 {
	numCells := n.NumCells()
	idx := sort.Search(int(numCells), func(i int) bool {
		return n.Key(uint32(i)) >= key
	})
	return uint32(idx)
}

// Insert places (key, value) into n at the position found by
// LeafNodeFind. If n is already at capacity, it instead performs a
// leaf split and returns the newly allocated sibling's page number
// together with splitNeeded=true; the caller is responsible for
// propagating the split to the parent.
//
// cellNum must be the index LeafNodeFind produced for key; the caller
// has already checked for a duplicate key at that index.
func (n *LeafNode) Insert(pgr *pager.Pager, ownPageNum, cellNum, key uint32, value []byte) (newPageNum uint32, splitNeeded bool, err error) {
	if n.NumCells() < leafNodeMaxCells {
		for i := n.NumCells(); i > cellNum; i-- {
			copyCell(n, i, n, i-1)
		}
		n.writeCell(cellNum, key, value)
		n.SetNumCells(n.NumCells() + 1)
		return 0, false, nil
	}

	newPageNum, err = pgr.AllocatePage()
	if err != nil {
		return 0, false, err
	}
	newPage, err := pgr.GetPage(newPageNum)
	if err != nil {
		return 0, false, err
	}
	newLeaf := InitializeLeaf(newPage)
	newLeaf.SetParent(n.Parent())
	newLeaf.SetNextLeaf(n.NextLeaf())
	n.SetNextLeaf(newPageNum)

	// Redistribute the MaxCells+1 cells (original MaxCells plus the one
	// being inserted) between old and new leaves, per spec.md §4.3.
	for i := int(leafNodeMaxCells); i >= 0; i-- {
		var dest *LeafNode
		if uint32(i) >= leafNodeLeftSplitCount {
			dest = newLeaf
		} else {
			dest = n
		}
		destIdx := uint32(i) % leafNodeLeftSplitCount

		switch {
		case uint32(i) == cellNum:
			dest.writeCell(destIdx, key, value)
		case uint32(i) > cellNum:
			copyCell(dest, destIdx, n, uint32(i)-1)
		default:
			copyCell(dest, destIdx, n, uint32(i))
		}
	}

	n.SetNumCells(leafNodeLeftSplitCount)
	newLeaf.SetNumCells(leafNodeRightSplitCount)

	return newPageNum, true, nil
}
