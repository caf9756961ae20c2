package table

import (
	"encoding/binary"

	"fixedkv/pager"
)

// NodeType distinguishes a leaf page from an internal page via the
// first byte of the common header.
type NodeType uint8

const (
	NodeTypeInternal NodeType = 0
	NodeTypeLeaf     NodeType = 1
)

// nodeHeader is the common-header view shared by LeafNode and
// InternalNode: a thin slice handle over the page buffer, never a
// decoded copy. Mutations through it are visible on the next read of
// the same page, matching spec.md's Design Notes §9 on aliasing.
type nodeHeader struct {
	buf []byte
}

func (h nodeHeader) NodeType() NodeType {
	return NodeType(h.buf[nodeTypeOffset])
}

func (h nodeHeader) setNodeType(t NodeType) {
	h.buf[nodeTypeOffset] = byte(t)
}

func (h nodeHeader) IsRoot() bool {
	return h.buf[isRootOffset] == 1
}

func (h nodeHeader) SetRoot(v bool) {
	if v {
		h.buf[isRootOffset] = 1
	} else {
		h.buf[isRootOffset] = 0
	}
}

func (h nodeHeader) Parent() uint32 {
	return binary.LittleEndian.Uint32(h.buf[parentPointerOffset : parentPointerOffset+4])
}

func (h nodeHeader) SetParent(pageNum uint32) {
	binary.LittleEndian.PutUint32(h.buf[parentPointerOffset:parentPointerOffset+4], pageNum)
}

// NodeTypeOf inspects the first byte of a page without otherwise
// interpreting it, for dispatch in callers such as Find and MaxKey.
func NodeTypeOf(p *pager.Page) NodeType {
	return NodeType(p.Data[nodeTypeOffset])
}

// MaxKey returns the greatest key stored in the subtree rooted at
// node. For a leaf, that is its last cell's key; for an internal node,
// it recurses to the rightmost leaf of its right child.
func MaxKey(pgr *pager.Pager, pageNum uint32) (uint32, error) {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return 0, err
	}
	switch NodeTypeOf(page) {
	case NodeTypeLeaf:
		leaf := AsLeaf(page)
		n := leaf.NumCells()
		if n == 0 {
			return 0, nil
		}
		return leaf.Key(n - 1), nil
	default:
		in := AsInternal(page)
		return MaxKey(pgr, in.RightChild())
	}
}
