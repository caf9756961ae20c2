package table

import (
	"unsafe"

	"fixedkv/pager"
	"fixedkv/row"
)

// Common node header: node type (1) + is-root (1) + parent page (4).
const (
	nodeTypeSize   = unsafe.Sizeof(uint8(0))
	nodeTypeOffset = 0

	isRootSize   = unsafe.Sizeof(uint8(0))
	isRootOffset = nodeTypeOffset + nodeTypeSize

	parentPointerSize   = unsafe.Sizeof(uint32(0))
	parentPointerOffset = isRootOffset + isRootSize

	commonNodeHeaderSize = nodeTypeSize + isRootSize + parentPointerSize
)

// Leaf node header: + number of cells (4) + next-leaf page (4).
const (
	leafNodeNumCellsSize   = unsafe.Sizeof(uint32(0))
	leafNodeNumCellsOffset = commonNodeHeaderSize

	leafNodeNextLeafSize   = unsafe.Sizeof(uint32(0))
	leafNodeNextLeafOffset = leafNodeNumCellsOffset + leafNodeNumCellsSize

	leafNodeHeaderSize = uint32(commonNodeHeaderSize + leafNodeNumCellsSize + leafNodeNextLeafSize)
)

// Leaf node body: each cell is [key:4][row:RowSize].
const (
	leafNodeKeySize   = 4
	leafNodeKeyOffset = 0
	leafNodeValueOffset = leafNodeKeyOffset + leafNodeKeySize
)

var (
	leafNodeCellSize          = leafNodeKeySize + row.RowSize
	leafNodeSpaceForCells     = pager.PageSize - leafNodeHeaderSize
	leafNodeMaxCells          = leafNodeSpaceForCells / uint32(leafNodeCellSize)
	leafNodeRightSplitCount   = (leafNodeMaxCells + 1) / 2
	leafNodeLeftSplitCount    = (leafNodeMaxCells + 1) - leafNodeRightSplitCount
)

// Internal node header: + number of keys (4) + right-child page (4).
const (
	internalNodeNumKeysSize   = unsafe.Sizeof(uint32(0))
	internalNodeNumKeysOffset = commonNodeHeaderSize

	internalNodeRightChildSize   = unsafe.Sizeof(uint32(0))
	internalNodeRightChildOffset = internalNodeNumKeysOffset + internalNodeNumKeysSize

	internalNodeHeaderSize = uint32(commonNodeHeaderSize + internalNodeNumKeysSize + internalNodeRightChildSize)
)

// Internal node body: each cell is [childPage:4][key:4].
const (
	internalNodeChildSize = 4
	internalNodeKeySize   = 4
	internalNodeCellSize  = internalNodeChildSize + internalNodeKeySize

	// InternalNodeMaxKeys is artificially small (matching spec.md and
	// the original tutorial) to force internal splits during testing;
	// it is a design constant, not a hardware limit.
	InternalNodeMaxKeys = 3

	internalNodeLeftSplitCount = (InternalNodeMaxKeys + 1) / 2
)

// InvalidPageNum is the sentinel used transiently during an internal
// node split, where page 0 cannot safely mean "no child" (see
// spec.md §9 and DESIGN.md's discussion of the next_leaf sentinel).
const InvalidPageNum = ^uint32(0)

// LeafNodeMaxCells returns how many (key,row) cells fit in one leaf
// page for the fixed row schema.
func LeafNodeMaxCells() uint32 { return leafNodeMaxCells }
