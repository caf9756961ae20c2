package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fixedkv/pager"
)

func makeLeafChild(t *testing.T, pgr *pager.Pager, key uint32) uint32 {
	t.Helper()
	pageNum, err := pgr.AllocatePage()
	require.NoError(t, err)
	page, err := pgr.GetPage(pageNum)
	require.NoError(t, err)
	leaf := InitializeLeaf(page)
	_, split, err := leaf.Insert(pgr, pageNum, 0, key, rowValue(key))
	require.NoError(t, err)
	require.False(t, split)
	return pageNum
}

func TestInitializeInternalStartsEmpty(t *testing.T) {
	pgr := newTestPager(t)
	page, err := pgr.GetPage(0)
	require.NoError(t, err)

	n := InitializeInternal(page)
	require.Equal(t, NodeTypeInternal, n.NodeType())
	require.Equal(t, uint32(0), n.NumKeys())
	require.Equal(t, InvalidPageNum, n.RightChild())
}

func TestInternalNodeFindChild(t *testing.T) {
	pgr := newTestPager(t)
	page, _ := pgr.GetPage(0)
	n := InitializeInternal(page)
	n.SetNumKeys(2)
	n.SetChild(0, 10)
	n.SetKey(0, 100)
	n.SetChild(1, 11)
	n.SetKey(1, 200)
	n.SetRightChild(12)

	require.Equal(t, uint32(0), InternalNodeFindChild(n, 50))
	require.Equal(t, uint32(0), InternalNodeFindChild(n, 100))
	require.Equal(t, uint32(1), InternalNodeFindChild(n, 150))
	require.Equal(t, uint32(2), InternalNodeFindChild(n, 250))
}

func TestInternalInsertPromotesRightChild(t *testing.T) {
	pgr := newTestPager(t)
	rootPage, _ := pgr.GetPage(0)
	n := InitializeInternal(rootPage)
	n.SetRoot(true)

	c1 := makeLeafChild(t, pgr, 10)
	c2 := makeLeafChild(t, pgr, 20)
	c3 := makeLeafChild(t, pgr, 30)

	_, split, err := n.Insert(pgr, 0, c1, 10)
	require.NoError(t, err)
	require.False(t, split)
	require.Equal(t, c1, n.RightChild())
	require.Equal(t, uint32(0), n.NumKeys())

	_, split, err = n.Insert(pgr, 0, c2, 20)
	require.NoError(t, err)
	require.False(t, split)
	require.Equal(t, uint32(1), n.NumKeys())
	require.Equal(t, c1, n.Child(0))
	require.Equal(t, uint32(10), n.Key(0))
	require.Equal(t, c2, n.RightChild())

	_, split, err = n.Insert(pgr, 0, c3, 30)
	require.NoError(t, err)
	require.False(t, split)
	require.Equal(t, uint32(2), n.NumKeys())
	require.Equal(t, c2, n.Child(1))
	require.Equal(t, uint32(20), n.Key(1))
	require.Equal(t, c3, n.RightChild())

	for _, child := range []uint32{c1, c2, c3} {
		page, err := pgr.GetPage(child)
		require.NoError(t, err)
		require.Equal(t, uint32(0), AsLeaf(page).Parent())
	}
}

func TestInternalInsertSplitsAtCapacity(t *testing.T) {
	pgr := newTestPager(t)
	rootPage, _ := pgr.GetPage(0)
	n := InitializeInternal(rootPage)
	n.SetRoot(true)

	keys := []uint32{10, 20, 30, 40, 50}
	var gotSplit bool
	var newPageNum uint32
	for _, k := range keys {
		child := makeLeafChild(t, pgr, k)
		np, split, err := n.Insert(pgr, 0, child, k)
		require.NoError(t, err)
		if split {
			gotSplit = true
			newPageNum = np
		}
	}

	require.True(t, gotSplit)
	require.Equal(t, uint32(1), n.NumKeys())

	newPage, err := pgr.GetPage(newPageNum)
	require.NoError(t, err)
	right := AsInternal(newPage)
	require.Equal(t, uint32(2), right.NumKeys())

	leftMax, err := MaxKey(pgr, 0)
	require.NoError(t, err)
	rightMax, err := MaxKey(pgr, newPageNum)
	require.NoError(t, err)
	require.Less(t, leftMax, rightMax)
}

func TestUpdateKeyReplacesSeparator(t *testing.T) {
	pgr := newTestPager(t)
	page, _ := pgr.GetPage(0)
	n := InitializeInternal(page)
	n.SetNumKeys(1)
	n.SetChild(0, 1)
	n.SetKey(0, 100)
	n.SetRightChild(2)

	n.UpdateKey(100, 90)
	require.Equal(t, uint32(90), n.Key(0))
}
