package table

import (
	"errors"

	"fixedkv/pager"
)

// ErrDuplicateKey is returned when Insert's key already exists in the
// tree.
var ErrDuplicateKey = errors.New("table: duplicate key")

// Find descends from rootPageNum to the leaf that would contain key,
// returning that leaf's page number and the cell index LeafNodeFind
// produced within it. The returned index is where key belongs whether
// or not it is already present.
func Find(pgr *pager.Pager, rootPageNum, key uint32) (leafPageNum uint32, cellNum uint32, err error) {
	pageNum := rootPageNum
	for {
		page, err := pgr.GetPage(pageNum)
		if err != nil {
			return 0, 0, err
		}
		if NodeTypeOf(page) == NodeTypeLeaf {
			leaf := AsLeaf(page)
			return pageNum, LeafNodeFind(leaf, key), nil
		}
		pageNum = AsInternal(page).ChildAt(key)
	}
}

// Insert places (key, value) into the tree rooted at rootPageNum,
// splitting leaves and internal nodes and growing the tree upward
// through a new root as needed. rootPageNum never changes: the root
// always occupies the page it started on, per the fixed root-page
// convention table.Table relies on.
func Insert(pgr *pager.Pager, rootPageNum, key uint32, value []byte) error {
	leafPageNum, cellNum, err := Find(pgr, rootPageNum, key)
	if err != nil {
		return err
	}
	leafPage, err := pgr.GetPage(leafPageNum)
	if err != nil {
		return err
	}
	leaf := AsLeaf(leafPage)
	if cellNum < leaf.NumCells() && leaf.Key(cellNum) == key {
		return ErrDuplicateKey
	}

	var oldMaxBeforeSplit uint32
	if n := leaf.NumCells(); n > 0 {
		oldMaxBeforeSplit = leaf.Key(n - 1)
	}

	newPageNum, split, err := leaf.Insert(pgr, leafPageNum, cellNum, key, value)
	if err != nil {
		return err
	}
	if !split {
		return nil
	}
	return propagateSplit(pgr, leafPageNum, oldMaxBeforeSplit, newPageNum)
}

// propagateSplit is invoked after oldPageNum has just shed cells into
// newPageNum. It fixes up the parent's separator for oldPageNum,
// inserts newPageNum as a sibling, and recurses upward through
// whatever further splits that insertion triggers, finishing with a
// new root when the split reaches the top.
func propagateSplit(pgr *pager.Pager, oldPageNum, oldMaxBeforeSplit, newPageNum uint32) error {
	oldPage, err := pgr.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldHeader := nodeHeader{buf: oldPage.Data[:]}
	if oldHeader.IsRoot() {
		return createNewRoot(pgr, oldPageNum, newPageNum)
	}

	parentPageNum := oldHeader.Parent()
	parentPage, err := pgr.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parent := AsInternal(parentPage)

	newOldMax, err := MaxKey(pgr, oldPageNum)
	if err != nil {
		return err
	}
	parent.UpdateKey(oldMaxBeforeSplit, newOldMax)

	newMaxKey, err := MaxKey(pgr, newPageNum)
	if err != nil {
		return err
	}

	var parentOldMax uint32
	if parent.NumKeys() > 0 {
		parentOldMax, err = MaxKey(pgr, parentPageNum)
		if err != nil {
			return err
		}
	}

	nextNewPageNum, split, err := parent.Insert(pgr, parentPageNum, newPageNum, newMaxKey)
	if err != nil {
		return err
	}
	if !split {
		return nil
	}
	return propagateSplit(pgr, parentPageNum, parentOldMax, nextNewPageNum)
}

// createNewRoot grows the tree by one level: the current root's
// contents move to a freshly allocated left page, and the root page
// is reinitialized in place as an internal node with two children,
// left and rightChildPageNum. The root's page number never changes, so
// only the old root's children (now the left page's children) and the
// two new children need their parent pointers rewritten.
func createNewRoot(pgr *pager.Pager, rootPageNum, rightChildPageNum uint32) error {
	rootPage, err := pgr.GetPage(rootPageNum)
	if err != nil {
		return err
	}

	leftChildPageNum, err := pgr.AllocatePage()
	if err != nil {
		return err
	}
	leftChildPage, err := pgr.GetPage(leftChildPageNum)
	if err != nil {
		return err
	}

	copy(leftChildPage.Data[:], rootPage.Data[:])
	leftHeader := nodeHeader{buf: leftChildPage.Data[:]}
	leftHeader.SetRoot(false)

	if NodeTypeOf(leftChildPage) == NodeTypeInternal {
		leftInternal := AsInternal(leftChildPage)
		for i := uint32(0); i < leftInternal.NumKeys(); i++ {
			if err := setChildParent(pgr, leftInternal.Child(i), leftChildPageNum); err != nil {
				return err
			}
		}
		if err := setChildParent(pgr, leftInternal.RightChild(), leftChildPageNum); err != nil {
			return err
		}
	}

	newRoot := InitializeInternal(rootPage)
	newRoot.SetRoot(true)
	newRoot.SetNumKeys(1)
	newRoot.SetChild(0, leftChildPageNum)

	leftMax, err := MaxKey(pgr, leftChildPageNum)
	if err != nil {
		return err
	}
	newRoot.SetKey(0, leftMax)
	newRoot.SetRightChild(rightChildPageNum)

	if err := setChildParent(pgr, leftChildPageNum, rootPageNum); err != nil {
		return err
	}
	return setChildParent(pgr, rightChildPageNum, rootPageNum)
}
