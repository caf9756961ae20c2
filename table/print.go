package table

import (
	"fmt"
	"io"
	"strings"

	"fixedkv/pager"
)

// PrintTree renders the tree shape to w in the same indented,
// depth-first form as the `.btree` meta-command in
// original_source/persistent_btree/main.c: each internal node prints
// its i-th child, then its i-th separator key, then finally its right
// child.
func (t *Table) PrintTree(w io.Writer) error {
	if t.poisoned {
		return ErrPoisoned
	}
	return printNode(w, t.pgr, RootPageNum, 0)
}

func printNode(w io.Writer, pgr *pager.Pager, pageNum uint32, level int) error {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", level)

	if NodeTypeOf(page) == NodeTypeLeaf {
		leaf := AsLeaf(page)
		n := leaf.NumCells()
		fmt.Fprintf(w, "%s- leaf (size %d)\n", indent, n)
		for i := uint32(0); i < n; i++ {
			fmt.Fprintf(w, "%s  - %d\n", indent, leaf.Key(i))
		}
		return nil
	}

	in := AsInternal(page)
	n := in.NumKeys()
	fmt.Fprintf(w, "%s- internal (size %d)\n", indent, n)
	for i := uint32(0); i < n; i++ {
		if err := printNode(w, pgr, in.Child(i), level+1); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  - key %d\n", indent, in.Key(i))
	}
	return printNode(w, pgr, in.RightChild(), level+1)
}

// Height returns the number of levels in the tree (a single leaf root
// has height 1). It reports 0 if the tree cannot be walked.
func (t *Table) Height() int {
	h, err := heightOf(t.pgr, RootPageNum)
	if err != nil {
		return 0
	}
	return h
}

func heightOf(pgr *pager.Pager, pageNum uint32) (int, error) {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return 0, err
	}
	if NodeTypeOf(page) == NodeTypeLeaf {
		return 1, nil
	}
	below, err := heightOf(pgr, AsInternal(page).RightChild())
	if err != nil {
		return 0, err
	}
	return below + 1, nil
}
