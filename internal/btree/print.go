package btree

import (
	"fmt"
	"io"
	"strings"

	"btreedb/internal/pager"
)

// DebugPrintTree writes an indented pretty-print of the tree rooted at
// pageNum to w, per spec.md §6: leaves render as `- leaf (size N)`
// followed by each key on its own indented line; internals render
// their left subtrees, then ` - key K` for each separator, then the
// right subtree. Two spaces of indent per level.
func DebugPrintTree(w io.Writer, pgr *pager.Pager, pageNum uint32, indentLevel int) error {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", indentLevel)

	switch TypeOf(page) {
	case NodeLeaf:
		leaf := AsLeaf(page)
		numCells := leaf.NumCells()
		fmt.Fprintf(w, "%s- leaf (size %d)\n", indent, numCells)
		for i := uint32(0); i < numCells; i++ {
			fmt.Fprintf(w, "%s  - %d\n", indent, leaf.Key(i))
		}
		return nil

	default:
		internal := AsInternal(page)
		numKeys := internal.NumKeys()
		fmt.Fprintf(w, "%s- internal (size %d)\n", indent, numKeys)
		for i := uint32(0); i < numKeys; i++ {
			if err := DebugPrintTree(w, pgr, internal.Child(i), indentLevel+1); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s - key %d\n", indent, internal.Key(i))
		}
		return DebugPrintTree(w, pgr, internal.RightChild(), indentLevel+1)
	}
}

// DebugPrintConstants writes the layout constants named in spec.md §6.
func DebugPrintConstants(w io.Writer) {
	fmt.Fprintf(w, "ROW_SIZE: %d\n", LeafCellSize-leafKeySize)
	fmt.Fprintf(w, "COMMON_NODE_HEADER_SIZE: %d\n", CommonNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_HEADER_SIZE: %d\n", LeafNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_CELL_SIZE: %d\n", LeafCellSize)
	fmt.Fprintf(w, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", LeafSpaceForCells)
	fmt.Fprintf(w, "LEAF_NODE_MAX_CELLS: %d\n", LeafMaxCells)
}
