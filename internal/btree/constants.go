package btree

import (
	"btreedb/internal/pager"
	"btreedb/internal/row"
)

// PageSize is re-exported for callers that only import package btree.
const PageSize = pager.PageSize

// NodeType tags a page as either an internal or a leaf B+ tree node.
type NodeType uint8

const (
	NodeInternal NodeType = 0
	NodeLeaf     NodeType = 1
)

// Common node header: node_type (1) | is_root (1) | parent_page_num (4).
const (
	nodeTypeOffset   = 0
	isRootOffset     = 1
	parentPageOffset = 2

	CommonNodeHeaderSize = 6
)

// Leaf node header, after the common header:
// num_cells (4) | next_leaf_page_num (4).
const (
	leafNumCellsOffset = CommonNodeHeaderSize
	leafNextLeafOffset = leafNumCellsOffset + 4

	LeafNodeHeaderSize = leafNextLeafOffset + 4 // 14

	leafKeySize  = 4
	LeafCellSize = leafKeySize + row.Size // 4 + 293 = 297

	LeafSpaceForCells = PageSize - LeafNodeHeaderSize
	LeafMaxCells      = LeafSpaceForCells / LeafCellSize // 13

	// LeafRightSplitCount and LeafLeftSplitCount are the split
	// thresholds from spec.md §3: right = ceil((max+1)/2).
	LeafRightSplitCount = (LeafMaxCells + 1 + 1) / 2
	LeafLeftSplitCount  = (LeafMaxCells + 1) - LeafRightSplitCount
)

// Internal node header, after the common header:
// num_keys (4) | right_child_page_num (4).
const (
	internalNumKeysOffset    = CommonNodeHeaderSize
	internalRightChildOffset = internalNumKeysOffset + 4

	InternalNodeHeaderSize = internalRightChildOffset + 4 // 14

	internalChildSize = 4
	internalKeySize   = 4
	InternalCellSize  = internalChildSize + internalKeySize // 8

	// InternalMaxKeys is deliberately small (tunable per spec.md §3) so
	// that internal-node overflow — out of scope for this engine's
	// splitting logic — is easy to reach and observe in tests.
	InternalMaxKeys = 3
)
