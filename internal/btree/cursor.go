package btree

import (
	"btreedb/internal/pager"
)

// Cursor names a position (page, cell) within the tree. After a
// successful TableFind or TableStart, PageNum always denotes a leaf.
// Cursors are ephemeral — allocate one per operation, never store it
// across calls that might split the tree underneath it.
type Cursor struct {
	Pager      *pager.Pager
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// MaxKeyOf returns the greatest key reachable from pageNum, recursing
// through right children for internal nodes per spec.md §4.3.
func MaxKeyOf(pgr *pager.Pager, pageNum uint32) (uint32, error) {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return 0, err
	}
	switch TypeOf(page) {
	case NodeLeaf:
		return AsLeaf(page).MaxKey(), nil
	default:
		return MaxKeyOf(pgr, AsInternal(page).RightChild())
	}
}

// leafFindCell returns the smallest cell index i in [0, numCells] with
// leaf.Key(i) >= key, via binary search.
func leafFindCell(l Leaf, key uint32) uint32 {
	lo, hi := uint32(0), l.NumCells()
	for lo < hi {
		mid := (lo + hi) / 2
		if l.Key(mid) >= key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// internalFindChild returns the smallest key index i in [0, numKeys]
// with internal.Key(i) >= key (i == numKeys means "descend right"),
// via binary search. Tying key(i) == key descends into child(i), which
// is defined to cover keys <= key(i).
func internalFindChild(n Internal, key uint32) uint32 {
	lo, hi := uint32(0), n.NumKeys()
	for lo < hi {
		mid := (lo + hi) / 2
		if n.Key(mid) >= key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// TableFind descends from rootPageNum to the leaf position where key
// belongs: either an existing cell holding key, or the append point
// where it would be inserted in order.
func TableFind(pgr *pager.Pager, rootPageNum uint32, key uint32) (*Cursor, error) {
	pageNum := rootPageNum
	for {
		page, err := pgr.GetPage(pageNum)
		if err != nil {
			return nil, err
		}

		switch TypeOf(page) {
		case NodeLeaf:
			leaf := AsLeaf(page)
			cellNum := leafFindCell(leaf, key)
			return &Cursor{
				Pager:      pgr,
				PageNum:    pageNum,
				CellNum:    cellNum,
				EndOfTable: cellNum == leaf.NumCells() && leaf.NextLeaf() == 0,
			}, nil

		default:
			internal := AsInternal(page)
			childIdx := internalFindChild(internal, key)
			pageNum = internal.Child(childIdx)
		}
	}
}

// TableStart returns a cursor at the first cell of the leftmost leaf.
func TableStart(pgr *pager.Pager, rootPageNum uint32) (*Cursor, error) {
	pageNum := rootPageNum
	for {
		page, err := pgr.GetPage(pageNum)
		if err != nil {
			return nil, err
		}
		if TypeOf(page) == NodeLeaf {
			leaf := AsLeaf(page)
			return &Cursor{
				Pager:      pgr,
				PageNum:    pageNum,
				CellNum:    0,
				EndOfTable: leaf.NumCells() == 0,
			}, nil
		}
		pageNum = AsInternal(page).Child(0)
	}
}

// Value returns the raw row-payload bytes at the cursor's current
// position.
func (c *Cursor) Value() ([]byte, error) {
	page, err := c.Pager.GetPage(c.PageNum)
	if err != nil {
		return nil, err
	}
	return AsLeaf(page).Value(c.CellNum), nil
}

// Advance moves the cursor to the next cell, following the leaf chain
// when the current leaf is exhausted.
func (c *Cursor) Advance() error {
	page, err := c.Pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	leaf := AsLeaf(page)

	c.CellNum++
	if c.CellNum >= leaf.NumCells() {
		next := leaf.NextLeaf()
		if next == 0 {
			c.EndOfTable = true
			return nil
		}
		c.PageNum = next
		c.CellNum = 0
	}
	return nil
}
