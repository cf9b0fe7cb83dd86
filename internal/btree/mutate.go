package btree

import (
	"encoding/binary"
	"fmt"

	"btreedb/internal/dberrors"
	"btreedb/internal/pager"
)

// Insert adds a key/row pair at the tree position key belongs to. It
// returns a dberrors.DuplicateKey error if key already exists, without
// mutating any page (IDEMPOTENT-INSERT-FAILURE in spec.md §8).
func Insert(pgr *pager.Pager, rootPageNum uint32, key uint32, payload []byte) error {
	cursor, err := TableFind(pgr, rootPageNum, key)
	if err != nil {
		return err
	}

	page, err := pgr.GetPage(cursor.PageNum)
	if err != nil {
		return err
	}
	leaf := AsLeaf(page)

	if cursor.CellNum < leaf.NumCells() && leaf.Key(cursor.CellNum) == key {
		return dberrors.New(dberrors.DuplicateKey, "btree: duplicate key")
	}

	if leaf.NumCells() < LeafMaxCells {
		insertIntoLeaf(leaf, cursor.CellNum, key, payload)
		return nil
	}

	return leafSplitAndInsert(pgr, cursor.PageNum, cursor.CellNum, key, payload)
}

func insertIntoLeaf(leaf Leaf, cellNum uint32, key uint32, payload []byte) {
	n := leaf.NumCells()
	for i := n; i > cellNum; i-- {
		leaf.SetCell(i, leaf.Cell(i-1))
	}
	leaf.SetCell(cellNum, composeCell(key, payload))
	leaf.SetNumCells(n + 1)
}

func composeCell(key uint32, payload []byte) []byte {
	cell := make([]byte, LeafCellSize)
	binary.NativeEndian.PutUint32(cell[:leafKeySize], key)
	copy(cell[leafKeySize:], payload)
	return cell
}

// leafSplitAndInsert redistributes a full leaf's cells plus the new
// cell across the old leaf and a freshly allocated sibling, per
// spec.md §4.5.2, then fixes up the parent (or creates a new root).
func leafSplitAndInsert(pgr *pager.Pager, oldPageNum, cursorCellNum, key uint32, payload []byte) error {
	oldPage, err := pgr.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	old := AsLeaf(oldPage)
	oldMaxKeyBeforeSplit := old.MaxKey()
	wasRoot := IsRoot(oldPage)
	parentPageNum := ParentPage(oldPage)

	newPageNum := pgr.AllocatePage()
	newPage, err := pgr.GetPage(newPageNum)
	if err != nil {
		return err
	}
	newLeaf := AsLeaf(newPage)
	newLeaf.Initialize()
	SetParentPage(newPage, parentPageNum)
	newLeaf.SetNextLeaf(old.NextLeaf())
	old.SetNextLeaf(newPageNum)

	newCell := composeCell(key, payload)

	// Iterate descending so every source cell is read from old's
	// original layout before it can be overwritten by a destination
	// write — see spec.md §4.5.2 step 3.
	for i := int(LeafMaxCells); i >= 0; i-- {
		dest := old
		if uint32(i) >= LeafLeftSplitCount {
			dest = newLeaf
		}
		indexWithinNode := uint32(i) % LeafLeftSplitCount

		switch {
		case uint32(i) == cursorCellNum:
			dest.SetCell(indexWithinNode, newCell)
		case uint32(i) > cursorCellNum:
			dest.SetCell(indexWithinNode, old.Cell(uint32(i)-1))
		default:
			dest.SetCell(indexWithinNode, old.Cell(uint32(i)))
		}
	}

	old.SetNumCells(LeafLeftSplitCount)
	newLeaf.SetNumCells(LeafRightSplitCount)

	if wasRoot {
		return createNewRoot(pgr, oldPageNum, newPageNum)
	}

	return finishNonRootLeafSplit(pgr, parentPageNum, oldPageNum, newPageNum, oldMaxKeyBeforeSplit)
}

// createNewRoot splits the root without renumbering it: page 0 always
// stays the root, so the root's old content is copied into a fresh
// left page and the root page itself is reinitialized as an internal
// node, per spec.md §4.5.3.
func createNewRoot(pgr *pager.Pager, rootPageNum, rightPageNum uint32) error {
	rootPage, err := pgr.GetPage(rootPageNum)
	if err != nil {
		return err
	}

	leftPageNum := pgr.AllocatePage()
	leftPage, err := pgr.GetPage(leftPageNum)
	if err != nil {
		return err
	}
	copy(leftPage, rootPage)
	SetIsRoot(leftPage, false)

	leftMaxKey := AsLeaf(leftPage).MaxKey()

	AsInternal(rootPage).Initialize()
	SetIsRoot(rootPage, true)
	root := AsInternal(rootPage)
	root.SetNumKeys(1)
	root.SetCell(0, leftPageNum, leftMaxKey)
	root.SetRightChild(rightPageNum)

	SetParentPage(leftPage, rootPageNum)

	rightPage, err := pgr.GetPage(rightPageNum)
	if err != nil {
		return err
	}
	SetParentPage(rightPage, rootPageNum)

	return nil
}

// finishNonRootLeafSplit updates the separator key for the leaf that
// just shrank and inserts a new separator cell for its new sibling,
// per spec.md §4.5.2 step 5 and §4.5.4. This is the behavior spec.md §9
// requires in place of the original source's defect (which updated a
// key but never grew the parent's cell count).
func finishNonRootLeafSplit(pgr *pager.Pager, parentPageNum, oldPageNum, newPageNum, oldMaxKeyBeforeSplit uint32) error {
	oldPage, err := pgr.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldNewMax := AsLeaf(oldPage).MaxKey()

	parentPage, err := pgr.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	updateInternalKey(AsInternal(parentPage), oldMaxKeyBeforeSplit, oldNewMax)

	newPage, err := pgr.GetPage(newPageNum)
	if err != nil {
		return err
	}
	newMaxKey := AsLeaf(newPage).MaxKey()

	return insertSeparator(pgr, parentPageNum, oldPageNum, newPageNum, oldNewMax, newMaxKey)
}

// updateInternalKey implements spec.md §4.5.4: locate the smallest
// cell index i with key(i) >= oldKey and overwrite it with newKey. If
// the child being updated was referenced via right_child rather than a
// cell (no key >= oldKey exists), there is nothing to overwrite — the
// caller's subsequent insertSeparator call handles that case.
func updateInternalKey(parent Internal, oldKey, newKey uint32) {
	numKeys := parent.NumKeys()
	lo, hi := uint32(0), numKeys
	for lo < hi {
		mid := (lo + hi) / 2
		if parent.Key(mid) >= oldKey {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo < numKeys {
		parent.SetCell(lo, parent.Child(lo), newKey)
	}
}

// insertSeparator inserts a new (newChildPageNum, newKey) cell into
// parent immediately after the cell referencing oldChildPageNum,
// shifting later cells right. If oldChildPageNum was the parent's
// right_child, oldChildPageNum instead becomes a new trailing cell
// keyed on oldNewMax and newChildPageNum is promoted to right_child.
//
// Internal-node splits are out of scope for this engine (spec.md §1,
// §9); reaching InternalMaxKeys here is a fatal capacity error rather
// than a recursive split, the resolution recorded in DESIGN.md for the
// open question spec.md §9 leaves unresolved.
func insertSeparator(pgr *pager.Pager, parentPageNum, oldChildPageNum, newChildPageNum, oldNewMax, newKey uint32) error {
	parentPage, err := pgr.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parent := AsInternal(parentPage)
	numKeys := parent.NumKeys()

	if numKeys >= InternalMaxKeys {
		return dberrors.New(dberrors.InternalNodeOverflow,
			fmt.Sprintf("btree: internal node %d is full (internal-node splits are out of scope)", parentPageNum))
	}

	pos := numKeys
	for i := uint32(0); i < numKeys; i++ {
		if parent.Child(i) == oldChildPageNum {
			pos = i
			break
		}
	}

	if pos < numKeys {
		for i := numKeys; i > pos+1; i-- {
			parent.SetCell(i, parent.Child(i-1), parent.Key(i-1))
		}
		parent.SetCell(pos+1, newChildPageNum, newKey)
	} else {
		parent.SetCell(numKeys, oldChildPageNum, oldNewMax)
		parent.SetRightChild(newChildPageNum)
	}
	parent.SetNumKeys(numKeys + 1)

	return nil
}
