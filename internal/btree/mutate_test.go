package btree

import (
	"bytes"
	"path/filepath"
	"testing"

	"btreedb/internal/dberrors"
	"btreedb/internal/pager"
	"btreedb/internal/row"
)

func newTestTree(t *testing.T) *pager.Pager {
	t.Helper()
	dir := t.TempDir()
	p, err := pager.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("pager.Open failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })

	page, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	leaf := AsLeaf(page)
	leaf.Initialize()
	SetIsRoot(page, true)

	return p
}

func payloadFor(id uint32) []byte {
	buf := make([]byte, row.Size)
	row.Serialize(row.Row{ID: id, Username: "u", Email: "e"}, buf)
	return buf
}

func collectKeys(t *testing.T, p *pager.Pager) []uint32 {
	t.Helper()
	cursor, err := TableStart(p, 0)
	if err != nil {
		t.Fatalf("TableStart failed: %v", err)
	}

	var keys []uint32
	for !cursor.EndOfTable {
		page, err := p.GetPage(cursor.PageNum)
		if err != nil {
			t.Fatalf("GetPage failed: %v", err)
		}
		keys = append(keys, AsLeaf(page).Key(cursor.CellNum))
		if err := cursor.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}
	return keys
}

func TestInsertAndFindSingleRow(t *testing.T) {
	p := newTestTree(t)

	if err := Insert(p, 0, 1, payloadFor(1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	cursor, err := TableFind(p, 0, 1)
	if err != nil {
		t.Fatalf("TableFind failed: %v", err)
	}
	value, err := cursor.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if !bytes.Equal(value, payloadFor(1)) {
		t.Fatalf("unexpected payload")
	}
}

func TestInsertDuplicateKeyFails(t *testing.T) {
	p := newTestTree(t)

	if err := Insert(p, 0, 1, payloadFor(1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	err := Insert(p, 0, 1, payloadFor(1))
	if !dberrors.Is(err, dberrors.DuplicateKey) {
		t.Fatalf("expected DuplicateKey, got %v", err)
	}

	keys := collectKeys(t, p)
	if len(keys) != 1 {
		t.Fatalf("expected duplicate insert to leave exactly one row, got %v", keys)
	}
}

func TestInsertOutOfOrderStaysSorted(t *testing.T) {
	p := newTestTree(t)

	order := []uint32{5, 1, 4, 2, 3}
	for _, id := range order {
		if err := Insert(p, 0, id, payloadFor(id)); err != nil {
			t.Fatalf("Insert(%d) failed: %v", id, err)
		}
	}

	keys := collectKeys(t, p)
	want := []uint32{1, 2, 3, 4, 5}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}

// TestLeafSplitCreatesInternalRoot drives scenario 5 from spec.md §8:
// inserting LEAF_NODE_MAX_CELLS+1 keys in ascending order splits the
// root leaf into an internal root with one left and one right child.
func TestLeafSplitCreatesInternalRoot(t *testing.T) {
	p := newTestTree(t)

	for id := uint32(1); id <= LeafMaxCells+1; id++ {
		if err := Insert(p, 0, id, payloadFor(id)); err != nil {
			t.Fatalf("Insert(%d) failed: %v", id, err)
		}
	}

	rootPage, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if TypeOf(rootPage) != NodeInternal {
		t.Fatalf("expected root to become internal after split")
	}
	if !IsRoot(rootPage) {
		t.Fatalf("expected page 0 to remain root")
	}

	root := AsInternal(rootPage)
	if root.NumKeys() != 1 {
		t.Fatalf("expected exactly one separator key, got %d", root.NumKeys())
	}
	if root.Key(0) != LeafLeftSplitCount {
		t.Fatalf("expected separator key %d, got %d", LeafLeftSplitCount, root.Key(0))
	}

	leftPage, err := p.GetPage(root.Child(0))
	if err != nil {
		t.Fatalf("GetPage(left) failed: %v", err)
	}
	left := AsLeaf(leftPage)
	if left.NumCells() != LeafLeftSplitCount {
		t.Fatalf("expected left leaf to hold %d cells, got %d", LeafLeftSplitCount, left.NumCells())
	}

	rightPage, err := p.GetPage(root.RightChild())
	if err != nil {
		t.Fatalf("GetPage(right) failed: %v", err)
	}
	right := AsLeaf(rightPage)
	if right.NumCells() != LeafRightSplitCount {
		t.Fatalf("expected right leaf to hold %d cells, got %d", LeafRightSplitCount, right.NumCells())
	}

	keys := collectKeys(t, p)
	if len(keys) != LeafMaxCells+1 {
		t.Fatalf("expected %d keys after split, got %d", LeafMaxCells+1, len(keys))
	}
	for i, k := range keys {
		if k != uint32(i+1) {
			t.Fatalf("expected ascending keys 1..%d, got %v", LeafMaxCells+1, keys)
		}
	}
}

// TestRepeatedSplitsFillInternalRootThenOverflows drives enough splits
// to exhaust the internal root's capacity, exercising insertSeparator's
// shift-cells path and the documented InternalNodeOverflow resolution.
func TestRepeatedSplitsFillInternalRootThenOverflows(t *testing.T) {
	p := newTestTree(t)

	// Each additional split beyond the first appends one separator to
	// the root; InternalMaxKeys splits are accommodated before the next
	// one overflows it.
	total := (LeafMaxCells + 1) * (InternalMaxKeys + 1)
	var lastErr error
	for id := uint32(1); id <= uint32(total); id++ {
		lastErr = Insert(p, 0, id, payloadFor(id))
		if lastErr != nil {
			break
		}
	}

	if lastErr == nil {
		t.Fatalf("expected eventual InternalNodeOverflow once the root's cell capacity is exhausted")
	}
	if !dberrors.Is(lastErr, dberrors.InternalNodeOverflow) {
		t.Fatalf("expected InternalNodeOverflow, got %v", lastErr)
	}

	rootPage, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	root := AsInternal(rootPage)
	if root.NumKeys() != InternalMaxKeys {
		t.Fatalf("expected root to be saturated at %d keys, got %d", InternalMaxKeys, root.NumKeys())
	}
}
