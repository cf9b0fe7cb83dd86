package table

import (
	"path/filepath"
	"testing"

	"btreedb/internal/dberrors"
	"btreedb/internal/row"
)

func TestOpenInitializesEmptyRootLeaf(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer tbl.Close()

	var rows []row.Row
	err = tbl.Scan(func(r row.Row) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty scan on a fresh table, got %v", rows)
	}
}

func TestInsertFindScanRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer tbl.Close()

	want := row.Row{ID: 1, Username: "alice", Email: "alice@example.com"}
	if err := tbl.Insert(want); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, found, err := tbl.Find(1)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if !found {
		t.Fatalf("expected to find row with id 1")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	_, found, err = tbl.Find(2)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found {
		t.Fatalf("expected id 2 to be absent")
	}
}

func TestInsertDuplicateKeyErrors(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer tbl.Close()

	r := row.Row{ID: 1, Username: "alice", Email: "a@x.com"}
	if err := tbl.Insert(r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	err = tbl.Insert(row.Row{ID: 1, Username: "bob", Email: "b@x.com"})
	if !dberrors.Is(err, dberrors.DuplicateKey) {
		t.Fatalf("expected DuplicateKey, got %v", err)
	}
}

// TestPersistAcrossCloseAndReopen drives the PERSIST invariant from
// spec.md §8: select after close+reopen returns the same sequence.
func TestPersistAcrossCloseAndReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	tbl, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for id := uint32(1); id <= 20; id++ {
		if err := tbl.Insert(row.Row{ID: id, Username: "u", Email: "e"}); err != nil {
			t.Fatalf("Insert(%d) failed: %v", id, err)
		}
	}
	if err := tbl.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tbl2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer tbl2.Close()

	var ids []uint32
	err = tbl2.Scan(func(r row.Row) error {
		ids = append(ids, r.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(ids) != 20 {
		t.Fatalf("expected 20 rows after reopen, got %d", len(ids))
	}
	for i, id := range ids {
		if id != uint32(i+1) {
			t.Fatalf("expected ascending ids, got %v", ids)
		}
	}
}
