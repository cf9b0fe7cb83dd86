// Package table is the external surface (C6/C7) over the pager and
// B+ tree: it owns the root page number, serializes rows into cells,
// and exposes find/insert/scan/debug operations to callers.
package table

import (
	"io"

	"btreedb/internal/btree"
	"btreedb/internal/dberrors"
	"btreedb/internal/pager"
	"btreedb/internal/row"
)

// rootPageNum is always 0 (spec.md §4.6, §9 GLOSSARY: "Root ... always
// page 0 in this design"); splitting the root leaf never renumbers it.
const rootPageNum = 0

// Table is an open database file plus its pager.
type Table struct {
	pager *pager.Pager
}

// Open opens path via Pager.open, initializing page 0 as an empty leaf
// root the first time the file is created.
func Open(path string) (*Table, error) {
	pgr, err := pager.Open(path)
	if err != nil {
		return nil, err
	}

	if pgr.NumPages() == 0 {
		page, err := pgr.GetPage(rootPageNum)
		if err != nil {
			return nil, err
		}
		leaf := btree.AsLeaf(page)
		leaf.Initialize()
		btree.SetIsRoot(page, true)
	}

	return &Table{pager: pgr}, nil
}

// Close flushes every resident page and releases the file handle.
func (t *Table) Close() error {
	return t.pager.Close()
}

// Insert stores r under r.ID. It returns a dberrors.DuplicateKey error
// (without mutating any page) if the id already exists.
func (t *Table) Insert(r row.Row) error {
	if err := r.Validate(); err != nil {
		return dberrors.Wrap(dberrors.PrepareStringTooLong, err, "table: insert")
	}
	payload := make([]byte, row.Size)
	row.Serialize(r, payload)
	return btree.Insert(t.pager, rootPageNum, r.ID, payload)
}

// Find looks up id and reports whether a row exists for it.
func (t *Table) Find(id uint32) (row.Row, bool, error) {
	cursor, err := btree.TableFind(t.pager, rootPageNum, id)
	if err != nil {
		return row.Row{}, false, err
	}
	if cursor.EndOfTable {
		return row.Row{}, false, nil
	}

	page, err := t.pager.GetPage(cursor.PageNum)
	if err != nil {
		return row.Row{}, false, err
	}
	leaf := btree.AsLeaf(page)
	if cursor.CellNum >= leaf.NumCells() || leaf.Key(cursor.CellNum) != id {
		return row.Row{}, false, nil
	}

	value, err := cursor.Value()
	if err != nil {
		return row.Row{}, false, err
	}
	return row.Deserialize(value), true, nil
}

// Scan performs a full forward scan from the leftmost leaf, invoking
// fn for every row in ascending key order. It stops early if fn
// returns an error.
func (t *Table) Scan(fn func(row.Row) error) error {
	cursor, err := btree.TableStart(t.pager, rootPageNum)
	if err != nil {
		return err
	}

	for !cursor.EndOfTable {
		value, err := cursor.Value()
		if err != nil {
			return err
		}
		if err := fn(row.Deserialize(value)); err != nil {
			return err
		}
		if err := cursor.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// DebugPrintTree pretty-prints the whole tree to w.
func (t *Table) DebugPrintTree(w io.Writer) error {
	return btree.DebugPrintTree(w, t.pager, rootPageNum, 0)
}

// DebugPrintConstants prints the layout constants to w.
func (t *Table) DebugPrintConstants(w io.Writer) {
	btree.DebugPrintConstants(w)
}
