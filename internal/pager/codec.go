package pager

import "encoding/binary"

// PageSize is the fixed size of every page in the database file.
//
// The original source hard-coded 4094; the conventional (and intended)
// value is 4096, adopted here per spec.md §9.
const PageSize = 4096

// Page is one resident 4096-byte buffer. It carries no semantics of its
// own — whether it is a leaf or an internal node is decided by the
// node_type byte at offset 0, interpreted by package btree.
//
// Multi-byte integers use the host's native byte order, matching the
// original's raw memcpy-at-offset access pattern. This makes the file
// format non-portable across machines of different endianness; see
// spec.md §9 for the tradeoff.
type Page []byte

func newPage() Page {
	return make(Page, PageSize)
}

// ReadU8 and WriteU8 read/write a single byte at off.
func (p Page) ReadU8(off int) uint8 {
	return p[off]
}

func (p Page) WriteU8(off int, v uint8) {
	p[off] = v
}

// ReadU32 and WriteU32 read/write a 32-bit host-endian integer at off.
func (p Page) ReadU32(off int) uint32 {
	return binary.NativeEndian.Uint32(p[off : off+4])
}

func (p Page) WriteU32(off int, v uint32) {
	binary.NativeEndian.PutUint32(p[off:off+4], v)
}

// Bytes returns the raw byte range [off, off+n) for direct copying of
// fixed-width fields (e.g. a row payload).
func (p Page) Bytes(off, n int) []byte {
	return p[off : off+n]
}
