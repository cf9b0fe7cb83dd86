package btree

import "btreedb/internal/pager"

// Common header accessors, shared by leaf and internal nodes.

func TypeOf(p pager.Page) NodeType {
	return NodeType(p.ReadU8(nodeTypeOffset))
}

func SetType(p pager.Page, t NodeType) {
	p.WriteU8(nodeTypeOffset, uint8(t))
}

func IsRoot(p pager.Page) bool {
	return p.ReadU8(isRootOffset) != 0
}

func SetIsRoot(p pager.Page, v bool) {
	var b uint8
	if v {
		b = 1
	}
	p.WriteU8(isRootOffset, b)
}

func ParentPage(p pager.Page) uint32 {
	return p.ReadU32(parentPageOffset)
}

func SetParentPage(p pager.Page, n uint32) {
	p.WriteU32(parentPageOffset, n)
}

// Leaf is a typed view over a page known to hold a leaf node. It copies
// no bytes; every accessor reads or writes directly through the
// underlying Page.
type Leaf struct {
	Page pager.Page
}

func AsLeaf(p pager.Page) Leaf { return Leaf{Page: p} }

func (l Leaf) NumCells() uint32 {
	return l.Page.ReadU32(leafNumCellsOffset)
}

func (l Leaf) SetNumCells(n uint32) {
	l.Page.WriteU32(leafNumCellsOffset, n)
}

func (l Leaf) NextLeaf() uint32 {
	return l.Page.ReadU32(leafNextLeafOffset)
}

func (l Leaf) SetNextLeaf(n uint32) {
	l.Page.WriteU32(leafNextLeafOffset, n)
}

func (l Leaf) cellOffset(i uint32) int {
	return LeafNodeHeaderSize + int(i)*LeafCellSize
}

func (l Leaf) Key(i uint32) uint32 {
	return l.Page.ReadU32(l.cellOffset(i))
}

func (l Leaf) SetKey(i uint32, key uint32) {
	l.Page.WriteU32(l.cellOffset(i), key)
}

// Value returns the raw row-payload bytes for cell i.
func (l Leaf) Value(i uint32) []byte {
	off := l.cellOffset(i) + leafKeySize
	return l.Page.Bytes(off, LeafCellSize-leafKeySize)
}

// Cell returns the raw key+payload bytes for cell i.
func (l Leaf) Cell(i uint32) []byte {
	return l.Page.Bytes(l.cellOffset(i), LeafCellSize)
}

// SetCell copies raw key+payload bytes into cell i.
func (l Leaf) SetCell(i uint32, cell []byte) {
	copy(l.Page.Bytes(l.cellOffset(i), LeafCellSize), cell)
}

// MaxKey returns the greatest key stored in this leaf. The leaf must
// have at least one cell.
func (l Leaf) MaxKey() uint32 {
	return l.Key(l.NumCells() - 1)
}

// Initialize resets a freshly allocated page as an empty, non-root leaf.
func (l Leaf) Initialize() {
	SetType(l.Page, NodeLeaf)
	SetIsRoot(l.Page, false)
	l.SetNumCells(0)
	l.SetNextLeaf(0)
}

// Internal is a typed view over a page known to hold an internal node.
type Internal struct {
	Page pager.Page
}

func AsInternal(p pager.Page) Internal { return Internal{Page: p} }

func (n Internal) NumKeys() uint32 {
	return n.Page.ReadU32(internalNumKeysOffset)
}

func (n Internal) SetNumKeys(k uint32) {
	n.Page.WriteU32(internalNumKeysOffset, k)
}

func (n Internal) RightChild() uint32 {
	return n.Page.ReadU32(internalRightChildOffset)
}

func (n Internal) SetRightChild(pageNum uint32) {
	n.Page.WriteU32(internalRightChildOffset, pageNum)
}

func (n Internal) cellOffset(i uint32) int {
	return InternalNodeHeaderSize + int(i)*InternalCellSize
}

// Child returns the child page for cell i. Passing i == NumKeys()
// returns RightChild(), matching spec.md §3's convention that the
// cell at index i covers keys <= key(i) and the right child covers
// everything greater than the last key.
func (n Internal) Child(i uint32) uint32 {
	if i == n.NumKeys() {
		return n.RightChild()
	}
	return n.Page.ReadU32(n.cellOffset(i))
}

func (n Internal) Key(i uint32) uint32 {
	return n.Page.ReadU32(n.cellOffset(i) + internalChildSize)
}

func (n Internal) SetCell(i uint32, child, key uint32) {
	off := n.cellOffset(i)
	n.Page.WriteU32(off, child)
	n.Page.WriteU32(off+internalChildSize, key)
}

// Initialize resets a freshly allocated page as an empty, non-root
// internal node.
func (n Internal) Initialize() {
	SetType(n.Page, NodeInternal)
	SetIsRoot(n.Page, false)
	n.SetNumKeys(0)
}
