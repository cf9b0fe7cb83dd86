// Package pager owns the database file handle and a bounded directory
// of resident page buffers. It demand-loads pages from disk, allocates
// new page numbers, and flushes resident pages back on close. It knows
// nothing about B+ tree semantics — that is package btree's job.
package pager

import (
	"io"
	"os"

	"btreedb/internal/dberrors"
)

// MaxPages bounds the pager's resident-page directory. No eviction is
// performed in this engine; reaching the cap is a fatal capacity error.
const MaxPages = 100

// Pager owns one open database file and up to MaxPages resident pages.
type Pager struct {
	file     *os.File
	fileLen  int64
	numPages uint32
	pages    [MaxPages]Page
	locked   bool
}

// Open opens path read/write, creating it with user-only permissions if
// it does not exist, and measures its length. The file length must be a
// multiple of PageSize.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, dberrors.Wrapf(dberrors.IOOpen, err, "pager: open %s", path)
	}

	if err := flockExclusive(f); err != nil {
		f.Close()
		return nil, dberrors.Wrapf(dberrors.IOOpen, err, "pager: lock %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, dberrors.Wrapf(dberrors.IOOpen, err, "pager: stat %s", path)
	}

	length := info.Size()
	if length%PageSize != 0 {
		f.Close()
		return nil, dberrors.Wrapf(dberrors.CorruptPageAlignment, nil,
			"pager: file length %d is not a multiple of page size %d", length, PageSize)
	}

	return &Pager{
		file:     f,
		fileLen:  length,
		numPages: uint32(length / PageSize),
		locked:   true,
	}, nil
}

// NumPages returns the number of pages the pager currently knows about,
// on disk or freshly allocated in memory.
func (p *Pager) NumPages() uint32 {
	return p.numPages
}

// GetPage returns the resident buffer for page n, demand-loading it
// from disk on first access. If n is beyond the pages known on disk, a
// zeroed buffer is materialized and numPages is raised to n+1.
//
// The returned Page aliases the pager's own slot; it stays valid until
// the next GetPage call that might occupy the same slot index, per the
// aliasing discipline in spec.md §5.
func (p *Pager) GetPage(n uint32) (Page, error) {
	if n >= MaxPages {
		return nil, dberrors.Wrapf(dberrors.PageIndexOutOfRange, nil,
			"pager: page %d exceeds capacity %d", n, MaxPages)
	}

	if p.pages[n] == nil {
		page := newPage()

		onDisk := uint32(p.fileLen / PageSize)
		if p.fileLen%PageSize != 0 {
			onDisk++
		}

		if n < onDisk {
			off := int64(n) * PageSize
			if _, err := p.file.ReadAt(page, off); err != nil && err != io.EOF {
				return nil, dberrors.Wrapf(dberrors.IORead, err, "pager: read page %d", n)
			}
		}

		p.pages[n] = page

		if n+1 > p.numPages {
			p.numPages = n + 1
		}
	}

	return p.pages[n], nil
}

// AllocatePage reserves the next page number without materializing a
// buffer. The caller's first GetPage(n) for that number creates it.
func (p *Pager) AllocatePage() uint32 {
	return p.numPages
}

// Flush writes the resident page n to its offset in the file. Flushing
// a vacant slot is a programmer error.
func (p *Pager) Flush(n uint32) error {
	page := p.pages[n]
	if page == nil {
		panic("pager: flush of vacant page slot")
	}

	off := int64(n) * PageSize
	written, err := p.file.WriteAt(page, off)
	if err != nil {
		return dberrors.Wrapf(dberrors.IOWrite, err, "pager: flush page %d", n)
	}
	if written != PageSize {
		return dberrors.Wrapf(dberrors.IOWrite, nil, "pager: short write flushing page %d (%d bytes)", n, written)
	}

	end := off + PageSize
	if end > p.fileLen {
		p.fileLen = end
	}

	return nil
}

// Close flushes every resident page whose index is below numPages,
// releases the file's advisory lock, and closes the file handle.
func (p *Pager) Close() error {
	for n := uint32(0); n < p.numPages; n++ {
		if p.pages[n] == nil {
			continue
		}
		if err := p.Flush(n); err != nil {
			return err
		}
	}

	if p.locked {
		_ = flockRelease(p.file)
		p.locked = false
	}

	if err := p.file.Close(); err != nil {
		return dberrors.Wrap(dberrors.IOWrite, err, "pager: close file")
	}
	return nil
}
