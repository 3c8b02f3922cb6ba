package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// epubMimetype is the required content of the leading "mimetype" entry.
const epubMimetype = "application/epub+zip"

// Book is an opened ePub container. Use Open or NewReader to create one.
//
// A Book is not safe for concurrent use by multiple goroutines.
type Book struct {
	arc      *archive
	closer   io.Closer
	pkgPath  string
	pkg      *packageDoc
	byID     map[string]manifestEl
	byPath   map[string]manifestEl // keyed by lowercased archive path
	metadata Metadata
	warnings []string
}

// Open opens the ePub file at path. The caller must Close the Book.
func Open(path string) (*Book, error) {
	zrc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("epub: open %s: %w", path, err)
	}
	b, err := load(&zrc.Reader, zrc)
	if err != nil {
		zrc.Close()
		return nil, err
	}
	return b, nil
}

// NewReader reads an ePub from r. The caller keeps ownership of r.
func NewReader(r io.ReaderAt, size int64) (*Book, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("epub: open zip: %w", err)
	}
	return load(zr, nil)
}

func load(zr *zip.Reader, closer io.Closer) (*Book, error) {
	b := &Book{arc: newArchive(zr), closer: closer}
	b.checkMimetype()

	pkgPath, err := locatePackage(b.arc)
	if err != nil {
		return nil, err
	}
	b.pkgPath = pkgPath

	prot, err := inspectProtection(b.arc)
	if err != nil {
		return nil, err
	}
	if len(prot.obfuscatedFonts) > 0 {
		b.warnf("%d obfuscated font(s); fonts will not render", len(prot.obfuscatedFonts))
	}

	if b.arc.lookup(pkgPath) == nil {
		return nil, fmt.Errorf("epub: OPF file not found in archive: %s: %w", pkgPath, ErrInvalidEPub)
	}
	data, err := b.arc.read(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("epub: read OPF file: %w", err)
	}
	if b.pkg, err = parsePackage(data); err != nil {
		return nil, err
	}

	b.byID = make(map[string]manifestEl, len(b.pkg.Manifest))
	b.byPath = make(map[string]manifestEl, len(b.pkg.Manifest))
	for _, item := range b.pkg.Manifest {
		if _, dup := b.byID[item.ID]; !dup {
			b.byID[item.ID] = item
		}
		if p := b.itemPath(item); p != "" {
			b.byPath[strings.ToLower(p)] = item
		}
	}
	b.metadata = readMetadata(b.pkg)
	return b, nil
}

// checkMimetype records a warning when the leading entry is not the
// expected "mimetype" file. Many readers accept such files, so do we.
func (b *Book) checkMimetype() {
	files := b.arc.zr.File
	if len(files) == 0 || files[0].Name != "mimetype" {
		b.warnf("first ZIP entry is not \"mimetype\"")
		return
	}
	data, err := readEntry(files[0], b.arc.limit)
	if err != nil {
		b.warnf("cannot read mimetype entry: %v", err)
		return
	}
	if got := strings.TrimSpace(string(data)); got != epubMimetype {
		b.warnf("unexpected mimetype: %q", got)
	}
}

// Close releases the underlying file when the Book came from Open.
// Close is idempotent.
func (b *Book) Close() error {
	if b.closer == nil {
		return nil
	}
	err := b.closer.Close()
	b.closer = nil
	return err
}

// Metadata returns a copy of the package metadata.
func (b *Book) Metadata() Metadata {
	return b.metadata.clone()
}

// PackagePath returns the archive path of the OPF package document.
func (b *Book) PackagePath() string {
	return b.pkgPath
}

// Warnings returns non-fatal problems noticed while reading.
func (b *Book) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

// ReadFile returns the contents of an archive entry, matching the name
// case-insensitively when no exact entry exists.
func (b *Book) ReadFile(name string) ([]byte, error) {
	return b.arc.read(name)
}

// itemPath resolves a manifest href, which is relative to the OPF.
func (b *Book) itemPath(item manifestEl) string {
	return resolveHref(b.pkgPath, item.Href)
}

func (b *Book) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}
