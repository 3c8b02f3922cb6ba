package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

// maxEntrySize caps the decompressed size of a single archive entry (zip bomb guard).
const maxEntrySize int64 = 256 * 1024 * 1024

// archive indexes the entries of a zip container for exact and
// case-insensitive lookup. The first entry wins on duplicate names.
type archive struct {
	zr    *zip.Reader
	exact map[string]*zip.File
	fold  map[string]*zip.File
	limit int64
}

func newArchive(zr *zip.Reader) *archive {
	a := &archive{
		zr:    zr,
		exact: make(map[string]*zip.File, len(zr.File)),
		fold:  make(map[string]*zip.File, len(zr.File)),
		limit: maxEntrySize,
	}
	for _, f := range zr.File {
		if _, ok := a.exact[f.Name]; !ok {
			a.exact[f.Name] = f
		}
		lower := strings.ToLower(f.Name)
		if _, ok := a.fold[lower]; !ok {
			a.fold[lower] = f
		}
	}
	return a
}

// lookup finds an entry by name, falling back to a case-insensitive match.
func (a *archive) lookup(name string) *zip.File {
	if f, ok := a.exact[name]; ok {
		return f
	}
	return a.fold[strings.ToLower(name)]
}

// read returns the contents of the named entry.
func (a *archive) read(name string) ([]byte, error) {
	f := a.lookup(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return readEntry(f, a.limit)
}

// firstWithSuffix returns the name of the first entry ending in suffix,
// compared case-insensitively.
func (a *archive) firstWithSuffix(suffix string) (string, bool) {
	suffix = strings.ToLower(suffix)
	for _, f := range a.zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), suffix) {
			return f.Name, true
		}
	}
	return "", false
}

// readEntry reads a zip entry, refusing unsafe names and anything whose
// declared or actual decompressed size exceeds limit.
func readEntry(f *zip.File, limit int64) ([]byte, error) {
	if !insideRoot(f.Name) {
		return nil, fmt.Errorf("epub: unsafe zip entry path: %s", f.Name)
	}
	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("epub: zip entry %s too large: %d bytes (max %d)", f.Name, f.UncompressedSize64, limit)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epub: open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	// The declared size can be forged; read one byte past the limit to notice.
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("epub: read zip entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("epub: zip entry %s decompressed size exceeds limit (%d bytes)", f.Name, limit)
	}
	return data, nil
}

// resolveHref resolves href against the directory of base. Both are
// archive-internal, slash separated paths. Fragments are dropped and
// percent-escapes decoded. It returns "" when href is absolute or the
// result would leave the archive root.
func resolveHref(base, href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if href == "" || strings.HasPrefix(href, "/") {
		return ""
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	resolved := path.Join(path.Dir(base), href)
	if !insideRoot(resolved) {
		return ""
	}
	return resolved
}

// insideRoot reports whether p stays within the archive root once cleaned.
func insideRoot(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") {
		return false
	}
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

// stripBOM drops a leading UTF-8 byte order mark.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
