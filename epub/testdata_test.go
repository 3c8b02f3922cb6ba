package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// containerXML is a well-formed META-INF/container.xml pointing at OEBPS/content.opf.
const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// packageOPF returns an OPF document with the given metadata, manifest,
// spine and guide fragments.
func packageOPF(meta, manifest, spine, guide string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">` + meta + `</metadata>
  <manifest>` + manifest + `</manifest>
  <spine>` + spine + `</spine>
  <guide>` + guide + `</guide>
</package>`
}

// bookFiles returns a minimal file set around opf, merged with extra.
func bookFiles(opf string, extra map[string]string) map[string]string {
	files := map[string]string{
		"mimetype":               epubMimetype,
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      opf,
	}
	for k, v := range extra {
		files[k] = v
	}
	return files
}

// zipBytes builds a ZIP archive. "mimetype" is always written first; the
// remaining entries follow in sorted order so tests are deterministic.
func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		if name != "mimetype" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := files["mimetype"]; ok {
		names = append([]string{"mimetype"}, names...)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zipBytes: create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, files[name]); err != nil {
			t.Fatalf("zipBytes: write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zipBytes: close writer: %v", err)
	}
	return buf.Bytes()
}

// testArchive returns an indexed archive over files.
func testArchive(t *testing.T, files map[string]string) *archive {
	t.Helper()
	data := zipBytes(t, files)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("testArchive: open reader: %v", err)
	}
	return newArchive(zr)
}

// writeBook writes files as an .epub in a temp dir and returns its path.
func writeBook(t *testing.T, files map[string]string) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "test.epub")
	if err := os.WriteFile(fp, zipBytes(t, files), 0o644); err != nil {
		t.Fatalf("writeBook: %v", err)
	}
	return fp
}

// openBook writes and opens files, closing the book when the test ends.
func openBook(t *testing.T, files map[string]string) *Book {
	t.Helper()
	book, err := Open(writeBook(t, files))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { book.Close() })
	return book
}
