package ingest

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

const testContainer = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const duneOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="uid">urn:uuid:0b7c1c1e-1111-4a4a-9f9f-123456789abc</dc:identifier>
    <dc:identifier>urn:isbn:9780441013593</dc:identifier>
    <dc:title>Dune</dc:title>
    <dc:creator>Frank Herbert</dc:creator>
    <dc:description>&lt;p&gt;A desert planet.&lt;/p&gt;</dc:description>
    <dc:language>en</dc:language>
    <dc:publisher>Ace</dc:publisher>
    <dc:subject>Science Fiction</dc:subject>
  </metadata>
  <manifest>
    <item id="cover" href="images/cover.jpg" media-type="image/jpeg" properties="cover-image"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`

const bareOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"/>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`

// undeclaredOPF lists images but designates none of them as the cover.
const undeclaredOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="uid">urn:uuid:5d1e2c3a-0000-4000-8000-000000000001</dc:identifier>
    <dc:title>Dune</dc:title>
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="map" href="images/map.jpg" media-type="image/jpeg"/>
    <item id="art" href="images/cover.jpg" media-type="image/jpeg"/>
  </manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`

const chapterWithMap = `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>Arrakis.</p><img src="images/map.jpg"/></body></html>`

const chapter = `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>Text.</p></body></html>`

// writeEPub writes a minimal ePub with opf and, when non-nil, cover bytes
// at OEBPS/images/cover.jpg.
func writeEPub(t *testing.T, opf string, cover []byte) string {
	t.Helper()
	files := map[string][]byte{"OEBPS/ch1.xhtml": []byte(chapter)}
	if cover != nil {
		files["OEBPS/images/cover.jpg"] = cover
	}
	return writeEPubFiles(t, opf, files)
}

// writeEPubFiles writes an ePub holding opf plus files, keyed by archive path.
func writeEPubFiles(t *testing.T, opf string, files map[string][]byte) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name string, data []byte, method uint16) {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	add("mimetype", []byte("application/epub+zip"), zip.Store)
	add("META-INF/container.xml", []byte(testContainer), zip.Deflate)
	add("OEBPS/content.opf", []byte(opf), zip.Deflate)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		add(name, files[name], zip.Deflate)
	}
	require.NoError(t, zw.Close())

	p := filepath.Join(t.TempDir(), "book.epub")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

func gradient(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradient(w, h), &jpeg.Options{Quality: 85}))
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(w, h)))
	return buf.Bytes()
}
