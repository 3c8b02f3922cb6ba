package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/shelf/internal/catalog"
	"github.com/simp-lee/shelf/internal/config"
	"github.com/simp-lee/shelf/internal/ingest"
)

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="uid">urn:isbn:9780441013593</dc:identifier>
    <dc:title>Dune</dc:title>
    <dc:creator>Frank Herbert</dc:creator>
  </metadata>
  <manifest>
    <item id="cover" href="cover.jpg" media-type="image/jpeg" properties="cover-image"/>
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

type cliEnv struct {
	dataDir string
	dir     string
}

func setupCLI(t *testing.T) cliEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("XDG_DATA_HOME", "")
	dataDir := filepath.Join(base, "data")
	t.Setenv(config.DataDirEnv, dataDir)
	return cliEnv{dataDir: dataDir, dir: base}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func coverJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func writeBook(t *testing.T, dir, name, opf string, cover []byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct {
		name string
		data []byte
	}{
		{"mimetype", []byte("application/epub+zip")},
		{"META-INF/container.xml", []byte(`<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`)},
		{"content.opf", []byte(opf)},
		{"ch1.xhtml", []byte(`<html xmlns="http://www.w3.org/1999/xhtml"><body><p>One.</p></body></html>`)},
	}
	if cover != nil {
		files = append(files, struct {
			name string
			data []byte
		}{"cover.jpg", cover})
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

func listRecords(t *testing.T) []ingest.CatalogRecord {
	t.Helper()
	out, _, err := runCLI(t, "list", "--json")
	require.NoError(t, err)
	var records []ingest.CatalogRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	return records
}

func TestImportListShow(t *testing.T) {
	env := setupCLI(t)
	dune := writeBook(t, env.dir, "dune.epub", testOPF, coverJPEG(t, 120, 180))
	bare := writeBook(t, env.dir, "bare.epub", bareOPF, nil)
	missing := filepath.Join(env.dir, "missing.epub")

	out, _, err := runCLI(t, "import", dune, bare, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 imports failed")
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, ingest.UnknownTitle)
	assert.Contains(t, out, "missing.epub")

	records := listRecords(t)
	require.Len(t, records, 2)

	var duneRec ingest.CatalogRecord
	for _, rec := range records {
		if rec.Title == "Dune" {
			duneRec = rec
		}
	}
	require.NotEmpty(t, duneRec.ID)
	require.NotNil(t, duneRec.CoverPath)
	assert.Equal(t, filepath.Join(env.dataDir, "covers", duneRec.ID+".webp"), *duneRec.CoverPath)
	assert.FileExists(t, *duneRec.CoverPath)

	out, _, err = runCLI(t, "show", duneRec.ID)
	require.NoError(t, err)
	var shown ingest.CatalogRecord
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "Dune", shown.Title)
	require.NotNil(t, shown.Author)
	assert.Equal(t, "Frank Herbert", *shown.Author)

	out, _, err = runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, duneRec.ID)
}

func TestImport_JSON(t *testing.T) {
	env := setupCLI(t)
	dune := writeBook(t, env.dir, "dune.epub", testOPF, nil)

	out, _, err := runCLI(t, "import", "--json", dune)
	require.NoError(t, err)

	var records []ingest.CatalogRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Nil(t, records[0].CoverPath)
	assert.Equal(t, dune, records[0].SourcePath)
}

func TestCover(t *testing.T) {
	env := setupCLI(t)
	bare := writeBook(t, env.dir, "bare.epub", bareOPF, nil)
	_, _, err := runCLI(t, "import", bare)
	require.NoError(t, err)

	records := listRecords(t)
	require.Len(t, records, 1)
	id := records[0].ID
	assert.Nil(t, records[0].CoverPath)

	imagePath := filepath.Join(env.dir, "scan.jpg")
	require.NoError(t, os.WriteFile(imagePath, coverJPEG(t, 200, 100), 0o644))

	out, _, err := runCLI(t, "cover", id, imagePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Cover for "+id)

	records = listRecords(t)
	require.NotNil(t, records[0].CoverPath)
	assert.FileExists(t, *records[0].CoverPath)

	junk := filepath.Join(env.dir, "junk.jpg")
	require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o644))
	_, _, err = runCLI(t, "cover", id, junk)
	assert.ErrorIs(t, err, ingest.ErrImageDecode)

	_, _, err = runCLI(t, "cover", "no-such-book", imagePath)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestShow_NotFound(t *testing.T) {
	setupCLI(t)
	_, _, err := runCLI(t, "show", "nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestList_Empty(t *testing.T) {
	setupCLI(t)
	out, _, err := runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog is empty")
}

func TestDataDirFlag(t *testing.T) {
	env := setupCLI(t)
	other := filepath.Join(env.dir, "other")
	bare := writeBook(t, env.dir, "bare.epub", bareOPF, nil)

	_, _, err := runCLI(t, "--data-dir", other, "import", bare)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(other, "catalog.db"))
	assert.DirExists(t, filepath.Join(other, "covers"))
	assert.NoFileExists(t, filepath.Join(env.dataDir, "catalog.db"))
}

func TestLogLevelFlag_Invalid(t *testing.T) {
	setupCLI(t)
	_, _, err := runCLI(t, "--log-level", "loud", "list")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	env := setupCLI(t)
	target := filepath.Join(env.dir, "conf", "config.toml")

	out, _, err := runCLI(t, "config", "init", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	assert.FileExists(t, target)

	_, _, err = runCLI(t, "config", "init", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runCLI(t, "config", "init", "--overwrite", target)
	require.NoError(t, err)

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, env.dataDir)
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Title"}, [][]string{{"a", "Dune"}, {"b"}})
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Title")
	assert.Empty(t, renderTable(nil, nil))
}
