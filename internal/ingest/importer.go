package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simp-lee/shelf/internal/storage"
	"github.com/simp-lee/shelf/internal/thumbnail"
)

// Importer turns ePub files into catalog records and cover thumbnails.
// It is safe for concurrent use; imports share no mutable state apart
// from the covers directory, where each writes only its own file.
type Importer struct {
	dirs   storage.Resolver
	thumbs *thumbnail.Normalizer
	log    zerolog.Logger
	newID  func() string
	now    func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger used for diagnostics. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(im *Importer) { im.log = l }
}

// WithNormalizer replaces the default 1000x600 thumbnail normalizer.
func WithNormalizer(n *thumbnail.Normalizer) Option {
	return func(im *Importer) {
		if n != nil {
			im.thumbs = n
		}
	}
}

// WithIDGenerator overrides record identifier generation.
func WithIDGenerator(f func() string) Option {
	return func(im *Importer) {
		if f != nil {
			im.newID = f
		}
	}
}

// WithClock overrides the import timestamp source.
func WithClock(f func() time.Time) Option {
	return func(im *Importer) {
		if f != nil {
			im.now = f
		}
	}
}

// New returns an Importer that stores covers under dirs' data directory.
func New(dirs storage.Resolver, opts ...Option) *Importer {
	im := &Importer{
		dirs:   dirs,
		thumbs: thumbnail.New(thumbnail.Options{}),
		log:    zerolog.Nop(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportBook extracts metadata and the cover from the ePub at filePath and
// returns a fresh record. Only an unreadable archive or an unusable covers
// directory fail the import; cover problems are logged and leave
// CoverPath nil.
func (im *Importer) ImportBook(ctx context.Context, filePath string) (CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return CatalogRecord{}, err
	}
	source := filePath
	if abs, err := filepath.Abs(filePath); err == nil {
		source = abs
	}

	b, err := extract(source)
	if err != nil {
		return CatalogRecord{}, newError(KindArchiveOpen, filePath, err)
	}
	log := im.log.With().Str("path", source).Logger()
	for _, w := range b.warnings {
		log.Debug().Str("stage", "extract").Str("warning", w).Msg("epub warning")
	}

	coversDir, err := im.coversDir()
	if err != nil {
		return CatalogRecord{}, err
	}

	rec := CatalogRecord{
		ID:          im.newID(),
		Title:       b.title,
		Author:      b.author,
		Description: b.description,
		Language:    b.language,
		Publisher:   b.publisher,
		Identifier:  b.identifier,
		Subjects:    b.subjects,
		SourcePath:  source,
		ImportedAt:  im.now().UTC(),
	}
	log = log.With().Str("book_id", rec.ID).Logger()

	if err := ctx.Err(); err != nil {
		return CatalogRecord{}, err
	}
	switch {
	case b.cover != nil:
		res, err := im.thumbs.Normalize(b.cover.Data, coversDir, rec.ID)
		if err != nil {
			log.Warn().Err(err).Str("stage", "thumbnail").Str("cover", b.cover.Path).Msg("cover skipped")
			break
		}
		rec.CoverPath = &res.Path
		log.Debug().Str("cover", res.Path).Int("width", res.Width).Int("height", res.Height).Msg("cover written")
	case b.coverErr != nil:
		log.Warn().Err(b.coverErr).Str("stage", "extract").Msg("cover skipped")
	default:
		log.Debug().Msg("no cover found")
	}

	log.Info().Str("title", rec.Title).Bool("cover", rec.HasCover()).Msg("book imported")
	return rec, nil
}

// ProcessCoverBlob replaces the thumbnail for id with the image in blob and
// returns its path. Undecodable input leaves the filesystem untouched.
func (im *Importer) ProcessCoverBlob(ctx context.Context, id string, blob []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validID(id) {
		return "", newError(KindInvalidID, id, nil)
	}

	img, err := im.thumbs.Decode(blob)
	if err != nil {
		return "", newError(KindImageDecode, id, err)
	}

	coversDir, err := im.coversDir()
	if err != nil {
		return "", err
	}

	encoded, err := im.thumbs.Encode(im.thumbs.Fit(img))
	if err != nil {
		return "", newError(KindImageEncode, id, err)
	}
	p, err := im.thumbs.Write(coversDir, id, encoded)
	if err != nil {
		return "", newError(KindImageWrite, thumbnail.Path(coversDir, id), err)
	}

	im.log.Info().Str("book_id", id).Str("cover", p).Msg("cover replaced")
	return p, nil
}

func (im *Importer) coversDir() (string, error) {
	if im.dirs == nil {
		return "", newError(KindDirectoryResolution, "", errors.New("no data directory resolver"))
	}
	base, err := im.dirs.DataDir()
	if err != nil {
		return "", newError(KindDirectoryResolution, "", err)
	}
	dir := storage.CoversDir(base)
	if err := storage.EnsureDir(dir); err != nil {
		return "", newError(KindDirectoryCreate, dir, err)
	}
	return dir, nil
}

// validID accepts a single, non-special path element.
func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.ContainsRune(id, 0)
}
