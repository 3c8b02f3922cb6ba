package epub

import (
	"strings"
)

// CoverImage is the raw cover artwork stored in the container.
type CoverImage struct {
	// Path is the archive-internal path of the image.
	Path string

	// MediaType is the media type declared in the manifest (e.g. "image/jpeg").
	MediaType string

	// Data holds the encoded image bytes exactly as stored.
	Data []byte
}

// coverStrategy proposes a manifest image item, or ok=false.
type coverStrategy func(b *Book) (manifestEl, bool)

// declaredCoverStrategies follow what the package itself designates, in
// priority order:
//  1. ePub 3 manifest item with properties="cover-image"
//  2. ePub 2 <meta name="cover" content="ID"/>, following XHTML targets
//  3. <guide> reference of type "cover", first image of that page
var declaredCoverStrategies = []coverStrategy{
	(*Book).coverImageProperty,
	(*Book).coverMeta,
	(*Book).coverGuide,
}

// guessedCoverStrategies apply when nothing is declared:
//  4. image manifest item whose id or href mentions "cover"
//  5. first image of the first spine document
var guessedCoverStrategies = []coverStrategy{
	(*Book).coverNamed,
	(*Book).coverFirstPage,
}

// DeclaredCover locates and reads the image the package designates as its
// cover. It never guesses: a book whose manifest, metadata and guide name
// no cover yields ErrNoCover even when it contains images.
func (b *Book) DeclaredCover() (CoverImage, error) {
	return b.findCover(declaredCoverStrategies)
}

// Cover is DeclaredCover with a fallback to guessing: an image named like
// a cover, then the first image of the first spine document.
func (b *Book) Cover() (CoverImage, error) {
	if cover, err := b.findCover(declaredCoverStrategies); err == nil {
		return cover, nil
	}
	return b.findCover(guessedCoverStrategies)
}

// findCover returns the first readable candidate. A candidate that cannot
// be read from the archive is skipped in favour of the next strategy.
func (b *Book) findCover(strategies []coverStrategy) (CoverImage, error) {
	for _, strategy := range strategies {
		item, ok := strategy(b)
		if !ok {
			continue
		}
		p := b.itemPath(item)
		if p == "" {
			continue
		}
		data, err := b.arc.read(p)
		if err != nil {
			b.warnf("cover candidate %s unreadable: %v", p, err)
			continue
		}
		return CoverImage{Path: p, MediaType: strings.TrimSpace(item.MediaType), Data: data}, nil
	}
	return CoverImage{}, ErrNoCover
}

func (b *Book) coverImageProperty() (manifestEl, bool) {
	for _, item := range b.pkg.Manifest {
		if item.hasProperty("cover-image") {
			return item, true
		}
	}
	return manifestEl{}, false
}

func (b *Book) coverMeta() (manifestEl, bool) {
	for _, m := range b.pkg.Metadata.Metas {
		if !strings.EqualFold(strings.TrimSpace(m.Name), "cover") {
			continue
		}
		item, ok := b.byID[strings.TrimSpace(m.Content)]
		if !ok {
			continue
		}
		if item.isImage() {
			return item, true
		}
		if img, ok := b.imageOnPage(b.itemPath(item)); ok {
			return img, true
		}
	}
	return manifestEl{}, false
}

func (b *Book) coverGuide() (manifestEl, bool) {
	for _, ref := range b.pkg.Guide {
		if !strings.EqualFold(strings.TrimSpace(ref.Type), "cover") {
			continue
		}
		if img, ok := b.imageOnPage(resolveHref(b.pkgPath, ref.Href)); ok {
			return img, true
		}
	}
	return manifestEl{}, false
}

func (b *Book) coverNamed() (manifestEl, bool) {
	for _, item := range b.pkg.Manifest {
		if !item.isImage() {
			continue
		}
		if strings.Contains(strings.ToLower(item.ID), "cover") || strings.Contains(strings.ToLower(item.Href), "cover") {
			return item, true
		}
	}
	return manifestEl{}, false
}

func (b *Book) coverFirstPage() (manifestEl, bool) {
	if len(b.pkg.Spine) == 0 {
		return manifestEl{}, false
	}
	item, ok := b.byID[b.pkg.Spine[0].IDRef]
	if !ok {
		return manifestEl{}, false
	}
	return b.imageOnPage(b.itemPath(item))
}

// imageOnPage reads the XHTML document at pagePath and maps its first
// image reference back to an image manifest item.
func (b *Book) imageOnPage(pagePath string) (manifestEl, bool) {
	if pagePath == "" {
		return manifestEl{}, false
	}
	page, err := b.arc.read(pagePath)
	if err != nil {
		return manifestEl{}, false
	}
	ref := firstImageRef(page, pagePath)
	if ref == "" {
		return manifestEl{}, false
	}
	item, ok := b.byPath[strings.ToLower(ref)]
	if !ok || !item.isImage() {
		return manifestEl{}, false
	}
	return item, true
}
