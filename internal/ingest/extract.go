package ingest

import (
	"errors"

	"github.com/simp-lee/shelf/epub"
)

// bundle is what the archive yields for cataloging: resolved metadata
// fields and, when the container designates one, the raw cover.
type bundle struct {
	title       string
	author      *string
	description *string
	language    *string
	publisher   *string
	identifier  *string
	subjects    []string

	cover    *epub.CoverImage
	coverErr error
	warnings []string
}

// extract reads path without writing anything. Only failing to open the
// container is an error; every field, the cover included, is optional.
func extract(path string) (bundle, error) {
	book, err := epub.Open(path)
	if err != nil {
		return bundle{}, err
	}
	defer book.Close()

	md := book.Metadata()
	b := bundle{
		title:      UnknownTitle,
		publisher:  optional(md.Publisher),
		identifier: optional(identifier(md)),
		subjects:   md.Subjects,
	}
	if title, ok := md.Title(); ok {
		b.title = title
	}
	if author, ok := md.Author(); ok {
		b.author = &author
	}
	if len(md.Language) > 0 {
		b.language = optional(md.Language[0])
	}
	if md.Description != "" {
		text, err := epub.PlainText(md.Description)
		if err != nil {
			text = md.Description
		}
		b.description = optional(text)
	}

	cover, err := book.DeclaredCover()
	switch {
	case err == nil:
		b.cover = &cover
	case !errors.Is(err, epub.ErrNoCover):
		b.coverErr = err
	}
	b.warnings = book.Warnings()
	return b, nil
}

// identifier prefers an ISBN, then the package's unique identifier, then
// whatever identifier comes first.
func identifier(md epub.Metadata) string {
	if isbn, ok := md.ISBN(); ok {
		return isbn
	}
	if md.UniqueIdentifier != "" {
		return md.UniqueIdentifier
	}
	if len(md.Identifiers) > 0 {
		return md.Identifiers[0].Value
	}
	return ""
}
