// Package epub reads the catalog-relevant parts of ePub 2 and ePub 3
// containers: Dublin Core package metadata and the cover image.
//
// # Opening an ePub
//
// Use [Open] for a file on disk or [NewReader] for any [io.ReaderAt]:
//
//	book, err := epub.Open("book.epub")
//	if err != nil {
//	    return err
//	}
//	defer book.Close()
//
// # Metadata
//
// [Book.Metadata] returns titles, creators, description, language,
// publisher, subjects and identifiers. Missing elements stay empty;
// [Metadata.Title] and [Metadata.Author] report presence explicitly:
//
//	if title, ok := book.Metadata().Title(); ok {
//	    fmt.Println(title)
//	}
//
// Descriptions frequently carry HTML; [PlainText] reduces them to text.
//
// # Cover Image
//
// [Book.DeclaredCover] follows only what the package designates: the ePub 3
// cover-image property, the ePub 2 cover meta, then the guide. [Book.Cover]
// falls back to guessing from a manifest name heuristic and finally the
// first page. Both return [ErrNoCover] when nothing yields an image.
//
// # Errors
//
//   - [ErrInvalidEPub] – no package document could be located
//   - [ErrDRMProtected] – the container is DRM encrypted
//   - [ErrFileNotFound] – a requested entry is not in the archive
//   - [ErrNoCover] – no cover image was found
//
// Entries larger than 256 MiB once decompressed, and entry names that
// escape the archive root, are refused.
package epub
