package ingest

import (
	"errors"
	"fmt"
)

// Kind classifies an ingestion failure. The set is closed.
type Kind int

const (
	KindArchiveOpen Kind = iota + 1
	KindDirectoryResolution
	KindDirectoryCreate
	KindImageDecode
	KindImageEncode
	KindImageWrite
	KindInvalidID
)

func (k Kind) String() string {
	switch k {
	case KindArchiveOpen:
		return "archive_open"
	case KindDirectoryResolution:
		return "directory_resolution"
	case KindDirectoryCreate:
		return "directory_create"
	case KindImageDecode:
		return "image_decode"
	case KindImageEncode:
		return "image_encode"
	case KindImageWrite:
		return "image_write"
	case KindInvalidID:
		return "invalid_id"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the only error type returned by Importer. Its Error method is
// where messages are composed; everything below it deals in wrapped causes.
type Error struct {
	Kind Kind
	// Subject is the file, directory or identifier the failure concerns.
	Subject string
	Err     error
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrArchiveOpen         = &Error{Kind: KindArchiveOpen}
	ErrDirectoryResolution = &Error{Kind: KindDirectoryResolution}
	ErrDirectoryCreate     = &Error{Kind: KindDirectoryCreate}
	ErrImageDecode         = &Error{Kind: KindImageDecode}
	ErrImageEncode         = &Error{Kind: KindImageEncode}
	ErrImageWrite          = &Error{Kind: KindImageWrite}
	ErrInvalidID           = &Error{Kind: KindInvalidID}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindArchiveOpen:
		msg = fmt.Sprintf("failed to open EPUB %q", e.Subject)
	case KindDirectoryResolution:
		msg = "failed to get app data dir"
	case KindDirectoryCreate:
		msg = fmt.Sprintf("failed to create covers dir %q", e.Subject)
	case KindImageDecode:
		msg = "failed to load image from blob"
	case KindImageEncode:
		msg = fmt.Sprintf("failed to encode cover image for %q", e.Subject)
	case KindImageWrite:
		msg = fmt.Sprintf("failed to save cover image %q", e.Subject)
	case KindInvalidID:
		msg = fmt.Sprintf("invalid book id %q", e.Subject)
	default:
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func newError(kind Kind, subject string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}
