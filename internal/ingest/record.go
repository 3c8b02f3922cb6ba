package ingest

import "time"

// UnknownTitle stands in for a package without a usable dc:title.
const UnknownTitle = "Unknown Title"

// CatalogRecord is the result of one import. Optional fields are nil when
// the source has no value for them; they are never set to "".
// A record is handed to persistence by value and not modified afterwards.
type CatalogRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      *string   `json:"author"`
	Description *string   `json:"description"`
	CoverPath   *string   `json:"cover_path"`
	Language    *string   `json:"language,omitempty"`
	Publisher   *string   `json:"publisher,omitempty"`
	Identifier  *string   `json:"identifier,omitempty"`
	Subjects    []string  `json:"subjects,omitempty"`
	SourcePath  string    `json:"source_path"`
	ImportedAt  time.Time `json:"imported_at"`
}

// HasCover reports whether a thumbnail was produced.
func (r CatalogRecord) HasCover() bool {
	return r.CoverPath != nil
}

// optional returns nil for an empty s.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
