package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/simp-lee/shelf/internal/ingest"
)

const bookColumns = "id, title, author, description, cover_path, language, publisher, identifier, subjects_json, source_path, imported_at"

// Save inserts rec, replacing any existing row with the same id.
func (s *Store) Save(ctx context.Context, rec ingest.CatalogRecord) error {
	if rec.ID == "" {
		return errors.New("catalog: record has no id")
	}
	var subjects any
	if len(rec.Subjects) > 0 {
		data, err := json.Marshal(rec.Subjects)
		if err != nil {
			return fmt.Errorf("marshal subjects: %w", err)
		}
		subjects = string(data)
	}
	importedAt := rec.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now()
	}

	_, err := s.exec(ctx,
		`INSERT INTO books (`+bookColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            author = excluded.author,
            description = excluded.description,
            cover_path = excluded.cover_path,
            language = excluded.language,
            publisher = excluded.publisher,
            identifier = excluded.identifier,
            subjects_json = excluded.subjects_json,
            source_path = excluded.source_path,
            imported_at = excluded.imported_at`,
		rec.ID,
		rec.Title,
		nullable(rec.Author),
		nullable(rec.Description),
		nullable(rec.CoverPath),
		nullable(rec.Language),
		nullable(rec.Publisher),
		nullable(rec.Identifier),
		subjects,
		rec.SourcePath,
		importedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save book %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the record stored under id.
func (s *Store) Get(ctx context.Context, id string) (ingest.CatalogRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE id = ?", id)
	rec, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ingest.CatalogRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return ingest.CatalogRecord{}, fmt.Errorf("get book %s: %w", id, err)
	}
	return rec, nil
}

// List returns every record, oldest import first.
func (s *Store) List(ctx context.Context) ([]ingest.CatalogRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+bookColumns+" FROM books ORDER BY imported_at, id")
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var out []ingest.CatalogRecord
	for rows.Next() {
		rec, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return out, nil
}

// UpdateCover records a new cover path for id.
func (s *Store) UpdateCover(ctx context.Context, id, coverPath string) error {
	res, err := s.exec(ctx, "UPDATE books SET cover_path = ? WHERE id = ?", coverPath, id)
	if err != nil {
		return fmt.Errorf("update cover %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cover %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes the record for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.exec(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func scanBook(scanner interface{ Scan(dest ...any) error }) (ingest.CatalogRecord, error) {
	var (
		rec         ingest.CatalogRecord
		author      sql.NullString
		description sql.NullString
		coverPath   sql.NullString
		language    sql.NullString
		publisher   sql.NullString
		identifier  sql.NullString
		subjects    sql.NullString
		importedRaw string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.Title,
		&author,
		&description,
		&coverPath,
		&language,
		&publisher,
		&identifier,
		&subjects,
		&rec.SourcePath,
		&importedRaw,
	); err != nil {
		return ingest.CatalogRecord{}, err
	}

	rec.Author = fromNull(author)
	rec.Description = fromNull(description)
	rec.CoverPath = fromNull(coverPath)
	rec.Language = fromNull(language)
	rec.Publisher = fromNull(publisher)
	rec.Identifier = fromNull(identifier)
	if subjects.Valid && subjects.String != "" {
		if err := json.Unmarshal([]byte(subjects.String), &rec.Subjects); err != nil {
			return ingest.CatalogRecord{}, fmt.Errorf("decode subjects: %w", err)
		}
	}
	ts, err := time.Parse(time.RFC3339Nano, importedRaw)
	if err != nil {
		return ingest.CatalogRecord{}, fmt.Errorf("parse imported_at: %w", err)
	}
	rec.ImportedAt = ts
	return rec, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func fromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
