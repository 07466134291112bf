// Package content stores the landing page content documents: per-page
// sections persisted as individual rows so sections can be reordered,
// deactivated, and regenerated independently.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/allsetlabs/allset/internal/db"
)

// ErrPageNotFound is returned when no landing page exists for a slug.
var ErrPageNotFound = errors.New("landing page not found")

// Store persists landing content documents.
type Store struct {
	db *db.DB
}

// NewStore creates a content store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Page is the metadata row of a landing page.
type Page struct {
	ID       string
	Slug     string
	PageType PageType
}

// CreatePage registers a new landing page under slug and returns it.
func (s *Store) CreatePage(ctx context.Context, slug string, pt PageType) (*Page, error) {
	if !pt.Valid() {
		return nil, fmt.Errorf("invalid page type %q", pt)
	}
	p := &Page{ID: uuid.New().String(), Slug: slug, PageType: pt}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO landing_pages (id, slug, page_type) VALUES (?, ?, ?)`,
		p.ID, p.Slug, string(p.PageType))
	if err != nil {
		return nil, fmt.Errorf("creating landing page %q: %w", slug, err)
	}
	return p, nil
}

// GetPage looks up a landing page by slug.
func (s *Store) GetPage(ctx context.Context, slug string) (*Page, error) {
	var p Page
	var pt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, page_type FROM landing_pages WHERE slug = ?`, slug).
		Scan(&p.ID, &p.Slug, &pt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up landing page %q: %w", slug, err)
	}
	p.PageType = PageType(pt)
	return &p, nil
}

// ListPages returns all landing pages ordered by slug.
func (s *Store) ListPages(ctx context.Context) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, page_type FROM landing_pages ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("listing landing pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		var pt string
		if err := rows.Scan(&p.ID, &p.Slug, &pt); err != nil {
			return nil, fmt.Errorf("scanning landing page: %w", err)
		}
		p.PageType = PageType(pt)
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetBySlug reconstructs a landing content document from its section
// rows, in display order, skipping deactivated sections.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*Document, error) {
	page, err := s.GetPage(ctx, slug)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT section_slug, content FROM page_content
		 WHERE page_id = ? AND is_active = 1
		 ORDER BY display_order`, page.ID)
	if err != nil {
		return nil, fmt.Errorf("loading content for %q: %w", slug, err)
	}
	defer rows.Close()

	doc := &Document{PageType: page.PageType}
	for rows.Next() {
		var sec Section
		var body string
		if err := rows.Scan(&sec.Slug, &body); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sec.Content = []byte(body)
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, rows.Err()
}

// Save writes a document's sections for the page at slug, replacing
// existing section bodies and recording each section's position. The
// page's type and timestamp are updated alongside.
func (s *Store) Save(ctx context.Context, slug string, doc *Document) error {
	if !doc.PageType.Valid() {
		return fmt.Errorf("invalid page type %q", doc.PageType)
	}

	page, err := s.GetPage(ctx, slug)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting save for %q: %w", slug, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE landing_pages SET page_type = ?, updated_at = datetime('now') WHERE id = ?`,
		string(doc.PageType), page.ID)
	if err != nil {
		return fmt.Errorf("updating page %q: %w", slug, err)
	}

	for i, sec := range doc.Sections {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO page_content (page_id, section_slug, content, display_order, is_active, updated_at)
			 VALUES (?, ?, ?, ?, 1, datetime('now'))
			 ON CONFLICT(page_id, section_slug) DO UPDATE SET
			     content = excluded.content,
			     display_order = excluded.display_order,
			     is_active = 1,
			     updated_at = excluded.updated_at`,
			page.ID, sec.Slug, string(sec.Content), i)
		if err != nil {
			return fmt.Errorf("saving section %q of %q: %w", sec.Slug, slug, err)
		}
	}

	return tx.Commit()
}

// SaveFor creates the page if needed and then saves the document. Used
// by content generation, which targets a slug that may not exist yet.
func (s *Store) SaveFor(ctx context.Context, slug string, doc *Document) error {
	_, err := s.GetPage(ctx, slug)
	if errors.Is(err, ErrPageNotFound) {
		if _, err := s.CreatePage(ctx, slug, doc.PageType); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return s.Save(ctx, slug, doc)
}

// DeactivateSection hides a section without deleting its content.
func (s *Store) DeactivateSection(ctx context.Context, slug, sectionSlug string) error {
	page, err := s.GetPage(ctx, slug)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE page_content SET is_active = 0, updated_at = datetime('now')
		 WHERE page_id = ? AND section_slug = ?`, page.ID, sectionSlug)
	if err != nil {
		return fmt.Errorf("deactivating section %q of %q: %w", sectionSlug, slug, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("section %q of %q: %w", sectionSlug, slug, sql.ErrNoRows)
	}
	return nil
}

// DeletePage removes a landing page and, through the schema's cascade,
// all its content rows.
func (s *Store) DeletePage(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landing_pages WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("deleting landing page %q: %w", slug, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPageNotFound
	}
	return nil
}
