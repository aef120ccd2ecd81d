// Package docservice coordinates the vault, the compiler and the index for
// the HTTP and MCP surfaces.
package docservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/checksum"
	"github.com/starford/quire/internal/compile"
	"github.com/starford/quire/internal/dispatch"
	"github.com/starford/quire/internal/document"
	"github.com/starford/quire/internal/index"
	"github.com/starford/quire/internal/render"
	"github.com/starford/quire/internal/storage"
)

// DocumentDetail is the full representation of a document.
type DocumentDetail struct {
	Path        string                `json:"path"`
	Title       string                `json:"title"`
	Source      string                `json:"source"`
	Checksum    string                `json:"checksum"`
	Tags        []string              `json:"tags"`
	Stats       document.Stats        `json:"stats"`
	Diagnostics []dispatch.Diagnostic `json:"diagnostics"`
	HTML        string                `json:"html"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Checksum    string    `json:"checksum"`
	Tags        []string  `json:"tags"`
	Lists       int       `json:"lists"`
	Items       int       `json:"items"`
	Diagnostics int       `json:"diagnostics"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Rendered is one document in one output format.
type Rendered struct {
	Path        string          `json:"path,omitempty"`
	Format      document.Format `json:"format"`
	ContentType string          `json:"content_type"`
	Checksum    string          `json:"checksum"`
	Body        string          `json:"body"`
}

// Notifier receives change notifications (created, updated, deleted).
type Notifier func(kind, path string)

// Option configures a Service.
type Option func(*Service)

// WithStrict makes writes of sources with rejected events fail.
func WithStrict(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithNotifier registers a callback for successful writes and deletes.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notify = n
	}
}

// Service coordinates storage, compilation and index operations.
type Service struct {
	store  storage.Provider
	db     index.DocumentIndex
	strict bool
	logger *slog.Logger
	notify Notifier
}

// NewService creates a new document service.
func NewService(store storage.Provider, db index.DocumentIndex, opts ...Option) *Service {
	s := &Service{
		store:  store,
		db:     db,
		logger: slog.Default(),
		notify: func(string, string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get reads, compiles and returns the document at path.
func (s *Service) Get(_ context.Context, path string) (*DocumentDetail, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	out, err := s.compile(path, data)
	if err != nil {
		return nil, err
	}
	return detail(path, data, out), nil
}

// Create compiles content, writes it as a new document and indexes it.
func (s *Service) Create(_ context.Context, path string, content []byte) (*DocumentDetail, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	out, err := s.compile(path, content)
	if err != nil {
		return nil, err
	}
	if err := s.persist(path, content, out); err != nil {
		return nil, err
	}
	s.notify(index.ChangeCreated, path)
	return detail(path, content, out), nil
}

// Update replaces a document. A non-empty ifMatch must equal the current
// checksum (bare or in ETag form) or ErrConflict is returned.
func (s *Service) Update(_ context.Context, path string, content []byte, ifMatch string) (*DocumentDetail, error) {
	existing, err := s.read(path)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && checksum.ParseETag(ifMatch) != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	out, err := s.compile(path, content)
	if err != nil {
		return nil, err
	}
	if err := s.persist(path, content, out); err != nil {
		return nil, err
	}
	s.notify(index.ChangeUpdated, path)
	return detail(path, content, out), nil
}

// Delete removes a document from storage and index.
func (s *Service) Delete(_ context.Context, path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	if err := s.db.DeleteDocument(path); err != nil {
		return err
	}
	s.notify(index.ChangeDeleted, path)
	return nil
}

// List returns one page of indexed documents with an optional tag filter.
func (s *Service) List(_ context.Context, limit, offset int, tag, sort string) ([]DocumentListItem, int, error) {
	rows, total, err := s.db.ListDocuments(limit, offset, tag, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentListItem, len(rows))
	for i, r := range rows {
		items[i] = DocumentListItem{
			Path:        r.Path,
			Title:       r.Title,
			Checksum:    r.Checksum,
			Tags:        nonNilSlice(r.Tags),
			Lists:       r.Lists,
			Items:       r.Items,
			Diagnostics: r.Diagnostics,
			UpdatedAt:   r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Render returns the document at path in the requested format. HTML is
// served from the index when its checksum matches the source on disk.
func (s *Service) Render(_ context.Context, path string, opts render.Options) (*Rendered, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	sum := checksum.Sum(data)

	if opts.Format == document.FormatHTML {
		if cached, _ := s.db.GetChecksum(path); cached == sum {
			if body, err := s.db.GetHTML(path); err == nil {
				return &Rendered{Path: path, Format: opts.Format, ContentType: render.ContentType(opts.Format), Checksum: sum, Body: body}, nil
			}
		}
	}

	out, err := s.compile(path, data)
	if err != nil {
		return nil, err
	}
	body, err := out.Render(opts)
	if err != nil {
		return nil, err
	}
	return &Rendered{Path: path, Format: opts.Format, ContentType: render.ContentType(opts.Format), Checksum: sum, Body: body}, nil
}

// Preview compiles and renders an event stream without storing it.
func (s *Service) Preview(_ context.Context, data []byte, opts render.Options) (*Rendered, error) {
	out, err := s.compile("", data)
	if err != nil {
		return nil, err
	}
	body, err := out.Render(opts)
	if err != nil {
		return nil, err
	}
	return &Rendered{Format: opts.Format, ContentType: render.ContentType(opts.Format), Checksum: out.Checksum, Body: body}, nil
}

func (s *Service) read(path string) ([]byte, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Service) compile(path string, data []byte) (*compile.Output, error) {
	logger := s.logger
	if path != "" {
		logger = logger.With(slog.String("path", path))
	}
	return compile.Source(data, compile.Options{Strict: s.strict, Logger: logger})
}

func (s *Service) persist(path string, data []byte, out *compile.Output) error {
	if err := s.store.Write(path, data); err != nil {
		return err
	}
	return s.db.PutCompiled(path, out, time.Now())
}

func checkPath(path string) error {
	if !storage.IsSource(path) {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidPath, path)
	}
	return nil
}

func detail(path string, data []byte, out *compile.Output) *DocumentDetail {
	return &DocumentDetail{
		Path:        path,
		Title:       out.Title,
		Source:      string(data),
		Checksum:    out.Checksum,
		Tags:        nonNilSlice(out.Tags),
		Stats:       out.Stats,
		Diagnostics: out.Diagnostics,
		HTML:        out.HTML,
		UpdatedAt:   time.Now(),
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
