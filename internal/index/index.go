package index

import (
	"time"

	"github.com/starford/quire/internal/compile"
)

// DocumentIndex is the set of index operations used by the service layer.
type DocumentIndex interface {
	UpsertDocument(d DocumentRow, text, html string) error
	PutCompiled(path string, out *compile.Output, updatedAt time.Time) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	GetDocument(path string) (*DocumentRow, error)
	GetHTML(path string) (string, error)
	ListDocuments(limit, offset int, tag, sort string) ([]DocumentRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

var _ DocumentIndex = (*DB)(nil)
