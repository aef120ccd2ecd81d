package api

import (
	"github.com/starford/quire/internal/docservice"
	"github.com/starford/quire/internal/index"
)

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Path   string `json:"path" example:"ref/glossary.qdoc" validate:"required"`
	Source string `json:"source" example:"events:\n  - begin-list\n  - new-item\n  - end-list\n" validate:"required"`
}

// UpdateDocumentRequest is the request body for updating a document.
type UpdateDocumentRequest struct {
	Source string `json:"source" validate:"required"`
}

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = docservice.DocumentDetail

// DocumentListItem is a lightweight item in a list response (aliased from the domain layer).
type DocumentListItem = docservice.DocumentListItem

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents" validate:"required"`
	Total     int                `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}
