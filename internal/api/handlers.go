package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/quire/internal/checksum"
	"github.com/starford/quire/internal/docservice"
	"github.com/starford/quire/internal/render"
)

const maxSourceBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the wildcard segment.
// Supports encoded slashes from OpenAPI clients (e.g. ref%2Fglossary.qdoc).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// renderOptions reads format, width and style from the query string.
func renderOptions(r *http.Request) (render.Options, error) {
	q := r.URL.Query()
	f, err := render.ParseFormat(q.Get("format"))
	if err != nil {
		return render.Options{}, err
	}
	width, _ := strconv.Atoi(q.Get("width"))
	return render.Options{Format: f, Width: width, Style: q.Get("style")}, nil
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List documents with optional pagination and filtering
//	@Tags			documents
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by tag"
//	@Param			sort	query		string	false	"Sort field"	Enums(path, title, updated)
//	@Success		200		{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.List(r.Context(), limit, offset, q.Get("tag"), q.Get("sort"))
	if err != nil {
		writeError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: items, Total: total})
}

// GetDocument handles GET /api/documents/*.
//
//	@Summary		Get a compiled document by path
//	@Tags			documents
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	DocumentDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.Get(r.Context(), path)
	if err != nil {
		writeError(w, "get document", err, slog.String("path", path))
		return
	}
	w.Header().Set("ETag", checksum.ETag(doc.Checksum))
	writeJSON(w, http.StatusOK, doc)
}

// CreateDocument handles POST /api/documents.
//
//	@Summary		Create a new document
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateDocumentRequest	true	"Document to create"
//	@Success		201		{object}	DocumentDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents [post]
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceBytes)
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" || req.Source == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path and source are required"))
		return
	}
	doc, err := h.svc.Create(r.Context(), req.Path, []byte(req.Source))
	if err != nil {
		writeError(w, "create document", err, slog.String("path", req.Path))
		return
	}
	w.Header().Set("ETag", checksum.ETag(doc.Checksum))
	writeJSON(w, http.StatusCreated, doc)
}

// UpdateDocument handles PUT /api/documents/*.
//
//	@Summary		Update a document with optimistic concurrency
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			path		path		string					true	"Document path"
//	@Param			If-Match	header		string					false	"Checksum for optimistic concurrency"
//	@Param			body		body		UpdateDocumentRequest	true	"Updated source"
//	@Success		200			{object}	DocumentDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [put]
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceBytes)
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Source == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("source is required"))
		return
	}

	doc, err := h.svc.Update(r.Context(), path, []byte(req.Source), r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, "update document", err, slog.String("path", path))
		return
	}
	w.Header().Set("ETag", checksum.ETag(doc.Checksum))
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/documents/*.
//
//	@Summary		Delete a document
//	@Tags			documents
//	@Param			path	path	string	true	"Document path"
//	@Success		204		"Document deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.Delete(r.Context(), path); err != nil {
		writeError(w, "delete document", err, slog.String("path", path))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenderDocument handles GET /api/render/*.
//
//	@Summary		Render a document
//	@Tags			render
//	@Produce		html,plain
//	@Param			path	path		string	true	"Document path"
//	@Param			format	query		string	false	"Output format"	Enums(html, markdown, text, terminal)
//	@Param			width	query		int		false	"Wrap width for terminal output"
//	@Param			style	query		string	false	"Terminal style"	Enums(dark, light, notty)
//	@Success		200		{string}	string
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/render/{path} [get]
func (h *Handler) RenderDocument(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	opts, err := renderOptions(r)
	if err != nil {
		writeError(w, "render document", err)
		return
	}
	out, err := h.svc.Render(r.Context(), path, opts)
	if err != nil {
		writeError(w, "render document", err, slog.String("path", path))
		return
	}
	writeRendered(w, out)
}

// Preview handles POST /api/preview. The request body is a raw event stream.
//
//	@Summary		Compile and render an unsaved event stream
//	@Tags			render
//	@Accept			plain
//	@Produce		html,plain
//	@Param			format	query		string	false	"Output format"	Enums(html, markdown, text, terminal)
//	@Success		200		{string}	string
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/preview [post]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceBytes)
	opts, err := renderOptions(r)
	if err != nil {
		writeError(w, "preview", err)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	out, err := h.svc.Preview(r.Context(), data, opts)
	if err != nil {
		writeError(w, "preview", err)
		return
	}
	writeRendered(w, out)
}

func writeRendered(w http.ResponseWriter, out *docservice.Rendered) {
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("ETag", checksum.ETag(out.Checksum))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out.Body)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across compiled documents
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
