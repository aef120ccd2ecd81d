// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Quire tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/docservice"
	"github.com/starford/quire/internal/render"
)

// EventFormatURI is the resource URI of the event format contract.
const EventFormatURI = "quire://event-format"

// Server wraps the MCP server with Quire tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all Quire tools registered.
func New(svc *docservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Quire",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("render_document",
		mcp.WithDescription("Compile a stored document and return it in the requested format."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. ref/glossary.qdoc)")),
		mcp.WithString("format", mcp.Description("Output format: html, markdown or text (default markdown)")),
	), s.renderDocument)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the raw event stream of a document with its stats and diagnostics."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new document from a YAML event stream. "+
			"The source MUST follow the event format contract. Read it first via "+
			"the get_event_contract tool or the "+EventFormatURI+" resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new document (must end with .qdoc)")),
		mcp.WithString("source", mcp.Required(), mcp.Description("YAML event stream")),
	), s.createDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List indexed documents, optionally filtered by tag."),
		mcp.WithString("tag", mcp.Description("Optional tag filter")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of documents (default 50)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search through compiled document text and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of hits (default 20)")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("get_event_contract",
		mcp.WithDescription("Returns the Quire event stream format. "+
			"Call this before creating documents to ensure correct structure."),
	), s.getEventContract)

	s.mcp.AddResource(
		mcp.NewResource(EventFormatURI, "Event Format Contract",
			mcp.WithResourceDescription("YAML event stream format that all documents must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readEventFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// toolError turns a service error into a tool-level error result.
func toolError(path string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path))
	case errors.Is(err, apperr.ErrAlreadyExists):
		return mcp.NewToolResultError(fmt.Sprintf("document already exists: %s", path))
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) renderDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f, err := render.ParseFormat(req.GetString("format", "markdown"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.svc.Render(ctx, path, render.Options{Format: f})
	if err != nil {
		return toolError(path, err), nil
	}
	return mcp.NewToolResultText(out.Body), nil
}

type documentSummary struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Checksum    string `json:"checksum"`
	Source      string `json:"source"`
	Stats       any    `json:"stats"`
	Diagnostics any    `json:"diagnostics"`
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Get(ctx, path)
	if err != nil {
		return toolError(path, err), nil
	}
	return jsonResult(documentSummary{
		Path:        doc.Path,
		Title:       doc.Title,
		Checksum:    doc.Checksum,
		Source:      doc.Source,
		Stats:       doc.Stats,
		Diagnostics: doc.Diagnostics,
	})
}

func (s *Server) createDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Create(ctx, path, []byte(source))
	if err != nil {
		return toolError(path, err), nil
	}
	msg := fmt.Sprintf("created: %s (%d lists, %d items)", path, doc.Stats.Lists, doc.Stats.Items)
	if n := len(doc.Diagnostics); n > 0 {
		msg += fmt.Sprintf("; %d events ignored:", n)
		for _, d := range doc.Diagnostics {
			msg += "\n- " + d.String()
		}
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, total, err := s.svc.List(ctx, req.GetInt("limit", 50), 0, req.GetString("tag", ""), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"documents": items, "total": total})
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) getEventContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(EventFormatContract), nil
}

func (s *Server) readEventFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      EventFormatURI,
			MIMEType: "text/markdown",
			Text:     EventFormatContract,
		},
	}, nil
}
