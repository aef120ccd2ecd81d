package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/quire/internal/docservice"
	"github.com/starford/quire/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	svc := docservice.NewService(store, db, docservice.WithLogger(testutil.DiscardLogger()))
	return New(svc, "test")
}

// callTool dispatches to the handler directly; mcp-go has no in-process
// call helper.
func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var (
		result *mcp.CallToolResult
		err    error
	)
	switch name {
	case "render_document":
		result, err = srv.renderDocument(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "create_document":
		result, err = srv.createDocument(ctx, req)
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "search_documents":
		result, err = srv.searchDocuments(ctx, req)
	case "get_event_contract":
		result, err = srv.getEventContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndRenderDocument(t *testing.T) {
	srv := testServer(t)

	res := callTool(t, srv, "create_document", map[string]any{"path": "g.qdoc", "source": testutil.Glossary})
	if res.IsError {
		t.Fatalf("create error: %s", resultText(res))
	}
	if got := resultText(res); got != "created: g.qdoc (1 lists, 2 items)" {
		t.Errorf("create text = %q", got)
	}

	res = callTool(t, srv, "render_document", map[string]any{"path": "g.qdoc"})
	if res.IsError {
		t.Fatalf("render error: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "- Label\n") {
		t.Errorf("markdown = %q", resultText(res))
	}

	res = callTool(t, srv, "render_document", map[string]any{"path": "g.qdoc", "format": "html"})
	if !strings.Contains(resultText(res), `<td class="list-item-content">`) {
		t.Errorf("html = %q", resultText(res))
	}
}

func TestCreateDocument_ReportsDiagnostics(t *testing.T) {
	srv := testServer(t)
	res := callTool(t, srv, "create_document", map[string]any{
		"path":   "loose.qdoc",
		"source": "events:\n  - begin-list\n  - switch-to-content\n  - new-item\n  - text: a\n  - end-list\n",
	})
	if res.IsError {
		t.Fatalf("create error: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "1 events ignored") {
		t.Errorf("text = %q", resultText(res))
	}
}

func TestCreateDocument_Duplicate(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "create_document", map[string]any{"path": "d.qdoc", "source": testutil.Glossary})
	res := callTool(t, srv, "create_document", map[string]any{"path": "d.qdoc", "source": testutil.Glossary})
	if !res.IsError || !strings.Contains(resultText(res), "already exists") {
		t.Errorf("duplicate = %v %q", res.IsError, resultText(res))
	}
}

func TestCreateDocument_MissingArgs(t *testing.T) {
	srv := testServer(t)
	res := callTool(t, srv, "create_document", map[string]any{"path": "x.qdoc"})
	if !res.IsError {
		t.Error("expected error for missing source")
	}
}

func TestReadDocument(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "create_document", map[string]any{"path": "r.qdoc", "source": testutil.Glossary})

	res := callTool(t, srv, "read_document", map[string]any{"path": "r.qdoc"})
	if res.IsError {
		t.Fatalf("read error: %s", resultText(res))
	}
	var got documentSummary
	if err := json.Unmarshal([]byte(resultText(res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Source != testutil.Glossary || got.Title != "Glossary" {
		t.Errorf("summary = %+v", got)
	}
}

func TestReadDocument_NotFound(t *testing.T) {
	srv := testServer(t)
	res := callTool(t, srv, "read_document", map[string]any{"path": "missing.qdoc"})
	if !res.IsError || resultText(res) != "not found: missing.qdoc" {
		t.Errorf("missing = %v %q", res.IsError, resultText(res))
	}
}

func TestListAndSearchDocuments(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "create_document", map[string]any{"path": "a.qdoc", "source": testutil.Glossary})
	callTool(t, srv, "create_document", map[string]any{"path": "b.qdoc", "source": "events:\n  - text: quokka sighting\n"})

	res := callTool(t, srv, "list_documents", map[string]any{"tag": "reference"})
	if !strings.Contains(resultText(res), `"total": 1`) || !strings.Contains(resultText(res), "a.qdoc") {
		t.Errorf("list = %q", resultText(res))
	}

	res = callTool(t, srv, "search_documents", map[string]any{"query": "quokka"})
	if !strings.Contains(resultText(res), "b.qdoc") {
		t.Errorf("search = %q", resultText(res))
	}
}

func TestGetEventContract(t *testing.T) {
	srv := testServer(t)
	res := callTool(t, srv, "get_event_contract", nil)
	text := resultText(res)
	for _, ev := range []string{"begin-list", "new-item", "switch-to-content", "new-paragraph", "end-list"} {
		if !strings.Contains(text, ev) {
			t.Errorf("contract missing %q", ev)
		}
	}
}

func TestEventFormatResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readEventFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != EventFormatURI {
		t.Errorf("resource = %#v", contents[0])
	}
}
