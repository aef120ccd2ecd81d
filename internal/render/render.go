// Package render turns the primitives produced by a normalised document tree
// into HTML, Markdown, plain text or styled terminal output.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/document"
)

// Options configures Render.
type Options struct {
	Format document.Format
	// Width wraps terminal output; 0 keeps the renderer default.
	Width int
	// Style names the glamour style for terminal output ("dark", "light",
	// "notty"). Empty selects "dark".
	Style string
}

// Formats lists the supported output formats.
func Formats() []document.Format {
	return []document.Format{
		document.FormatHTML,
		document.FormatMarkdown,
		document.FormatText,
		document.FormatTerminal,
	}
}

// ParseFormat resolves a format name; the empty string selects HTML.
func ParseFormat(s string) (document.Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return document.FormatHTML, nil
	}
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	switch s {
	case "md":
		return document.FormatMarkdown, nil
	case "txt", "plain":
		return document.FormatText, nil
	case "ansi", "term":
		return document.FormatTerminal, nil
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrUnknownFormat, s)
}

// ContentType returns the MIME type of a format's output.
func ContentType(f document.Format) string {
	switch f {
	case document.FormatHTML:
		return "text/html; charset=utf-8"
	case document.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Render writes n in the requested format. An empty tree writes nothing.
func Render(w io.Writer, n document.Node, opts Options) error {
	prims := n.Render(document.RenderOptions{Format: opts.Format})
	switch opts.Format {
	case document.FormatHTML:
		return writeHTML(w, prims)
	case document.FormatMarkdown:
		_, err := io.WriteString(w, markdown(prims))
		return err
	case document.FormatText:
		_, err := io.WriteString(w, plain(prims))
		return err
	case document.FormatTerminal:
		return writeTerminal(w, markdown(prims), opts)
	}
	return fmt.Errorf("%w: %q", apperr.ErrUnknownFormat, opts.Format)
}

// String renders n into a string.
func String(n document.Node, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}
