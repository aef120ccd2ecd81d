// Package compile runs the full pipeline for one source: parse, dispatch,
// normalise and render.
package compile

import (
	"fmt"
	"log/slog"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/checksum"
	"github.com/starford/quire/internal/dispatch"
	"github.com/starford/quire/internal/document"
	"github.com/starford/quire/internal/parser"
	"github.com/starford/quire/internal/render"
)

// Options configures Source.
type Options struct {
	Strict bool
	Logger *slog.Logger
}

// Output is a compiled document with its cached renderings.
type Output struct {
	Title       string
	Tags        []string
	Checksum    string
	Document    *document.Document
	Stats       document.Stats
	Diagnostics []dispatch.Diagnostic
	// HTML and Text are always rendered; other formats are produced on demand.
	HTML string
	Text string
}

// Source compiles raw .qdoc bytes.
func Source(data []byte, opts Options) (*Output, error) {
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}

	dopts := []dispatch.Option{dispatch.WithStrict(opts.Strict)}
	if opts.Logger != nil {
		dopts = append(dopts, dispatch.WithLogger(opts.Logger))
	}
	doc, diags, err := dispatch.Compile(res.Events, dopts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidDocument, err)
	}

	htmlOut, err := render.String(doc, render.Options{Format: document.FormatHTML})
	if err != nil {
		return nil, fmt.Errorf("compile: render html: %w", err)
	}
	textOut, err := render.String(doc, render.Options{Format: document.FormatText})
	if err != nil {
		return nil, fmt.Errorf("compile: render text: %w", err)
	}

	return &Output{
		Title:       res.Title,
		Tags:        nonNil(res.Tags),
		Checksum:    checksum.Sum(data),
		Document:    doc,
		Stats:       document.Collect(doc),
		Diagnostics: nonNil(diags),
		HTML:        htmlOut,
		Text:        textOut,
	}, nil
}

// Render produces out in any supported format.
func (o *Output) Render(opts render.Options) (string, error) {
	switch opts.Format {
	case document.FormatHTML:
		return o.HTML, nil
	case document.FormatText:
		return o.Text, nil
	}
	return render.String(o.Document, opts)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
