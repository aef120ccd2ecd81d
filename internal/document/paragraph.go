package document

import (
	"slices"
	"strings"
	"unicode"
)

// Paragraph is an ordered run of styled text.
type Paragraph struct {
	ctx   Context
	spans []Span
}

// NewParagraph creates an empty paragraph whose text inherits ctx.
func NewParagraph(ctx Context) *Paragraph {
	return &Paragraph{ctx: Context{Styles: canonical(ctx.Styles)}}
}

// Context returns the formatting context the paragraph was opened with.
func (p *Paragraph) Context() Context {
	return p.ctx
}

// AppendText adds a run of text styled with the paragraph context plus extra.
func (p *Paragraph) AppendText(text string, extra ...Style) {
	p.spans = append(p.spans, Span{Text: text, Styles: p.ctx.With(extra...).Styles})
}

// Spans returns the paragraph's runs.
func (p *Paragraph) Spans() []Span {
	return p.spans
}

// Text returns the unstyled text of the paragraph.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, s := range p.spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Normalise drops empty runs, merges neighbours with identical styles and
// trims whitespace at the paragraph edges.
func (p *Paragraph) Normalise() {
	out := p.spans[:0]
	for _, s := range p.spans {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && slices.Equal(out[n-1].Styles, s.Styles) {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}

	for len(out) > 0 {
		out[0].Text = strings.TrimLeftFunc(out[0].Text, unicode.IsSpace)
		if out[0].Text != "" {
			break
		}
		out = out[1:]
	}
	for len(out) > 0 {
		last := len(out) - 1
		out[last].Text = strings.TrimRightFunc(out[last].Text, unicode.IsSpace)
		if out[last].Text != "" {
			break
		}
		out = out[:last]
	}

	if len(out) == 0 {
		out = nil
	}
	p.spans = out
}

// IsEmpty reports whether the paragraph holds no visible text.
func (p *Paragraph) IsEmpty() bool {
	for _, s := range p.spans {
		if strings.TrimFunc(s.Text, unicode.IsSpace) != "" {
			return false
		}
	}
	return true
}

// Render returns a single Block. Plain text output drops styles.
func (p *Paragraph) Render(opts RenderOptions) []Primitive {
	if p.IsEmpty() {
		return nil
	}
	spans := make([]Span, len(p.spans))
	for i, s := range p.spans {
		spans[i] = Span{Text: s.Text}
		if opts.Format != FormatText {
			spans[i].Styles = slices.Clone(s.Styles)
		}
	}
	return []Primitive{&Block{Spans: spans}}
}
