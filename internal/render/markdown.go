package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/starford/quire/internal/document"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"&", `\&`,
)

// markdown renders lists as bullets: the label on the bullet line and the
// content indented beneath it.
func markdown(prims []document.Primitive) string {
	var b strings.Builder
	mdBlocks(&b, prims, "")
	return b.String()
}

func mdBlocks(b *strings.Builder, prims []document.Primitive, indent string) {
	for i, p := range prims {
		if i > 0 {
			b.WriteString("\n")
		}
		switch v := p.(type) {
		case *document.Block:
			mdLines(b, mdInline(v.Spans), indent, indent)
		case *document.Table:
			mdTable(b, v, indent)
		}
	}
}

func mdTable(b *strings.Builder, t *document.Table, indent string) {
	for _, row := range t.Rows {
		label, body := splitRow(row)

		var parts []string
		var nested []document.Primitive
		for _, c := range label {
			if blk, ok := c.(*document.Block); ok {
				parts = append(parts, mdInline(blk.Spans))
			} else {
				nested = append(nested, c)
			}
		}
		if len(parts) > 0 {
			mdLines(b, strings.Join(parts, " "), indent+"- ", indent+"  ")
		} else {
			b.WriteString(indent + "-\n")
		}

		body = append(nested, body...)
		if len(body) > 0 {
			b.WriteString("\n")
			mdBlocks(b, body, indent+"  ")
		}
	}
}

// mdLines writes md one line at a time: the first line after first, the
// rest after indent. Markers that would open a block are escaped.
func mdLines(b *strings.Builder, md, first, indent string) {
	for i, line := range strings.Split(md, "\n") {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			b.WriteString("\n")
			continue
		}
		if i == 0 {
			b.WriteString(first)
		} else {
			b.WriteString(indent)
		}
		b.WriteString(mdLineStart(line))
		b.WriteString("\n")
	}
}

// mdLineStart escapes a heading, quote, list, setext or table marker at the
// start of line.
func mdLineStart(line string) string {
	switch line[0] {
	case '#', '>', '-', '+', '=', '|':
		return `\` + line
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return line[:i] + `\` + line[i:]
	}
	return line
}

func mdInline(spans []document.Span) string {
	var b strings.Builder
	for _, s := range spans {
		text := s.Text
		if s.HasStyle(document.StyleCode) {
			text = "`" + text + "`"
		} else {
			text = mdEscaper.Replace(text)
		}
		if s.HasStyle(document.StyleEm) {
			text = "*" + text + "*"
		}
		if s.HasStyle(document.StyleStrong) {
			text = "**" + text + "**"
		}
		b.WriteString(text)
	}
	return b.String()
}

// splitRow returns the label and content children of a list row.
func splitRow(row *document.Row) (label, content []document.Primitive) {
	for _, c := range row.Cells {
		switch c.Class {
		case document.ClassItemLabel:
			label = append(label, c.Children...)
		case document.ClassItemContent:
			content = append(content, c.Children...)
		}
	}
	return label, content
}

func writeTerminal(w io.Writer, md string, opts Options) error {
	if md == "" {
		return nil
	}
	style := opts.Style
	if style == "" {
		style = "dark"
	}
	ropts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if opts.Width > 0 {
		ropts = append(ropts, glamour.WithWordWrap(opts.Width))
	}
	r, err := glamour.NewTermRenderer(ropts...)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
