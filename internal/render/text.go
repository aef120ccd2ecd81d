package render

import (
	"strings"

	"github.com/starford/quire/internal/document"
)

const textIndent = "    "

// plain renders unstyled text: each label on its own line, content indented.
func plain(prims []document.Primitive) string {
	var b strings.Builder
	textBlocks(&b, prims, "")
	return b.String()
}

func textBlocks(b *strings.Builder, prims []document.Primitive, indent string) {
	for i, p := range prims {
		switch v := p.(type) {
		case *document.Block:
			if i > 0 {
				b.WriteString("\n")
			}
			var line strings.Builder
			for _, s := range v.Spans {
				line.WriteString(s.Text)
			}
			for _, l := range strings.Split(line.String(), "\n") {
				if l != "" {
					b.WriteString(indent)
					b.WriteString(l)
				}
				b.WriteString("\n")
			}
		case *document.Table:
			if i > 0 {
				b.WriteString("\n")
			}
			for _, row := range v.Rows {
				label, content := splitRow(row)
				textBlocks(b, label, indent)
				textBlocks(b, content, indent+textIndent)
			}
		}
	}
}
