package render

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/starford/quire/internal/document"
)

var styleAtoms = map[document.Style]atom.Atom{
	document.StyleEm:     atom.Em,
	document.StyleStrong: atom.Strong,
	document.StyleCode:   atom.Code,
}

func writeHTML(w io.Writer, prims []document.Primitive) error {
	for _, p := range prims {
		if err := html.Render(w, htmlNode(p)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func htmlNode(p document.Primitive) *html.Node {
	switch v := p.(type) {
	case *document.Block:
		para := element(atom.P, "")
		for _, s := range v.Spans {
			para.AppendChild(spanNode(s))
		}
		return para
	case *document.Table:
		table := element(atom.Table, v.Class)
		for _, r := range v.Rows {
			table.AppendChild(htmlNode(r))
		}
		return table
	case *document.Row:
		tr := element(atom.Tr, v.Class)
		for _, c := range v.Cells {
			tr.AppendChild(htmlNode(c))
		}
		return tr
	case *document.Cell:
		td := element(atom.Td, v.Class)
		for _, c := range v.Children {
			td.AppendChild(htmlNode(c))
		}
		return td
	}
	return &html.Node{Type: html.CommentNode, Data: "unsupported primitive"}
}

// spanNode nests one element per style around the text, outermost first.
func spanNode(s document.Span) *html.Node {
	text := &html.Node{Type: html.TextNode, Data: s.Text}
	if len(s.Styles) == 0 {
		return text
	}
	var root, inner *html.Node
	for _, st := range s.Styles {
		a, ok := styleAtoms[st]
		if !ok {
			a = atom.Span
		}
		el := element(a, "")
		if root == nil {
			root = el
		} else {
			inner.AppendChild(el)
		}
		inner = el
	}
	inner.AppendChild(text)
	return root
}
