package document

// Stats summarises the shape of a tree.
type Stats struct {
	Paragraphs int `json:"paragraphs"`
	Lists      int `json:"lists"`
	Items      int `json:"items"`
}

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	switch v := n.(type) {
	case *Document:
		for _, b := range v.blocks {
			Walk(b, fn)
		}
	case *List:
		for _, it := range v.items {
			for _, c := range it.Label {
				Walk(c, fn)
			}
			for _, c := range it.Content {
				Walk(c, fn)
			}
		}
	}
}

// Collect counts the nodes of a tree.
func Collect(n Node) Stats {
	var s Stats
	Walk(n, func(n Node) bool {
		switch v := n.(type) {
		case *Paragraph:
			s.Paragraphs++
		case *List:
			s.Lists++
			s.Items += len(v.items)
		}
		return true
	})
	return s
}

// PlainText returns the text of every paragraph, one per line.
func PlainText(n Node) string {
	var out []byte
	Walk(n, func(n Node) bool {
		if p, ok := n.(*Paragraph); ok && !p.IsEmpty() {
			out = append(out, p.Text()...)
			out = append(out, '\n')
		}
		return true
	})
	return string(out)
}
