package document

// Primitive is an abstract output unit consumed by the presentation layer.
type Primitive interface {
	primitive()
}

// Span is a run of text sharing one set of styles.
type Span struct {
	Text   string
	Styles []Style
}

// HasStyle reports whether s is marked with style.
func (s Span) HasStyle(style Style) bool {
	for _, st := range s.Styles {
		if st == style {
			return true
		}
	}
	return false
}

// Block is a paragraph of spans.
type Block struct {
	Spans []Span
}

// Table is a row/column structure. Lists map to a two-column table.
type Table struct {
	Class string
	Rows  []*Row
}

// Row is one table row.
type Row struct {
	Class string
	Cells []*Cell
}

// Cell is one table cell holding nested primitives.
type Cell struct {
	Class    string
	Children []Primitive
}

func (*Block) primitive() {}
func (*Table) primitive() {}
func (*Row) primitive()   {}
func (*Cell) primitive()  {}

// Presentation classes emitted for lists.
const (
	ClassList        = "list"
	ClassItem        = "list-item"
	ClassItemLabel   = "list-item-label"
	ClassItemContent = "list-item-content"
)
