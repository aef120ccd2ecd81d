package document

// Region selects the label or content side of a list item.
type Region int

// Item regions.
const (
	RegionLabel Region = iota
	RegionContent
)

func (r Region) String() string {
	if r == RegionContent {
		return "content"
	}
	return "label"
}

// CursorState is the list's construction mode.
type CursorState int

// Cursor states. Idle holds only before the first item.
const (
	CursorIdle CursorState = iota
	CursorInLabel
	CursorInContent
)

// Cursor addresses the item and region receiving new paragraphs.
type Cursor struct {
	State CursorState
	Item  int
}

// Handle locates a paragraph inside a list without holding a pointer to it.
// Item is -1 for the placeholder paragraph.
type Handle struct {
	Item   int
	Region Region
	Pos    int
}

var placeholderHandle = Handle{Item: -1}

// Item is one row of a list.
type Item struct {
	Label   []Node
	Content []Node
}

func (it *Item) region(r Region) *[]Node {
	if r == RegionContent {
		return &it.Content
	}
	return &it.Label
}

// List is a sequence of items, each split into a label and a content region.
// Items are opened with new-item; switch-to-content closes the label for good.
type List struct {
	items  []*Item
	cursor Cursor
	active Handle

	// placeholder swallows inline content that arrives before the first
	// item. It is never rendered.
	placeholder *Paragraph
}

// NewList creates an empty list.
func NewList() *List {
	return &List{
		active:      placeholderHandle,
		placeholder: NewParagraph(Context{}),
	}
}

// Items returns the list rows in document order.
func (l *List) Items() []*Item {
	return l.items
}

// Cursor returns the current construction mode.
func (l *List) Cursor() Cursor {
	return l.cursor
}

// Active returns the handle of the active paragraph.
func (l *List) Active() Handle {
	return l.active
}

// Event applies one structural event.
func (l *List) Event(name EventName, ctx Context) Result {
	switch name {
	case EventNewItem:
		if l.cursor.State == CursorInLabel {
			return Reject(ErrLabelOpen, ctx)
		}
		l.items = append(l.items, &Item{Label: []Node{NewParagraph(Context{})}})
		idx := len(l.items) - 1
		l.cursor = Cursor{State: CursorInLabel, Item: idx}
		l.active = Handle{Item: idx, Region: RegionLabel, Pos: 0}
		return Accept()

	case EventSwitchToContent:
		switch l.cursor.State {
		case CursorIdle:
			return Reject(ErrNoItem, ctx)
		case CursorInContent:
			return Reject(ErrInContent, ctx)
		}
		l.cursor.State = CursorInContent
		l.active = l.push(RegionContent, NewParagraph(ctx))
		return Accept()

	case EventNewParagraph:
		if l.cursor.State == CursorIdle {
			return Reject(ErrNoItem, ctx)
		}
		l.active = l.push(l.region(), NewParagraph(ctx))
		return Accept()
	}
	return Reject(ErrUnknownEvent, ctx)
}

// Append places n in the cursor region of the cursor item.
func (l *List) Append(n Node) Result {
	if l.cursor.State == CursorIdle {
		return Reject(ErrNoItem, Context{})
	}
	l.push(l.region(), n)
	return Accept()
}

// ActiveParagraph resolves the active handle. Before the first item this is
// the placeholder.
func (l *List) ActiveParagraph() *Paragraph {
	if l.active.Item < 0 || l.active.Item >= len(l.items) {
		return l.placeholder
	}
	nodes := *l.items[l.active.Item].region(l.active.Region)
	if l.active.Pos >= len(nodes) {
		return l.placeholder
	}
	if p, ok := nodes[l.active.Pos].(*Paragraph); ok {
		return p
	}
	return l.placeholder
}

func (l *List) region() Region {
	if l.cursor.State == CursorInContent {
		return RegionContent
	}
	return RegionLabel
}

func (l *List) push(r Region, n Node) Handle {
	nodes := l.items[l.cursor.Item].region(r)
	*nodes = append(*nodes, n)
	return Handle{Item: l.cursor.Item, Region: r, Pos: len(*nodes) - 1}
}

// Normalise prunes empty nodes and then empty items. Handles taken before
// the call are invalidated. The cursor keeps its mode when its item
// survives; otherwise it moves to the content of the last surviving item so
// that no closed label reopens.
func (l *List) Normalise() {
	cur := -1
	kept := l.items[:0]
	for i, it := range l.items {
		it.Label = pruneEmpty(it.Label)
		it.Content = pruneEmpty(it.Content)
		if len(it.Label) > 0 || len(it.Content) > 0 {
			if l.cursor.State != CursorIdle && i == l.cursor.Item {
				cur = len(kept)
			}
			kept = append(kept, it)
		}
	}
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = nil
	}
	l.items = kept

	l.placeholder = NewParagraph(Context{})
	l.active = placeholderHandle
	switch {
	case len(l.items) == 0:
		l.cursor = Cursor{State: CursorIdle}
	case cur >= 0:
		l.cursor.Item = cur
	default:
		l.cursor = Cursor{State: CursorInContent, Item: len(l.items) - 1}
	}
}

// IsEmpty reports whether no items exist.
func (l *List) IsEmpty() bool {
	return len(l.items) == 0
}

// Render maps the list to one two-column table, or nothing when empty.
func (l *List) Render(opts RenderOptions) []Primitive {
	if l.IsEmpty() {
		return nil
	}
	table := &Table{Class: ClassList, Rows: make([]*Row, 0, len(l.items))}
	for _, it := range l.items {
		table.Rows = append(table.Rows, &Row{
			Class: ClassItem,
			Cells: []*Cell{
				{Class: ClassItemLabel, Children: renderAll(it.Label, opts)},
				{Class: ClassItemContent, Children: renderAll(it.Content, opts)},
			},
		})
	}
	return []Primitive{table}
}

func pruneEmpty(nodes []Node) []Node {
	out := nodes[:0]
	for _, n := range nodes {
		n.Normalise()
		if !n.IsEmpty() {
			out = append(out, n)
		}
	}
	for i := len(out); i < len(nodes); i++ {
		nodes[i] = nil
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func renderAll(nodes []Node, opts RenderOptions) []Primitive {
	var out []Primitive
	for _, n := range nodes {
		out = append(out, n.Render(opts)...)
	}
	return out
}
