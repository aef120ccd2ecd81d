package document

// Document is the root container: an ordered sequence of blocks.
type Document struct {
	blocks []Node
	active int
}

// New creates a document holding one empty paragraph.
func New() *Document {
	return &Document{blocks: []Node{NewParagraph(Context{})}}
}

// Blocks returns the top-level nodes.
func (d *Document) Blocks() []Node {
	return d.blocks
}

// Event accepts new-paragraph; list events are rejected at the root.
func (d *Document) Event(name EventName, ctx Context) Result {
	switch name {
	case EventNewParagraph:
		d.blocks = append(d.blocks, NewParagraph(ctx))
		d.active = len(d.blocks) - 1
		return Accept()
	case EventNewItem, EventSwitchToContent:
		return Reject(ErrNotInList, ctx)
	}
	return Reject(ErrUnknownEvent, ctx)
}

// Append adds a block at the end of the document.
func (d *Document) Append(n Node) Result {
	d.blocks = append(d.blocks, n)
	return Accept()
}

// ActiveParagraph returns the most recently opened top-level paragraph.
func (d *Document) ActiveParagraph() *Paragraph {
	if d.active < len(d.blocks) {
		if p, ok := d.blocks[d.active].(*Paragraph); ok {
			return p
		}
	}
	// Unreachable through Event/Append, kept for a zero Document.
	p := NewParagraph(Context{})
	d.blocks = append(d.blocks, p)
	d.active = len(d.blocks) - 1
	return p
}

// Normalise recursively drops empty blocks.
func (d *Document) Normalise() {
	d.blocks = pruneEmpty(d.blocks)
	d.active = len(d.blocks)
}

// IsEmpty reports whether no block survives.
func (d *Document) IsEmpty() bool {
	for _, b := range d.blocks {
		if !b.IsEmpty() {
			return false
		}
	}
	return true
}

// Render concatenates the primitives of every block.
func (d *Document) Render(opts RenderOptions) []Primitive {
	return renderAll(d.blocks, opts)
}
