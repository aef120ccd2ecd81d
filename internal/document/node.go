// Package document defines the typed node tree built from document event
// streams: paragraphs, label/content lists and the document root.
package document

// Node is the capability set every element of the tree provides.
type Node interface {
	// Normalise drops empty descendants in place.
	Normalise()
	// IsEmpty reports whether the node carries no renderable content.
	IsEmpty() bool
	// Render maps the node to presentation primitives without mutating it.
	Render(opts RenderOptions) []Primitive
}

// Container is a node that consumes structural events.
type Container interface {
	Node
	// Event applies a structural event, or rejects it without mutation.
	Event(name EventName, ctx Context) Result
	// Append places a block node at the current cursor position.
	Append(n Node) Result
	// ActiveParagraph returns the paragraph that receives inline text.
	ActiveParagraph() *Paragraph
}

// Format selects the presentation target.
type Format string

// Supported presentation targets.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatTerminal Format = "terminal"
)

// RenderOptions configures Render.
type RenderOptions struct {
	Format Format
}

// EventName identifies a structural event.
type EventName string

// Structural events understood by lists and documents.
const (
	EventNewItem         EventName = "new-item"
	EventSwitchToContent EventName = "switch-to-content"
	EventNewParagraph    EventName = "new-paragraph"
)
