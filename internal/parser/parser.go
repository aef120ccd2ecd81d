// Package parser reads .qdoc event-stream sources: a YAML document with a
// title, tags and the ordered list of structural and inline events.
package parser

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/document"
)

// Kind classifies an event entry.
type Kind string

// Event kinds. List events are forwarded to the active container verbatim.
const (
	KindText            Kind = "text"
	KindBeginList       Kind = "begin-list"
	KindEndList         Kind = "end-list"
	KindNewItem         Kind = Kind(document.EventNewItem)
	KindSwitchToContent Kind = Kind(document.EventSwitchToContent)
	KindNewParagraph    Kind = Kind(document.EventNewParagraph)
)

// Kinds lists every accepted event kind.
func Kinds() []Kind {
	return []Kind{KindText, KindBeginList, KindEndList, KindNewItem, KindSwitchToContent, KindNewParagraph}
}

// Event is one entry of the stream. A bare scalar is shorthand for an event
// name; a mapping with only text is a text run.
type Event struct {
	Name   Kind             `yaml:"event,omitempty" json:"event,omitempty"`
	Text   string           `yaml:"text,omitempty" json:"text,omitempty"`
	Styles []document.Style `yaml:"styles,omitempty" json:"styles,omitempty"`
	Line   int              `yaml:"-" json:"line,omitempty"`
}

// Kind returns the event kind, resolving text shorthand.
func (e Event) Kind() Kind {
	if e.Name == "" {
		return KindText
	}
	return e.Name
}

// Context returns the formatting context carried by the event.
func (e Event) Context() document.Context {
	return document.Context{Styles: e.Styles}
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (e *Event) UnmarshalYAML(n *yaml.Node) error {
	e.Line = n.Line
	switch n.Kind {
	case yaml.ScalarNode:
		e.Name = Kind(strings.TrimSpace(n.Value))
		return nil
	case yaml.MappingNode:
		type plain Event
		var p plain
		if err := n.Decode(&p); err != nil {
			return err
		}
		p.Line = n.Line
		*e = Event(p)
		return nil
	}
	return fmt.Errorf("line %d: event must be a name or a mapping", n.Line)
}

// Validate checks names, styles and the text/event exclusivity.
func (e Event) Validate() error {
	kinds := make([]any, 0, len(Kinds()))
	for _, k := range Kinds() {
		kinds = append(kinds, k)
	}
	styles := make([]any, 0, len(document.Styles()))
	for _, s := range document.Styles() {
		styles = append(styles, s)
	}
	isText := e.Kind() == KindText
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.In(kinds...)),
		validation.Field(&e.Text,
			validation.When(isText, validation.Required),
			validation.When(!isText, validation.Empty.Error("only text events carry text")),
		),
		validation.Field(&e.Styles, validation.Each(validation.In(styles...))),
	)
}

// Result holds a parsed source.
type Result struct {
	Title  string
	Tags   []string
	Events []Event
}

type source struct {
	Title  string   `yaml:"title"`
	Tags   []string `yaml:"tags"`
	Events []Event  `yaml:"events"`
}

// Parse decodes and validates a .qdoc source.
func Parse(data []byte) (*Result, error) {
	var src source
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidDocument, err)
	}
	for i, ev := range src.Events {
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("%w: event %d (line %d): %v", apperr.ErrInvalidDocument, i, ev.Line, err)
		}
	}
	return &Result{
		Title:  deriveTitle(src.Title, src.Events),
		Tags:   normaliseTags(src.Tags),
		Events: src.Events,
	}, nil
}

// normaliseTags trims and deduplicates tags, keeping first-seen order.
func normaliseTags(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// deriveTitle returns the declared title, otherwise the first non-blank text
// run, otherwise empty string.
func deriveTitle(title string, events []Event) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	for _, ev := range events {
		if ev.Kind() != KindText {
			continue
		}
		if t := strings.TrimSpace(ev.Text); t != "" {
			return t
		}
	}
	return ""
}
