// Package dispatch feeds parsed events into a document tree, routing each
// one to the innermost open container.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/quire/internal/document"
	"github.com/starford/quire/internal/parser"
)

// ErrUnclosedList is the reason recorded for lists still open at Finish.
var ErrUnclosedList = errors.New("list not closed")

// errRootEnd is the reason recorded for end-list with no open list.
var errRootEnd = errors.New("no open list to end")

// Diagnostic records an event the tree did not consume.
type Diagnostic struct {
	Index  int         `json:"index"`
	Line   int         `json:"line,omitempty"`
	Event  parser.Kind `json:"event"`
	Reason string      `json:"reason"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("event %d (line %d) %s: %s", d.Index, d.Line, d.Event, d.Reason)
	}
	return fmt.Sprintf("event %d %s: %s", d.Index, d.Event, d.Reason)
}

// SyntaxError is returned in strict mode for the first rejected event.
type SyntaxError struct {
	Diagnostic
	Err error
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Diagnostic.String()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for lenient-mode warnings.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithStrict makes rejected events fatal.
func WithStrict(strict bool) Option {
	return func(d *Dispatcher) {
		d.strict = strict
	}
}

// Dispatcher holds the container stack for one document.
type Dispatcher struct {
	root   *document.Document
	stack  []document.Container
	logger *slog.Logger
	strict bool

	// pending is formatting context handed back by a rejected event, reused
	// by the next paragraph-opening event that has none of its own.
	pending *document.Context

	diags []Diagnostic
	index int
}

// New creates a dispatcher over a fresh document.
func New(opts ...Option) *Dispatcher {
	root := document.New()
	d := &Dispatcher{
		root:   root,
		stack:  []document.Container{root},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) top() document.Container {
	return d.stack[len(d.stack)-1]
}

// Depth returns the number of open lists.
func (d *Dispatcher) Depth() int {
	return len(d.stack) - 1
}

// Dispatch applies one event. It only returns an error in strict mode.
func (d *Dispatcher) Dispatch(ev parser.Event) error {
	defer func() { d.index++ }()

	switch ev.Kind() {
	case parser.KindText:
		d.top().ActiveParagraph().AppendText(ev.Text, ev.Styles...)
		return nil

	case parser.KindBeginList:
		l := document.NewList()
		if res := d.top().Append(l); !res.Accepted {
			return d.reject(ev, res)
		}
		d.stack = append(d.stack, l)
		return nil

	case parser.KindEndList:
		if len(d.stack) == 1 {
			return d.reject(ev, document.Reject(errRootEnd, ev.Context()))
		}
		d.stack = d.stack[:len(d.stack)-1]
		// Trailing text belongs after the closed list, not before it.
		d.top().Event(document.EventNewParagraph, document.Context{})
		return nil
	}

	ctx := ev.Context()
	if ctx.IsZero() && d.pending != nil && opensParagraph(ev.Kind()) {
		ctx = *d.pending
	}
	res := d.top().Event(document.EventName(ev.Kind()), ctx)
	if !res.Accepted {
		return d.reject(ev, res)
	}
	if opensParagraph(ev.Kind()) {
		d.pending = nil
	}
	return nil
}

func opensParagraph(k parser.Kind) bool {
	return k == parser.KindSwitchToContent || k == parser.KindNewParagraph
}

func (d *Dispatcher) reject(ev parser.Event, res document.Result) error {
	diag := Diagnostic{
		Index:  d.index,
		Line:   ev.Line,
		Event:  ev.Kind(),
		Reason: res.Reason.Error(),
	}
	if d.strict {
		return &SyntaxError{Diagnostic: diag, Err: res.Reason}
	}
	if res.Context != nil {
		d.pending = res.Context
	}
	d.diags = append(d.diags, diag)
	d.logger.Warn("dispatch: event rejected",
		slog.Int("index", diag.Index),
		slog.Int("line", diag.Line),
		slog.String("event", string(diag.Event)),
		slog.String("reason", diag.Reason))
	return nil
}

// Finish closes any open lists, normalises the tree and returns it.
func (d *Dispatcher) Finish() (*document.Document, []Diagnostic, error) {
	if open := len(d.stack) - 1; open > 0 {
		diag := Diagnostic{
			Index:  d.index,
			Event:  parser.KindEndList,
			Reason: fmt.Sprintf("%s (%d open)", ErrUnclosedList, open),
		}
		if d.strict {
			return nil, nil, &SyntaxError{Diagnostic: diag, Err: ErrUnclosedList}
		}
		d.diags = append(d.diags, diag)
		d.logger.Warn("dispatch: closing open lists", slog.Int("open", open))
		d.stack = d.stack[:1]
	}
	d.root.Normalise()
	return d.root, d.diags, nil
}

// Compile dispatches every event and finishes the document.
func Compile(events []parser.Event, opts ...Option) (*document.Document, []Diagnostic, error) {
	d := New(opts...)
	for _, ev := range events {
		if err := d.Dispatch(ev); err != nil {
			return nil, nil, err
		}
	}
	return d.Finish()
}
