package document

import "errors"

// Rejection reasons reported in Result.Reason.
var (
	ErrLabelOpen    = errors.New("label region still open")
	ErrNoItem       = errors.New("no list item")
	ErrInContent    = errors.New("already in content region")
	ErrNotInList    = errors.New("event only valid inside a list")
	ErrUnknownEvent = errors.New("unknown event")
)

// Result reports whether a container consumed an event. A rejection is an
// expected outcome used for dispatch probing, not a failure.
type Result struct {
	Accepted bool
	// Reason explains a rejection; nil when accepted.
	Reason error
	// Context is the formatting context the rejected event carried, handed
	// back so the caller can reuse it.
	Context *Context
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result carrying reason and the unused context.
func Reject(reason error, ctx Context) Result {
	r := Result{Reason: reason}
	if !ctx.IsZero() {
		r.Context = &ctx
	}
	return r
}
