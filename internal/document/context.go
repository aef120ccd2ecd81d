package document

import "slices"

// Style is an inline formatting mark.
type Style string

// Known inline styles.
const (
	StyleEm     Style = "em"
	StyleStrong Style = "strong"
	StyleCode   Style = "code"
)

// Styles lists every known style in canonical order.
func Styles() []Style {
	return []Style{StyleEm, StyleStrong, StyleCode}
}

// Context carries the inline formatting scope active when a paragraph opens.
type Context struct {
	Styles []Style
}

// IsZero reports whether the context carries no formatting.
func (c Context) IsZero() bool {
	return len(c.Styles) == 0
}

// With returns a copy of c extended with extra styles, deduplicated and
// kept in canonical order.
func (c Context) With(extra ...Style) Context {
	return Context{Styles: canonical(append(slices.Clone(c.Styles), extra...))}
}

func canonical(in []Style) []Style {
	if len(in) == 0 {
		return nil
	}
	out := make([]Style, 0, len(in))
	for _, s := range Styles() {
		if slices.Contains(in, s) {
			out = append(out, s)
		}
	}
	// Unknown styles keep their arrival order after the known ones.
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
