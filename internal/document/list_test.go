package document

import (
	"errors"
	"reflect"
	"testing"
)

func mustAccept(t *testing.T, l *List, name EventName) {
	t.Helper()
	if r := l.Event(name, Context{}); !r.Accepted {
		t.Fatalf("%s rejected: %v", name, r.Reason)
	}
}

func TestList_ScenarioA(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	mustAccept(t, l, EventSwitchToContent)
	mustAccept(t, l, EventNewItem)

	items := l.Items()
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if len(items[0].Content) != 1 {
		t.Errorf("item 0 content = %d nodes, want 1", len(items[0].Content))
	}
	if len(items[1].Label) != 1 || len(items[1].Content) != 0 {
		t.Errorf("item 1 = %d label / %d content, want 1/0", len(items[1].Label), len(items[1].Content))
	}
}

func TestList_ScenarioB_SwitchWithoutItem(t *testing.T) {
	l := NewList()
	r := l.Event(EventSwitchToContent, Context{})
	if r.Accepted {
		t.Fatal("switch-to-content with no items should be rejected")
	}
	if !errors.Is(r.Reason, ErrNoItem) {
		t.Errorf("reason = %v, want ErrNoItem", r.Reason)
	}
	if len(l.Items()) != 0 {
		t.Errorf("items mutated: %d", len(l.Items()))
	}
}

func TestList_ScenarioC_EmptyLabelDropped(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	mustAccept(t, l, EventSwitchToContent)
	mustAccept(t, l, EventNewItem)
	// label still open, so close it before opening the third item
	mustAccept(t, l, EventSwitchToContent)
	l.ActiveParagraph().AppendText("keep")

	l.Normalise()
	if len(l.Items()) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(l.Items()))
	}
}

func TestList_ScenarioC_LabelSurvives(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	l.ActiveParagraph().AppendText("term")

	if r := l.Event(EventNewItem, Context{}); r.Accepted {
		t.Fatal("new-item while label is open should be rejected")
	}
	mustAccept(t, l, EventSwitchToContent)
	mustAccept(t, l, EventNewItem)

	l.Normalise()
	items := l.Items()
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if len(items[0].Label) != 1 || len(items[0].Content) != 0 {
		t.Errorf("item = %d label / %d content, want 1/0", len(items[0].Label), len(items[0].Content))
	}
	if got := items[0].Label[0].(*Paragraph).Text(); got != "term" {
		t.Errorf("label = %q, want term", got)
	}
}

func TestList_ScenarioD_EmptyRendersNothing(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	mustAccept(t, l, EventSwitchToContent)
	l.Normalise()

	if !l.IsEmpty() {
		t.Fatal("list of blank items should be empty after normalisation")
	}
	if out := l.Render(RenderOptions{Format: FormatHTML}); len(out) != 0 {
		t.Errorf("render = %d primitives, want 0", len(out))
	}
}

func TestList_OrderPreserved(t *testing.T) {
	l := NewList()
	for _, label := range []string{"a", "b", "c"} {
		mustAccept(t, l, EventNewItem)
		l.ActiveParagraph().AppendText(label)
		mustAccept(t, l, EventSwitchToContent)
		l.ActiveParagraph().AppendText(label + "1")
		mustAccept(t, l, EventNewParagraph)
		l.ActiveParagraph().AppendText(label + "2")
	}
	l.Normalise()

	for i, want := range []string{"a", "b", "c"} {
		it := l.Items()[i]
		if got := it.Label[0].(*Paragraph).Text(); got != want {
			t.Errorf("item %d label = %q, want %q", i, got, want)
		}
		if got := it.Content[0].(*Paragraph).Text(); got != want+"1" {
			t.Errorf("item %d content[0] = %q", i, got)
		}
		if got := it.Content[1].(*Paragraph).Text(); got != want+"2" {
			t.Errorf("item %d content[1] = %q", i, got)
		}
	}
}

func TestList_NewParagraphInLabel(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	mustAccept(t, l, EventNewParagraph)

	it := l.Items()[0]
	if len(it.Label) != 2 || len(it.Content) != 0 {
		t.Errorf("item = %d label / %d content, want 2/0", len(it.Label), len(it.Content))
	}
	if h := l.Active(); h != (Handle{Item: 0, Region: RegionLabel, Pos: 1}) {
		t.Errorf("active = %+v", h)
	}
}

func TestList_LabelClosedAfterSwitch(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	mustAccept(t, l, EventSwitchToContent)
	for i := 0; i < 3; i++ {
		mustAccept(t, l, EventNewParagraph)
	}
	if r := l.Event(EventSwitchToContent, Context{}); !errors.Is(r.Reason, ErrInContent) {
		t.Errorf("second switch reason = %v, want ErrInContent", r.Reason)
	}

	it := l.Items()[0]
	if len(it.Label) != 1 {
		t.Errorf("label grew after switch: %d nodes", len(it.Label))
	}
	if len(it.Content) != 4 {
		t.Errorf("content = %d nodes, want 4", len(it.Content))
	}
}

func TestList_NewParagraphWithoutItem(t *testing.T) {
	l := NewList()
	r := l.Event(EventNewParagraph, Context{Styles: []Style{StyleEm}})
	if r.Accepted || !errors.Is(r.Reason, ErrNoItem) {
		t.Fatalf("result = %+v, want rejection with ErrNoItem", r)
	}
	if r.Context == nil || !reflect.DeepEqual(r.Context.Styles, []Style{StyleEm}) {
		t.Errorf("rejected context not handed back: %+v", r.Context)
	}
}

func TestList_UnknownEvent(t *testing.T) {
	l := NewList()
	r := l.Event("frobnicate", Context{})
	if r.Accepted || !errors.Is(r.Reason, ErrUnknownEvent) {
		t.Errorf("result = %+v, want ErrUnknownEvent", r)
	}
}

func TestList_ContextAppliedToContent(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	if r := l.Event(EventSwitchToContent, Context{Styles: []Style{StyleStrong}}); !r.Accepted {
		t.Fatalf("switch rejected: %v", r.Reason)
	}
	l.ActiveParagraph().AppendText("bold")
	spans := l.ActiveParagraph().Spans()
	if len(spans) != 1 || !spans[0].HasStyle(StyleStrong) {
		t.Errorf("spans = %+v, want strong run", spans)
	}
}

func TestList_NormaliseIdempotent(t *testing.T) {
	build := func() *List {
		l := NewList()
		mustAccept(t, l, EventNewItem)
		l.ActiveParagraph().AppendText("  x ")
		mustAccept(t, l, EventNewParagraph)
		mustAccept(t, l, EventSwitchToContent)
		mustAccept(t, l, EventNewItem)
		mustAccept(t, l, EventSwitchToContent)
		l.ActiveParagraph().AppendText("y")
		mustAccept(t, l, EventNewItem)
		return l
	}

	once := build()
	once.Normalise()
	twice := build()
	twice.Normalise()
	twice.Normalise()

	opts := RenderOptions{Format: FormatHTML}
	if !reflect.DeepEqual(once.Render(opts), twice.Render(opts)) {
		t.Error("second normalisation changed the rendered structure")
	}
	if len(twice.Items()) != 2 {
		t.Errorf("len(items) = %d, want 2", len(twice.Items()))
	}
}

func TestList_IsEmptyMatchesItems(t *testing.T) {
	l := NewList()
	if !l.IsEmpty() {
		t.Error("new list should be empty")
	}
	mustAccept(t, l, EventNewItem)
	if l.IsEmpty() {
		t.Error("list with an item should not be empty before normalisation")
	}
	l.Normalise()
	if !l.IsEmpty() || len(l.Items()) != 0 {
		t.Error("blank item should be elided")
	}
}

func TestList_PlaceholderNeverRendered(t *testing.T) {
	l := NewList()
	l.ActiveParagraph().AppendText("stray text")

	if out := l.Render(RenderOptions{Format: FormatHTML}); len(out) != 0 {
		t.Errorf("render before first item = %d primitives, want 0", len(out))
	}
	l.Normalise()
	if !l.IsEmpty() {
		t.Error("placeholder content leaked into items")
	}
}

func TestList_PlaceholderDiscardedOnceItemsExist(t *testing.T) {
	l := NewList()
	l.ActiveParagraph().AppendText("stray")
	mustAccept(t, l, EventNewItem)
	l.ActiveParagraph().AppendText("label")
	l.Normalise()

	if got := PlainText(l); got != "label\n" {
		t.Errorf("text = %q, want only the label", got)
	}
}

func TestList_AppendNested(t *testing.T) {
	l := NewList()
	inner := NewList()
	if r := l.Append(inner); r.Accepted {
		t.Fatal("append before first item should be rejected")
	}

	mustAccept(t, l, EventNewItem)
	l.ActiveParagraph().AppendText("outer")
	mustAccept(t, l, EventSwitchToContent)
	if r := l.Append(inner); !r.Accepted {
		t.Fatalf("append rejected: %v", r.Reason)
	}
	mustAccept(t, inner, EventNewItem)
	inner.ActiveParagraph().AppendText("inner")

	l.Normalise()
	it := l.Items()[0]
	if len(it.Content) != 1 {
		t.Fatalf("content = %d nodes, want nested list only", len(it.Content))
	}
	if _, ok := it.Content[0].(*List); !ok {
		t.Errorf("content[0] = %T, want *List", it.Content[0])
	}
}

func TestList_RenderShape(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	l.ActiveParagraph().AppendText("term")
	mustAccept(t, l, EventSwitchToContent)
	l.ActiveParagraph().AppendText("definition")
	l.Normalise()

	out := l.Render(RenderOptions{Format: FormatHTML})
	if len(out) != 1 {
		t.Fatalf("render = %d primitives, want 1", len(out))
	}
	table, ok := out[0].(*Table)
	if !ok || table.Class != ClassList {
		t.Fatalf("primitive = %#v, want list table", out[0])
	}
	if len(table.Rows) != 1 || len(table.Rows[0].Cells) != 2 {
		t.Fatalf("unexpected table shape: %+v", table)
	}
	label, content := table.Rows[0].Cells[0], table.Rows[0].Cells[1]
	if label.Class != ClassItemLabel || content.Class != ClassItemContent {
		t.Errorf("cell classes = %q, %q", label.Class, content.Class)
	}
	if b := label.Children[0].(*Block); b.Spans[0].Text != "term" {
		t.Errorf("label text = %q", b.Spans[0].Text)
	}
}

func TestList_CursorAfterNormalise(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	l.ActiveParagraph().AppendText("x")
	l.Normalise()

	if c := l.Cursor(); c.State != CursorInLabel || c.Item != 0 {
		t.Errorf("cursor = %+v, want label of item 0", c)
	}
	if r := l.Event(EventNewItem, Context{}); r.Accepted || !errors.Is(r.Reason, ErrLabelOpen) {
		t.Errorf("new-item result = %+v, want ErrLabelOpen", r)
	}
}

func TestList_CursorFollowsSurvivingItem(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	mustAccept(t, l, EventNewItem)
	l.ActiveParagraph().AppendText("second")
	mustAccept(t, l, EventSwitchToContent)
	l.Normalise()

	if n := len(l.Items()); n != 1 {
		t.Fatalf("items = %d, want 1", n)
	}
	if c := l.Cursor(); c.State != CursorInContent || c.Item != 0 {
		t.Errorf("cursor = %+v, want content of item 0", c)
	}
}

func TestList_CursorOnElidedItemMovesToLastContent(t *testing.T) {
	l := NewList()
	mustAccept(t, l, EventNewItem)
	l.ActiveParagraph().AppendText("first")
	mustAccept(t, l, EventSwitchToContent)
	mustAccept(t, l, EventNewItem)
	l.Normalise()

	if n := len(l.Items()); n != 1 {
		t.Fatalf("items = %d, want 1", n)
	}
	if c := l.Cursor(); c.State != CursorInContent || c.Item != 0 {
		t.Errorf("cursor = %+v, want content of item 0", c)
	}
	mustAccept(t, l, EventNewParagraph)
	if it := l.Items()[0]; len(it.Label) != 1 || len(it.Content) != 1 {
		t.Errorf("item = %d label / %d content, want 1/1", len(it.Label), len(it.Content))
	}
}
