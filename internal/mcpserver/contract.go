package mcpserver

// EventFormatContract describes the .qdoc event stream that LLM consumers
// should follow when creating documents.
const EventFormatContract = `# Quire Event Format

A document is a YAML file with the ` + "`.qdoc`" + ` extension. Its body is an
ordered list of events that build a tree of paragraphs and two-column lists.

## Structure

` + "```" + `yaml
title: Glossary          # OPTIONAL; defaults to the first text run
tags: [reference]        # OPTIONAL; lowercased and de-duplicated
events:
  - text: Terms used below.
  - begin-list
  - new-item
  - text: Label
  - switch-to-content
  - text: The left cell of an item.
  - new-paragraph
  - text: A second content paragraph.
  - end-list
` + "```" + `

An event is either a bare name or a mapping with ` + "`event`" + `, ` + "`text`" + ` and
` + "`styles`" + ` keys. A mapping with only ` + "`text`" + ` is a text run.
Styles: ` + "`em`" + `, ` + "`strong`" + `, ` + "`code`" + `.

## Events

| event | effect |
|---|---|
| text | appends a run to the active paragraph |
| begin-list | opens a list inside the current container |
| end-list | closes the innermost list; following text starts a new paragraph |
| new-item | starts an item and places the cursor in its label |
| switch-to-content | moves from the label to the content of the current item |
| new-paragraph | starts a new paragraph in the current region |

## Rules

1. ` + "`new-item`" + ` is rejected while a label is open with no content: send
   ` + "`switch-to-content`" + ` first.
2. ` + "`switch-to-content`" + ` and ` + "`new-paragraph`" + ` are rejected before the first
   ` + "`new-item`" + ` of a list.
3. ` + "`switch-to-content`" + ` is rejected when already in content.
4. Text sent before the first ` + "`new-item`" + ` of a list is discarded.
5. Rejected events are reported as diagnostics; in strict mode the whole
   document is refused.
6. Empty paragraphs, labels and items are removed when the document is
   compiled. A list with no items renders as nothing.
7. Lists nest: ` + "`begin-list`" + ` inside a label or content opens a child list.
`
