package content

import (
	"strings"

	"mdx/markdown"
)

// Footnote is a single snapshot entry: a resolved id, the identifier it was
// allocated for and the matching definition when one exists.
type Footnote struct {
	ID         int
	Identifier string
	Definition *markdown.Node
}

// Text flattens the definition body to plain text. Dangling references
// produce an empty body rather than an error.
func (f Footnote) Text() string {
	if f.Definition == nil {
		return ""
	}
	return f.Definition.AsPlainText()
}

// Footnotes assigns stable sequential ids to footnote references in
// first-reference order, independent of definition order. Identifiers are
// compared case-insensitively. One fresh table is constructed per emission
// call and never shared across calls.
type Footnotes struct {
	ids   map[string]int
	order []string
	defs  map[string]*markdown.Node
}

// NewFootnotes collects footnote definitions from the tree. No ids are
// allocated yet - that happens on first reference during run composition.
func NewFootnotes(root *markdown.Node) *Footnotes {
	f := &Footnotes{
		ids:  make(map[string]int),
		defs: make(map[string]*markdown.Node),
	}
	f.collect(root)
	return f
}

func (f *Footnotes) collect(n *markdown.Node) {
	if n.Kind == markdown.KindFootnoteDefinition {
		key := fold(n.Identifier)
		// first definition wins on duplicates
		if _, exists := f.defs[key]; !exists {
			f.defs[key] = n
		}
		return
	}
	for _, child := range n.Children {
		f.collect(child)
	}
}

// Resolve returns the id for an identifier, allocating the next one on
// first encounter. An identifier without a matching definition still
// receives an id - its body renders empty.
func (f *Footnotes) Resolve(identifier string) int {
	key := fold(identifier)
	if id, ok := f.ids[key]; ok {
		return id
	}
	id := len(f.order) + 1
	f.ids[key] = id
	f.order = append(f.order, key)
	return id
}

// Len returns the number of ids allocated so far.
func (f *Footnotes) Len() int {
	return len(f.order)
}

// Snapshot returns all allocated footnotes in ascending id order.
func (f *Footnotes) Snapshot() []Footnote {
	out := make([]Footnote, 0, len(f.order))
	for i, key := range f.order {
		out = append(out, Footnote{
			ID:         i + 1,
			Identifier: key,
			Definition: f.defs[key],
		})
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
