package content

import (
	"strconv"

	"mdx/markdown"
)

// StyleFlags is the composed inline style of a run. Values are immutable -
// composition always produces a new merged value, never mutates in place.
type StyleFlags struct {
	Bold        bool
	Italic      bool
	Superscript bool
}

// Merge combines two flag sets by logical OR.
func (s StyleFlags) Merge(o StyleFlags) StyleFlags {
	return StyleFlags{
		Bold:        s.Bold || o.Bold,
		Italic:      s.Italic || o.Italic,
		Superscript: s.Superscript || o.Superscript,
	}
}

// Variant maps the flags to the four measurable style variants understood
// by the font metrics collaborator ("" regular, "B", "I", "BI").
func (s StyleFlags) Variant() string {
	switch {
	case s.Bold && s.Italic:
		return "BI"
	case s.Bold:
		return "B"
	case s.Italic:
		return "I"
	default:
		return ""
	}
}

// Run is a maximal span of text sharing one composed style - the atomic
// unit consumed by both emitters. Footnote carries the resolved id for
// reference runs (the Text keeps the "[n]" placeholder for non-packaged
// consumers, the flow emitter substitutes a structural marker). Link holds
// the target for runs composed inside a link.
type Run struct {
	Text     string
	Style    StyleFlags
	Mono     bool
	Footnote int
	Link     string
}

// ComposeInline walks inline nodes accumulating style flags down the
// recursion and emits the flat ordered run sequence. Unrecognized kinds
// recurse into their children with unchanged style instead of failing.
func ComposeInline(nodes []*markdown.Node, inherited StyleFlags, fn *Footnotes) []Run {
	var out []Run
	for _, n := range nodes {
		out = append(out, composeNode(n, inherited, fn)...)
	}
	return coalesce(out)
}

func composeNode(n *markdown.Node, inherited StyleFlags, fn *Footnotes) []Run {
	switch n.Kind {
	case markdown.KindText:
		if n.Text == "" {
			return nil
		}
		return []Run{{Text: n.Text, Style: inherited}}
	case markdown.KindInlineCode:
		if n.Text == "" {
			return nil
		}
		return []Run{{Text: n.Text, Style: inherited, Mono: true}}
	case markdown.KindStrong:
		return composeChildren(n, inherited.Merge(StyleFlags{Bold: true}), fn)
	case markdown.KindEmphasis:
		return composeChildren(n, inherited.Merge(StyleFlags{Italic: true}), fn)
	case markdown.KindLineBreak:
		return []Run{{Text: "\n", Style: inherited}}
	case markdown.KindFootnoteReference:
		id := fn.Resolve(n.Identifier)
		return []Run{{
			Text:     "[" + strconv.Itoa(id) + "]",
			Style:    inherited.Merge(StyleFlags{Superscript: true}),
			Footnote: id,
		}}
	case markdown.KindLink:
		runs := composeChildren(n, inherited, fn)
		for i := range runs {
			runs[i].Link = n.Target
		}
		return runs
	default:
		// forward compatibility: unknown marks lose formatting, keep text
		return composeChildren(n, inherited, fn)
	}
}

func composeChildren(n *markdown.Node, inherited StyleFlags, fn *Footnotes) []Run {
	var out []Run
	for _, child := range n.Children {
		out = append(out, composeNode(child, inherited, fn)...)
	}
	return out
}

// coalesce merges adjacent runs with identical attributes so runs stay
// maximal. Footnote reference runs are never merged - emitters key on them.
func coalesce(runs []Run) []Run {
	if len(runs) < 2 {
		return runs
	}
	out := runs[:1]
	for _, r := range runs[1:] {
		last := &out[len(out)-1]
		if r.Footnote == 0 && last.Footnote == 0 &&
			r.Style == last.Style && r.Mono == last.Mono && r.Link == last.Link {
			last.Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
