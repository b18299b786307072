package content

import (
	"strconv"

	"mdx/markdown"
)

// Role classifies an abstract paragraph record.
type Role string

const (
	RoleBody     Role = "body"
	RoleHeading  Role = "heading"
	RoleQuote    Role = "quote"
	RoleListItem Role = "list-item"
	RoleCode     Role = "code"
	RoleSpacer   Role = "spacer"
)

// BulletMarker prefixes unordered list items in non-packaged output.
const BulletMarker = "- "

// Para is one abstract paragraph record: style role, composed runs and
// structural metadata. Prefix carries the list/quote indicator for the
// plain-text and paginated paths; the flow emitter uses the structural
// metadata instead.
type Para struct {
	Role         Role
	HeadingDepth int
	ListDepth    int
	Index        int // 1-based position for ordered list items
	Ordered      bool
	Prefix       string
	Runs         []Run
}

// Translate walks the document tree in pre-order, left to right, producing
// the flat paragraph sequence and the footnote table of one emission call.
// Both emitters invoke it independently; the shared traversal order is what
// keeps footnote numbering identical between their artifacts.
func Translate(root *markdown.Node) ([]Para, *Footnotes) {
	fn := NewFootnotes(root)
	var paras []Para
	for _, n := range root.Children {
		paras = translateBlock(paras, n, 0, fn)
	}
	return paras, fn
}

func translateBlock(paras []Para, n *markdown.Node, depth int, fn *Footnotes) []Para {
	switch n.Kind {
	case markdown.KindHeading:
		return append(paras, Para{
			Role:         RoleHeading,
			HeadingDepth: n.Depth,
			Runs:         ComposeInline(n.Children, StyleFlags{}, fn),
		})
	case markdown.KindParagraph:
		role := RoleBody
		if depth > 0 {
			// paragraph belongs to a list item beyond its first one
			role = RoleListItem
		}
		return append(paras, Para{
			Role:      role,
			ListDepth: depth,
			Runs:      ComposeInline(n.Children, StyleFlags{}, fn),
		})
	case markdown.KindBlockquote:
		// deliberate simplification: quotes flatten to plain text, losing
		// internal marks and references
		return append(paras, Para{
			Role:   RoleQuote,
			Prefix: "> ",
			Runs:   []Run{{Text: n.AsPlainText()}},
		})
	case markdown.KindList:
		return translateList(paras, n, depth, fn)
	case markdown.KindCodeBlock:
		return append(paras, Para{
			Role: RoleCode,
			Runs: []Run{{Text: n.Text, Mono: true}},
		})
	case markdown.KindThematicBreak:
		return append(paras, Para{Role: RoleSpacer})
	case markdown.KindFootnoteDefinition:
		// bodies are rendered from the footnote snapshot, not inline
		return paras
	default:
		for _, child := range n.Children {
			paras = translateBlock(paras, child, depth, fn)
		}
		return paras
	}
}

func translateList(paras []Para, list *markdown.Node, depth int, fn *Footnotes) []Para {
	index := 0
	for _, item := range list.Children {
		if item.Kind != markdown.KindListItem {
			paras = translateBlock(paras, item, depth, fn)
			continue
		}
		index++

		prefix := BulletMarker
		if list.Ordered {
			prefix = strconv.Itoa(index) + ". "
		}

		rest := item.Children
		if len(rest) > 0 && rest[0].Kind == markdown.KindParagraph {
			paras = append(paras, Para{
				Role:      RoleListItem,
				ListDepth: depth,
				Index:     index,
				Ordered:   list.Ordered,
				Prefix:    prefix,
				Runs:      ComposeInline(rest[0].Children, StyleFlags{}, fn),
			})
			rest = rest[1:]
		} else {
			// item without leading paragraph still needs its marker
			paras = append(paras, Para{
				Role:      RoleListItem,
				ListDepth: depth,
				Index:     index,
				Ordered:   list.Ordered,
				Prefix:    prefix,
			})
		}

		// remaining block children become further records one level deeper
		for _, child := range rest {
			paras = translateBlock(paras, child, depth+1, fn)
		}
	}
	return paras
}
