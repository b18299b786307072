// Package markdown defines the semantic document tree produced by parsing
// Markdown-with-footnotes sources and consumed by the export engine. The
// tree is a closed taxonomy: every consumer dispatches over Kind and falls
// back to recursing into children for anything it does not recognize.
package markdown

import "strings"

// NodeKind distinguishes the different kinds of semantic nodes.
type NodeKind string

// Block-level kinds.
const (
	KindDocument           NodeKind = "document"
	KindHeading            NodeKind = "heading"
	KindParagraph          NodeKind = "paragraph"
	KindBlockquote         NodeKind = "blockquote"
	KindList               NodeKind = "list"
	KindListItem           NodeKind = "list-item"
	KindCodeBlock          NodeKind = "code-block"
	KindThematicBreak      NodeKind = "thematic-break"
	KindFootnoteDefinition NodeKind = "footnote-definition"
)

// Inline kinds.
const (
	KindText              NodeKind = "text"
	KindStrong            NodeKind = "strong"
	KindEmphasis          NodeKind = "emphasis"
	KindInlineCode        NodeKind = "inline-code"
	KindLineBreak         NodeKind = "line-break"
	KindFootnoteReference NodeKind = "footnote-reference"
	KindLink              NodeKind = "link"
)

// Node is a single semantic tree node. Which fields are meaningful depends
// on Kind: Depth for headings, Ordered for lists, Text for text/code
// leaves, Identifier for footnote definitions and references, Target for
// links. Children are ordered.
type Node struct {
	Kind       NodeKind
	Depth      int
	Ordered    bool
	Text       string
	Identifier string
	Target     string
	Children   []*Node
}

// Block reports whether the node is block-level.
func (n *Node) Block() bool {
	switch n.Kind {
	case KindDocument, KindHeading, KindParagraph, KindBlockquote, KindList,
		KindListItem, KindCodeBlock, KindThematicBreak, KindFootnoteDefinition:
		return true
	}
	return false
}

// AsPlainText flattens the subtree to its literal text, losing all marks.
// Footnote references are skipped entirely - their placeholder rendering is
// an emitter concern.
func (n *Node) AsPlainText() string {
	var buf strings.Builder
	n.appendPlainText(&buf)
	return strings.TrimSpace(buf.String())
}

func (n *Node) appendPlainText(buf *strings.Builder) {
	switch n.Kind {
	case KindFootnoteReference:
		return
	case KindLineBreak:
		buf.WriteByte(' ')
		return
	case KindText, KindInlineCode, KindCodeBlock:
		buf.WriteString(n.Text)
	}
	for _, child := range n.Children {
		child.appendPlainText(buf)
	}
}

// FirstHeadingText returns the text of the first depth-1 heading in
// document order, or "" when there is none. Callers use it to derive the
// export title.
func (n *Node) FirstHeadingText() string {
	if n.Kind == KindHeading && n.Depth == 1 {
		return n.AsPlainText()
	}
	for _, child := range n.Children {
		if t := child.FirstHeadingText(); t != "" {
			return t
		}
	}
	return ""
}
