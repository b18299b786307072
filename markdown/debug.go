package markdown

import (
	"mdx/utils/debug"
)

// String returns a readable tree of the node and its subtree. It exists
// solely for manual inspection during debugging.
func (n *Node) String() string {
	if n == nil {
		return "<nil Node>"
	}
	tw := debug.NewTreeWriter()
	n.dump(tw, 0)
	return tw.String()
}

func (n *Node) dump(tw *debug.TreeWriter, depth int) {
	switch n.Kind {
	case KindHeading:
		tw.Line(depth, "%s[%d]", n.Kind, n.Depth)
	case KindList:
		tw.Line(depth, "%s ordered[%t]", n.Kind, n.Ordered)
	case KindText, KindInlineCode, KindCodeBlock:
		tw.TextBlock(depth, string(n.Kind), n.Text)
	case KindFootnoteDefinition, KindFootnoteReference:
		tw.Line(depth, "%s[%q]", n.Kind, n.Identifier)
	case KindLink:
		tw.Line(depth, "%s[%s]", n.Kind, n.Target)
	default:
		tw.Line(depth, "%s", n.Kind)
	}
	for _, child := range n.Children {
		child.dump(tw, depth+1)
	}
}
