package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

// Parse converts a Markdown source (CommonMark plus GFM tables and
// strikethrough plus footnotes) into the semantic tree. Parsing never fails:
// constructs we do not model degrade to their plain children and are logged
// at debug level.
func Parse(src []byte, log *zap.Logger) *Node {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))
	root := md.Parser().Parse(text.NewReader(src))

	cv := &converter{
		src:  src,
		log:  log,
		refs: collectFootnoteRefs(root),
	}

	doc := &Node{Kind: KindDocument}
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		doc.Children = append(doc.Children, cv.block(c)...)
	}
	return doc
}

type converter struct {
	src []byte
	log *zap.Logger
	// goldmark footnote links carry only a numeric index, definitions carry
	// both index and label - map one to the other up front
	refs map[int]string
}

func collectFootnoteRefs(root ast.Node) map[int]string {
	refs := make(map[int]string)
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fn, ok := n.(*east.Footnote); ok {
			refs[fn.Index] = string(fn.Ref)
		}
		return ast.WalkContinue, nil
	})
	return refs
}

// block converts one goldmark block node into zero or more semantic nodes.
func (cv *converter) block(n ast.Node) []*Node {
	switch t := n.(type) {
	case *ast.Heading:
		return []*Node{{Kind: KindHeading, Depth: t.Level, Children: cv.inlines(n)}}
	case *ast.Paragraph, *ast.TextBlock:
		return []*Node{{Kind: KindParagraph, Children: cv.inlines(n)}}
	case *ast.Blockquote:
		return []*Node{{Kind: KindBlockquote, Children: cv.blocks(n)}}
	case *ast.List:
		return []*Node{{Kind: KindList, Ordered: t.IsOrdered(), Children: cv.blocks(n)}}
	case *ast.ListItem:
		return []*Node{{Kind: KindListItem, Children: cv.blocks(n)}}
	case *ast.FencedCodeBlock:
		return []*Node{{Kind: KindCodeBlock, Text: cv.codeLines(n)}}
	case *ast.CodeBlock:
		return []*Node{{Kind: KindCodeBlock, Text: cv.codeLines(n)}}
	case *ast.ThematicBreak:
		return []*Node{{Kind: KindThematicBreak}}
	case *east.FootnoteList:
		// hoist definitions to document level
		return cv.blocks(n)
	case *east.Footnote:
		return []*Node{{Kind: KindFootnoteDefinition, Identifier: string(t.Ref), Children: cv.blocks(n)}}
	case *east.Table:
		return cv.table(t)
	case *ast.HTMLBlock:
		// raw HTML has no semantic rendering
		return nil
	default:
		cv.log.Debug("Unhandled markdown block node, keeping children", zap.String("kind", n.Kind().String()))
		return cv.blocks(n)
	}
}

func (cv *converter) blocks(n ast.Node) []*Node {
	var out []*Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, cv.block(c)...)
	}
	return out
}

// table flattens table rows into plain paragraphs, one per row with cells
// joined by a divider. Full table layout is out of scope for both emitters.
func (cv *converter) table(t *east.Table) []*Node {
	var out []*Node
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			p := &Node{Kind: KindParagraph, Children: cv.inlines(cell)}
			cells = append(cells, p.AsPlainText())
		}
		if len(cells) == 0 {
			continue
		}
		out = append(out, &Node{Kind: KindParagraph, Children: []*Node{
			{Kind: KindText, Text: strings.Join(cells, " | ")},
		}})
	}
	return out
}

func (cv *converter) codeLines(n ast.Node) string {
	var buf strings.Builder
	lines := n.Lines()
	for i := range lines.Len() {
		s := lines.At(i)
		buf.Write(s.Value(cv.src))
	}
	return buf.String()
}

// inline converts one goldmark inline node into zero or more semantic nodes.
func (cv *converter) inline(n ast.Node) []*Node {
	switch t := n.(type) {
	case *ast.Text:
		out := splitDanglingReferences(string(t.Segment.Value(cv.src)))
		switch {
		case t.HardLineBreak():
			out = append(out, &Node{Kind: KindLineBreak})
		case t.SoftLineBreak():
			out = append(out, &Node{Kind: KindText, Text: " "})
		}
		return out
	case *ast.String:
		return splitDanglingReferences(string(t.Value))
	case *ast.Emphasis:
		kind := KindEmphasis
		if t.Level >= 2 {
			kind = KindStrong
		}
		return []*Node{{Kind: kind, Children: cv.inlines(n)}}
	case *ast.CodeSpan:
		var buf strings.Builder
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if seg, ok := c.(*ast.Text); ok {
				buf.Write(seg.Segment.Value(cv.src))
			}
		}
		return []*Node{{Kind: KindInlineCode, Text: buf.String()}}
	case *ast.Link:
		return []*Node{{Kind: KindLink, Target: string(t.Destination), Children: cv.inlines(n)}}
	case *ast.AutoLink:
		url := string(t.URL(cv.src))
		return []*Node{{Kind: KindLink, Target: url, Children: []*Node{
			{Kind: KindText, Text: string(t.Label(cv.src))},
		}}}
	case *east.FootnoteLink:
		ident, ok := cv.refs[t.Index]
		if !ok {
			cv.log.Warn("Footnote link without matching definition index", zap.Int("index", t.Index))
		}
		return []*Node{{Kind: KindFootnoteReference, Identifier: ident}}
	case *east.FootnoteBacklink:
		return nil
	case *ast.RawHTML:
		return nil
	default:
		cv.log.Debug("Unhandled markdown inline node, keeping children", zap.String("kind", n.Kind().String()))
		return cv.inlines(n)
	}
}

func (cv *converter) inlines(n ast.Node) []*Node {
	var out []*Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, cv.inline(c)...)
	}
	return out
}

// goldmark leaves references without a matching definition as literal text;
// the engine still wants them resolved (they render as empty notes), so
// carve them out of text runs here.
var danglingRefRe = regexp.MustCompile(`\[\^([^\]\s]+)\]`)

func splitDanglingReferences(s string) []*Node {
	if s == "" {
		return nil
	}
	matches := danglingRefRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return []*Node{{Kind: KindText, Text: s}}
	}
	var out []*Node
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			out = append(out, &Node{Kind: KindText, Text: s[pos:m[0]]})
		}
		out = append(out, &Node{Kind: KindFootnoteReference, Identifier: s[m[2]:m[3]]})
		pos = m[1]
	}
	if pos < len(s) {
		out = append(out, &Node{Kind: KindText, Text: s[pos:]})
	}
	return out
}
