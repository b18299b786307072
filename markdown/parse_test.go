package markdown

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func parseTest(t *testing.T, src string) *Node {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	return Parse([]byte(src), logger)
}

func kinds(nodes []*Node) []NodeKind {
	out := make([]NodeKind, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

func TestParse_Headings(t *testing.T) {
	doc := parseTest(t, "# One\n\n## Two\n\n#### Four\n")

	if len(doc.Children) != 3 {
		t.Fatalf("Parse() children = %d, want 3", len(doc.Children))
	}
	wantDepths := []int{1, 2, 4}
	for i, n := range doc.Children {
		if n.Kind != KindHeading {
			t.Errorf("child %d kind = %s, want %s", i, n.Kind, KindHeading)
		}
		if n.Depth != wantDepths[i] {
			t.Errorf("child %d depth = %d, want %d", i, n.Depth, wantDepths[i])
		}
	}
	if got := doc.Children[0].AsPlainText(); got != "One" {
		t.Errorf("heading text = %q, want %q", got, "One")
	}
}

func TestParse_InlineStyles(t *testing.T) {
	doc := parseTest(t, "plain **bold** *italic* `code`\n")

	if len(doc.Children) != 1 || doc.Children[0].Kind != KindParagraph {
		t.Fatalf("Parse() = %v, want single paragraph", kinds(doc.Children))
	}
	para := doc.Children[0]

	var strong, em, code *Node
	for _, n := range para.Children {
		switch n.Kind {
		case KindStrong:
			strong = n
		case KindEmphasis:
			em = n
		case KindInlineCode:
			code = n
		}
	}
	if strong == nil || strong.AsPlainText() != "bold" {
		t.Errorf("strong node = %+v, want text 'bold'", strong)
	}
	if em == nil || em.AsPlainText() != "italic" {
		t.Errorf("emphasis node = %+v, want text 'italic'", em)
	}
	if code == nil || code.Text != "code" {
		t.Errorf("inline code node = %+v, want text 'code'", code)
	}
}

func TestParse_NestedEmphasis(t *testing.T) {
	doc := parseTest(t, "***both***\n")

	para := doc.Children[0]
	if len(para.Children) != 1 {
		t.Fatalf("paragraph children = %v", kinds(para.Children))
	}
	outer := para.Children[0]
	if outer.Kind != KindEmphasis && outer.Kind != KindStrong {
		t.Fatalf("outer kind = %s, want emphasis or strong", outer.Kind)
	}
	inner := outer.Children[0]
	if inner.Kind != KindEmphasis && inner.Kind != KindStrong {
		t.Fatalf("inner kind = %s, want emphasis or strong", inner.Kind)
	}
	if outer.Kind == inner.Kind {
		t.Errorf("nested emphasis should mix strong and emphasis, got %s twice", outer.Kind)
	}
	if got := outer.AsPlainText(); got != "both" {
		t.Errorf("text = %q, want %q", got, "both")
	}
}

func TestParse_FootnoteReferenceAndDefinition(t *testing.T) {
	doc := parseTest(t, "Text with a note[^alpha].\n\n[^alpha]: Note body.\n")

	var ref, def *Node
	var walk func(*Node)
	walk = func(n *Node) {
		switch n.Kind {
		case KindFootnoteReference:
			ref = n
		case KindFootnoteDefinition:
			def = n
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(doc)

	if ref == nil {
		t.Fatal("no footnote reference in tree")
	}
	if ref.Identifier != "alpha" {
		t.Errorf("reference identifier = %q, want %q", ref.Identifier, "alpha")
	}
	if def == nil {
		t.Fatal("no footnote definition in tree")
	}
	if def.Identifier != "alpha" {
		t.Errorf("definition identifier = %q, want %q", def.Identifier, "alpha")
	}
	if got := def.AsPlainText(); got != "Note body." {
		t.Errorf("definition text = %q, want %q", got, "Note body.")
	}
}

func TestParse_DanglingFootnoteReference(t *testing.T) {
	doc := parseTest(t, "Missing note[^ghost] here.\n")

	para := doc.Children[0]
	var ref *Node
	for _, n := range para.Children {
		if n.Kind == KindFootnoteReference {
			ref = n
		}
	}
	if ref == nil {
		t.Fatalf("dangling reference was not carved out: %v", kinds(para.Children))
	}
	if ref.Identifier != "ghost" {
		t.Errorf("dangling identifier = %q, want %q", ref.Identifier, "ghost")
	}
	if got := para.AsPlainText(); got != "Missing note here." {
		t.Errorf("plain text = %q, want %q", got, "Missing note here.")
	}
}

func TestParse_Lists(t *testing.T) {
	doc := parseTest(t, "- one\n- two\n\n1. first\n2. second\n")

	if len(doc.Children) != 2 {
		t.Fatalf("Parse() children = %v, want two lists", kinds(doc.Children))
	}
	bullets, numbers := doc.Children[0], doc.Children[1]

	if bullets.Kind != KindList || bullets.Ordered {
		t.Errorf("first list = %+v, want unordered list", bullets)
	}
	if numbers.Kind != KindList || !numbers.Ordered {
		t.Errorf("second list = %+v, want ordered list", numbers)
	}
	if len(bullets.Children) != 2 || bullets.Children[0].Kind != KindListItem {
		t.Errorf("bullet items = %v", kinds(bullets.Children))
	}
	if got := bullets.Children[1].AsPlainText(); got != "two" {
		t.Errorf("second bullet = %q, want %q", got, "two")
	}
}

func TestParse_Blockquote(t *testing.T) {
	doc := parseTest(t, "> quoted **text**\n")

	if len(doc.Children) != 1 || doc.Children[0].Kind != KindBlockquote {
		t.Fatalf("Parse() = %v, want blockquote", kinds(doc.Children))
	}
	if got := doc.Children[0].AsPlainText(); got != "quoted text" {
		t.Errorf("blockquote text = %q, want %q", got, "quoted text")
	}
}

func TestParse_CodeBlock(t *testing.T) {
	doc := parseTest(t, "```\nfirst line\nsecond line\n```\n")

	if len(doc.Children) != 1 || doc.Children[0].Kind != KindCodeBlock {
		t.Fatalf("Parse() = %v, want code block", kinds(doc.Children))
	}
	want := "first line\nsecond line\n"
	if got := doc.Children[0].Text; got != want {
		t.Errorf("code text = %q, want %q", got, want)
	}
}

func TestParse_ThematicBreak(t *testing.T) {
	doc := parseTest(t, "above\n\n---\n\nbelow\n")

	got := kinds(doc.Children)
	want := []NodeKind{KindParagraph, KindThematicBreak, KindParagraph}
	if len(got) != len(want) {
		t.Fatalf("Parse() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParse_TableFlattened(t *testing.T) {
	doc := parseTest(t, "| a | b |\n| --- | --- |\n| c | d |\n")

	if len(doc.Children) != 2 {
		t.Fatalf("Parse() = %v, want two row paragraphs", kinds(doc.Children))
	}
	if got := doc.Children[0].AsPlainText(); got != "a | b" {
		t.Errorf("header row = %q, want %q", got, "a | b")
	}
	if got := doc.Children[1].AsPlainText(); got != "c | d" {
		t.Errorf("data row = %q, want %q", got, "c | d")
	}
}

func TestParse_Links(t *testing.T) {
	doc := parseTest(t, "see [docs](https://example.com/docs)\n")

	para := doc.Children[0]
	var link *Node
	for _, n := range para.Children {
		if n.Kind == KindLink {
			link = n
		}
	}
	if link == nil {
		t.Fatalf("no link in %v", kinds(para.Children))
	}
	if link.Target != "https://example.com/docs" {
		t.Errorf("link target = %q", link.Target)
	}
	if got := link.AsPlainText(); got != "docs" {
		t.Errorf("link text = %q, want %q", got, "docs")
	}
}

func TestParse_HardLineBreak(t *testing.T) {
	doc := parseTest(t, "first\\\nsecond\n")

	para := doc.Children[0]
	found := false
	for _, n := range para.Children {
		if n.Kind == KindLineBreak {
			found = true
		}
	}
	if !found {
		t.Errorf("no line break in %v", kinds(para.Children))
	}
}

func TestParse_Empty(t *testing.T) {
	doc := parseTest(t, "")

	if doc.Kind != KindDocument {
		t.Errorf("root kind = %s, want %s", doc.Kind, KindDocument)
	}
	if len(doc.Children) != 0 {
		t.Errorf("empty source children = %v, want none", kinds(doc.Children))
	}
}

func TestFirstHeadingText(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"first level one", "para\n\n# Title\n\n# Second\n", "Title"},
		{"skips deeper headings", "## Sub\n\n# Real Title\n", "Real Title"},
		{"no heading", "only a paragraph\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseTest(t, tt.src)
			if got := doc.FirstHeadingText(); got != tt.want {
				t.Errorf("FirstHeadingText() = %q, want %q", got, tt.want)
			}
		})
	}
}
