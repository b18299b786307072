package pdf

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"mdx/config"
	"mdx/content"
	"mdx/markdown"
)

// fakeSurface records drawing calls instead of producing a document. Width
// measurement is proportional to rune count so wrap decisions are exact and
// deterministic.
type fakeSurface struct {
	pages [][]drawOp
	cur   int // 1-based
	font  fontSel

	err       error
	failAfter int // fail on the nth Text call when positive
	textCalls int
}

type drawOp struct {
	x, y float64
	text string
	font fontSel
}

func (f *fakeSurface) AddPage() {
	f.pages = append(f.pages, nil)
	f.cur = len(f.pages)
}

func (f *fakeSurface) SetFont(family, style string, size float64) {
	f.font = fontSel{family: family, style: style, size: size}
}

func (f *fakeSurface) Text(x, y float64, s string) {
	f.textCalls++
	if f.failAfter > 0 && f.textCalls >= f.failAfter && f.err == nil {
		f.err = errors.New("device failure")
		return
	}
	f.pages[f.cur-1] = append(f.pages[f.cur-1], drawOp{x: x, y: y, text: s, font: f.font})
}

func (f *fakeSurface) GetStringWidth(s string) float64 {
	return float64(len([]rune(s))) * f.font.size * 0.5
}

func (f *fakeSurface) PageCount() int { return len(f.pages) }

func (f *fakeSurface) SetPage(n int) { f.cur = n }

func (f *fakeSurface) Error() error { return f.err }

func (f *fakeSurface) allOps() []drawOp {
	var out []drawOp
	for _, page := range f.pages {
		out = append(out, page...)
	}
	return out
}

func noteDef(body string) *markdown.Node {
	return &markdown.Node{
		Kind:       markdown.KindFootnoteDefinition,
		Identifier: "n",
		Children: []*markdown.Node{{
			Kind:     markdown.KindParagraph,
			Children: []*markdown.Node{{Kind: markdown.KindText, Text: body}},
		}},
	}
}

func testConfig() *config.DocumentConfig {
	return &config.DocumentConfig{
		Page: config.PageConfig{Width: 612, Height: 792, Margin: 72},
		Fonts: config.FontsConfig{
			BodyFamily:   "times",
			MonoFamily:   "courier",
			BodySize:     12,
			LineSpacing:  2,
			HeadingSizes: []float64{18, 16, 14},
		},
		Endnotes: config.EndnotesConfig{Title: "Endnotes"},
	}
}

func bodyPara(words ...string) content.Para {
	return content.Para{
		Role: content.RoleBody,
		Runs: []content.Run{{Text: strings.Join(words, " ")}},
	}
}

func repeatWords(word string, n int) content.Para {
	words := make([]string, n)
	for i := range words {
		words[i] = word
	}
	return bodyPara(words...)
}

func renderWith(t *testing.T, cfg *config.DocumentConfig, paras []content.Para, notes []content.Footnote) *fakeSurface {
	t.Helper()
	dev := &fakeSurface{}
	r := newRenderer(dev, cfg)
	if err := r.render("Untitled", paras, notes); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	return dev
}

func TestRenderer_BandInvariant(t *testing.T) {
	cfg := testConfig()
	paras := []content.Para{repeatWords("word", 2000)}
	dev := renderWith(t, cfg, paras, nil)

	top := cfg.Page.Margin
	bottom := cfg.Page.Height - cfg.Page.Margin
	for _, op := range dev.allOps() {
		if op.y <= top || op.y > bottom {
			t.Fatalf("baseline %v outside the content band (%v, %v]", op.y, top, bottom)
		}
		if op.x < cfg.Page.Margin {
			t.Fatalf("draw at x=%v left of margin", op.x)
		}
	}
}

func TestRenderer_LinesDoNotOverflow(t *testing.T) {
	cfg := testConfig()
	paras := []content.Para{repeatWords("wrapped", 300)}
	dev := renderWith(t, cfg, paras, nil)

	right := cfg.Page.Width - cfg.Page.Margin
	for _, op := range dev.allOps() {
		// width of a 12pt token in the fake metric
		w := float64(len(op.text)) * op.font.size * 0.5
		if op.x+w > right+0.01 {
			t.Fatalf("token %q ends at %v, right margin is %v", op.text, op.x+w, right)
		}
	}
}

func TestRenderer_PageBreaks(t *testing.T) {
	cfg := testConfig()
	// 15 words fit one line, 27 lines fit one page with line height 24
	paras := []content.Para{repeatWords("word", 15 * 27 * 2)}
	dev := renderWith(t, cfg, paras, nil)

	if got := dev.PageCount(); got < 2 || got > 3 {
		t.Errorf("PageCount() = %d, want 2 or 3", got)
	}
	for n, page := range dev.pages {
		if len(page) == 0 {
			t.Errorf("page %d is empty", n+1)
		}
	}
}

func TestRenderer_BaselinesAdvance(t *testing.T) {
	cfg := testConfig()
	paras := []content.Para{bodyPara("one"), bodyPara("two"), bodyPara("three")}
	dev := renderWith(t, cfg, paras, nil)

	prev := 0.0
	for _, op := range dev.pages[0] {
		if op.y < prev {
			t.Fatalf("baseline moved up inside a page: %v after %v", op.y, prev)
		}
		prev = op.y
	}
}

func TestRenderer_EmptyDocumentTitlePage(t *testing.T) {
	cfg := testConfig()
	dev := renderWith(t, cfg, nil, nil)

	if dev.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1", dev.PageCount())
	}
	ops := dev.pages[0]
	if len(ops) != 1 || ops[0].text != "Untitled" {
		t.Errorf("ops = %+v, want single title token", ops)
	}
}

func TestRenderer_HeadingUsesConfiguredSize(t *testing.T) {
	cfg := testConfig()
	paras := []content.Para{
		{Role: content.RoleHeading, HeadingDepth: 2, Runs: []content.Run{{Text: "Section"}}},
	}
	dev := renderWith(t, cfg, paras, nil)

	ops := dev.allOps()
	if len(ops) != 1 {
		t.Fatalf("ops = %+v, want one", ops)
	}
	if ops[0].font.size != 16 {
		t.Errorf("heading size = %v, want 16", ops[0].font.size)
	}
	if ops[0].font.style != "B" {
		t.Errorf("heading style = %q, want B", ops[0].font.style)
	}
}

func TestRenderer_HeadingDepthClamped(t *testing.T) {
	cfg := testConfig()
	paras := []content.Para{
		{Role: content.RoleHeading, HeadingDepth: 6, Runs: []content.Run{{Text: "Deep"}}},
	}
	dev := renderWith(t, cfg, paras, nil)

	if got := dev.allOps()[0].font.size; got != 14 {
		t.Errorf("deep heading size = %v, want clamp to 14", got)
	}
}

func TestRenderer_CodeUsesMonoFamily(t *testing.T) {
	cfg := testConfig()
	paras := []content.Para{
		{Role: content.RoleCode, Runs: []content.Run{{Text: "x := 1", Mono: true}}},
	}
	dev := renderWith(t, cfg, paras, nil)

	for _, op := range dev.allOps() {
		if op.font.family != "courier" {
			t.Errorf("code token %q family = %q, want courier", op.text, op.font.family)
		}
	}
}

func TestRenderer_SuperscriptRaisesBaseline(t *testing.T) {
	cfg := testConfig()
	paras := []content.Para{{
		Role: content.RoleBody,
		Runs: []content.Run{
			{Text: "base"},
			{Text: "[1]", Style: content.StyleFlags{Superscript: true}, Footnote: 1},
		},
	}}
	dev := renderWith(t, cfg, paras, nil)

	ops := dev.allOps()
	if len(ops) != 2 {
		t.Fatalf("ops = %+v, want two", ops)
	}
	if ops[1].y >= ops[0].y {
		t.Errorf("superscript baseline %v not above base %v", ops[1].y, ops[0].y)
	}
	if ops[1].font.size >= ops[0].font.size {
		t.Errorf("superscript size %v not smaller than base %v", ops[1].font.size, ops[0].font.size)
	}
}

func TestRenderer_ListPrefixAndIndent(t *testing.T) {
	cfg := testConfig()
	paras := []content.Para{
		{Role: content.RoleListItem, Prefix: "1. ", Ordered: true, Index: 1,
			Runs: []content.Run{{Text: "item"}}},
		{Role: content.RoleListItem, ListDepth: 1, Prefix: content.BulletMarker,
			Runs: []content.Run{{Text: "nested"}}},
	}
	dev := renderWith(t, cfg, paras, nil)

	ops := dev.allOps()
	if ops[0].text != "1." {
		t.Errorf("first token = %q, want marker", ops[0].text)
	}
	var nested drawOp
	for _, op := range ops {
		if op.text == "-" {
			nested = op
		}
	}
	if nested.x <= cfg.Page.Margin {
		t.Errorf("nested marker x = %v, want indented past margin", nested.x)
	}
}

func TestRenderer_Endnotes(t *testing.T) {
	cfg := testConfig()
	notes := []content.Footnote{
		{ID: 1, Identifier: "a", Definition: noteDef("First.")},
		{ID: 2, Identifier: "ghost"},
	}
	dev := renderWith(t, cfg, []content.Para{bodyPara("body")}, notes)

	joined := joinTexts(dev)
	if !strings.Contains(joined, "Endnotes") {
		t.Error("endnotes title not rendered")
	}
	if !strings.Contains(joined, "[1] First.") {
		t.Errorf("first note not rendered: %q", joined)
	}
	// dangling reference keeps its id with an empty body
	if !strings.Contains(joined, "[2]") {
		t.Errorf("dangling note id not rendered: %q", joined)
	}
}

func TestRenderer_PageNumbers(t *testing.T) {
	cfg := testConfig()
	dev := &fakeSurface{}
	r := newRenderer(dev, cfg)
	if err := r.render("Untitled", []content.Para{repeatWords("word", 15 * 27 * 2)}, nil); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	r.stampPageNumbers()

	for n, page := range dev.pages {
		if len(page) == 0 {
			t.Fatalf("page %d has no ops", n+1)
		}
		last := page[len(page)-1]
		if last.text != strconv.Itoa(n+1) {
			t.Errorf("page %d label = %q, want %q", n+1, last.text, strconv.Itoa(n+1))
		}
		if last.y <= cfg.Page.Height-cfg.Page.Margin {
			t.Errorf("page %d label baseline %v not inside bottom margin strip", n+1, last.y)
		}
	}
}

func TestRenderer_DeviceFailureNamesRecord(t *testing.T) {
	cfg := testConfig()
	paras := []content.Para{bodyPara("one"), bodyPara("two"), bodyPara("three")}

	dev := &fakeSurface{failAfter: 2}
	r := newRenderer(dev, cfg)
	err := r.render("Untitled", paras, nil)
	if err == nil {
		t.Fatal("render() succeeded on a failing device")
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Errorf("render() error = %v, want it to name record 1", err)
	}
	if !errors.Is(err, dev.err) {
		t.Errorf("render() error does not wrap the device error: %v", err)
	}
}

func joinTexts(dev *fakeSurface) string {
	var parts []string
	for _, op := range dev.allOps() {
		parts = append(parts, op.text)
	}
	return strings.Join(parts, " ")
}
