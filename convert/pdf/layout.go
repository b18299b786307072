package pdf

import (
	"fmt"
	"strconv"
	"strings"

	"mdx/config"
	"mdx/content"
)

// surface is the drawing device the layout engine runs against. fpdf
// satisfies it directly, tests substitute a recording fake. The device
// accumulates its first failure internally, Error exposes it.
type surface interface {
	AddPage()
	SetFont(family, style string, size float64)
	Text(x, y float64, s string)
	GetStringWidth(s string) float64
	PageCount() int
	SetPage(n int)
	Error() error
}

const (
	listIndent      = 18.0 // per nesting level, pts
	headingSkip     = 6.0  // extra lead above a heading
	superscriptMul  = 0.6
	superscriptRise = 0.35
	pageLabelMul    = 0.8
)

// fontSel is one measurable font state: family, the four style variants
// understood by the device, and the point size.
type fontSel struct {
	family string
	style  string
	size   float64
}

// token is a single unbreakable word together with the font state it must
// be measured and drawn in. rise lifts the baseline for superscripts.
type token struct {
	text  string
	font  fontSel
	width float64
	rise  float64
}

type renderer struct {
	dev        surface
	cfg        *config.DocumentConfig
	cur        fontSel // last font pushed to the device
	y          float64 // baseline of the next line to draw
	line       []token
	lineWidth  float64
	lineHeight float64
	indent     float64 // left edge of the current paragraph
}

func newRenderer(dev surface, cfg *config.DocumentConfig) *renderer {
	return &renderer{dev: dev, cfg: cfg}
}

func (r *renderer) contentWidth() float64 {
	return r.cfg.Page.Width - 2*r.cfg.Page.Margin
}

func (r *renderer) bottom() float64 {
	return r.cfg.Page.Height - r.cfg.Page.Margin
}

// render lays out the whole document. An empty document still produces a
// single page carrying the title. A device failure aborts the walk and
// names the record it surfaced on.
func (r *renderer) render(title string, paras []content.Para, notes []content.Footnote) error {
	r.dev.AddPage()
	r.y = r.cfg.Page.Margin

	if len(paras) == 0 {
		paras = []content.Para{{Role: content.RoleBody, Runs: []content.Run{{Text: title}}}}
	}
	for i := range paras {
		r.paragraph(&paras[i])
		if err := r.dev.Error(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	r.endnotes(notes)
	return r.dev.Error()
}

func (r *renderer) paragraph(p *content.Para) {
	size := r.cfg.Fonts.BodySize
	variant := ""
	switch p.Role {
	case content.RoleHeading:
		size = r.cfg.Fonts.HeadingSize(p.HeadingDepth)
		variant = "B"
		r.y += headingSkip
	case content.RoleSpacer:
		r.y += r.cfg.Fonts.BodySize * r.cfg.Fonts.LineSpacing
		return
	}

	r.lineHeight = size * r.cfg.Fonts.LineSpacing
	r.indent = r.cfg.Page.Margin + float64(p.ListDepth)*listIndent

	if p.Prefix != "" {
		r.push(token{text: strings.TrimRight(p.Prefix, " "), font: r.paraFont(p, size, variant)})
	}
	for _, run := range p.Runs {
		r.pushRun(p, run, size, variant)
	}
	r.flush()
	r.y += r.lineHeight * 0.3 // paragraph separation
}

func (r *renderer) paraFont(p *content.Para, size float64, variant string) fontSel {
	family := r.cfg.Fonts.BodyFamily
	if p.Role == content.RoleCode {
		family = r.cfg.Fonts.MonoFamily
	}
	return fontSel{family: family, style: variant, size: size}
}

// pushRun splits a styled run into word tokens. A newline inside the run
// text is a hard break and flushes the current line.
func (r *renderer) pushRun(p *content.Para, run content.Run, size float64, variant string) {
	font := r.paraFont(p, size, variant)
	if run.Mono {
		font.family = r.cfg.Fonts.MonoFamily
	}
	if v := run.Style.Merge(content.StyleFlags{Bold: variant == "B"}).Variant(); v != "" {
		font.style = v
	}
	rise := 0.0
	if run.Style.Superscript {
		rise = font.size * superscriptRise
		font.size *= superscriptMul
	}

	for i, segment := range strings.Split(run.Text, "\n") {
		if i > 0 {
			r.flush()
		}
		for _, word := range strings.Fields(segment) {
			r.push(token{text: word, font: font, rise: rise})
		}
	}
}

// push appends a word to the current line, wrapping first when it does not
// fit. A word wider than the whole content width is kept on its own line
// and allowed to overflow.
func (r *renderer) push(tok token) {
	r.setFont(tok.font)
	tok.width = r.dev.GetStringWidth(tok.text)

	width := tok.width
	if len(r.line) > 0 {
		width += r.dev.GetStringWidth(" ")
	}
	if len(r.line) > 0 && r.lineWidth+width > r.contentWidth()-(r.indent-r.cfg.Page.Margin) {
		r.flush()
		width = tok.width
	}
	r.line = append(r.line, tok)
	r.lineWidth += width
}

// flush draws the accumulated line at the current cursor, breaking to a new
// page first when the baseline would land below the bottom margin.
func (r *renderer) flush() {
	if len(r.line) == 0 {
		return
	}
	if r.y+r.lineHeight > r.bottom() {
		r.dev.AddPage()
		r.y = r.cfg.Page.Margin
	}
	r.y += r.lineHeight

	x := r.indent
	for i, tok := range r.line {
		if i > 0 {
			r.setFont(tok.font)
			x += r.dev.GetStringWidth(" ")
		} else {
			r.setFont(tok.font)
		}
		r.dev.Text(x, r.y-tok.rise, tok.text)
		x += tok.width
	}
	r.line = r.line[:0]
	r.lineWidth = 0
}

func (r *renderer) setFont(f fontSel) {
	if f == r.cur {
		return
	}
	r.dev.SetFont(f.family, f.style, f.size)
	r.cur = f
}

// endnotes draws the collected footnote definitions as a trailing section,
// one body paragraph per note prefixed with its bracketed id.
func (r *renderer) endnotes(notes []content.Footnote) {
	if len(notes) == 0 {
		return
	}
	title := content.Para{
		Role:         content.RoleHeading,
		HeadingDepth: 1,
		Runs:         []content.Run{{Text: r.cfg.Endnotes.Title}},
	}
	r.paragraph(&title)

	for _, note := range notes {
		text := "[" + strconv.Itoa(note.ID) + "]"
		if body := note.Text(); body != "" {
			text += " " + body
		}
		p := content.Para{Role: content.RoleBody, Runs: []content.Run{{Text: text}}}
		r.paragraph(&p)
	}
}

// stampPageNumbers revisits every page after layout and places the page
// label at the bottom right inside the margin strip.
func (r *renderer) stampPageNumbers() {
	total := r.dev.PageCount()
	size := r.cfg.Fonts.BodySize * pageLabelMul
	r.setFont(fontSel{family: r.cfg.Fonts.BodyFamily, size: size})
	for n := 1; n <= total; n++ {
		r.dev.SetPage(n)
		label := strconv.Itoa(n)
		w := r.dev.GetStringWidth(label)
		r.dev.Text(r.cfg.Page.Width-r.cfg.Page.Margin-w, r.cfg.Page.Height-r.cfg.Page.Margin/2, label)
	}
}
