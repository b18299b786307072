package docx

import (
	"strconv"

	"github.com/beevik/etree"
)

type styleDef struct {
	id      string
	name    string
	typ     string
	basedOn string
	pPr     func(*etree.Element)
	rPr     func(*etree.Element)
}

func buildStyles() *etree.Document {
	doc := newPartDocument()
	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsW)

	docDefaults := root.CreateElement("w:docDefaults")
	rPrDefault := docDefaults.CreateElement("w:rPrDefault")
	rPr := rPrDefault.CreateElement("w:rPr")
	fonts := rPr.CreateElement("w:rFonts")
	fonts.CreateAttr("w:ascii", "Times New Roman")
	fonts.CreateAttr("w:hAnsi", "Times New Roman")
	sz := rPr.CreateElement("w:sz")
	sz.CreateAttr("w:val", "24")

	defs := []styleDef{
		{id: "Normal", name: "Normal", typ: "paragraph"},
		{id: "Heading1", name: "heading 1", typ: "paragraph", basedOn: "Normal",
			pPr: headingPPr, rPr: headingRPr("36")},
		{id: "Heading2", name: "heading 2", typ: "paragraph", basedOn: "Normal",
			pPr: headingPPr, rPr: headingRPr("32")},
		{id: "Heading3", name: "heading 3", typ: "paragraph", basedOn: "Normal",
			pPr: headingPPr, rPr: headingRPr("28")},
		{id: "Quote", name: "Quote", typ: "paragraph", basedOn: "Normal",
			pPr: func(pPr *etree.Element) {
				ind := pPr.CreateElement("w:ind")
				ind.CreateAttr("w:left", "720")
			},
			rPr: func(rPr *etree.Element) {
				rPr.CreateElement("w:i")
			}},
		{id: "Code", name: "Code", typ: "paragraph", basedOn: "Normal",
			rPr: func(rPr *etree.Element) {
				fonts := rPr.CreateElement("w:rFonts")
				fonts.CreateAttr("w:ascii", "Courier New")
				fonts.CreateAttr("w:hAnsi", "Courier New")
			}},
		{id: "ListParagraph", name: "List Paragraph", typ: "paragraph", basedOn: "Normal"},
		{id: "FootnoteText", name: "footnote text", typ: "paragraph", basedOn: "Normal",
			rPr: func(rPr *etree.Element) {
				sz := rPr.CreateElement("w:sz")
				sz.CreateAttr("w:val", "20")
			}},
		{id: "FootnoteReference", name: "footnote reference", typ: "character",
			rPr: func(rPr *etree.Element) {
				va := rPr.CreateElement("w:vertAlign")
				va.CreateAttr("w:val", "superscript")
			}},
		{id: "Hyperlink", name: "Hyperlink", typ: "character",
			rPr: func(rPr *etree.Element) {
				color := rPr.CreateElement("w:color")
				color.CreateAttr("w:val", "0563C1")
				u := rPr.CreateElement("w:u")
				u.CreateAttr("w:val", "single")
			}},
	}
	for _, def := range defs {
		writeStyle(root, def)
	}
	return doc
}

func headingPPr(pPr *etree.Element) {
	pPr.CreateElement("w:keepNext")
	spacing := pPr.CreateElement("w:spacing")
	spacing.CreateAttr("w:before", "240")
	spacing.CreateAttr("w:after", "120")
}

// headingRPr returns the run properties for a heading style, sz is in
// half-points.
func headingRPr(sz string) func(*etree.Element) {
	return func(rPr *etree.Element) {
		rPr.CreateElement("w:b")
		el := rPr.CreateElement("w:sz")
		el.CreateAttr("w:val", sz)
	}
}

func writeStyle(root *etree.Element, def styleDef) {
	style := root.CreateElement("w:style")
	style.CreateAttr("w:type", def.typ)
	style.CreateAttr("w:styleId", def.id)
	name := style.CreateElement("w:name")
	name.CreateAttr("w:val", def.name)
	if def.basedOn != "" {
		based := style.CreateElement("w:basedOn")
		based.CreateAttr("w:val", def.basedOn)
	}
	if def.pPr != nil {
		def.pPr(style.CreateElement("w:pPr"))
	}
	if def.rPr != nil {
		def.rPr(style.CreateElement("w:rPr"))
	}
}

// buildNumbering defines two abstract lists, bullet and decimal, with nine
// indentation levels each. List paragraphs pick the level through w:ilvl.
func buildNumbering() *etree.Document {
	doc := newPartDocument()
	root := doc.CreateElement("w:numbering")
	root.CreateAttr("xmlns:w", nsW)

	writeAbstractNum(root, "0", "bullet", "•")
	writeAbstractNum(root, "1", "decimal", "%v.")

	for i, numID := range []string{numIDBullet, numIDDecimal} {
		num := root.CreateElement("w:num")
		num.CreateAttr("w:numId", numID)
		abs := num.CreateElement("w:abstractNumId")
		abs.CreateAttr("w:val", strconv.Itoa(i))
	}
	return doc
}

func writeAbstractNum(root *etree.Element, id, format, text string) {
	abs := root.CreateElement("w:abstractNum")
	abs.CreateAttr("w:abstractNumId", id)
	for lvl := 0; lvl < 9; lvl++ {
		el := abs.CreateElement("w:lvl")
		el.CreateAttr("w:ilvl", strconv.Itoa(lvl))

		start := el.CreateElement("w:start")
		start.CreateAttr("w:val", "1")
		fmtEl := el.CreateElement("w:numFmt")
		fmtEl.CreateAttr("w:val", format)
		lvlText := el.CreateElement("w:lvlText")
		if format == "decimal" {
			lvlText.CreateAttr("w:val", "%"+strconv.Itoa(lvl+1)+".")
		} else {
			lvlText.CreateAttr("w:val", text)
		}
		suff := el.CreateElement("w:suff")
		suff.CreateAttr("w:val", "space")

		pPr := el.CreateElement("w:pPr")
		ind := pPr.CreateElement("w:ind")
		ind.CreateAttr("w:left", strconv.Itoa(720*(lvl+1)))
		ind.CreateAttr("w:hanging", "360")
	}
}
