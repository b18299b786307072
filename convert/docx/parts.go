package docx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"mdx/config"
	"mdx/content"
	"mdx/misc"
)

const (
	nsW            = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationship = "http://schemas.openxmlformats.org/package/2006/relationships"

	relTypeDocument  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCore      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relTypeFootnotes = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	relTypeFooter    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relTypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

	// fixed relationship ids inside word/_rels/document.xml.rels, hyperlink
	// ids are allocated after these
	relIDStyles    = "rId1"
	relIDNumbering = "rId2"
	relIDFootnotes = "rId3"
	relIDFooter    = "rId4"
	relIDExtBase   = 5

	numIDBullet  = "1"
	numIDDecimal = "2"
)

func newPartDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func buildContentTypes() *etree.Document {
	doc := newPartDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	def := types.CreateElement("Default")
	def.CreateAttr("Extension", "rels")
	def.CreateAttr("ContentType", "application/vnd.openxmlformats-package.relationships+xml")

	def = types.CreateElement("Default")
	def.CreateAttr("Extension", "xml")
	def.CreateAttr("ContentType", "application/xml")

	overrides := []struct{ part, contentType string }{
		{"/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
		{"/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
		{"/word/numbering.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"},
		{"/word/footnotes.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.footnotes+xml"},
		{"/word/footer1.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"},
		{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml"},
	}
	for _, o := range overrides {
		ov := types.CreateElement("Override")
		ov.CreateAttr("PartName", o.part)
		ov.CreateAttr("ContentType", o.contentType)
	}
	return doc
}

func buildPackageRels() *etree.Document {
	doc := newPartDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRelationship)

	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", "rId1")
	rel.CreateAttr("Type", relTypeDocument)
	rel.CreateAttr("Target", "word/document.xml")

	rel = rels.CreateElement("Relationship")
	rel.CreateAttr("Id", "rId2")
	rel.CreateAttr("Type", relTypeCore)
	rel.CreateAttr("Target", "docProps/core.xml")
	return doc
}

func buildDocumentRels(external []string) *etree.Document {
	doc := newPartDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRelationship)

	fixed := []struct{ id, typ, target string }{
		{relIDStyles, relTypeStyles, "styles.xml"},
		{relIDNumbering, relTypeNumbering, "numbering.xml"},
		{relIDFootnotes, relTypeFootnotes, "footnotes.xml"},
		{relIDFooter, relTypeFooter, "footer1.xml"},
	}
	for _, f := range fixed {
		rel := rels.CreateElement("Relationship")
		rel.CreateAttr("Id", f.id)
		rel.CreateAttr("Type", f.typ)
		rel.CreateAttr("Target", f.target)
	}
	for i, target := range external {
		rel := rels.CreateElement("Relationship")
		rel.CreateAttr("Id", extRelID(i))
		rel.CreateAttr("Type", relTypeHyperlink)
		rel.CreateAttr("Target", target)
		rel.CreateAttr("TargetMode", "External")
	}
	return doc
}

func extRelID(i int) string {
	return fmt.Sprintf("rId%d", relIDExtBase+i)
}

// buildDocument produces word/document.xml and the ordered list of external
// hyperlink targets referenced from it.
func buildDocument(c *content.Content, paras []content.Para, cfg *config.DocumentConfig) (*etree.Document, []string) {
	doc := newPartDocument()
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)

	body := root.CreateElement("w:body")

	links := &linkTable{index: make(map[string]int)}
	for i := range paras {
		writeParagraph(body, &paras[i], links)
	}

	sect := body.CreateElement("w:sectPr")
	pgSz := sect.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", twips(cfg.Page.Width))
	pgSz.CreateAttr("w:h", twips(cfg.Page.Height))
	pgMar := sect.CreateElement("w:pgMar")
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		pgMar.CreateAttr(side, twips(cfg.Page.Margin))
	}
	ftr := sect.CreateElement("w:footerReference")
	ftr.CreateAttr("w:type", "default")
	ftr.CreateAttr("r:id", relIDFooter)

	return doc, links.targets
}

// twips converts points to twentieths of a point used by page geometry.
func twips(points float64) string {
	return strconv.Itoa(int(points * 20))
}

type linkTable struct {
	targets []string
	index   map[string]int
}

func (lt *linkTable) relID(target string) string {
	if i, ok := lt.index[target]; ok {
		return extRelID(i)
	}
	i := len(lt.targets)
	lt.index[target] = i
	lt.targets = append(lt.targets, target)
	return extRelID(i)
}

func writeParagraph(body *etree.Element, p *content.Para, links *linkTable) {
	par := body.CreateElement("w:p")
	pPr := par.CreateElement("w:pPr")

	switch p.Role {
	case content.RoleHeading:
		style := pPr.CreateElement("w:pStyle")
		style.CreateAttr("w:val", headingStyleID(p.HeadingDepth))
	case content.RoleQuote:
		style := pPr.CreateElement("w:pStyle")
		style.CreateAttr("w:val", "Quote")
	case content.RoleCode:
		style := pPr.CreateElement("w:pStyle")
		style.CreateAttr("w:val", "Code")
	case content.RoleListItem:
		style := pPr.CreateElement("w:pStyle")
		style.CreateAttr("w:val", "ListParagraph")
		// a record without an item index is a continuation paragraph of
		// the preceding item: indent only, no marker
		if p.Index > 0 {
			numPr := pPr.CreateElement("w:numPr")
			ilvl := numPr.CreateElement("w:ilvl")
			ilvl.CreateAttr("w:val", strconv.Itoa(numberingLevel(p.ListDepth)))
			numID := numPr.CreateElement("w:numId")
			if p.Ordered {
				numID.CreateAttr("w:val", numIDDecimal)
			} else {
				numID.CreateAttr("w:val", numIDBullet)
			}
		}
		ind := pPr.CreateElement("w:ind")
		ind.CreateAttr("w:left", strconv.Itoa(720*(p.ListDepth+1)))
	}
	if len(pPr.ChildElements()) == 0 {
		par.RemoveChild(pPr)
	}
	if p.Role == content.RoleSpacer {
		// a spacer is an intentionally empty paragraph
		return
	}

	// consecutive runs belonging to one link share one hyperlink wrapper
	var parent *etree.Element
	lastLink := ""
	for _, run := range p.Runs {
		if run.Footnote > 0 {
			// structural footnote marker replaces the bracket placeholder
			// in the packaged output
			writeFootnoteReference(par, run.Footnote)
			parent, lastLink = nil, ""
			continue
		}
		target := par
		if run.Link != "" {
			if parent == nil || run.Link != lastLink {
				parent = par.CreateElement("w:hyperlink")
				parent.CreateAttr("r:id", links.relID(run.Link))
				lastLink = run.Link
			}
			target = parent
		} else {
			parent, lastLink = nil, ""
		}
		writeRun(target, run)
	}
}

// numberingLevel clamps list depth to the deepest level the numbering
// definitions declare.
func numberingLevel(depth int) int {
	if depth > 8 {
		depth = 8
	}
	return depth
}

func headingStyleID(depth int) string {
	// three distinct heading roles, everything deeper uses the last one
	if depth > 3 {
		depth = 3
	}
	if depth < 1 {
		depth = 1
	}
	return "Heading" + strconv.Itoa(depth)
}

func writeRun(parent *etree.Element, run content.Run) {
	r := parent.CreateElement("w:r")

	rPr := r.CreateElement("w:rPr")
	if run.Link != "" {
		style := rPr.CreateElement("w:rStyle")
		style.CreateAttr("w:val", "Hyperlink")
	}
	if run.Mono {
		fonts := rPr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", "Courier New")
		fonts.CreateAttr("w:hAnsi", "Courier New")
	}
	if run.Style.Bold {
		rPr.CreateElement("w:b")
	}
	if run.Style.Italic {
		rPr.CreateElement("w:i")
	}
	if run.Style.Superscript {
		va := rPr.CreateElement("w:vertAlign")
		va.CreateAttr("w:val", "superscript")
	}
	if len(rPr.ChildElements()) == 0 {
		r.RemoveChild(rPr)
	}

	// hard line breaks live inside the run as w:br
	for i, part := range strings.Split(run.Text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		if part == "" {
			continue
		}
		t := r.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(part)
	}
}

func writeFootnoteReference(par *etree.Element, id int) {
	r := par.CreateElement("w:r")
	rPr := r.CreateElement("w:rPr")
	style := rPr.CreateElement("w:rStyle")
	style.CreateAttr("w:val", "FootnoteReference")
	ref := r.CreateElement("w:footnoteReference")
	ref.CreateAttr("w:id", strconv.Itoa(id))
}

// buildFootnotes produces word/footnotes.xml with the two mandatory marker
// entries followed by one entry per resolved footnote in ascending id
// order. Dangling references produce a single blank paragraph.
func buildFootnotes(notes []content.Footnote) *etree.Document {
	doc := newPartDocument()
	root := doc.CreateElement("w:footnotes")
	root.CreateAttr("xmlns:w", nsW)

	sep := root.CreateElement("w:footnote")
	sep.CreateAttr("w:type", "separator")
	sep.CreateAttr("w:id", "-1")
	p := sep.CreateElement("w:p")
	p.CreateElement("w:r").CreateElement("w:separator")

	cont := root.CreateElement("w:footnote")
	cont.CreateAttr("w:type", "continuationSeparator")
	cont.CreateAttr("w:id", "0")
	p = cont.CreateElement("w:p")
	p.CreateElement("w:r").CreateElement("w:continuationSeparator")

	for _, note := range notes {
		fn := root.CreateElement("w:footnote")
		fn.CreateAttr("w:id", strconv.Itoa(note.ID))

		p := fn.CreateElement("w:p")
		pPr := p.CreateElement("w:pPr")
		style := pPr.CreateElement("w:pStyle")
		style.CreateAttr("w:val", "FootnoteText")

		r := p.CreateElement("w:r")
		rPr := r.CreateElement("w:rPr")
		rStyle := rPr.CreateElement("w:rStyle")
		rStyle.CreateAttr("w:val", "FootnoteReference")
		r.CreateElement("w:footnoteRef")

		if text := note.Text(); text != "" {
			r = p.CreateElement("w:r")
			t := r.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(" " + text)
		}
	}
	return doc
}

func buildFooter() *etree.Document {
	doc := newPartDocument()
	root := doc.CreateElement("w:ftr")
	root.CreateAttr("xmlns:w", nsW)

	p := root.CreateElement("w:p")
	pPr := p.CreateElement("w:pPr")
	jc := pPr.CreateElement("w:jc")
	jc.CreateAttr("w:val", "right")

	fld := p.CreateElement("w:fldSimple")
	fld.CreateAttr("w:instr", " PAGE ")
	fld.CreateElement("w:r").CreateElement("w:t").SetText("1")
	return doc
}

func buildCoreProperties(c *content.Content) *etree.Document {
	doc := newPartDocument()
	root := doc.CreateElement("cp:coreProperties")
	root.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	root.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	root.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	root.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	root.CreateElement("dc:title").SetText(c.Title)
	root.CreateElement("dc:identifier").SetText(c.DocID)
	root.CreateElement("dc:creator").SetText(misc.GetAppName())

	created := root.CreateElement("dcterms:created")
	created.CreateAttr("xsi:type", "dcterms:W3CDTF")
	created.SetText(time.Now().UTC().Format(time.RFC3339))
	return doc
}
