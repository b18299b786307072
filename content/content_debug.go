package content

import (
	"sort"

	"github.com/maruel/natural"

	"mdx/utils/debug"
)

// String returns a readable dump of the whole Content starting with the
// parsed semantic tree. It exists solely for manual inspection during
// debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.TextBlock(0, "Source", c.SrcName)
	tw.TextBlock(0, "Title", c.Title)
	tw.Line(0, "RefID: %s", c.DocID)

	out := tw.String() + "\n" + c.Root.String()

	// resolving against a throwaway table - dumps must not disturb real
	// emission state
	fn := NewFootnotes(c.Root)
	idents := make([]string, 0, len(fn.defs))
	for ident := range fn.defs {
		idents = append(idents, ident)
	}
	if len(idents) > 0 {
		sort.Sort(natural.StringSlice(idents))

		tw = debug.NewTreeWriter()
		tw.Line(0, "Footnote definitions: %d", len(idents))
		for _, ident := range idents {
			tw.TextBlock(1, "Definition["+ident+"]", fn.defs[ident].AsPlainText())
		}
		out += "\n" + tw.String()
	}
	return out
}

// DumpParas renders translated paragraph records for the debug report.
func DumpParas(paras []Para, fn *Footnotes) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Paragraph records: %d", len(paras))
	for i, p := range paras {
		switch p.Role {
		case RoleHeading:
			tw.Line(1, "[%d] %s depth[%d]", i, p.Role, p.HeadingDepth)
		case RoleListItem:
			tw.Line(1, "[%d] %s depth[%d] index[%d] ordered[%t]", i, p.Role, p.ListDepth, p.Index, p.Ordered)
		default:
			tw.Line(1, "[%d] %s", i, p.Role)
		}
		for _, r := range p.Runs {
			tw.TextBlock(2, "run "+styleTag(r), r.Text)
		}
	}
	for _, note := range fn.Snapshot() {
		tw.TextBlock(1, "note["+note.Identifier+"]", note.Text())
	}
	return tw.String()
}

func styleTag(r Run) string {
	tag := r.Style.Variant()
	if tag == "" {
		tag = "R"
	}
	if r.Mono {
		tag += "M"
	}
	if r.Style.Superscript {
		tag += "^"
	}
	return tag
}
