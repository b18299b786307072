// Enums live in a separate leaf package so that config, content and
// converters can share them without import cycles.
package common

// Specification of requested output type.
// ENUM(docx, pdf, txt)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtDocx:
		return ".docx"
	case OutputFmtPdf:
		return ".pdf"
	case OutputFmtTxt:
		return ".txt"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Packaged reports whether the format is a zip container (and therefore may
// need the data descriptor fixup pass on output).
func (o OutputFmt) Packaged() bool {
	return o == OutputFmtDocx
}
