// Package docx emits the packaged flow-document artifact: a zip container
// of WordprocessingML parts built from the abstract paragraph records.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"mdx/config"
	"mdx/content"
	"mdx/state"
)

// Generate creates the flow-document output file from the semantic tree
// held by c. The paragraph records and the footnote table are derived fresh
// inside this call and are discarded with it.
func Generate(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	log.Info("Generating flow document", zap.String("output", outputPath))

	paras, footnotes := content.Translate(c.Root)
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("translated-docx-%s.txt", c.DocID), []byte(content.DumpParas(paras, footnotes)))
	}

	var buf bytes.Buffer
	if err := writePackage(&buf, c, paras, footnotes.Snapshot(), cfg); err != nil {
		return fmt.Errorf("docx: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	if cfg.FixZip {
		if err := copyZipWithoutDataDescriptors(f, buf.Bytes()); err != nil {
			return fmt.Errorf("docx: %w", err)
		}
	} else if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s.docx", c.DocID), outputPath)
	}
	return nil
}

// writePackage assembles all package parts into a zip container held in w.
// Nothing is written to w on error - the caller never sees a partial
// artifact.
func writePackage(w io.Writer, c *content.Content, paras []content.Para, notes []content.Footnote, cfg *config.DocumentConfig) error {
	// an empty flow document is invalid in most consumers
	if len(paras) == 0 {
		paras = []content.Para{{Role: content.RoleBody, Runs: []content.Run{{Text: c.Title}}}}
	}

	zw := zip.NewWriter(w)

	doc, extRels := buildDocument(c, paras, cfg)

	parts := []struct {
		name  string
		build func() *etree.Document
	}{
		{"[Content_Types].xml", buildContentTypes},
		{"_rels/.rels", buildPackageRels},
		{"word/document.xml", func() *etree.Document { return doc }},
		{"word/_rels/document.xml.rels", func() *etree.Document { return buildDocumentRels(extRels) }},
		{"word/styles.xml", buildStyles},
		{"word/numbering.xml", buildNumbering},
		{"word/footnotes.xml", func() *etree.Document { return buildFootnotes(notes) }},
		{"word/footer1.xml", buildFooter},
		{"docProps/core.xml", func() *etree.Document { return buildCoreProperties(c) }},
	}
	for _, part := range parts {
		if err := writeXMLToZip(zw, part.name, part.build()); err != nil {
			return fmt.Errorf("unable to write part %s: %w", part.name, err)
		}
	}
	return zw.Close()
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// copyZipWithoutDataDescriptors rewrites the finished archive clearing the
// data descriptor flag on every entry. Some strict package consumers refuse
// streamed zip output.
func copyZipWithoutDataDescriptors(out io.Writer, data []byte) error {
	r, err := fixzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("unable to reread produced archive: %w", err)
	}

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to copy archive entry: %w", err)
		}
	}
	return w.Close()
}
