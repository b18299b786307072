// Package pdf emits the fixed-layout paginated artifact: paragraph records
// are word-wrapped against measured glyph widths and placed on pages of the
// configured geometry.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"

	"mdx/config"
	"mdx/content"
	"mdx/state"
)

var _ surface = (*fpdf.Fpdf)(nil)

// Generate creates the paginated output file from the semantic tree held by
// c. The paragraph records and the footnote table are derived fresh inside
// this call, so the reference numbering always matches the flow emitter.
func Generate(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	log.Info("Generating paginated document", zap.String("output", outputPath))

	paras, footnotes := content.Translate(c.Root)
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("translated-pdf-%s.txt", c.DocID), []byte(content.DumpParas(paras, footnotes)))
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: cfg.Page.Width, Ht: cfg.Page.Height},
	})
	doc.SetTitle(c.Title, true)
	doc.SetAutoPageBreak(false, 0)

	r := newRenderer(doc, cfg)
	if err := r.render(c.Title, paras, footnotes.Snapshot()); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	r.stampPageNumbers()

	if err := doc.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s.pdf", c.DocID), outputPath)
	}
	return nil
}
