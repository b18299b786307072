// Package text projects the paragraph records to a flat plain-text string,
// used for the txt output format and for preview statistics. Projection is
// idempotent: a document parsed back from projected text projects to the
// same string.
package text

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"mdx/config"
	"mdx/content"
	"mdx/state"
)

// Generate creates the plain-text output file from the semantic tree held
// by c.
func Generate(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	log.Info("Generating plain text", zap.String("output", outputPath))

	paras, footnotes := content.Translate(c.Root)
	projected := Project(paras, footnotes.Snapshot(), cfg.Endnotes.Title)

	if err := os.WriteFile(outputPath, []byte(projected), 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}

	stats := Measure(projected)
	log.Debug("Projected document",
		zap.Int("words", stats.Words),
		zap.Int("sentences", stats.Sentences))

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s.txt", c.DocID), outputPath)
	}
	return nil
}

// Project flattens paragraph records into plain text. Structural roles keep
// only their textual residue: list items keep their prefix, quotes keep the
// quote indicator, everything else loses its markup. Resolved footnotes are
// appended as a trailing section.
func Project(paras []content.Para, notes []content.Footnote, notesTitle string) string {
	var sb strings.Builder
	for i := range paras {
		p := &paras[i]
		if p.Role == content.RoleSpacer {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p.Prefix)
		for _, run := range p.Runs {
			sb.WriteString(run.Text)
		}
	}
	if len(notes) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(notesTitle)
		for _, note := range notes {
			sb.WriteString("\n\n[" + strconv.Itoa(note.ID) + "]")
			if text := note.Text(); text != "" {
				sb.WriteString(" " + text)
			}
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return sb.String() + "\n"
}
