// Package content holds the per-export document state and the translation
// core turning the semantic tree into the flat abstract paragraph sequence
// both emitters consume.
package content

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mdx/markdown"
	"mdx/state"
)

// Content encapsulates a single parsed source document. The semantic tree
// is immutable once Prepare returns; every emission call derives its own
// paragraph records and footnote table from it.
type Content struct {
	SrcName string
	Title   string
	DocID   string

	Root *markdown.Node
}

// Prepare reads and parses a Markdown source. The export title is taken
// from the explicit override when given, otherwise from the first level-1
// heading, otherwise from the source file name.
func Prepare(ctx context.Context, r io.Reader, srcName string, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read source: %w", err)
	}

	root := markdown.Parse(src, log)

	title := env.Title
	if title == "" {
		title = root.FirstHeadingText()
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName))
	}

	refID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate document reference ID: %w", err)
	}

	c := &Content{
		SrcName: srcName,
		Title:   title,
		DocID:   refID.String(),
		Root:    root,
	}

	// Save parsed document dump for debugging
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("parsed-%s.txt", c.DocID), []byte(c.String()))
	}

	log.Debug("Source prepared", zap.String("source", srcName), zap.String("title", title), zap.String("ref_id", c.DocID))
	return c, nil
}
