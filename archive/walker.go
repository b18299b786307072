// Package archive builds document discovery on top of "archive/zip": batch
// input may arrive as a zip of Markdown sources, optionally addressed by a
// path inside the container.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// WalkFunc is called for each document entry Walk selects. The archive
// argument is the container path given to Walk, the file argument is the
// matching zip entry. A returned error stops the walk.
type WalkFunc func(archive string, file *zip.File) error

// MatchFunc decides whether an entry name names a document worth visiting.
type MatchFunc func(name string) bool

// Walk visits every file entry under prefix whose name satisfies match,
// calling walkFn for each. Entries with path traversal components ("..")
// or absolute paths abort the walk to prevent Zip Slip attacks.
func Walk(archive, prefix string, match MatchFunc, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if match != nil && !match(name) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
