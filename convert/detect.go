package convert

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var zipMagic = []byte("PK\x03\x04")

// isArchiveFile reports whether path looks like a zip archive. Detection is
// by the local file header signature, not the extension, so renamed
// archives are still picked up.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	var sig [4]byte
	if _, err := io.ReadFull(f, sig[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// too short to be an archive
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(sig[:], zipMagic), nil
}

// isDocumentFile reports whether path names a Markdown source. Markdown has
// no magic bytes, the extension is the only signal.
func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return true
	}
	return false
}
