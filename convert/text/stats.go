package text

import (
	"strings"

	"github.com/neurosnap/sentences/english"
)

// Stats summarizes projected text for previews.
type Stats struct {
	Words     int
	Sentences int
}

// Measure counts words and sentences in projected text. Sentence splitting
// uses the trained English tokenizer, which copes with abbreviations and
// decimal points better than naive punctuation scanning.
func Measure(s string) Stats {
	st := Stats{Words: len(strings.Fields(s))}
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		// the embedded training data is static, this cannot happen
		return st
	}
	st.Sentences = len(tokenizer.Tokenize(s))
	return st
}
