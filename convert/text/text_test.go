package text

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"mdx/content"
	"mdx/markdown"
)

const sampleSource = `# Title

Body with **bold** words and a note.[^a]

> Quoted line.

- first
- second

1. one
2. two

[^a]: Note body.
`

func projectSource(t *testing.T, src string) string {
	t.Helper()
	root := markdown.Parse([]byte(src), zaptest.NewLogger(t))
	paras, footnotes := content.Translate(root)
	return Project(paras, footnotes.Snapshot(), "Notes")
}

func TestProject(t *testing.T) {
	got := projectSource(t, sampleSource)

	for _, want := range []string{
		"Title",
		"Body with bold words and a note.[1]",
		"> Quoted line.",
		"- first",
		"- second",
		"1. one",
		"2. two",
		"Notes",
		"[1] Note body.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("projection missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "**") {
		t.Error("markup leaked into projection")
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("projection does not end with a newline")
	}
	if strings.Contains(got, "\n\n\n") {
		t.Error("projection has runs of more than one blank line")
	}
}

func TestProject_Empty(t *testing.T) {
	if got := projectSource(t, ""); got != "" {
		t.Errorf("Project() of empty document = %q, want empty", got)
	}
}

func TestProject_SpacersSkipped(t *testing.T) {
	got := projectSource(t, "before\n\n---\n\nafter\n")
	want := "before\n\nafter\n"
	if got != want {
		t.Errorf("Project() = %q, want %q", got, want)
	}
}

func TestProject_DanglingFootnote(t *testing.T) {
	got := projectSource(t, "A claim.[^missing]\n")

	if !strings.Contains(got, "A claim.[1]") {
		t.Errorf("dangling reference not numbered: %q", got)
	}
	// the dangling note keeps its id with no body text after it
	if !strings.HasSuffix(got, "[1]\n") {
		t.Errorf("dangling note entry malformed: %q", got)
	}
}

func TestProject_Idempotent(t *testing.T) {
	first := projectSource(t, sampleSource)
	second := projectSource(t, first)
	if first != second {
		t.Errorf("projection is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestMeasure(t *testing.T) {
	st := Measure("One two three. Four five.")
	if st.Words != 5 {
		t.Errorf("Words = %d, want 5", st.Words)
	}
	if st.Sentences != 2 {
		t.Errorf("Sentences = %d, want 2", st.Sentences)
	}
}

func TestMeasure_Empty(t *testing.T) {
	st := Measure("")
	if st.Words != 0 {
		t.Errorf("Words = %d, want 0", st.Words)
	}
	if st.Sentences != 0 {
		t.Errorf("Sentences = %d, want 0", st.Sentences)
	}
}

func TestMeasure_Abbreviations(t *testing.T) {
	st := Measure("Dr. Smith arrived at 3.5 p.m. today. Everyone left.")
	if st.Sentences != 2 {
		t.Errorf("Sentences = %d, want 2", st.Sentences)
	}
}
