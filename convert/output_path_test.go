package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"mdx/common"
	"mdx/config"
	"mdx/content"
	"mdx/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	cfg.Document.OutputNameTemplate = template

	env := &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
	return env
}

func setupTestContentForPath(t *testing.T) *content.Content {
	t.Helper()
	return &content.Content{
		SrcName: "testdoc.md",
		Title:   "Test Document",
		DocID:   "test-doc-id",
	}
}

func TestBuildOutputPath_SimpleCase_NoDirs(t *testing.T) {
	c := setupTestContentForPath(t)
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := buildOutputPath(c, "docs/author/doc.md", "/output", common.OutputFmtDocx, env)
	expected := filepath.Join("/output", "doc.docx")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_SimpleCase_WithDirs(t *testing.T) {
	c := setupTestContentForPath(t)
	env := setupTestEnvForOutputPath(t, false, false, "")

	result := buildOutputPath(c, "docs/author/doc.md", "/output", common.OutputFmtDocx, env)
	expected := filepath.Join("/output", "docs", "author", "doc.docx")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_DifferentFormats(t *testing.T) {
	tests := []struct {
		name   string
		format common.OutputFmt
		ext    string
	}{
		{"DOCX", common.OutputFmtDocx, ".docx"},
		{"PDF", common.OutputFmtPdf, ".pdf"},
		{"TXT", common.OutputFmtTxt, ".txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupTestContentForPath(t)
			env := setupTestEnvForOutputPath(t, true, false, "")

			result := buildOutputPath(c, "doc.md", "/output", tt.format, env)
			expected := filepath.Join("/output", "doc"+tt.ext)

			if result != expected {
				t.Errorf("buildOutputPath() = %q, want %q", result, expected)
			}
		})
	}
}

func TestBuildOutputPath_Transliterate(t *testing.T) {
	c := setupTestContentForPath(t)
	env := setupTestEnvForOutputPath(t, true, true, "")

	result := buildOutputPath(c, "Книга.md", "/output", common.OutputFmtDocx, env)
	expected := filepath.Join("/output", "kniga.docx")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_Template(t *testing.T) {
	c := setupTestContentForPath(t)
	env := setupTestEnvForOutputPath(t, true, false, "{{ .Title }}/{{ .SourceFile }}")

	result := buildOutputPath(c, "testdoc.md", "/output", common.OutputFmtPdf, env)
	expected := filepath.Join("/output", "Test Document", "testdoc.pdf")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_BadTemplateFallsBack(t *testing.T) {
	c := setupTestContentForPath(t)
	env := setupTestEnvForOutputPath(t, true, false, "{{ .NoSuchField }}")

	result := buildOutputPath(c, "testdoc.md", "/output", common.OutputFmtDocx, env)
	expected := filepath.Join("/output", "testdoc.docx")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestDetermineOutputDir_NoDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := determineOutputDir("docs/author/doc.md", "/output", env)
	expected := "/output"

	if result != expected {
		t.Errorf("determineOutputDir() = %q, want %q", result, expected)
	}
}

func TestDetermineOutputDir_WithDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, false, "")

	result := determineOutputDir("docs/author/doc.md", "/output", env)
	expected := filepath.Join("/output", "docs", "author")

	if result != expected {
		t.Errorf("determineOutputDir() = %q, want %q", result, expected)
	}
}

func TestBuildDefaultFileName(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		transliterate bool
		format        common.OutputFmt
		expected      string
	}{
		{"simple docx", "doc.md", false, common.OutputFmtDocx, "doc.docx"},
		{"with path", "path/to/doc.md", false, common.OutputFmtDocx, "doc.docx"},
		{"pdf format", "doc.md", false, common.OutputFmtPdf, "doc.pdf"},
		{"txt format", "doc.md", false, common.OutputFmtTxt, "doc.txt"},
		{"transliterate", "Книга.md", true, common.OutputFmtDocx, "kniga.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")

			result := buildDefaultFileName(tt.src, tt.format, env)
			if result != tt.expected {
				t.Errorf("buildDefaultFileName() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"simple path", "author/doc", []string{"author", "doc"}},
		{"single segment", "doc", []string{"doc"}},
		{"with trailing slash", "author/doc/", []string{"author", "doc"}},
		{"three levels", "genre/author/doc", []string{"genre", "author", "doc"}},
		{"empty path", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndCleanPath(tt.path)
			if len(result) != len(tt.expected) {
				t.Errorf("splitAndCleanPath() length = %d, want %d", len(result), len(tt.expected))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndCleanPath()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCleanPathSegment(t *testing.T) {
	tests := []struct {
		name          string
		segment       string
		transliterate bool
		expected      string
	}{
		{"simple segment", "author", false, "author"},
		{"with spaces", "My Document", false, "My Document"},
		{"transliterate cyrillic", "Автор", true, "avtor"},
		{"special chars", "doc:name", false, "docname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")

			result := cleanPathSegment(tt.segment, env)
			if result != tt.expected {
				t.Errorf("cleanPathSegment() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestAssemblePathWithSubdirs(t *testing.T) {
	tests := []struct {
		name          string
		outDir        string
		expandedName  string
		transliterate bool
		format        common.OutputFmt
		expected      string
	}{
		{
			"simple template",
			"/output",
			"author/doc",
			false,
			common.OutputFmtDocx,
			filepath.Join("/output", "author", "doc.docx"),
		},
		{
			"single level",
			"/output",
			"doc",
			false,
			common.OutputFmtDocx,
			filepath.Join("/output", "doc.docx"),
		},
		{
			"with transliterate",
			"/output",
			"Автор/Книга",
			true,
			common.OutputFmtDocx,
			filepath.Join("/output", "avtor", "kniga.docx"),
		},
		{
			"pdf format",
			"/output",
			"author/doc",
			false,
			common.OutputFmtPdf,
			filepath.Join("/output", "author", "doc.pdf"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")

			result := assemblePathWithSubdirs(tt.outDir, tt.expandedName, tt.format, env)
			if result != tt.expected {
				t.Errorf("assemblePathWithSubdirs() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestAssemblePathWithSubdirs_EmptyPath(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := assemblePathWithSubdirs("/output", "", common.OutputFmtDocx, env)
	expected := "/output"

	if result != expected {
		t.Errorf("assemblePathWithSubdirs() with empty path = %q, want %q", result, expected)
	}
}
