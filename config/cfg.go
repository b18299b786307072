package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// PageConfig describes fixed page geometry for paginated output. All
	// values are in points, margins are uniform.
	PageConfig struct {
		Width  float64 `yaml:"width" validate:"gt=0"`
		Height float64 `yaml:"height" validate:"gt=0"`
		Margin float64 `yaml:"margin" validate:"gt=0"`
	}

	// FontsConfig selects font families and sizes for paginated output.
	// Heading sizes are indexed by heading depth, the last entry serves all
	// deeper levels.
	FontsConfig struct {
		BodyFamily   string    `yaml:"body_family" validate:"required,oneof=times helvetica"`
		MonoFamily   string    `yaml:"mono_family" validate:"required,oneof=courier"`
		BodySize     float64   `yaml:"body_size" validate:"gte=6,lte=24"`
		LineSpacing  float64   `yaml:"line_spacing" validate:"gte=1,lte=3"`
		HeadingSizes []float64 `yaml:"heading_sizes" validate:"min=1,dive,gt=0"`
	}

	EndnotesConfig struct {
		Title string `yaml:"title" validate:"required"`
	}

	DocumentConfig struct {
		FixZip                bool           `yaml:"fix_zip"`
		OutputNameTemplate    string         `yaml:"output_name_template"`
		FileNameTransliterate bool           `yaml:"file_name_transliterate"`
		Page                  PageConfig     `yaml:"page"`
		Fonts                 FontsConfig    `yaml:"fonts"`
		Endnotes              EndnotesConfig `yaml:"endnotes"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a
// byte slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// HeadingSize returns the point size for a heading of a given depth,
// clamping depth to the configured size table.
func (f *FontsConfig) HeadingSize(depth int) float64 {
	if depth < 1 {
		depth = 1
	}
	if depth > len(f.HeadingSizes) {
		depth = len(f.HeadingSizes)
	}
	return f.HeadingSizes[depth-1]
}
