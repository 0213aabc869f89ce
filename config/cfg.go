package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"sphv/sphinx"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// MarkersConfig lists class attribute values which drive conversion.
	MarkersConfig struct {
		Content    string `yaml:"content" validate:"required"`
		Navigation string `yaml:"navigation" validate:"required"`
		First      string `yaml:"first_paragraph"`
		Simple     string `yaml:"simple_list"`
		Inline     string `yaml:"inline_literal"`
		Modified   string `yaml:"version_modified"`
		HeaderLink string `yaml:"header_link"`
	}

	DocumentConfig struct {
		Markers               MarkersConfig `yaml:"markers"`
		MaxTokenSize          int           `yaml:"max_token_size" validate:"gte=0"`
		StylesheetPath        string        `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		OutputFormat          OutputFmt     `yaml:"output_format" validate:"gte=0"`
		OutputNameTemplate    string        `yaml:"output_name_template"`
		FileNameTransliterate bool          `yaml:"file_name_transliterate"`
	}

	ViewerConfig struct {
		ShowTOC   bool `yaml:"show_toc"`
		TOCWidth  int  `yaml:"toc_width" validate:"min=10,max=120"`
		WrapWidth int  `yaml:"wrap_width" validate:"gte=0"`
		TabWidth  int  `yaml:"tab_width" validate:"min=1,max=16"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Viewer    ViewerConfig   `yaml:"viewer"`
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

// SphinxMarkers converts configured markers for the converter.
func (m MarkersConfig) SphinxMarkers() sphinx.Markers {
	return sphinx.Markers{
		Content:    m.Content,
		Navigation: m.Navigation,
		First:      m.First,
		Simple:     m.Simple,
		Inline:     m.Inline,
		Modified:   m.Modified,
		HeaderLink: m.HeaderLink,
	}
}

// ConvertOptions returns converter options matching document configuration.
func (conf *DocumentConfig) ConvertOptions() []sphinx.Option {
	return []sphinx.Option{
		sphinx.WithMarkers(conf.Markers.SphinxMarkers()),
		sphinx.WithMaxBuf(conf.MaxTokenSize),
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("configuration sanitization failed: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
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

// Prepare generates configuration file from template and returns it as a byte
// slice.
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
