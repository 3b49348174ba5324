package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up next to the source.
const DefaultFile = "formia.yaml"

// fileOptions mirrors the keys a config file may set. Nil means unset.
type fileOptions struct {
	OutputDir   *string  `yaml:"output_dir"`
	Formats     []string `yaml:"formats"`
	Optimize    *bool    `yaml:"optimize"`
	Records     *string  `yaml:"records"`
	Diagnostics *bool    `yaml:"diagnostics"`
	Lint        *bool    `yaml:"lint"`
	Watch       *bool    `yaml:"watch"`
	LogLevel    *string  `yaml:"log_level"`
	MaxUnroll   *int     `yaml:"max_unroll"`
	Rollback    *int     `yaml:"rollback"`
}

// WithFile applies the settings of a YAML config file on top of the
// builder. Keys missing from the file keep their current value.
func (b Builder) WithFile(path string) (Builder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("reading config %s: %w", path, err)
	}

	return b.WithYAML(data)
}

// WithYAML is WithFile on in-memory content.
func (b Builder) WithYAML(data []byte) (Builder, error) {
	var f fileOptions

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return b, fmt.Errorf("parsing config: %w", err)
	}

	if f.OutputDir != nil {
		b = b.WithOutputDir(*f.OutputDir)
	}

	if f.Formats != nil {
		b = b.WithFormats(strings.Join(f.Formats, ","))
	}

	if f.Optimize != nil {
		b = b.WithOptimize(*f.Optimize)
	}

	if f.Records != nil {
		b = b.WithRecords(*f.Records)
	}

	if f.Diagnostics != nil {
		b = b.WithDiagnostics(*f.Diagnostics)
	}

	if f.Lint != nil {
		b = b.WithLint(*f.Lint)
	}

	if f.Watch != nil {
		b = b.WithWatch(*f.Watch)
	}

	if f.LogLevel != nil {
		b = b.WithLogLevel(*f.LogLevel)
	}

	if f.MaxUnroll != nil {
		b = b.WithMaxUnroll(*f.MaxUnroll)
	}

	if f.Rollback != nil {
		b = b.WithRollback(*f.Rollback)
	}

	return b, nil
}
