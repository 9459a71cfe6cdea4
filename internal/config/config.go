// Package config reads and writes the glyphseg YAML settings file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/glyphseg/internal/segment"
)

// File is the on-disk settings layout.
type File struct {
	Segment    segment.Config `yaml:"segment"`
	Classifier Classifier     `yaml:"classifier"`
	Output     Output         `yaml:"output"`
}

// Classifier selects the recognition model.
type Classifier struct {
	Model     string `yaml:"model"`
	Whitelist string `yaml:"whitelist,omitempty"`
}

// Output controls the annotated image written by the run command.
type Output struct {
	Path       string `yaml:"path"`
	LabelColor string `yaml:"label_color"`
	BoxColor   string `yaml:"box_color"`
	DrawBoxes  bool   `yaml:"draw_boxes"`
}

// Default output settings.
const (
	DefaultOutputPath = "output.png"
	DefaultLabelColor = "#00FF00"
	DefaultBoxColor   = "#FF000080"
)

// Default returns the settings used when no file is given.
func Default() *File {
	return &File{
		Segment: segment.DefaultConfig(),
		Output: Output{
			Path:       DefaultOutputPath,
			LabelColor: DefaultLabelColor,
			BoxColor:   DefaultBoxColor,
		},
	}
}

// Load reads a settings file. Keys absent from the file keep their default
// values. An empty path returns the defaults.
func Load(path string) (*File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Segment.Validate(); err != nil {
		return nil, fmt.Errorf("invalid segment settings in %s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg at path as YAML.
func Write(cfg *File, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
