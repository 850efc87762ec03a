// Package config loads twisty's YAML configuration.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps schema violations.
var ErrInvalidConfig = errors.New("config: invalid configuration")

//go:embed config.schema.json
var schemaJSON []byte

type Config struct {
	Turn    Turn    `yaml:"turn" json:"turn"`
	Shuffle Shuffle `yaml:"shuffle" json:"shuffle"`
	Gesture Gesture `yaml:"gesture" json:"gesture"`
	Lattice Lattice `yaml:"lattice" json:"lattice"`
	Storage Storage `yaml:"storage" json:"storage"`
	Journal Journal `yaml:"journal" json:"journal"`
	Seed    uint64  `yaml:"seed" json:"seed"`
}

type Turn struct {
	DurationMs  int `yaml:"duration_ms" json:"duration_ms"`
	FrameRateHz int `yaml:"frame_rate_hz" json:"frame_rate_hz"`
}

type Shuffle struct {
	DefaultCount int `yaml:"default_count" json:"default_count"`
	MaxCount     int `yaml:"max_count" json:"max_count"`
}

type Gesture struct {
	MinSwipe           float64 `yaml:"min_swipe" json:"min_swipe"`
	UnitsPerPixel      float64 `yaml:"units_per_pixel" json:"units_per_pixel"`
	InvertDirection    bool    `yaml:"invert_direction" json:"invert_direction"`
	TargetRule         string  `yaml:"target_rule" json:"target_rule"`
	MinNormalAlignment float64 `yaml:"min_normal_alignment" json:"min_normal_alignment"`
}

type Lattice struct {
	Spacing float64 `yaml:"spacing" json:"spacing"`
}

type Storage struct {
	DBPath string `yaml:"db_path" json:"db_path"`
}

type Journal struct {
	Dir      string `yaml:"dir" json:"dir"`
	Compress bool   `yaml:"compress" json:"compress"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Turn:    Turn{DurationMs: 140, FrameRateHz: 60},
		Shuffle: Shuffle{DefaultCount: 25, MaxCount: 200},
		Gesture: Gesture{
			MinSwipe:           0.15,
			UnitsPerPixel:      0.01,
			TargetRule:         "cross",
			MinNormalAlignment: 0.8,
		},
		Lattice: Lattice{Spacing: 1.02},
		Storage: Storage{DBPath: "~/.twisty/twisty.db"},
		Journal: Journal{Dir: "~/.twisty/logs", Compress: true},
	}
}

// Load reads a YAML file over the defaults and validates the result. An
// empty path returns the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	return Parse(raw)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(raw []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks c against the embedded schema.
func (c Config) Validate() error {
	s, err := compiled()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func compiled() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("config.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile("config.schema.json")
}

// TurnDuration returns the animated turn duration.
func (c Config) TurnDuration() time.Duration {
	return time.Duration(c.Turn.DurationMs) * time.Millisecond
}

// FrameInterval returns the time between frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Turn.FrameRateHz)
}

// DBPath returns the storage path with ~ expanded.
func (c Config) DBPath() string {
	return ExpandHome(c.Storage.DBPath)
}

// JournalDir returns the journal directory with ~ expanded.
func (c Config) JournalDir() string {
	return ExpandHome(c.Journal.Dir)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
