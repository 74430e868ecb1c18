package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsonbee/internal/bencode"
	"github.com/mcncl/jsonbee/internal/parser"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsonbee
type Config struct {
	Strings StringsConfig `yaml:"strings"`
	Decode  DecodeConfig  `yaml:"decode"`
	Encode  EncodeConfig  `yaml:"encode"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Dev     DevConfig     `yaml:"dev"`
}

// StringsConfig controls how string length prefixes are counted
type StringsConfig struct {
	LengthUnit string `yaml:"length_unit"` // chars or bytes
}

// DecodeConfig controls bencode decoding
type DecodeConfig struct {
	DuplicateKeys string `yaml:"duplicate_keys"` // error or last_wins
	MaxDepth      int    `yaml:"max_depth"`
}

// EncodeConfig controls bencode encoding
type EncodeConfig struct {
	Booleans string `yaml:"booleans"` // error or int
	MaxDepth int    `yaml:"max_depth"`
}

// InputConfig controls how documents for the encoder are parsed
type InputConfig struct {
	Format string `yaml:"format"` // auto, json, jsonc or yaml
}

// OutputConfig controls how results are written
type OutputConfig struct {
	Pretty bool   `yaml:"pretty"`
	Indent int    `yaml:"indent"`
	Color  string `yaml:"color"` // auto, always or never
	Raw    bool   `yaml:"raw"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// Accepted enum values, in normalised form.
const (
	LengthUnitChars = "chars"
	LengthUnitBytes = "bytes"

	DuplicateKeysError    = "error"
	DuplicateKeysLastWins = "last_wins"

	BooleansError = "error"
	BooleansInt   = "int"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Strings: StringsConfig{
			LengthUnit: LengthUnitChars,
		},
		Decode: DecodeConfig{
			DuplicateKeys: DuplicateKeysError,
			MaxDepth:      bencode.DefaultMaxDepth,
		},
		Encode: EncodeConfig{
			Booleans: BooleansError,
			MaxDepth: bencode.DefaultMaxDepth,
		},
		Input: InputConfig{
			Format: string(parser.FormatAuto),
		},
		Output: OutputConfig{
			Pretty: false,
			Indent: 2,
			Color:  ColorAuto,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonbee.yml", ".jsonbee.yaml", "jsonbee.yml", "jsonbee.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// normalize maps spellings such as "LastWins", "last-wins" and
// "last_wins" onto the same snake_case value.
func normalize(value string) string {
	return strcase.ToSnake(strings.TrimSpace(value))
}

func oneOf(field, value string, allowed ...string) (string, error) {
	normalized := normalize(value)
	for _, candidate := range allowed {
		if normalized == candidate {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("%s: invalid value '%s' (expected one of %s)", field, value, strings.Join(allowed, ", "))
}

// Validate normalises enum fields in place and rejects unknown values
func (c *Config) Validate() error {
	var err error
	if c.Strings.LengthUnit, err = oneOf("strings.length_unit", c.Strings.LengthUnit, LengthUnitChars, LengthUnitBytes); err != nil {
		return err
	}
	if c.Decode.DuplicateKeys, err = oneOf("decode.duplicate_keys", c.Decode.DuplicateKeys, DuplicateKeysError, DuplicateKeysLastWins); err != nil {
		return err
	}
	if c.Encode.Booleans, err = oneOf("encode.booleans", c.Encode.Booleans, BooleansError, BooleansInt); err != nil {
		return err
	}
	if c.Input.Format, err = oneOf("input.format", c.Input.Format,
		string(parser.FormatAuto), string(parser.FormatJSON), string(parser.FormatJSONC), string(parser.FormatYAML)); err != nil {
		return err
	}
	if c.Output.Color, err = oneOf("output.color", c.Output.Color, ColorAuto, ColorAlways, ColorNever); err != nil {
		return err
	}
	if c.Decode.MaxDepth < 0 {
		return fmt.Errorf("decode.max_depth: must not be negative, got %d", c.Decode.MaxDepth)
	}
	if c.Encode.MaxDepth < 0 {
		return fmt.Errorf("encode.max_depth: must not be negative, got %d", c.Encode.MaxDepth)
	}
	if c.Output.Indent < 0 || c.Output.Indent > 16 {
		return fmt.Errorf("output.indent: must be between 0 and 16, got %d", c.Output.Indent)
	}
	return nil
}

// Flags carries the command-line settings that can override the file.
// Zero values leave the file's setting untouched.
type Flags struct {
	Format    string
	Bytes     bool
	BoolAsInt bool
	LastWins  bool
	Pretty    bool
	Color     string
	Raw       bool
	Debug     bool
}

// MergeFlags applies CLI overrides on top of cfg and validates the result
func MergeFlags(cfg *Config, flags Flags) (*Config, error) {
	merged := *cfg

	if flags.Format != "" {
		merged.Input.Format = flags.Format
	}
	if flags.Bytes {
		merged.Strings.LengthUnit = LengthUnitBytes
	}
	if flags.BoolAsInt {
		merged.Encode.Booleans = BooleansInt
	}
	if flags.LastWins {
		merged.Decode.DuplicateKeys = DuplicateKeysLastWins
	}
	if flags.Pretty {
		merged.Output.Pretty = true
	}
	if flags.Color != "" {
		merged.Output.Color = flags.Color
	}
	if flags.Raw {
		merged.Output.Raw = true
	}
	if flags.Debug {
		merged.Dev.Debug = true
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfigWithFlags loads the config file (explicit path, discovered
// file, or defaults) and applies CLI overrides
func LoadConfigWithFlags(configPath string, flags Flags) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	return MergeFlags(cfg, flags)
}

// DecodeOptions returns the bencode options for the decode pipeline
func (c *Config) DecodeOptions() bencode.Options {
	opts := bencode.Options{
		LengthUnit: c.lengthUnit(),
		MaxDepth:   c.Decode.MaxDepth,
	}
	if c.Decode.DuplicateKeys == DuplicateKeysLastWins {
		opts.DuplicateKeys = bencode.DuplicateKeysLastWins
	}
	return opts
}

// EncodeOptions returns the bencode options for the encode pipeline
func (c *Config) EncodeOptions() bencode.Options {
	opts := bencode.Options{
		LengthUnit: c.lengthUnit(),
		MaxDepth:   c.Encode.MaxDepth,
	}
	if c.Encode.Booleans == BooleansInt {
		opts.Booleans = bencode.BoolsAsInt
	}
	return opts
}

func (c *Config) lengthUnit() bencode.LengthUnit {
	if c.Strings.LengthUnit == LengthUnitBytes {
		return bencode.LengthBytes
	}
	return bencode.LengthChars
}
