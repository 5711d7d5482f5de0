package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/andyballingall/srcfmt/internal/format"
	"github.com/andyballingall/srcfmt/internal/validator"
)

// ConfigFile is the optional project configuration file, looked up in the project root.
const ConfigFile = ".srcfmt.yml"

const configSchemaID = "srcfmt-config.schema.json"

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "extensions":      {"type": "array", "items": {"type": "string", "pattern": "^\\.[^./\\\\]+$"}},
    "skippedDirs":     {"type": "array", "items": {"type": "string", "minLength": 1}},
    "skippedFiles":    {"type": "array", "items": {"type": "string", "minLength": 1}},
    "formatDirs":      {"type": "array", "items": {"type": "string", "minLength": 1}},
    "excludePatterns": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "tool":            {"type": "string", "minLength": 1}
  }
}`

// Config holds the file selection rules and the formatter to run.
// A Config is built once per invocation and treated as read-only afterwards.
type Config struct {
	Extensions      []string `yaml:"extensions"`
	SkippedDirs     []string `yaml:"skippedDirs"`
	SkippedFiles    []string `yaml:"skippedFiles"`
	FormatDirs      []string `yaml:"formatDirs"`
	ExcludePatterns []string `yaml:"excludePatterns"`
	Tool            string   `yaml:"tool"`
}

// Default returns the built-in configuration for C/C++ and GLSL shader projects.
func Default() *Config {
	return &Config{
		Extensions: []string{
			".h", ".hpp", ".cpp", // C++
			".vert", ".frag", ".comp", ".geom", ".tesc", ".tese", // Shaders
		},
		SkippedDirs:  []string{"third-party", "build", ".git", ".vscode", "CMakeFiles", "__pycache__"},
		SkippedFiles: []string{".clang-format", "CMakeLists.txt"},
		FormatDirs:   []string{"src/", "shaders/"},
		Tool:         format.DefaultTool,
	}
}

// Load returns the configuration for the project at root. If root has no
// ConfigFile, the defaults are returned. Keys present in the file replace the
// corresponding defaults; an explicitly empty formatDirs removes the scope restriction.
func Load(root string, compiler validator.Compiler) (*Config, error) {
	path := filepath.Join(root, ConfigFile)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if doc == nil {
		return Default(), nil
	}

	v, err := validator.CompileJSON(compiler, configSchemaID, configSchema)
	if err != nil {
		return nil, err
	}
	if vErr := v.Validate(doc); vErr != nil {
		return nil, &InvalidConfigError{Path: path, Wrapped: vErr}
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}

	if err = cfg.Validate(); err != nil {
		return nil, &InvalidConfigError{Path: path, Wrapped: err}
	}

	return cfg, nil
}

// Validate checks the rules that the schema cannot express.
func (c *Config) Validate() error {
	if c.Tool == "" {
		return &MissingPropertyError{Property: "tool"}
	}
	for _, dir := range c.FormatDirs {
		if filepath.IsAbs(dir) {
			return &AbsoluteFormatDirError{Dir: dir}
		}
	}
	for _, p := range c.ExcludePatterns {
		if !doublestar.ValidatePattern(p) {
			return &InvalidPatternError{Pattern: p}
		}
	}
	return nil
}

// FormatDirsLabel describes the format scope for display.
func (c *Config) FormatDirsLabel() string {
	if len(c.FormatDirs) == 0 {
		return "<all>"
	}
	return strings.Join(c.FormatDirs, ", ")
}
