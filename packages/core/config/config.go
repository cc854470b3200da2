package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Script maps a script under test to the directory holding its fixtures
type Script struct {
	Name string `json:"name" yaml:"name"`
	Dir  string `json:"dir" yaml:"dir"`
}

// BaseName returns the script name with the script extension token removed.
// The token is removed wherever it occurs, so "my.pyfile.py" becomes "myfile".
func (s Script) BaseName() string {
	return strings.ReplaceAll(s.Name, ScriptExt, "")
}

// Config represents the fixspec configuration
type Config struct {
	Scripts     []Script
	Interpreter string
	Timeout     time.Duration // zero means no timeout
	Path        string        // file the config was loaded from
}

// fileConfig is the on-disk document. python_files is the legacy layout.
type fileConfig struct {
	Scripts     []Script       `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	PythonFiles []legacyScript `json:"python_files,omitempty" yaml:"python_files,omitempty"`
	Interpreter string         `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
	Timeout     string         `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type legacyScript struct {
	FileName string `json:"file_name"`
	TestDir  string `json:"test_dir"`
}

const schema = `{
  "type": "object",
  "properties": {
    "scripts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "dir"],
        "properties": {
          "name": {"type": "string"},
          "dir": {"type": "string"}
        }
      }
    },
    "python_files": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["file_name", "test_dir"],
        "properties": {
          "file_name": {"type": "string"},
          "test_dir": {"type": "string"}
        }
      }
    },
    "interpreter": {"type": "string", "minLength": 1},
    "timeout": {"type": "string"}
  },
  "anyOf": [
    {"required": ["scripts"]},
    {"required": ["python_files"]}
  ]
}`

var schemaLoader = gojsonschema.NewStringLoader(schema)

// LoadConfig loads configuration from the specified path, or from
// DefaultConfigFile when path is empty
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	cfg, err := Parse(data, formatFor(path))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	cfg.Path = path

	return cfg, nil
}

// Format is the encoding of a configuration document
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes and validates a configuration document
func Parse(data []byte, format Format) (*Config, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}

	if err := validate(doc); err != nil {
		return nil, err
	}

	// Round-trip through JSON so both formats share one decoder.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := json.Unmarshal(normalized, &fc); err != nil {
		return nil, err
	}

	return fc.toConfig()
}

func validate(doc any) error {
	if doc == nil {
		return errors.New("empty document")
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

func (fc *fileConfig) toConfig() (*Config, error) {
	cfg := DefaultConfig()
	if fc.Interpreter != "" {
		cfg.Interpreter = fc.Interpreter
	}

	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid timeout %q: must not be negative", fc.Timeout)
		}
		cfg.Timeout = d
	}

	cfg.Scripts = make([]Script, 0, len(fc.Scripts)+len(fc.PythonFiles))
	cfg.Scripts = append(cfg.Scripts, fc.Scripts...)
	for _, p := range fc.PythonFiles {
		cfg.Scripts = append(cfg.Scripts, Script{Name: p.FileName, Dir: p.TestDir})
	}

	return cfg, nil
}

// Lookup returns the first script whose name matches exactly
func (c *Config) Lookup(name string) (Script, bool) {
	for _, s := range c.Scripts {
		if s.Name == name {
			return s, true
		}
	}
	return Script{}, false
}

// SaveConfig saves the configuration to a file, as YAML when the path has a
// .yaml or .yml extension and as JSON otherwise
func (c *Config) SaveConfig(path string) error {
	fc := fileConfig{Scripts: c.Scripts}
	if c.Interpreter != "" && c.Interpreter != DefaultInterpreter {
		fc.Interpreter = c.Interpreter
	}
	if c.Timeout > 0 {
		fc.Timeout = c.Timeout.String()
	}

	var (
		data []byte
		err  error
	)
	if formatFor(path) == FormatYAML {
		data, err = yaml.Marshal(fc)
	} else {
		data, err = json.MarshalIndent(fc, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
