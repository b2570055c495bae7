// Package config loads the optional flute YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	fileName    = ".flute.yaml"
	historyName = ".flute_history"
)

type Config struct {
	Prompt             string   `yaml:"prompt"`
	ContinuationPrompt string   `yaml:"continuation_prompt"`
	HistoryFile        string   `yaml:"history_file"`
	LibPaths           []string `yaml:"lib_paths"`
	Preload            []string `yaml:"preload"`
	Namespace          string   `yaml:"namespace"`
	Debug              bool     `yaml:"debug"`
}

func Default() *Config {
	return &Config{
		Prompt:             "flute> ",
		ContinuationPrompt: "...    ",
		HistoryFile:        historyName,
		Preload:            []string{"core"},
		Namespace:          "user",
	}
}

// DefaultPath is $HOME/.flute.yaml, or empty when there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fileName)
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads the file at path on top of the defaults. Unknown keys are an
// error; an empty file yields the defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	return Parse(file, path)
}

// LoadDefault loads DefaultPath when it exists and the defaults otherwise.
func LoadDefault() (*Config, error) {
	if path := DefaultPath(); path != "" {
		cfg, err := Load(path)
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	return Parse(strings.NewReader(""), "defaults")
}

// Parse decodes a configuration from r; name is used in error messages.
func Parse(r io.Reader, name string) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.Prompt == "" {
		errs.Issues = append(errs.Issues, "prompt must not be empty")
	}
	if c.Namespace == "" {
		errs.Issues = append(errs.Issues, "namespace must not be empty")
	} else if strings.ContainsAny(c.Namespace, "/ \t\n()") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("namespace %q is not a valid name", c.Namespace))
	}
	for i, lib := range c.Preload {
		if lib == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("preload[%d] must be a non-empty name", i))
		}
	}
	for i, dir := range c.LibPaths {
		if dir == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("lib_paths[%d] must be a non-empty path", i))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// normalize puts core first in Preload and anchors a relative history file
// in the home directory.
func (c *Config) normalize() {
	libs := []string{"core"}
	for _, lib := range c.Preload {
		if lib != "core" {
			libs = append(libs, lib)
		}
	}
	c.Preload = libs
	if c.ContinuationPrompt == "" {
		c.ContinuationPrompt = strings.Repeat(" ", len(c.Prompt))
	}
	if c.HistoryFile != "" && !filepath.IsAbs(c.HistoryFile) {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryFile = filepath.Join(home, c.HistoryFile)
		}
	}
}
