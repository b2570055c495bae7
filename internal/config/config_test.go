package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	for i, tt := range []struct {
		name  string
		input string
		check func(*Config) bool
	}{
		{
			name:  "empty file yields defaults",
			input: "",
			check: func(c *Config) bool {
				return c.Prompt == "flute> " && c.Namespace == "user" && reflect.DeepEqual(c.Preload, []string{"core"})
			},
		},
		{
			name:  "core is always preloaded first",
			input: "preload: [string, math, core]\n",
			check: func(c *Config) bool {
				return reflect.DeepEqual(c.Preload, []string{"core", "string", "math"})
			},
		},
		{
			name:  "fields override defaults",
			input: "prompt: \"λ \"\nnamespace: scratch\ndebug: true\nlib_paths: [/opt/flute]\n",
			check: func(c *Config) bool {
				return c.Prompt == "λ " && c.Namespace == "scratch" && c.Debug && reflect.DeepEqual(c.LibPaths, []string{"/opt/flute"})
			},
		},
		{
			name:  "continuation prompt falls back to padding",
			input: "prompt: \"> \"\ncontinuation_prompt: \"\"\n",
			check: func(c *Config) bool {
				return c.ContinuationPrompt == "  "
			},
		},
		{
			name:  "absolute history file is kept",
			input: "history_file: /tmp/flute_history\n",
			check: func(c *Config) bool {
				return c.HistoryFile == "/tmp/flute_history"
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(strings.NewReader(tt.input), "test")
			if err != nil {
				t.Fatalf("%d) parse error %v", i, err)
			}
			if !tt.check(cfg) {
				t.Errorf("%d) unexpected config %+v", i, cfg)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for i, tt := range []struct {
		input string
		want  string
	}{
		{"unknown_key: 1\n", "field unknown_key not found"},
		{"namespace: \"\"\n", "namespace must not be empty"},
		{"namespace: a/b\n", `namespace "a/b" is not a valid name`},
		{"prompt: \"\"\n", "prompt must not be empty"},
		{"preload: [\"\"]\n", "preload[0] must be a non-empty name"},
		{"lib_paths: [\"\"]\n", "lib_paths[0] must be a non-empty path"},
		{"prompt: [1, 2]\n", "config: parse test"},
	} {
		_, err := Parse(strings.NewReader(tt.input), "test")
		if err == nil {
			t.Errorf("%d) expected an error", i)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%d) got %q want it to contain %q", i, err, tt.want)
		}
	}

	var verr *ValidationError
	_, err := Parse(strings.NewReader("namespace: \"\"\nprompt: \"\"\n"), "test")
	if !errors.As(err, &verr) || len(verr.Issues) != 2 {
		t.Errorf("got %v want two validation issues", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flute.yaml")
	if err := os.WriteFile(path, []byte("namespace: scratch\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Namespace != "scratch" {
		t.Errorf("got namespace %s want scratch", cfg.Namespace)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v want not exist", err)
	}
}
