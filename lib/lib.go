// Package lib embeds the standard libraries written in flute itself.
package lib

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/deosjr/flute/lisp"
)

//go:embed core.lisp
var core string

//go:embed math.lisp
var math string

//go:embed string.lisp
var str string

var sources = map[string]string{
	"core":   core,
	"math":   math,
	"string": str,
}

func Names() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load evaluates the named libraries in order. The top-level namespace of
// l is left unchanged.
func Load(l *lisp.Lisp, names ...string) error {
	for _, name := range names {
		src, ok := sources[name]
		if !ok {
			return fmt.Errorf("lib: unknown library %q (have %s)", name, strings.Join(Names(), ", "))
		}
		if err := l.Load(src); err != nil {
			return fmt.Errorf("lib: load %s: %w", name, err)
		}
	}
	return nil
}

// LoadAll loads every embedded library, core first.
func LoadAll(l *lisp.Lisp) error {
	return Load(l, "core", "math", "string")
}
