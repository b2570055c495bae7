package lisp

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/deosjr/flute/internal/debug"
)

// resolve interprets a relative path against the directory of the file
// currently being loaded.
func (ev *Evaluator) resolve(path string) string {
	if filepath.IsAbs(path) || len(ev.dirs) == 0 {
		return path
	}
	return filepath.Join(ev.dirs[len(ev.dirs)-1], path)
}

func (ev *Evaluator) findFile(path string) (string, error) {
	candidates := []string{ev.resolve(path)}
	if !filepath.IsAbs(path) {
		for _, dir := range ev.LibPaths {
			candidates = append(candidates, filepath.Join(dir, path))
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("load %s: %w", path, fs.ErrNotExist)
}

func (ev *Evaluator) pushDir(dir string) {
	ev.dirs = append(ev.dirs, dir)
	debug.Logf("push dir %s (depth %d)", dir, len(ev.dirs))
}

func (ev *Evaluator) popDir() {
	debug.Logf("pop dir %s (depth %d)", ev.dirs[len(ev.dirs)-1], len(ev.dirs))
	ev.dirs = ev.dirs[:len(ev.dirs)-1]
}

// LoadFile evaluates the file at path in env. Relative paths inside the
// file resolve against its directory until the load returns.
func (ev *Evaluator) LoadFile(path string, env *Env) (Term, error) {
	file, err := ev.findFile(path)
	if err != nil {
		return nil, err
	}
	forms, err := ParseFile(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	debug.Logf("load %s", file)
	ev.pushDir(filepath.Dir(file))
	defer ev.popDir()
	return ev.evalForms(forms, env)
}

// LoadString evaluates all forms of src as a single (do ...) form.
func (ev *Evaluator) LoadString(src string, env *Env) (Term, error) {
	forms, err := Multiparse(src)
	if err != nil {
		return nil, err
	}
	return ev.evalForms(forms, env)
}

func (ev *Evaluator) evalForms(forms []Term, env *Env) (Term, error) {
	return ev.eval(append(List{Symbol("do")}, forms...), env)
}
