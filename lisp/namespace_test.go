package lisp

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	core, ok := r.Lookup("core")
	if !ok {
		t.Fatal("core namespace missing")
	}
	if len(core.imports) != 0 {
		t.Errorf("core imports %d namespaces", len(core.imports))
	}
	if _, ok := r.Lookup("user"); ok {
		t.Error("user exists before first use")
	}
	user := r.Namespace("user")
	if r.Namespace("user") != user {
		t.Error("Namespace is not idempotent")
	}
	if len(user.imports) != 1 || user.imports[0] != core {
		t.Errorf("user does not import core: %v", user.imports)
	}
	user.Import(core)
	user.Import(user)
	if len(user.imports) != 1 {
		t.Errorf("duplicate or self import: %d imports", len(user.imports))
	}
}

func TestSplitQualified(t *testing.T) {
	for i, tt := range []struct {
		input     Symbol
		ns        string
		name      Symbol
		qualified bool
	}{
		{"core/first", "core", "first", true},
		{"/", "", "/", false},
		{"core//", "core", "/", true},
		{"a/b/c", "a", "b/c", true},
		{"first", "", "first", false},
		{"a/", "", "a/", false},
		{"/a", "", "/a", false},
	} {
		ns, name, ok := splitQualified(tt.input)
		if ns != tt.ns || name != tt.name || ok != tt.qualified {
			t.Errorf("%d) got %q %q %v want %q %q %v", i, ns, name, ok, tt.ns, tt.name, tt.qualified)
		}
	}
}

func TestEnvLookup(t *testing.T) {
	ev := NewEvaluator()
	env := ev.NewEnv("user")
	other := ev.Registry.Namespace("other")
	other.Bind("x", Int(1))
	other.Bind("y", Int(2))
	env.ns.Bind("x", Int(10))
	env.ns.Alias("o", other)

	local := env.child()
	local.Define("x", Int(100))

	for i, tt := range []struct {
		env  *Env
		name Symbol
		want string
	}{
		{env, "x", "10"},
		{local, "x", "100"},
		{local, "o/x", "1"},
		{local, "other/y", "2"},
		{env, "core/+", "#<native function>"},
		{env, "+", "#<native function>"},
		{env, "math/pi", "3.141592653589793"},
	} {
		v, err := tt.env.Get(tt.name)
		if err != nil {
			t.Errorf("%d) %s: %v", i, tt.name, err)
			continue
		}
		if got := v.String(); got != tt.want {
			t.Errorf("%d) %s: got %s want %s", i, tt.name, got, tt.want)
		}
	}

	var rerr *RuntimeError
	for _, name := range []Symbol{"y", "nope/x", "other/z"} {
		if _, err := env.Get(name); !errors.As(err, &rerr) {
			t.Errorf("%s: got %v want a runtime error", name, err)
		}
	}
}

func TestEnvSet(t *testing.T) {
	ev := NewEvaluator()
	env := ev.NewEnv("user")
	env.ns.Bind("g", Int(1))
	outer := env.child()
	outer.Define("a", Int(1))
	inner := outer.child()

	if err := inner.Set("a", Int(2)); err != nil {
		t.Fatal(err)
	}
	if v, _ := outer.Get("a"); v != Int(2) {
		t.Errorf("set did not reach the defining frame: got %s", v)
	}
	if _, ok := inner.vars["a"]; ok {
		t.Error("set created a binding in the inner frame")
	}
	var rerr *RuntimeError
	if err := inner.Set("g", Int(2)); !errors.As(err, &rerr) {
		t.Errorf("set of a namespace binding: got %v want a runtime error", err)
	}
}
