package lisp

import (
	"io"
	"math"
	"os"
)

// Env is a lexical binding frame. Lookups walk the frames outward and then
// fall back to the namespace: its root bindings, then its imports.
type Env struct {
	vars  map[Symbol]Term
	outer *Env
	ns    *Namespace
	reg   *Registry
}

func (e *Env) Namespace() *Namespace { return e.ns }

func (e *Env) find(s Symbol) (*Env, bool) {
	for f := e; f != nil; f = f.outer {
		if _, ok := f.vars[s]; ok {
			return f, true
		}
	}
	return nil, false
}

// Get resolves s through the frames, then the namespace. A qualified name
// ns/name skips the frames and looks in the aliased or named namespace.
func (e *Env) Get(s Symbol) (Term, error) {
	if f, ok := e.find(s); ok {
		return f.vars[s], nil
	}
	if nsName, name, ok := splitQualified(s); ok {
		target, ok := e.ns.aliases[nsName]
		if !ok {
			target, ok = e.reg.Lookup(nsName)
		}
		if !ok {
			return nil, runtimef("unknown namespace %s", nsName)
		}
		if v, ok := target.resolve(name); ok {
			return v, nil
		}
		return nil, runtimef("unbound symbol %s", s)
	}
	if v, ok := e.ns.resolve(s); ok {
		return v, nil
	}
	return nil, runtimef("unbound symbol %s", s)
}

// Set replaces an existing local binding. Names bound only in a namespace
// cannot be set.
func (e *Env) Set(s Symbol, v Term) error {
	f, ok := e.find(s)
	if !ok {
		return runtimef("set!: %s is not a local binding", s)
	}
	f.vars[s] = v
	return nil
}

// Define binds s in this frame.
func (e *Env) Define(s Symbol, v Term) {
	e.vars[s] = v
}

func (e *Env) child() *Env {
	return &Env{vars: map[Symbol]Term{}, outer: e, ns: e.ns, reg: e.reg}
}

func (e *Env) withNamespace(ns *Namespace) *Env {
	return &Env{vars: e.vars, outer: e.outer, ns: ns, reg: e.reg}
}

// Evaluator owns the namespace registry and the state shared by builtins.
// It is not safe for concurrent use.
type Evaluator struct {
	Registry *Registry
	Stdout   io.Writer
	Stderr   io.Writer
	// LibPaths are searched by load when a relative path is not found
	// next to the loading file.
	LibPaths []string

	dirs   []string
	gensym int
}

func NewEvaluator() *Evaluator {
	ev := &Evaluator{
		Registry: NewRegistry(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
	ev.Register(coreNS, coreBuiltins())
	ev.Register("math", mathBuiltins())
	ev.Registry.Namespace("math").Bind("pi", Float(math.Pi))
	ev.Register("string", stringBuiltins())
	return ev
}

// Register binds builtins in the root of namespace ns.
func (ev *Evaluator) Register(ns string, builtins map[string]Builtin) {
	n := ev.Registry.Namespace(ns)
	for name, b := range builtins {
		n.Bind(Symbol(name), &Function{Doc: b.Doc, Native: b.Fn, Namespace: n})
	}
}

// NewEnv returns a top-level environment in namespace ns.
func (ev *Evaluator) NewEnv(ns string) *Env {
	return &Env{vars: map[Symbol]Term{}, ns: ev.Registry.Namespace(ns), reg: ev.Registry}
}

func (ev *Evaluator) eval(form Term, env *Env) (Term, error) {
	v, _, err := ev.Eval(form, env)
	return v, err
}

func (ev *Evaluator) evalAtom(t Term, env *Env) (Term, error) {
	switch t := t.(type) {
	case Symbol:
		switch t {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "nil":
			return Nil{}, nil
		}
		return env.Get(t)
	case List, *Dict, Int, Float, String, Bool, Nil, Key, *Function:
		return t, nil
	}
	return nil, runtimef("cannot evaluate %T", t)
}

// call invokes f on evaluated args. A native result is returned directly;
// an interpreted function yields its frame and tail form instead.
func (ev *Evaluator) call(f *Function, args []Term, env *Env) (Term, *Env, Term, error) {
	if f.Native != nil {
		v, err := f.Native(args, ev, env)
		return v, nil, nil, err
	}
	frame, tail, err := ev.enter(f, args)
	return nil, frame, tail, err
}

// Eval evaluates form in env. Tail positions loop instead of recursing, so
// tail calls run in constant stack. The returned environment is env, or a
// copy switched to another namespace when form ran in-ns at top level.
func (ev *Evaluator) Eval(form Term, env *Env) (Term, *Env, error) {
	out := env
	top := true
	var enclosing Term
	fail := func(err error) (Term, *Env, error) {
		return nil, nil, withForm(err, form)
	}
	for {
		list, ok := form.(List)
		if !ok || len(list) == 0 {
			v, err := ev.evalAtom(form, env)
			if err != nil {
				// atoms are reported as part of the enclosing form
				if enclosing != nil {
					return nil, nil, withForm(err, enclosing)
				}
				return nil, nil, err
			}
			return v, out, nil
		}
		enclosing = list
		if m, ok := ev.isMacro(list, env); ok {
			expanded, err := ev.expand1(m, list, env)
			if err != nil {
				return fail(err)
			}
			form = expanded
			continue
		}
		args := list[1:]
		head, _ := list[0].(Symbol)
		switch head {
		case "def":
			if len(args) != 2 {
				return fail(generalf("def: expected 2 arguments, got %d", len(args)))
			}
			name, ok := args[0].(Symbol)
			if !ok {
				return fail(generalf("def: expected a symbol, got %s", TypeName(args[0])))
			}
			v, err := ev.eval(args[1], env)
			if err != nil {
				return fail(err)
			}
			env.ns.Bind(name, v)
			return env.ns.qualify(name), out, nil

		case "let":
			if len(args) == 0 {
				return fail(generalf("let: expected a bindings list"))
			}
			bindings, ok := args[0].(List)
			if !ok || len(bindings)%2 != 0 {
				return fail(generalf("let: bindings must be a list of even length"))
			}
			frame := env.child()
			for i := 0; i < len(bindings); i += 2 {
				name, ok := bindings[i].(Symbol)
				if !ok {
					return fail(generalf("let: expected a symbol, got %s", TypeName(bindings[i])))
				}
				v, err := ev.eval(bindings[i+1], frame)
				if err != nil {
					return fail(err)
				}
				frame.Define(name, v)
			}
			body := args[1:]
			if len(body) == 0 {
				return Nil{}, out, nil
			}
			for _, b := range body[:len(body)-1] {
				if _, err := ev.eval(b, frame); err != nil {
					return fail(err)
				}
			}
			env, form, top = frame, body[len(body)-1], false
			continue

		case "set!":
			if len(args) != 2 {
				return fail(generalf("set!: expected 2 arguments, got %d", len(args)))
			}
			name, ok := args[0].(Symbol)
			if !ok {
				return fail(generalf("set!: expected a symbol, got %s", TypeName(args[0])))
			}
			v, err := ev.eval(args[1], env)
			if err != nil {
				return fail(err)
			}
			if err := env.Set(name, v); err != nil {
				return fail(err)
			}
			return v, out, nil

		case "apply":
			if len(args) != 2 {
				return fail(generalf("apply: expected 2 arguments, got %d", len(args)))
			}
			fv, err := ev.eval(args[0], env)
			if err != nil {
				return fail(err)
			}
			f, ok := fv.(*Function)
			if !ok {
				return fail(generalf("apply: expected a function, got %s", TypeName(fv)))
			}
			lv, err := ev.eval(args[1], env)
			if err != nil {
				return fail(err)
			}
			l, ok := lv.(List)
			if !ok {
				return fail(generalf("apply: expected a list, got %s", TypeName(lv)))
			}
			v, frame, tail, err := ev.call(f, l, env)
			if err != nil {
				return fail(err)
			}
			if frame == nil {
				return v, out, nil
			}
			env, form, top = frame, tail, false
			continue

		case "quote":
			if len(args) != 1 {
				return fail(generalf("quote: expected 1 argument, got %d", len(args)))
			}
			return args[0], out, nil

		case "quasiquote":
			if len(args) != 1 {
				return fail(generalf("quasiquote: expected 1 argument, got %d", len(args)))
			}
			expanded, err := quasiquote(args[0])
			if err != nil {
				return fail(err)
			}
			form = expanded
			continue

		case "do":
			if len(args) == 0 {
				return Nil{}, out, nil
			}
			for _, a := range args[:len(args)-1] {
				_, next, err := ev.Eval(a, env)
				if err != nil {
					return fail(err)
				}
				env = next
				if top {
					out = next
				}
			}
			form = args[len(args)-1]
			continue

		case "function":
			f, err := ev.newFunction(args, env)
			if err != nil {
				return fail(err)
			}
			return f, out, nil

		case "if":
			if len(args) != 2 && len(args) != 3 {
				return fail(generalf("if: expected 2 or 3 arguments, got %d", len(args)))
			}
			c, err := ev.eval(args[0], env)
			if err != nil {
				return fail(err)
			}
			b, ok := c.(Bool)
			if !ok {
				return fail(generalf("if: condition must be a bool, got %s", TypeName(c)))
			}
			switch {
			case bool(b):
				form = args[1]
			case len(args) == 3:
				form = args[2]
			default:
				return Nil{}, out, nil
			}
			continue

		case "while":
			if len(args) < 2 {
				return fail(generalf("while: expected a condition and a body"))
			}
			var result Term = Nil{}
			for {
				c, err := ev.eval(args[0], env)
				if err != nil {
					return fail(err)
				}
				b, ok := c.(Bool)
				if !ok {
					return fail(generalf("while: condition must be a bool, got %s", TypeName(c)))
				}
				if !b {
					break
				}
				for _, a := range args[1:] {
					if result, err = ev.eval(a, env); err != nil {
						return fail(err)
					}
				}
			}
			return result, out, nil

		case "defmacro":
			if len(args) != 2 {
				return fail(generalf("defmacro: expected 2 arguments, got %d", len(args)))
			}
			name, ok := args[0].(Symbol)
			if !ok {
				return fail(generalf("defmacro: expected a symbol, got %s", TypeName(args[0])))
			}
			v, err := ev.eval(args[1], env)
			if err != nil {
				return fail(err)
			}
			f, ok := v.(*Function)
			if !ok || f.Native != nil {
				return fail(generalf("defmacro: expected an interpreted function, got %s", v))
			}
			m := *f
			m.Macro = true
			env.ns.Bind(name, &m)
			return env.ns.qualify(name), out, nil

		case "macroexpand":
			if len(args) != 1 {
				return fail(generalf("macroexpand: expected 1 argument, got %d", len(args)))
			}
			v, err := ev.MacroExpand(args[0], env)
			if err != nil {
				return fail(err)
			}
			return v, out, nil

		case "in-ns":
			if len(args) != 1 {
				return fail(generalf("in-ns: expected 1 argument, got %d", len(args)))
			}
			name, err := ev.namespaceName(args[0], env)
			if err != nil {
				return fail(err)
			}
			ns := ev.Registry.Namespace(name)
			env = env.withNamespace(ns)
			if top {
				out = env
			}
			return Symbol(ns.Name), out, nil
		}

		vals := make([]Term, len(list))
		for i, t := range list {
			v, err := ev.eval(t, env)
			if err != nil {
				return fail(err)
			}
			vals[i] = v
		}
		f, ok := vals[0].(*Function)
		if !ok {
			return fail(runtimef("not a function: %s", list[0]))
		}
		v, frame, tail, err := ev.call(f, vals[1:], env)
		if err != nil {
			return fail(err)
		}
		if frame == nil {
			return v, out, nil
		}
		env, form, top = frame, tail, false
	}
}

func (ev *Evaluator) namespaceName(t Term, env *Env) (string, error) {
	if s, ok := t.(Symbol); ok {
		return string(s), nil
	}
	v, err := ev.eval(t, env)
	if err != nil {
		return "", err
	}
	switch v := v.(type) {
	case Symbol:
		return string(v), nil
	case String:
		return string(v), nil
	}
	return "", generalf("in-ns: expected a symbol or string, got %s", TypeName(v))
}
