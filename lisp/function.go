package lisp

// NativeFunc is the signature of builtins. Arguments arrive evaluated.
type NativeFunc func(args []Term, ev *Evaluator, env *Env) (Term, error)

// Builtin is a native function as supplied to Evaluator.Register.
type Builtin struct {
	Fn  NativeFunc
	Doc string
}

// Function is either a native callback or an interpreted closure. Macros
// are closures with Macro set; they share the binding routine with calls.
type Function struct {
	Doc       string
	Macro     bool
	Namespace *Namespace
	Native    NativeFunc

	Params []Symbol
	Rest   Symbol // bound to the remaining arguments, empty if not variadic
	Body   []Term
	Env    *Env
}

func (f *Function) variadic() bool { return f.Rest != "" }

func (f *Function) checkArity(n int) error {
	switch {
	case f.variadic() && n < len(f.Params):
		return runtimef("expected at least %d arguments, got %d", len(f.Params), n)
	case !f.variadic() && n != len(f.Params):
		return runtimef("expected %d arguments, got %d", len(f.Params), n)
	}
	return nil
}

// bind pushes a frame on the closure's captured environment, governed by
// the defining namespace, and binds the parameters to args.
func (f *Function) bind(args []Term) (*Env, error) {
	if err := f.checkArity(len(args)); err != nil {
		return nil, err
	}
	frame := &Env{
		vars:  make(map[Symbol]Term, len(f.Params)+1),
		outer: f.Env,
		ns:    f.Namespace,
		reg:   f.Env.reg,
	}
	for i, p := range f.Params {
		frame.vars[p] = args[i]
	}
	if f.variadic() {
		rest := make(List, len(args)-len(f.Params))
		copy(rest, args[len(f.Params):])
		frame.vars[f.Rest] = rest
	}
	return frame, nil
}

// enter binds args and evaluates every body form but the last. It returns
// the new frame and the remaining tail form.
func (ev *Evaluator) enter(f *Function, args []Term) (*Env, Term, error) {
	frame, err := f.bind(args)
	if err != nil {
		return nil, nil, err
	}
	if len(f.Body) == 0 {
		return frame, Nil{}, nil
	}
	for _, form := range f.Body[:len(f.Body)-1] {
		if _, err := ev.eval(form, frame); err != nil {
			return nil, nil, err
		}
	}
	return frame, f.Body[len(f.Body)-1], nil
}

// newFunction builds a closure from the arguments of a function form:
// an optional docstring, the parameter list and the body.
func (ev *Evaluator) newFunction(args []Term, env *Env) (*Function, error) {
	if len(args) == 0 {
		return nil, generalf("function: expected a parameter list")
	}
	f := &Function{Namespace: env.ns, Env: env}
	if len(args) > 1 {
		doc, ok, err := ev.docstring(args[0], env)
		if err != nil {
			return nil, err
		}
		if ok {
			f.Doc = doc
			args = args[1:]
		}
	}
	params, err := ev.paramList(args[0], env)
	if err != nil {
		return nil, err
	}
	for i, p := range params {
		if p != "&" {
			continue
		}
		if i != len(params)-2 {
			return nil, generalf("function: & must be followed by exactly one parameter")
		}
		f.Rest = params[i+1]
		params = params[:i]
		break
	}
	for _, p := range params {
		if p == "&" {
			return nil, generalf("function: at most one & allowed")
		}
	}
	f.Params = params
	f.Body = args[1:]
	return f, nil
}

// docstring reports whether t is a docstring: a string literal, a symbol
// bound to a string, or a list that is not a plain list of symbols and
// evaluates to a string.
func (ev *Evaluator) docstring(t Term, env *Env) (string, bool, error) {
	switch t := t.(type) {
	case String:
		return string(t), true, nil
	case Symbol:
		v, err := env.Get(t)
		if err != nil {
			return "", false, err
		}
		if s, ok := v.(String); ok {
			return string(s), true, nil
		}
		return "", false, nil
	case List:
		if symbolsOnly(t) {
			return "", false, nil
		}
		v, err := ev.eval(t, env)
		if err != nil {
			return "", false, err
		}
		s, ok := v.(String)
		if !ok {
			return "", false, generalf("function: docstring must be a string, got %s", TypeName(v))
		}
		return string(s), true, nil
	}
	return "", false, nil
}

func (ev *Evaluator) paramList(t Term, env *Env) ([]Symbol, error) {
	if s, ok := t.(Symbol); ok {
		v, err := env.Get(s)
		if err != nil {
			return nil, err
		}
		t = v
	}
	l, ok := t.(List)
	if !ok || !symbolsOnly(l) {
		return nil, generalf("function: parameters must be a list of symbols, got %s", t)
	}
	params := make([]Symbol, len(l))
	for i, p := range l {
		params[i] = p.(Symbol)
	}
	return params, nil
}

func symbolsOnly(l List) bool {
	for _, t := range l {
		if _, ok := t.(Symbol); !ok {
			return false
		}
	}
	return true
}
