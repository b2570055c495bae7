package lisp

func (ev *Evaluator) isMacro(form Term, env *Env) (*Function, bool) {
	l, ok := form.(List)
	if !ok || len(l) == 0 {
		return nil, false
	}
	s, ok := l[0].(Symbol)
	if !ok {
		return nil, false
	}
	v, err := env.Get(s)
	if err != nil {
		return nil, false
	}
	f, ok := v.(*Function)
	return f, ok && f.Macro
}

// expand1 applies macro m to the unevaluated arguments of form.
func (ev *Evaluator) expand1(m *Function, form List, env *Env) (Term, error) {
	frame, tail, err := ev.enter(m, form[1:])
	if err != nil {
		return nil, err
	}
	return ev.eval(tail, frame)
}

// MacroExpand expands form until its head is no longer a macro.
func (ev *Evaluator) MacroExpand(form Term, env *Env) (Term, error) {
	for {
		m, ok := ev.isMacro(form, env)
		if !ok {
			return form, nil
		}
		expanded, err := ev.expand1(m, form.(List), env)
		if err != nil {
			return nil, withForm(err, form)
		}
		form = expanded
	}
}

func isForm(l List, name Symbol) bool {
	if len(l) == 0 {
		return false
	}
	s, ok := l[0].(Symbol)
	return ok && s == name
}

// quasiquote rewrites a quasiquoted template into cons/concat calls.
func quasiquote(t Term) (Term, error) {
	l, ok := t.(List)
	if !ok {
		if s, ok := t.(Symbol); ok && s != "true" && s != "false" && s != "nil" {
			return List{Symbol("quote"), t}, nil
		}
		return t, nil
	}
	if len(l) == 0 {
		return l, nil
	}
	if isForm(l, "unquote") {
		if len(l) != 2 {
			return nil, generalf("unquote: expected 1 argument, got %d", len(l)-1)
		}
		return l[1], nil
	}
	if isForm(l, "splice-unquote") {
		return nil, generalf("splice-unquote: not inside a list")
	}
	var out Term = List{}
	for i := len(l) - 1; i >= 0; i-- {
		if el, ok := l[i].(List); ok && isForm(el, "splice-unquote") {
			if len(el) != 2 {
				return nil, generalf("splice-unquote: expected 1 argument, got %d", len(el)-1)
			}
			out = List{Symbol("core/concat"), el[1], out}
			continue
		}
		q, err := quasiquote(l[i])
		if err != nil {
			return nil, err
		}
		out = List{Symbol("core/cons"), q, out}
	}
	return out, nil
}
