package lisp

const defaultNS = "user"

// Lisp is an evaluator together with the top-level environment user input
// runs in. Evaluating in-ns at top level switches Env.
type Lisp struct {
	ev  *Evaluator
	Env *Env
}

func New() *Lisp {
	ev := NewEvaluator()
	return &Lisp{ev: ev, Env: ev.NewEnv(defaultNS)}
}

func (l *Lisp) Evaluator() *Evaluator { return l.ev }

// InNamespace switches the top-level environment to namespace name.
func (l *Lisp) InNamespace(name string) {
	l.Env = l.Env.withNamespace(l.ev.Registry.Namespace(name))
}

// Eval reads and evaluates every form in input and returns the last value.
func (l *Lisp) Eval(input string) (Term, error) {
	forms, err := Multiparse(input)
	if err != nil {
		return nil, err
	}
	var result Term = Nil{}
	for _, f := range forms {
		if result, err = l.EvalExpr(f); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (l *Lisp) EvalExpr(t Term) (Term, error) {
	v, env, err := l.ev.Eval(t, l.Env)
	if err != nil {
		return nil, err
	}
	l.Env = env
	return v, nil
}

// Load evaluates a library source as one (do ...) form. A namespace switch
// inside it does not leak into the top-level environment.
func (l *Lisp) Load(data string) error {
	_, err := l.ev.LoadString(data, l.Env)
	return err
}

func (l *Lisp) LoadFile(path string) error {
	_, err := l.ev.LoadFile(path, l.Env)
	return err
}
