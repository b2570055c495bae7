package lisp

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"
)

func coreBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"+":   {add, "(+ & xs) sums numbers; ints stay ints unless a float is involved"},
		"-":   {sub, "(- x & xs) subtracts, or negates a single argument"},
		"*":   {mul, "(* & xs) multiplies numbers"},
		"/":   {div, "(/ x & xs) divides; integer division for ints"},
		"mod": {mod, "(mod a b) remainder of a divided by b"},
		"==":  {eq, "(== a b & more) structural equality"},
		"!=":  {neq, "(!= a b) structural inequality"},
		"<":   {compare("<", func(c int) bool { return c < 0 }), "(< a b & more)"},
		">":   {compare(">", func(c int) bool { return c > 0 }), "(> a b & more)"},
		"<=":  {compare("<=", func(c int) bool { return c <= 0 }), "(<= a b & more)"},
		">=":  {compare(">=", func(c int) bool { return c >= 0 }), "(>= a b & more)"},
		"not": {not, "(not b) boolean negation"},

		"list":    {list, "(list & xs) a list of the arguments"},
		"cons":    {cons, "(cons x l) l with x prepended"},
		"concat":  {concat, "(concat & ls) the lists joined in order"},
		"first":   {first, "(first l) the first element, or nil"},
		"rest":    {rest, "(rest l) all but the first element"},
		"nth":     {nth, "(nth l i) the element at index i"},
		"count":   {count, "(count x) length of a list, dict or string"},
		"empty?":  {isEmpty, "(empty? x) whether a list, dict or string has no elements"},
		"list?":   {isType[List], "(list? x)"},
		"reverse": {reverse, "(reverse l) l in reverse order"},

		"hash-map":  {hashMap, "(hash-map & kvs) a dict of alternating keys and values"},
		"get":       {get, "(get d k [default]) the value for k, default or nil when missing"},
		"assoc":     {assoc, "(assoc d k v & kvs) d with the pairs added"},
		"dissoc":    {dissoc, "(dissoc d & ks) d without the keys"},
		"keys":      {keys, "(keys d) the keys in sorted order"},
		"vals":      {vals, "(vals d) the values in key order"},
		"contains?": {contains, "(contains? d k) whether d has key k"},
		"dict?":     {isType[*Dict], "(dict? x)"},

		"str":     {str, "(str & xs) concatenation of the displayed arguments"},
		"print":   {printFn(false, Display), "(print & xs) writes the arguments separated by spaces"},
		"println": {printFn(true, Display), "(println & xs) print followed by a newline"},
		"prn":     {printFn(true, Term.String), "(prn & xs) writes readable representations and a newline"},

		"symbol":  {symbol, "(symbol s) the symbol named s"},
		"keyword": {keyword, "(keyword s) the keyword named s"},
		"type":    {typeOf, "(type x) a keyword naming the type of x"},
		"gensym":  {gensym, "(gensym [prefix]) a fresh symbol"},

		"number?":   {isNumber, "(number? x)"},
		"string?":   {isType[String], "(string? x)"},
		"symbol?":   {isType[Symbol], "(symbol? x)"},
		"keyword?":  {isType[Key], "(keyword? x)"},
		"function?": {isType[*Function], "(function? x)"},
		"nil?":      {isType[Nil], "(nil? x)"},
		"bool?":     {isType[Bool], "(bool? x)"},
		"macro?":    {isMacroFn, "(macro? x) whether x is a macro"},

		"eval":        {evalFn, "(eval form) evaluates form in the calling environment"},
		"read-string": {readString, "(read-string s) reads the first form in s"},
		"slurp":       {slurp, "(slurp path) the contents of a file, or nil with a warning"},
		"load":        {load, "(load path) evaluates every form in a file"},
		"doc":         {doc, "(doc f) the docstring of f"},
		"exit":        {exit, "(exit [code]) stops evaluation"},
		"throw":       {throw, "(throw msg) raises an error"},

		"import":     {importFn, "(import ns) makes the root bindings of ns visible in the current namespace"},
		"alias":      {alias, "(alias a ns) lets a/name refer to ns/name"},
		"ns-name":    {nsName, "(ns-name) the current namespace"},
		"ns-publics": {nsPublics, "(ns-publics [ns]) the sorted root binding names of ns"},
	}
}

func mathBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"sqrt":  {sqrt, "(sqrt x)"},
		"pow":   {pow, "(pow x y) x to the power y; ints stay ints for non-negative exponents"},
		"floor": {rounding("floor", math.Floor), "(floor x)"},
		"ceil":  {rounding("ceil", math.Ceil), "(ceil x)"},
		"abs":   {abs, "(abs x)"},
	}
}

func stringBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"split":        {split, "(split s sep) s cut around every sep"},
		"join":         {join, "(join l sep) the displayed elements of l separated by sep"},
		"upper":        {stringFunc("upper", strings.ToUpper), "(upper s)"},
		"lower":        {stringFunc("lower", strings.ToLower), "(lower s)"},
		"trim":         {stringFunc("trim", strings.TrimSpace), "(trim s) s without surrounding whitespace"},
		"contains?":    {stringPred("contains?", strings.Contains), "(contains? s sub)"},
		"starts-with?": {stringPred("starts-with?", strings.HasPrefix), "(starts-with? s prefix)"},
		"length":       {length, "(length s) the number of characters in s"},
	}
}

func expectArgs(name string, args []Term, n int) error {
	if len(args) != n {
		return generalf("%s: expected %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func expectNumber(name string, t Term) (Number, error) {
	n, ok := t.(Number)
	if !ok {
		return nil, generalf("%s: expected a number, got %s", name, TypeName(t))
	}
	return n, nil
}

func expectString(name string, t Term) (string, error) {
	s, ok := t.(String)
	if !ok {
		return "", generalf("%s: expected a string, got %s", name, TypeName(t))
	}
	return string(s), nil
}

// expectList accepts nil as the empty list.
func expectList(name string, t Term) (List, error) {
	switch t := t.(type) {
	case List:
		return t, nil
	case Nil:
		return List{}, nil
	}
	return nil, generalf("%s: expected a list, got %s", name, TypeName(t))
}

func expectDict(name string, t Term) (*Dict, error) {
	d, ok := t.(*Dict)
	if !ok {
		return nil, generalf("%s: expected a dict, got %s", name, TypeName(t))
	}
	return d, nil
}

// expectName accepts a symbol or a string.
func expectName(name string, t Term) (string, error) {
	switch t := t.(type) {
	case Symbol:
		return string(t), nil
	case String:
		return string(t), nil
	}
	return "", generalf("%s: expected a symbol or string, got %s", name, TypeName(t))
}

type numOp struct {
	i func(a, b Int) (Int, error)
	f func(a, b Float) Float
}

func (op numOp) apply(a, b Number) (Number, error) {
	x, y := promote(a, b)
	if xi, ok := x.(Int); ok {
		r, err := op.i(xi, y.(Int))
		return r, err
	}
	return op.f(x.(Float), y.(Float)), nil
}

var (
	addOp = numOp{
		i: func(a, b Int) (Int, error) { return a + b, nil },
		f: func(a, b Float) Float { return a + b },
	}
	subOp = numOp{
		i: func(a, b Int) (Int, error) { return a - b, nil },
		f: func(a, b Float) Float { return a - b },
	}
	mulOp = numOp{
		i: func(a, b Int) (Int, error) { return a * b, nil },
		f: func(a, b Float) Float { return a * b },
	}
	divOp = numOp{
		i: func(a, b Int) (Int, error) {
			if b == 0 {
				return 0, runtimef("division by zero")
			}
			return a / b, nil
		},
		f: func(a, b Float) Float { return a / b },
	}
	modOp = numOp{
		i: func(a, b Int) (Int, error) {
			if b == 0 {
				return 0, runtimef("division by zero")
			}
			return a % b, nil
		},
		f: func(a, b Float) Float { return Float(math.Mod(float64(a), float64(b))) },
	}
)

func fold(name string, acc Number, args []Term, op numOp) (Term, error) {
	for _, a := range args {
		n, err := expectNumber(name, a)
		if err != nil {
			return nil, err
		}
		if acc, err = op.apply(acc, n); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func add(args []Term, ev *Evaluator, env *Env) (Term, error) {
	return fold("+", Int(0), args, addOp)
}

func mul(args []Term, ev *Evaluator, env *Env) (Term, error) {
	return fold("*", Int(1), args, mulOp)
}

func sub(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) == 0 {
		return nil, generalf("-: expected at least 1 argument")
	}
	if len(args) == 1 {
		return fold("-", Int(0), args, subOp)
	}
	n, err := expectNumber("-", args[0])
	if err != nil {
		return nil, err
	}
	return fold("-", n, args[1:], subOp)
}

func div(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) == 0 {
		return nil, generalf("/: expected at least 1 argument")
	}
	if len(args) == 1 {
		return fold("/", Int(1), args, divOp)
	}
	n, err := expectNumber("/", args[0])
	if err != nil {
		return nil, err
	}
	return fold("/", n, args[1:], divOp)
}

func mod(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("mod", args, 2); err != nil {
		return nil, err
	}
	n, err := expectNumber("mod", args[0])
	if err != nil {
		return nil, err
	}
	return fold("mod", n, args[1:], modOp)
}

func eq(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) < 2 {
		return nil, generalf("==: expected at least 2 arguments, got %d", len(args))
	}
	for i := 1; i < len(args); i++ {
		if !Equal(args[i-1], args[i]) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func neq(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("!=", args, 2); err != nil {
		return nil, err
	}
	return Bool(!Equal(args[0], args[1])), nil
}

func cmpNumbers(a, b Number) int {
	x, y := promote(a, b)
	if xi, ok := x.(Int); ok {
		yi := y.(Int)
		switch {
		case xi < yi:
			return -1
		case xi > yi:
			return 1
		}
		return 0
	}
	xf, yf := x.(Float), y.(Float)
	switch {
	case xf < yf:
		return -1
	case xf > yf:
		return 1
	}
	return 0
}

func compare(name string, ok func(int) bool) NativeFunc {
	return func(args []Term, ev *Evaluator, env *Env) (Term, error) {
		if len(args) < 2 {
			return nil, generalf("%s: expected at least 2 arguments, got %d", name, len(args))
		}
		result := true
		for i := 1; i < len(args); i++ {
			a, err := expectNumber(name, args[i-1])
			if err != nil {
				return nil, err
			}
			b, err := expectNumber(name, args[i])
			if err != nil {
				return nil, err
			}
			if !ok(cmpNumbers(a, b)) {
				result = false
			}
		}
		return Bool(result), nil
	}
}

func not(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("not", args, 1); err != nil {
		return nil, err
	}
	b, ok := args[0].(Bool)
	if !ok {
		return nil, generalf("not: expected a bool, got %s", TypeName(args[0]))
	}
	return !b, nil
}

func list(args []Term, ev *Evaluator, env *Env) (Term, error) {
	l := make(List, len(args))
	copy(l, args)
	return l, nil
}

func cons(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("cons", args, 2); err != nil {
		return nil, err
	}
	tail, err := expectList("cons", args[1])
	if err != nil {
		return nil, err
	}
	l := make(List, 0, len(tail)+1)
	return append(append(l, args[0]), tail...), nil
}

func concat(args []Term, ev *Evaluator, env *Env) (Term, error) {
	out := List{}
	for _, a := range args {
		l, err := expectList("concat", a)
		if err != nil {
			return nil, err
		}
		out = append(out, l...)
	}
	return out, nil
}

func first(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("first", args, 1); err != nil {
		return nil, err
	}
	l, err := expectList("first", args[0])
	if err != nil {
		return nil, err
	}
	if len(l) == 0 {
		return Nil{}, nil
	}
	return l[0], nil
}

func rest(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("rest", args, 1); err != nil {
		return nil, err
	}
	l, err := expectList("rest", args[0])
	if err != nil {
		return nil, err
	}
	if len(l) == 0 {
		return List{}, nil
	}
	return l[1:], nil
}

func nth(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("nth", args, 2); err != nil {
		return nil, err
	}
	l, err := expectList("nth", args[0])
	if err != nil {
		return nil, err
	}
	i, ok := args[1].(Int)
	if !ok {
		return nil, generalf("nth: expected an int index, got %s", TypeName(args[1]))
	}
	if i < 0 || int(i) >= len(l) {
		return nil, generalf("nth: index %d out of range for list of length %d", i, len(l))
	}
	return l[i], nil
}

func sizeOf(name string, t Term) (int, error) {
	switch t := t.(type) {
	case List:
		return len(t), nil
	case *Dict:
		return t.Len(), nil
	case String:
		return utf8.RuneCountInString(string(t)), nil
	case Nil:
		return 0, nil
	}
	return 0, generalf("%s: expected a list, dict or string, got %s", name, TypeName(t))
}

func count(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("count", args, 1); err != nil {
		return nil, err
	}
	n, err := sizeOf("count", args[0])
	return Int(n), err
}

func isEmpty(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("empty?", args, 1); err != nil {
		return nil, err
	}
	n, err := sizeOf("empty?", args[0])
	return Bool(n == 0), err
}

func reverse(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("reverse", args, 1); err != nil {
		return nil, err
	}
	l, err := expectList("reverse", args[0])
	if err != nil {
		return nil, err
	}
	out := make(List, len(l))
	for i, t := range l {
		out[len(l)-1-i] = t
	}
	return out, nil
}

func isType[T Term](args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) != 1 {
		return nil, generalf("expected 1 argument, got %d", len(args))
	}
	_, ok := args[0].(T)
	return Bool(ok), nil
}

func isNumber(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("number?", args, 1); err != nil {
		return nil, err
	}
	_, ok := args[0].(Number)
	return Bool(ok), nil
}

func isMacroFn(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("macro?", args, 1); err != nil {
		return nil, err
	}
	f, ok := args[0].(*Function)
	return Bool(ok && f.Macro), nil
}

func hashMap(args []Term, ev *Evaluator, env *Env) (Term, error) {
	return NewDict(args...)
}

func get(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, generalf("get: expected 2 or 3 arguments, got %d", len(args))
	}
	d, err := expectDict("get", args[0])
	if err != nil {
		return nil, err
	}
	if v, ok := d.Get(args[1]); ok {
		return v, nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return Nil{}, nil
}

func assoc(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) < 3 || len(args)%2 != 1 {
		return nil, generalf("assoc: expected a dict and key value pairs")
	}
	d, err := expectDict("assoc", args[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i += 2 {
		if d, err = d.Assoc(args[i], args[i+1]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func dissoc(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) == 0 {
		return nil, generalf("dissoc: expected a dict")
	}
	d, err := expectDict("dissoc", args[0])
	if err != nil {
		return nil, err
	}
	for _, k := range args[1:] {
		d = d.Dissoc(k)
	}
	return d, nil
}

func keys(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("keys", args, 1); err != nil {
		return nil, err
	}
	d, err := expectDict("keys", args[0])
	if err != nil {
		return nil, err
	}
	return List(d.Keys()), nil
}

func vals(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("vals", args, 1); err != nil {
		return nil, err
	}
	d, err := expectDict("vals", args[0])
	if err != nil {
		return nil, err
	}
	out := List{}
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		out = append(out, v)
	}
	return out, nil
}

func contains(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("contains?", args, 2); err != nil {
		return nil, err
	}
	d, err := expectDict("contains?", args[0])
	if err != nil {
		return nil, err
	}
	_, ok := d.Get(args[1])
	return Bool(ok), nil
}

func str(args []Term, ev *Evaluator, env *Env) (Term, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(Display(a))
	}
	return String(b.String()), nil
}

func printFn(newline bool, render func(Term) string) NativeFunc {
	return func(args []Term, ev *Evaluator, env *Env) (Term, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = render(a)
		}
		out := strings.Join(parts, " ")
		if newline {
			out += "\n"
		}
		if _, err := io.WriteString(ev.Stdout, out); err != nil {
			return nil, err
		}
		return Nil{}, nil
	}
}

func symbol(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("symbol", args, 1); err != nil {
		return nil, err
	}
	s, err := expectName("symbol", args[0])
	return Symbol(s), err
}

func keyword(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("keyword", args, 1); err != nil {
		return nil, err
	}
	s, err := expectName("keyword", args[0])
	return Key(strings.TrimPrefix(s, ":")), err
}

func typeOf(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("type", args, 1); err != nil {
		return nil, err
	}
	return Key(TypeName(args[0])), nil
}

func gensym(args []Term, ev *Evaluator, env *Env) (Term, error) {
	prefix := "G__"
	if len(args) > 1 {
		return nil, generalf("gensym: expected at most 1 argument, got %d", len(args))
	}
	if len(args) == 1 {
		s, err := expectName("gensym", args[0])
		if err != nil {
			return nil, err
		}
		prefix = s
	}
	ev.gensym++
	return Symbol(fmt.Sprintf("%s%d", prefix, ev.gensym)), nil
}

func evalFn(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("eval", args, 1); err != nil {
		return nil, err
	}
	return ev.eval(args[0], env)
}

func readString(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("read-string", args, 1); err != nil {
		return nil, err
	}
	s, err := expectString("read-string", args[0])
	if err != nil {
		return nil, err
	}
	return Read(s)
}

func slurp(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("slurp", args, 1); err != nil {
		return nil, err
	}
	path, err := expectString("slurp", args[0])
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ev.resolve(path))
	if err != nil {
		fmt.Fprintf(ev.Stderr, "warning: slurp: %v\n", err)
		return Nil{}, nil
	}
	return String(data), nil
}

func load(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("load", args, 1); err != nil {
		return nil, err
	}
	path, err := expectString("load", args[0])
	if err != nil {
		return nil, err
	}
	return ev.LoadFile(path, env)
}

func doc(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("doc", args, 1); err != nil {
		return nil, err
	}
	f, ok := args[0].(*Function)
	if !ok {
		return nil, generalf("doc: expected a function, got %s", TypeName(args[0]))
	}
	if f.Doc == "" {
		return Nil{}, nil
	}
	return String(f.Doc), nil
}

func exit(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) > 1 {
		return nil, generalf("exit: expected at most 1 argument, got %d", len(args))
	}
	code := 0
	if len(args) == 1 {
		i, ok := args[0].(Int)
		if !ok {
			return nil, generalf("exit: expected an int, got %s", TypeName(args[0]))
		}
		code = int(i)
	}
	return nil, &ExitError{Code: code}
}

func throw(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("throw", args, 1); err != nil {
		return nil, err
	}
	return nil, &GeneralError{Msg: Display(args[0])}
}

func importFn(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) == 0 {
		return nil, generalf("import: expected at least 1 namespace")
	}
	for _, a := range args {
		name, err := expectName("import", a)
		if err != nil {
			return nil, err
		}
		env.ns.Import(ev.Registry.Namespace(name))
	}
	return Nil{}, nil
}

func alias(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("alias", args, 2); err != nil {
		return nil, err
	}
	a, err := expectName("alias", args[0])
	if err != nil {
		return nil, err
	}
	name, err := expectName("alias", args[1])
	if err != nil {
		return nil, err
	}
	env.ns.Alias(a, ev.Registry.Namespace(name))
	return Nil{}, nil
}

func nsName(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("ns-name", args, 0); err != nil {
		return nil, err
	}
	return Symbol(env.ns.Name), nil
}

func nsPublics(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if len(args) > 1 {
		return nil, generalf("ns-publics: expected at most 1 argument, got %d", len(args))
	}
	ns := env.ns
	if len(args) == 1 {
		name, err := expectName("ns-publics", args[0])
		if err != nil {
			return nil, err
		}
		var ok bool
		if ns, ok = ev.Registry.Lookup(name); !ok {
			return nil, generalf("ns-publics: no namespace %s", name)
		}
	}
	names := ns.Names()
	out := make(List, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out, nil
}

func sqrt(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("sqrt", args, 1); err != nil {
		return nil, err
	}
	n, err := expectNumber("sqrt", args[0])
	if err != nil {
		return nil, err
	}
	return Float(math.Sqrt(toFloat(n))), nil
}

func pow(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("pow", args, 2); err != nil {
		return nil, err
	}
	x, err := expectNumber("pow", args[0])
	if err != nil {
		return nil, err
	}
	y, err := expectNumber("pow", args[1])
	if err != nil {
		return nil, err
	}
	xi, xok := x.(Int)
	yi, yok := y.(Int)
	if xok && yok && yi >= 0 {
		r, ok := powInt(xi, yi)
		if !ok {
			return nil, runtimef("pow: integer overflow")
		}
		return r, nil
	}
	return Float(math.Pow(toFloat(x), toFloat(y))), nil
}

// powInt computes x^y by squaring, reporting false on int64 overflow.
func powInt(x, y Int) (Int, bool) {
	r := Int(1)
	var ok bool
	for y > 0 {
		if y&1 == 1 {
			if r, ok = mulInt(r, x); !ok {
				return 0, false
			}
		}
		y >>= 1
		if y > 0 {
			if x, ok = mulInt(x, x); !ok {
				return 0, false
			}
		}
	}
	return r, true
}

func mulInt(a, b Int) (Int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}

func rounding(name string, f func(float64) float64) NativeFunc {
	return func(args []Term, ev *Evaluator, env *Env) (Term, error) {
		if err := expectArgs(name, args, 1); err != nil {
			return nil, err
		}
		n, err := expectNumber(name, args[0])
		if err != nil {
			return nil, err
		}
		if i, ok := n.(Int); ok {
			return i, nil
		}
		return Float(f(toFloat(n))), nil
	}
}

func abs(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("abs", args, 1); err != nil {
		return nil, err
	}
	n, err := expectNumber("abs", args[0])
	if err != nil {
		return nil, err
	}
	if i, ok := n.(Int); ok {
		if i < 0 {
			return -i, nil
		}
		return i, nil
	}
	return Float(math.Abs(toFloat(n))), nil
}

func split(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("split", args, 2); err != nil {
		return nil, err
	}
	s, err := expectString("split", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := expectString("split", args[1])
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, sep)
	out := make(List, len(parts))
	for i, p := range parts {
		out[i] = String(p)
	}
	return out, nil
}

func join(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("join", args, 2); err != nil {
		return nil, err
	}
	l, err := expectList("join", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := expectString("join", args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = Display(t)
	}
	return String(strings.Join(parts, sep)), nil
}

func stringFunc(name string, f func(string) string) NativeFunc {
	return func(args []Term, ev *Evaluator, env *Env) (Term, error) {
		if err := expectArgs(name, args, 1); err != nil {
			return nil, err
		}
		s, err := expectString(name, args[0])
		if err != nil {
			return nil, err
		}
		return String(f(s)), nil
	}
}

func stringPred(name string, f func(s, sub string) bool) NativeFunc {
	return func(args []Term, ev *Evaluator, env *Env) (Term, error) {
		if err := expectArgs(name, args, 2); err != nil {
			return nil, err
		}
		s, err := expectString(name, args[0])
		if err != nil {
			return nil, err
		}
		sub, err := expectString(name, args[1])
		if err != nil {
			return nil, err
		}
		return Bool(f(s, sub)), nil
	}
}

func length(args []Term, ev *Evaluator, env *Env) (Term, error) {
	if err := expectArgs("length", args, 1); err != nil {
		return nil, err
	}
	s, err := expectString("length", args[0])
	if err != nil {
		return nil, err
	}
	return Int(utf8.RuneCountInString(s)), nil
}
