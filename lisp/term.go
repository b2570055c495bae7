package lisp

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Term is any value of the language. The set of implementations is closed:
// List, *Dict, Symbol, Int, Float, String, Bool, Nil, Key and *Function.
// Every switch over terms in this package handles all of them.
type Term interface {
	term()
	String() string
}

// Number is implemented by Int and Float.
type Number interface {
	Term
	number()
}

type List []Term
type Symbol string
type Int int64
type Float float64
type String string
type Bool bool
type Nil struct{}

// Key is a keyword, a self-evaluating name written with a leading colon.
type Key string

// Dict maps hashable terms to terms. Dicts are never mutated after
// construction: Assoc and Dissoc return new dicts.
type Dict struct {
	m map[Term]Term
}

func (List) term()      {}
func (*Dict) term()     {}
func (Symbol) term()    {}
func (Int) term()       {}
func (Float) term()     {}
func (String) term()    {}
func (Bool) term()      {}
func (Nil) term()       {}
func (Key) term()       {}
func (*Function) term() {}

func (Int) number()   {}
func (Float) number() {}

func (l List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range l {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (d *Dict) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range d.Keys() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k.String())
		b.WriteByte(' ')
		b.WriteString(d.m[k].String())
	}
	b.WriteByte('}')
	return b.String()
}

func (s Symbol) String() string { return string(s) }
func (i Int) String() string    { return strconv.FormatInt(int64(i), 10) }

func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 64)
	if strings.ContainsAny(s, ".IN") {
		return s
	}
	return s + ".0"
}

// String renders s the way the reader accepts it back.
func (s String) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (Nil) String() string   { return "nil" }
func (k Key) String() string { return ":" + string(k) }

func (f *Function) String() string {
	switch {
	case f.Native != nil:
		return "#<native function>"
	case f.Macro:
		return "#<macro>"
	default:
		return "#<function>"
	}
}

// Display renders t for output: strings without quotes, everything else as
// String does.
func Display(t Term) string {
	if s, ok := t.(String); ok {
		return string(s)
	}
	return t.String()
}

// TypeName names the variant of t for error messages and the type builtin.
func TypeName(t Term) string {
	switch t.(type) {
	case List:
		return "list"
	case *Dict:
		return "dict"
	case Symbol:
		return "symbol"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Nil:
		return "nil"
	case Key:
		return "keyword"
	case *Function:
		return "function"
	}
	return fmt.Sprintf("%T", t)
}

// Equal reports structural equality. Numbers compare after promotion, so
// (== 1 1.0) holds; functions compare by identity.
func Equal(a, b Term) bool {
	switch a := a.(type) {
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case *Dict:
		b, ok := b.(*Dict)
		if !ok || len(a.m) != len(b.m) {
			return false
		}
		for k, v := range a.m {
			w, ok := b.m[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case Int, Float:
		bn, ok := b.(Number)
		if !ok {
			return false
		}
		x, y := promote(a.(Number), bn)
		return x == y
	case Symbol, String, Bool, Nil, Key, *Function:
		return a == b
	}
	return false
}

// promote returns both operands as the same Go type: two Ints stay Ints,
// anything involving a Float becomes Float.
func promote(a, b Number) (Number, Number) {
	ai, aok := a.(Int)
	bi, bok := b.(Int)
	if aok && bok {
		return ai, bi
	}
	return Float(toFloat(a)), Float(toFloat(b))
}

func toFloat(n Number) float64 {
	switch n := n.(type) {
	case Int:
		return float64(n)
	case Float:
		return float64(n)
	}
	return 0
}

// Hashable reports whether t can be used as a Dict key.
func Hashable(t Term) bool {
	switch t.(type) {
	case Symbol, Int, Float, String, Bool, Nil, Key:
		return true
	case List, *Dict, *Function:
		return false
	}
	return false
}

// dictKey canonicalizes numeric keys so that keys which are Equal share one
// map slot: an integral Float in int64 range is stored as the Int.
func dictKey(t Term) Term {
	f, ok := t.(Float)
	if !ok || math.Trunc(float64(f)) != float64(f) {
		return t
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return t
	}
	return Int(f)
}

// NewDict builds a dict from alternating keys and values.
func NewDict(kvs ...Term) (*Dict, error) {
	if len(kvs)%2 != 0 {
		return nil, generalf("hash-map: expected an even number of arguments, got %d", len(kvs))
	}
	d := &Dict{m: make(map[Term]Term, len(kvs)/2)}
	for i := 0; i < len(kvs); i += 2 {
		if !Hashable(kvs[i]) {
			return nil, generalf("hash-map: %s is not a valid key", TypeName(kvs[i]))
		}
		d.m[dictKey(kvs[i])] = kvs[i+1]
	}
	return d, nil
}

func (d *Dict) Len() int { return len(d.m) }

func (d *Dict) Get(k Term) (Term, bool) {
	if !Hashable(k) {
		return nil, false
	}
	v, ok := d.m[dictKey(k)]
	return v, ok
}

func (d *Dict) Assoc(k, v Term) (*Dict, error) {
	if !Hashable(k) {
		return nil, generalf("assoc: %s is not a valid key", TypeName(k))
	}
	out := d.copy()
	out.m[dictKey(k)] = v
	return out, nil
}

func (d *Dict) Dissoc(k Term) *Dict {
	out := d.copy()
	if Hashable(k) {
		delete(out.m, dictKey(k))
	}
	return out
}

func (d *Dict) copy() *Dict {
	m := make(map[Term]Term, len(d.m)+1)
	for k, v := range d.m {
		m[k] = v
	}
	return &Dict{m: m}
}

// Keys returns the keys in a stable order: grouped by type, then by value.
func (d *Dict) Keys() []Term {
	keys := make([]Term, 0, len(d.m))
	for k := range d.m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

func keyRank(t Term) int {
	switch t.(type) {
	case Nil:
		return 0
	case Bool:
		return 1
	case Int, Float:
		return 2
	case String:
		return 3
	case Key:
		return 4
	case Symbol:
		return 5
	}
	return 6
}

func keyLess(a, b Term) bool {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return ra < rb
	}
	switch a := a.(type) {
	case Bool:
		return !bool(a) && bool(b.(Bool))
	case Int, Float:
		x, y := toFloat(a.(Number)), toFloat(b.(Number))
		if x == y {
			_, aInt := a.(Int)
			return aInt
		}
		return x < y
	case String:
		return a < b.(String)
	case Key:
		return a < b.(Key)
	case Symbol:
		return a < b.(Symbol)
	}
	return false
}
