package lisp

import (
	"errors"
	"testing"
)

func TestTermString(t *testing.T) {
	d, err := NewDict(Key("b"), Int(2), Int(1), String("one"), Key("a"), List{Int(1)}, Bool(true), Nil{})
	if err != nil {
		t.Fatal(err)
	}
	for i, tt := range []struct {
		term Term
		want string
	}{
		{List{Symbol("a"), List{Symbol("b"), Int(1)}, String("s")}, `(a (b 1) "s")`},
		{List{}, "()"},
		{Int(-42), "-42"},
		{Float(3), "3.0"},
		{Float(0.1), "0.1"},
		{Float(-2.5), "-2.5"},
		{String("a\"b\\c\nd\x01"), `"a\"b\\c\nd\x01"`},
		{Bool(false), "false"},
		{Nil{}, "nil"},
		{Key("k"), ":k"},
		{d, `{true nil 1 "one" :a (1) :b 2}`},
		{&Function{Native: add}, "#<native function>"},
		{&Function{Macro: true}, "#<macro>"},
		{&Function{}, "#<function>"},
	} {
		if got := tt.term.String(); got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	f := &Function{}
	d1, _ := NewDict(Key("a"), List{Int(1)})
	d2, _ := NewDict(Key("a"), List{Float(1)})
	for i, tt := range []struct {
		a, b Term
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Float(1), true},
		{Float(1.5), Int(1), false},
		{Int(1), String("1"), false},
		{Symbol("a"), Symbol("a"), true},
		{Symbol("a"), Key("a"), false},
		{List{Int(1), List{String("x")}}, List{Int(1), List{String("x")}}, true},
		{List{Int(1)}, List{Int(1), Int(2)}, false},
		{Nil{}, Nil{}, true},
		{Nil{}, List{}, false},
		{d1, d2, true},
		{f, f, true},
		{f, &Function{}, false},
	} {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("%d) Equal(%s, %s) got %v want %v", i, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTypeName(t *testing.T) {
	for i, tt := range []struct {
		term Term
		want string
	}{
		{List{}, "list"},
		{&Dict{}, "dict"},
		{Symbol("x"), "symbol"},
		{Int(1), "int"},
		{Float(1), "float"},
		{String(""), "string"},
		{Bool(true), "bool"},
		{Nil{}, "nil"},
		{Key("k"), "keyword"},
		{&Function{}, "function"},
	} {
		if got := TypeName(tt.term); got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestDict(t *testing.T) {
	d, err := NewDict(Key("a"), Int(1))
	if err != nil {
		t.Fatal(err)
	}
	d2, err := d.Assoc(Key("b"), Int(2))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 || d2.Len() != 2 {
		t.Errorf("assoc mutated its receiver: %s %s", d, d2)
	}
	d3 := d2.Dissoc(Key("a"))
	if _, ok := d3.Get(Key("a")); ok {
		t.Errorf("dissoc kept key: %s", d3)
	}
	if v, ok := d2.Get(Key("a")); !ok || v != Int(1) {
		t.Errorf("dissoc mutated its receiver: %s", d2)
	}
	if _, ok := d.Get(List{}); ok {
		t.Error("unhashable key found")
	}

	_, err = d.Assoc(List{Int(1)}, Int(1))
	var gerr *GeneralError
	if !errors.As(err, &gerr) {
		t.Errorf("got %v want a general error", err)
	}
	if _, err := NewDict(Key("a")); !errors.As(err, &gerr) {
		t.Errorf("got %v want a general error", err)
	}
}

func TestDictNumericKeys(t *testing.T) {
	d, err := NewDict(Int(1), Key("a"), Float(1), Key("b"), Float(1.5), Key("c"))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 2 {
		t.Errorf("got %d keys want 2: %s", d.Len(), d)
	}
	for i, tt := range []struct {
		key  Term
		want Term
	}{
		{Int(1), Key("b")},
		{Float(1), Key("b")},
		{Float(1.5), Key("c")},
	} {
		v, ok := d.Get(tt.key)
		if !ok || v != tt.want {
			t.Errorf("%d) got %v want %s", i, v, tt.want)
		}
	}
	if _, ok := d.Get(Int(2)); ok {
		t.Error("found missing key 2")
	}
	if d.Dissoc(Float(1)).Len() != 1 {
		t.Error("dissoc 1.0 did not remove key 1")
	}

	a, _ := NewDict(Int(1), Key("a"))
	b, _ := NewDict(Float(1), Key("a"))
	if !Equal(a, b) {
		t.Errorf("%s and %s not equal", a, b)
	}
}

func TestPromote(t *testing.T) {
	a, b := promote(Int(1), Int(2))
	if _, ok := a.(Int); !ok {
		t.Errorf("int with int promoted to %s", TypeName(a))
	}
	if _, ok := b.(Int); !ok {
		t.Errorf("int with int promoted to %s", TypeName(b))
	}
	a, b = promote(Int(1), Float(2))
	if a != Float(1) || b != Float(2) {
		t.Errorf("got %s %s want 1.0 2.0", a, b)
	}
}
