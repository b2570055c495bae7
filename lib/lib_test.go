package lib

import (
	"testing"

	"github.com/deosjr/flute/lisp"
)

func TestLibraries(t *testing.T) {
	l := lisp.New()
	if err := LoadAll(l); err != nil {
		t.Fatal(err)
	}
	for i, tt := range []struct {
		input string
		want  string
	}{
		{
			input: "(ns-name)",
			want:  "user",
		},
		{
			input: "(defn add3 (a b c) (+ a b c))",
			want:  "user/add3",
		},
		{
			input: "(add3 1 2 3)",
			want:  "6",
		},
		{
			input: "(when true 1 2)",
			want:  "2",
		},
		{
			input: "(when false 1)",
			want:  "nil",
		},
		{
			input: "(unless false :ran)",
			want:  ":ran",
		},
		{
			input: "(cond false 1 (== 1 2) 2 true 3)",
			want:  "3",
		},
		{
			input: "(cond false 1)",
			want:  "nil",
		},
		{
			input: "(and true true false)",
			want:  "false",
		},
		{
			input: "(and)",
			want:  "true",
		},
		{
			input: "(or false (== 1 1))",
			want:  "true",
		},
		{
			input: "(or false false)",
			want:  "false",
		},
		{
			input: "(map inc '(1 2 3))",
			want:  "(2 3 4)",
		},
		{
			input: "(filter math/even? (range 7))",
			want:  "(0 2 4 6)",
		},
		{
			input: "(reduce + 0 (range 5))",
			want:  "10",
		},
		{
			input: "(doc inc)",
			want:  `"x plus one"`,
		},
		{
			input: "(second '(a b c))",
			want:  "b",
		},
		{
			input: "(math/square 7)",
			want:  "49",
		},
		{
			input: "(math/max 3 9 2)",
			want:  "9",
		},
		{
			input: "(math/min 3 9 2.5)",
			want:  "2.5",
		},
		{
			input: "(math/odd? 3)",
			want:  "true",
		},
		{
			input: "(string/blank? \"  \")",
			want:  "true",
		},
		{
			input: "(string/repeat \"ab\" 3)",
			want:  `"ababab"`,
		},
		{
			input: "(string/join (map str '(1 2 3)) \"-\")",
			want:  `"1-2-3"`,
		},
		{
			input: "(count (map identity (range 1000)))",
			want:  "1000",
		},
	} {
		e, err := l.Eval(tt.input)
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		got := e.String()
		if got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	err := Load(lisp.New(), "nope")
	if err == nil {
		t.Fatal("expected an error for an unknown library")
	}
	want := `lib: unknown library "nope" (have core, math, string)`
	if err.Error() != want {
		t.Errorf("got %q want %q", err, want)
	}
}

func TestNames(t *testing.T) {
	got := Names()
	want := []string{"core", "math", "string"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%d) got %s want %s", i, got[i], want[i])
		}
	}
}
