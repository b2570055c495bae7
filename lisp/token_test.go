package lisp

import (
	"errors"
	"strings"
	"testing"
)

func tokenString(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	return strings.Join(parts, " ")
}

func TestTokenize(t *testing.T) {
	for i, tt := range []struct {
		input string
		want  string
	}{
		{
			input: "(+ 1 2)",
			want:  "( symbol(+) integer(1) integer(2) )",
		},
		{
			input: "-5",
			want:  "integer(-5)",
		},
		{
			input: "-",
			want:  "symbol(-)",
		},
		{
			input: "(- 5 -2.5)",
			want:  "( symbol(-) integer(5) float(-2.5) )",
		},
		{
			input: "-x",
			want:  "symbol(-x)",
		},
		{
			input: "3.0",
			want:  "float(3.0)",
		},
		{
			input: `"a\nb\t\"c\"\\"`,
			want:  `string("a\nb\t\"c\"\\")`,
		},
		{
			input: `"\x41\x62"`,
			want:  `string("Ab")`,
		},
		{
			input: "; a comment\nfoo ; trailing\nbar",
			want:  "symbol(foo) symbol(bar)",
		},
		{
			input: "{:a 1}",
			want:  "{ symbol(:a) integer(1) }",
		},
		{
			input: "'x `(a ~b ~@c)",
			want:  "symbol('x) symbol(`) ( symbol(a) symbol(~b) symbol(~@c) )",
		},
		{
			input: "#((x) x)",
			want:  "symbol(#) ( ( symbol(x) ) symbol(x) )",
		},
		{
			input: "(a\"s\"b)",
			want:  `( symbol(a) string("s") symbol(b) )`,
		},
		{
			input: "héllo λ",
			want:  "symbol(héllo) symbol(λ)",
		},
		{
			input: "   \n\t ",
			want:  "",
		},
	} {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Errorf("%d) tokenize error %v", i, err)
			continue
		}
		if got := tokenString(tokens); got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := Tokenize("(a\n  bb \"λ\" c)")
	if err != nil {
		t.Fatal(err)
	}
	want := []Position{{1, 1}, {1, 2}, {2, 3}, {2, 6}, {2, 10}, {2, 11}}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok.Pos != want[i] {
			t.Errorf("%d) %s at %v want %v", i, tok, tok.Pos, want[i])
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	for i, tt := range []struct {
		input string
		want  string
	}{
		{
			input: `"abc`,
			want:  "unterminated string at line 1, column 1\n\"abc\n^",
		},
		{
			input: `(x "\q")`,
			want:  "unknown escape character 'q' at line 1, column 5\n(x \"\\q\")\n    ^",
		},
		{
			input: `"\xZZ"`,
			want:  "invalid hex escape at line 1, column 2\n\"\\xZZ\"\n ^",
		},
		{
			input: `"\x4"`,
			want:  "invalid hex escape at line 1, column 2\n\"\\x4\"\n ^",
		},
		{
			input: "(a)\n(b 1.2.3)",
			want:  "malformed number \"1.2.3\" at line 2, column 4\n(b 1.2.3)\n   ^",
		},
		{
			input: "(a\t\t\"\\q\")",
			want:  "unknown escape character 'q' at line 1, column 6\n(a\t\t\"\\q\")\n  \t\t ^",
		},
		{
			input: "12abc",
			want:  "malformed number \"12abc\" at line 1, column 1\n12abc\n^",
		},
		{
			input: "a \x01",
			want:  "unexpected character '\\x01' at line 1, column 3\na \x01\n  ^",
		},
	} {
		_, err := Tokenize(tt.input)
		var lerr *LexerError
		if !errors.As(err, &lerr) {
			t.Errorf("%d) got %v want a lexer error", i, err)
			continue
		}
		if got := err.Error(); got != tt.want {
			t.Errorf("%d) got %q want %q", i, got, tt.want)
		}
	}
}
