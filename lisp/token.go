package lisp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType uint8

const (
	LParen TokenType = iota
	RParen
	LBrace
	RBrace
	SymbolToken
	IntToken
	FloatToken
	StringToken
)

func (tt TokenType) String() string {
	switch tt {
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case SymbolToken:
		return "symbol"
	case IntToken:
		return "integer"
	case FloatToken:
		return "float"
	case StringToken:
		return "string"
	}
	return fmt.Sprintf("token(%d)", uint8(tt))
}

// Position is a 1-based line and column (counted in runes).
type Position struct {
	Line, Col int
}

// Token is one lexeme. Text holds the symbol text or the decoded string
// contents; Int and Float hold numeric values.
type Token struct {
	Type  TokenType
	Text  string
	Int   int64
	Float float64
	Pos   Position
}

func (t Token) String() string {
	switch t.Type {
	case SymbolToken:
		return fmt.Sprintf("symbol(%s)", t.Text)
	case IntToken:
		return fmt.Sprintf("integer(%d)", t.Int)
	case FloatToken:
		return fmt.Sprintf("float(%s)", Float(t.Float))
	case StringToken:
		return fmt.Sprintf("string(%s)", String(t.Text))
	}
	return t.Type.String()
}

const delimiters = `(){}";`

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(delimiters, r)
}

func isSymbolRune(r rune) bool {
	return !isDelimiter(r) && unicode.IsGraphic(r)
}

type tokenizer struct {
	src       string
	pos       int
	line, col int
	lineStart int
	tokens    []Token
}

// Tokenize splits src into tokens. Whitespace and ;-comments are dropped.
func Tokenize(src string) ([]Token, error) {
	t := &tokenizer{src: src, line: 1, col: 1}
	if err := t.run(); err != nil {
		return nil, err
	}
	return t.tokens, nil
}

func (t *tokenizer) peek() rune {
	if t.pos >= len(t.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(t.src[t.pos:])
	return r
}

func (t *tokenizer) peekNext() rune {
	if t.pos >= len(t.src) {
		return utf8.RuneError
	}
	_, size := utf8.DecodeRuneInString(t.src[t.pos:])
	if t.pos+size >= len(t.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(t.src[t.pos+size:])
	return r
}

func (t *tokenizer) advance() rune {
	r, size := utf8.DecodeRuneInString(t.src[t.pos:])
	t.pos += size
	if r == '\n' {
		t.line++
		t.col = 1
		t.lineStart = t.pos
	} else {
		t.col++
	}
	return r
}

func (t *tokenizer) here() Position {
	return Position{Line: t.line, Col: t.col}
}

// lineAt returns the source line beginning at byte offset start.
func (t *tokenizer) lineAt(start int) string {
	line := t.src[start:]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSuffix(line, "\r")
}

func (t *tokenizer) errorAt(pos Position, lineStart int, format string, args ...any) error {
	return &LexerError{
		Line: pos.Line,
		Col:  pos.Col,
		Text: t.lineAt(lineStart),
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (t *tokenizer) emit(tok Token) {
	t.tokens = append(t.tokens, tok)
}

func (t *tokenizer) run() error {
	for t.pos < len(t.src) {
		r := t.peek()
		switch {
		case unicode.IsSpace(r):
			t.advance()
		case r == ';':
			for t.pos < len(t.src) && t.peek() != '\n' {
				t.advance()
			}
		case r == '(':
			t.emit(Token{Type: LParen, Pos: t.here()})
			t.advance()
		case r == ')':
			t.emit(Token{Type: RParen, Pos: t.here()})
			t.advance()
		case r == '{':
			t.emit(Token{Type: LBrace, Pos: t.here()})
			t.advance()
		case r == '}':
			t.emit(Token{Type: RBrace, Pos: t.here()})
			t.advance()
		case r == '"':
			if err := t.readString(); err != nil {
				return err
			}
		case unicode.IsDigit(r) || (r == '-' && unicode.IsDigit(t.peekNext())):
			if err := t.readNumber(); err != nil {
				return err
			}
		case isSymbolRune(r):
			pos := t.here()
			t.emit(Token{Type: SymbolToken, Text: t.readRun(), Pos: pos})
		default:
			return t.errorAt(t.here(), t.lineStart, "unexpected character %q", r)
		}
	}
	return nil
}

func (t *tokenizer) readRun() string {
	start := t.pos
	for t.pos < len(t.src) && isSymbolRune(t.peek()) {
		t.advance()
	}
	return t.src[start:t.pos]
}

func (t *tokenizer) readNumber() error {
	pos, lineStart := t.here(), t.lineStart
	text := t.readRun()
	if strings.ContainsRune(text, '.') {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return t.errorAt(pos, lineStart, "malformed number %q", text)
		}
		t.emit(Token{Type: FloatToken, Text: text, Float: f, Pos: pos})
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return t.errorAt(pos, lineStart, "malformed number %q", text)
	}
	t.emit(Token{Type: IntToken, Text: text, Int: n, Pos: pos})
	return nil
}

func (t *tokenizer) readString() error {
	pos, lineStart := t.here(), t.lineStart
	t.advance()
	var b strings.Builder
	for {
		if t.pos >= len(t.src) {
			return t.errorAt(pos, lineStart, "unterminated string")
		}
		escPos, escLine := t.here(), t.lineStart
		r := t.advance()
		switch r {
		case '"':
			t.emit(Token{Type: StringToken, Text: b.String(), Pos: pos})
			return nil
		case '\\':
			if t.pos >= len(t.src) {
				return t.errorAt(pos, lineStart, "unterminated string")
			}
			e := t.advance()
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'x':
				c, ok := t.readHexByte()
				if !ok {
					return t.errorAt(escPos, escLine, "invalid hex escape")
				}
				b.WriteByte(c)
			default:
				return t.errorAt(escPos, escLine, "unknown escape character %q", e)
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (t *tokenizer) readHexByte() (byte, bool) {
	var c byte
	for i := 0; i < 2; i++ {
		if t.pos >= len(t.src) {
			return 0, false
		}
		var d byte
		switch r := t.peek(); {
		case r >= '0' && r <= '9':
			d = byte(r - '0')
		case r >= 'a' && r <= 'f':
			d = byte(10 + r - 'a')
		case r >= 'A' && r <= 'F':
			d = byte(10 + r - 'A')
		default:
			return 0, false
		}
		t.advance()
		c = c<<4 | d
	}
	return c, true
}
