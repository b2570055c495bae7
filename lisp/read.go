package lisp

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
)

var readerMacros = []struct {
	prefix string
	name   Symbol
}{
	{"~@", "splice-unquote"},
	{"'", "quote"},
	{"`", "quasiquote"},
	{"~", "unquote"},
}

type reader struct {
	src    string
	tokens []Token
	pos    int
}

func newReader(src string) (*reader, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return &reader{src: src, tokens: tokens}, nil
}

// Read parses the first term in text. It returns ErrIncomplete when text
// holds no term or ends inside one.
func Read(text string) (Term, error) {
	r, err := newReader(text)
	if err != nil {
		return nil, err
	}
	return r.read()
}

// Multiparse parses every top-level term in text.
func Multiparse(text string) ([]Term, error) {
	r, err := newReader(text)
	if err != nil {
		return nil, err
	}
	var terms []Term
	for !r.done() {
		t, err := r.read()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}

func ParseFile(filename string) ([]Term, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return Multiparse(string(data))
}

func (r *reader) done() bool {
	return r.pos >= len(r.tokens)
}

func (r *reader) next() (Token, error) {
	if r.done() {
		return Token{}, ErrIncomplete
	}
	tok := r.tokens[r.pos]
	r.pos++
	return tok, nil
}

func (r *reader) errorAt(pos Position, format string, args ...any) error {
	lines := strings.Split(r.src, "\n")
	var text string
	if pos.Line-1 < len(lines) {
		text = strings.TrimSuffix(lines[pos.Line-1], "\r")
	}
	return &LexerError{Line: pos.Line, Col: pos.Col, Text: text, Msg: fmt.Sprintf(format, args...)}
}

func (r *reader) read() (Term, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case LParen:
		return r.readSeq(RParen)
	case LBrace:
		elems, err := r.readSeq(RBrace)
		if err != nil {
			return nil, err
		}
		return append(List{Symbol("hash-map")}, elems...), nil
	case RParen, RBrace:
		return nil, r.errorAt(tok.Pos, "unexpected %s", tok.Type)
	case IntToken:
		return Int(tok.Int), nil
	case FloatToken:
		return Float(tok.Float), nil
	case StringToken:
		return String(tok.Text), nil
	case SymbolToken:
		return r.readSymbol(tok.Text, tok.Pos)
	}
	return nil, r.errorAt(tok.Pos, "unexpected token %s", tok)
}

func (r *reader) readSeq(closer TokenType) (List, error) {
	list := List{}
	for {
		if r.done() {
			return nil, ErrIncomplete
		}
		tok := r.tokens[r.pos]
		if tok.Type == RParen || tok.Type == RBrace {
			r.pos++
			if tok.Type != closer {
				return nil, r.errorAt(tok.Pos, "expected %s but found %s", closer, tok.Type)
			}
			return list, nil
		}
		t, err := r.read()
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
}

func (r *reader) readSymbol(text string, pos Position) (Term, error) {
	for _, m := range readerMacros {
		if !strings.HasPrefix(text, m.prefix) {
			continue
		}
		rest := text[len(m.prefix):]
		var inner Term
		var err error
		if rest == "" {
			inner, err = r.read()
		} else {
			inner, err = r.readAtom(rest, Position{Line: pos.Line, Col: pos.Col + len(m.prefix)})
		}
		if err != nil {
			return nil, err
		}
		return List{m.name, inner}, nil
	}
	if text == "#" {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		if tok.Type != LParen {
			return nil, r.errorAt(tok.Pos, "expected ( after #")
		}
		body, err := r.readSeq(RParen)
		if err != nil {
			return nil, err
		}
		return append(List{Symbol("function")}, body...), nil
	}
	if len(text) > 1 && text[0] == ':' {
		return Key(text[1:]), nil
	}
	return Symbol(text), nil
}

// readAtom classifies the text left after an attached reader macro prefix,
// so 'x, '5 and ':k behave as if the prefix were a separate token.
func (r *reader) readAtom(text string, pos Position) (Term, error) {
	c := rune(text[0])
	if unicode.IsDigit(c) || (c == '-' && len(text) > 1 && unicode.IsDigit(rune(text[1]))) {
		if strings.ContainsRune(text, '.') {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, r.errorAt(pos, "malformed number %q", text)
			}
			return Float(f), nil
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, r.errorAt(pos, "malformed number %q", text)
		}
		return Int(n), nil
	}
	return r.readSymbol(text, pos)
}
