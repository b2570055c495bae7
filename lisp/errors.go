package lisp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete is returned by the reader when the input ends inside a form.
// More input may complete it, so an interactive front-end should prompt for
// a continuation line instead of reporting an error.
var ErrIncomplete = errors.New("incomplete form")

// IsIncomplete reports whether err means the input ended inside a form.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// LexerError is a malformed token or unexpected delimiter. Its message
// carries the offending source line and a caret under the column.
type LexerError struct {
	Line, Col int
	Text      string // the full source line
	Msg       string
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d\n%s\n%s^", e.Msg, e.Line, e.Col, e.Text, e.caretPad())
}

// caretPad is the indentation of the caret under column Col. Tabs in the
// source line before Col are kept.
func (e *LexerError) caretPad() string {
	var b strings.Builder
	col := 1
	for _, r := range e.Text {
		if col >= e.Col {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
		col++
	}
	if col < e.Col {
		b.WriteString(strings.Repeat(" ", e.Col-col))
	}
	return b.String()
}

// GeneralError is an argument shape, arity or type contract violation
// raised by a special form or builtin.
type GeneralError struct {
	Msg string
}

func (e *GeneralError) Error() string { return e.Msg }

// RuntimeError is a failure during evaluation: an unbound symbol, a call to
// something that is not a function, an arity mismatch.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

// FormError attaches the form whose evaluation failed to a General or
// Runtime error. Only the innermost failing form is recorded.
type FormError struct {
	Err  error
	Form Term
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%v\n  in form: %s", e.Err, e.Form)
}

func (e *FormError) Unwrap() error { return e.Err }

// ExitError is raised by the exit builtin to unwind evaluation.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit %d", e.Code) }

func generalf(format string, args ...any) error {
	return &GeneralError{Msg: fmt.Sprintf(format, args...)}
}

func runtimef(format string, args ...any) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// withForm wraps err with form unless a form was already attached further
// down or err is not an evaluation error.
func withForm(err error, form Term) error {
	var fe *FormError
	if errors.As(err, &fe) {
		return err
	}
	var ge *GeneralError
	var re *RuntimeError
	if errors.As(err, &ge) || errors.As(err, &re) {
		return &FormError{Err: err, Form: form}
	}
	return err
}

// FormatError renders err for a front-end with a prefix naming its kind.
func FormatError(err error) string {
	var le *LexerError
	var re *RuntimeError
	switch {
	case errors.As(err, &le), IsIncomplete(err):
		return "Syntax Error: " + err.Error()
	case errors.As(err, &re):
		return "Runtime Error: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
