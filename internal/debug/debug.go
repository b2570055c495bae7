// Package debug is a pluggable diagnostic logger. It is silent until a
// logger is installed.
package debug

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// logfunc follows fmt.Sprint formatting rules
var logfunc func(...any)

func prefix(skip int) string {
	_, file, line, ok := runtime.Caller(2 + skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d: ", filepath.Base(file), line)
}

func SetLogger(fn func(...any)) {
	logfunc = fn
}

func SetLoggerf(fn func(string, ...any)) {
	if fn == nil {
		logfunc = nil
		return
	}
	logfunc = func(args ...any) {
		fn("%s", fmt.Sprint(args...))
	}
}

func Enabled() bool { return logfunc != nil }

func Logf(format string, args ...any) {
	if logfunc == nil {
		return
	}
	logfunc(prefix(0), fmt.Sprintf(format, args...))
}

func Log(args ...any) {
	if logfunc == nil {
		return
	}
	logfunc(append([]any{prefix(0)}, args...)...)
}
