package debug

import (
	"fmt"
	"strings"
	"testing"
)

func TestLogf(t *testing.T) {
	var lines []string
	SetLogger(func(args ...any) {
		lines = append(lines, fmt.Sprint(args...))
	})
	defer SetLogger(nil)

	Logf("loaded %s", "core")
	Log("plain ", 1)
	if len(lines) != 2 {
		t.Fatalf("got %d lines want 2", len(lines))
	}
	for i, want := range []string{"loaded core", "plain 1"} {
		if !strings.HasPrefix(lines[i], "debug_test.go:") {
			t.Errorf("%d) missing caller prefix: %q", i, lines[i])
		}
		if !strings.HasSuffix(lines[i], want) {
			t.Errorf("%d) got %q want suffix %q", i, lines[i], want)
		}
	}
}

func TestSilentByDefault(t *testing.T) {
	SetLoggerf(nil)
	if Enabled() {
		t.Fatal("logger installed")
	}
	Logf("dropped %d", 1)

	var got string
	SetLoggerf(func(format string, args ...any) {
		got = fmt.Sprintf(format, args...)
	})
	defer SetLogger(nil)
	Logf("x=%d", 2)
	if !strings.HasSuffix(got, "x=2") {
		t.Errorf("got %q", got)
	}
}
