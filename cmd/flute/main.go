package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/deosjr/flute/internal/config"
	"github.com/deosjr/flute/internal/debug"
	"github.com/deosjr/flute/lib"
	"github.com/deosjr/flute/lisp"
)

const banner = "flute REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit."

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "configuration file (default $HOME/.flute.yaml)")
	debugFlag := flag.Bool("debug", false, "log evaluator diagnostics to stderr")
	expr := flag.String("e", "", "evaluate `expr`, print the result and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: flute [-config file] [-debug] [-e expr] [file ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *debugFlag || cfg.Debug {
		log.SetFlags(0)
		debug.SetLoggerf(log.Printf)
	}

	l, err := newLisp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch {
	case *expr != "":
		v, err := l.Eval(*expr)
		if err != nil {
			return report(err)
		}
		fmt.Println(v)
		return 0
	case flag.NArg() > 0:
		for _, file := range flag.Args() {
			if err := l.LoadFile(file); err != nil {
				return report(err)
			}
		}
		return 0
	}
	return repl(l, cfg)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

func newLisp(cfg *config.Config) (*lisp.Lisp, error) {
	l := lisp.New()
	l.Evaluator().LibPaths = cfg.LibPaths
	if debug.Enabled() {
		debug.Log("preload ", strings.Join(cfg.Preload, " "), " into namespace ", cfg.Namespace)
	}
	if err := lib.Load(l, cfg.Preload...); err != nil {
		return nil, err
	}
	l.InNamespace(cfg.Namespace)
	return l, nil
}

// report prints err and returns the process exit status for it.
func report(err error) int {
	var exit *lisp.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	fmt.Fprintln(os.Stderr, lisp.FormatError(err))
	return 1
}

func repl(l *lisp.Lisp, cfg *config.Config) int {
	fmt.Println(banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		src, ok := readInput(ln, cfg.Prompt, cfg.ContinuationPrompt)
		if !ok {
			fmt.Println()
			return 0
		}
		code := strings.TrimSpace(src)
		switch {
		case code == "":
			continue
		case code == ":quit":
			return 0
		case strings.HasPrefix(code, ":"):
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		v, err := l.Eval(src)
		if err != nil {
			var exit *lisp.ExitError
			if errors.As(err, &exit) {
				return exit.Code
			}
			fmt.Fprintln(os.Stderr, lisp.FormatError(err))
			continue
		}
		fmt.Println(v)
	}
}

// readInput prompts for lines until they form complete input. Ctrl+C
// discards what was typed so far.
func readInput(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			// io.EOF on Ctrl+D
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, err := lisp.Multiparse(src); lisp.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}
