// Package main implements the SimpleLang interpreter entry point.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/peterh/liner"

	"github.com/Wolfram70/SimpleLang/internal/session"
	"github.com/Wolfram70/SimpleLang/internal/ssa/passes"
	"github.com/Wolfram70/SimpleLang/internal/syntax"
)

// Interpreter flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text or json)")
	emitSSA    = flag.Bool("emit-ssa", false, "Dump SSA of every function read")
	emitLL     = flag.Bool("emit-ll", false, "Dump LLVM IR of every function read")
	optimize   = flag.Bool("O", true, "Promote stack slots to registers before execution")
	ssaVerify  = flag.Bool("ssa-verify", false, "Verify SSA after each pass")
	dumpBefore = flag.String("dump-before", "", "Dump SSA before pass (name or \"*\")")
	dumpAfter  = flag.String("dump-after", "", "Dump SSA after pass (name or \"*\")")
	dumpFunc   = flag.String("dump-func", "", "Only dump specific function")
	maxDepth   = flag.Int("max-depth", 0, "Maximum call depth at run time (0 for default)")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "SimpleLang %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: simplelang [options] [file.sl | -]\n\n")
		fmt.Fprintf(os.Stderr, "With no file, read from standard input; a terminal gets an interactive prompt.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("simplelang version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) > 1 {
		flag.Usage()
		os.Exit(2)
	}
	filename := ""
	if len(args) == 1 {
		filename = args[0]
	}

	switch {
	case *emitTokens:
		os.Exit(runEmitTokens(filename))
	case *emitAST:
		os.Exit(runEmitAST(filename))
	case filename != "":
		os.Exit(runFile(filename))
	}
	os.Exit(runREPL())
}

// openInput opens filename, or standard input for "" and "-".
func openInput(filename string) (io.ReadCloser, string, error) {
	if filename == "" || filename == "-" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, "", err
	}
	return f, filename, nil
}

// sessionConfig builds the session configuration from the flags.
func sessionConfig(filename string) session.Config {
	cfg := session.Config{
		Filename: filename,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Optimize: *optimize,
		Passes: passes.Config{
			DumpBefore: *dumpBefore,
			DumpAfter:  *dumpAfter,
			DumpFunc:   *dumpFunc,
			Verify:     *ssaVerify,
			Dump:       os.Stderr,
		},
		MaxCallDepth: *maxDepth,
	}
	if *emitSSA {
		cfg.DumpSSA = os.Stderr
	}
	if *emitLL {
		cfg.DumpLL = os.Stderr
	}
	return cfg
}

// runFile compiles and runs every unit of the input.
func runFile(filename string) int {
	r, name, err := openInput(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer r.Close()

	s := session.New(sessionConfig(name))
	defer s.Close()
	if err := s.Run(r); err != nil {
		if s.Errors() == 0 {
			// Not a unit failure, so it has not been reported.
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

// runEmitAST parses the input and prints the AST of every unit.
func runEmitAST(filename string) int {
	r, name, err := openInput(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer r.Close()

	nerrs := 0
	errh := func(pos syntax.Pos, msg string) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", pos, msg)
		nerrs++
	}
	p := syntax.NewParser(name, r, syntax.NewOpTable(), errh)
	for {
		var node syntax.Node
		var err error
		switch p.Unit() {
		case syntax.UnitEOF:
			if err := p.ReadErr(); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return 1
			}
			if nerrs > 0 {
				return 1
			}
			return 0
		case syntax.UnitSemi:
			p.Skip()
			continue
		case syntax.UnitDef:
			node, err = p.ParseDefinition()
		case syntax.UnitExtern:
			node, err = p.ParseExtern()
		default:
			node, err = p.ParseTopLevelExpr()
		}
		if err != nil {
			p.Skip()
			continue
		}

		switch *astFormat {
		case "json":
			if err := syntax.FprintJSON(os.Stdout, node); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return 1
			}
		default:
			syntax.Fprint(os.Stdout, node)
		}
	}
}

// runEmitTokens scans the input and prints all tokens with positions.
func runEmitTokens(filename string) int {
	r, name, err := openInput(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer r.Close()

	s := syntax.NewScanner(name, r)

	// Print header
	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for {
		s.Next()
		tok := s.Token()
		fmt.Printf("%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}

	if err := s.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// ----------------------------------------------------------------------------
// REPL

const (
	prompt         = "ready> "
	continuePrompt = "...> "
)

func runREPL() int {
	s := session.New(sessionConfig("<stdin>"))
	defer s.Close()
	if !isInteractive() {
		return runBufferedREPL(s, bufio.NewReader(os.Stdin))
	}
	return runInteractiveREPL(s)
}

// runBufferedREPL reads lines from reader and evaluates each unit once it
// is complete.
func runBufferedREPL(s *session.Session, reader *bufio.Reader) int {
	var buffer strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return 1
		}
		buffer.WriteString(line)
		src := buffer.String()
		if s.Incomplete(src) && err == nil {
			continue
		}
		buffer.Reset()
		s.Eval(src)
		if err != nil {
			if s.Errors() > 0 {
				return 1
			}
			return 0
		}
	}
}

// runInteractiveREPL prompts for input with line editing and history.
func runInteractiveREPL(s *session.Session) int {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder
	for {
		p := prompt
		if buffer.Len() > 0 {
			p = continuePrompt
		}
		input, err := state.Prompt(p)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return 0
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return 1
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if s.Incomplete(src) {
			continue
		}
		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))
		}
		s.Eval(src)
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".simplelang_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
