package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Wolfram70/SimpleLang/internal/session"
)

func TestRunFileEvaluatesProgram(t *testing.T) {
	src := `# Fibonacci numbers
def fib(x)
  if x < 3 then
    1
  else
    fib(x-1) + fib(x-2);

fib(10);
`
	filename := writeTempSource(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runFile(filename)
	})

	if code != 0 {
		t.Fatalf("runFile exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	if out != "Evaluated to 55.000000\n" {
		t.Fatalf("stdout = %q, want %q", out, "Evaluated to 55.000000\n")
	}
}

func TestRunFileReportsErrors(t *testing.T) {
	src := `def f(x) y;
4 + 5;
`
	filename := writeTempSource(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runFile(filename)
	})

	if code != 1 {
		t.Fatalf("runFile exit=%d, want 1\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(errOut, "input.sl:1:10: unknown variable name: y") {
		t.Fatalf("stderr missing diagnostic:\n%s", errOut)
	}
	// Units after a failure still run.
	if out != "Evaluated to 9.000000\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunFileMissing(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "missing.sl")
	code, _, errOut := captureOutput(t, func() int {
		return runFile(filename)
	})
	if code != 1 {
		t.Fatalf("runFile exit=%d, want 1", code)
	}
	if !strings.HasPrefix(errOut, "error: ") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRunEmitTokens(t *testing.T) {
	filename := writeTempSource(t, "def f(x) x+1 # comment\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitTokens(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitTokens exit=%d\nstderr:\n%s", code, errOut)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	// header, rule, 9 tokens
	if len(lines) != 11 {
		t.Fatalf("got %d lines, want 11:\n%s", len(lines), out)
	}
	for i, want := range []string{"def", "NAME", "CHAR", "NAME", "CHAR", "NAME", "CHAR", "NUMBER", "EOF"} {
		fields := strings.Fields(lines[i+2])
		if len(fields) < 2 || fields[1] != want {
			t.Errorf("token %d: got line %q, want token %s", i, lines[i+2], want)
		}
	}
	if !strings.Contains(lines[3], `"f"`) {
		t.Errorf("name literal missing: %q", lines[3])
	}
	if strings.Contains(out, "comment") {
		t.Errorf("comment was tokenized:\n%s", out)
	}
}

func TestRunEmitAST(t *testing.T) {
	filename := writeTempSource(t, "def binary| 5 (a b) if a then 1 else b;\n1 | 0;\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitAST exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{
		"FuncDecl ",
		"Prototype ",
		"Kind: binary",
		"Prec: 5",
		"IfExpr ",
		`Binary `,
		`'|'`,
		"__anon_expr",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("AST output missing %q:\n%s", want, out)
		}
	}
}

func TestRunEmitASTJSON(t *testing.T) {
	old := *astFormat
	*astFormat = "json"
	defer func() { *astFormat = old }()

	filename := writeTempSource(t, "extern sin(x);\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitAST exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, `"type": "Prototype"`) || !strings.Contains(out, `"name": "sin"`) {
		t.Fatalf("JSON output missing prototype:\n%s", out)
	}
}

func TestRunEmitASTSyntaxError(t *testing.T) {
	filename := writeTempSource(t, "def (x) x;\n2;\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename)
	})

	if code != 1 {
		t.Fatalf("runEmitAST exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "input.sl:1:") {
		t.Fatalf("stderr missing position:\n%s", errOut)
	}
	if !strings.Contains(out, "NumberLit") {
		t.Fatalf("unit after the error was not printed:\n%s", out)
	}
}

func TestRunBufferedREPL(t *testing.T) {
	input := "def add(a b)\n  a +\n  b\nadd(1, 2)\n"

	var out, errOut strings.Builder
	s := session.New(session.Config{Out: &out, Err: &errOut})
	defer s.Close()

	code := runBufferedREPL(s, bufio.NewReader(strings.NewReader(input)))
	if code != 0 {
		t.Fatalf("runBufferedREPL exit=%d\nstderr:\n%s", code, errOut.String())
	}
	if got := out.String(); got != "Evaluated to 3.000000\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestRunBufferedREPLError(t *testing.T) {
	input := "nosuch(1)\n2\n"

	var out, errOut strings.Builder
	s := session.New(session.Config{Out: &out, Err: &errOut})
	defer s.Close()

	code := runBufferedREPL(s, bufio.NewReader(strings.NewReader(input)))
	if code != 1 {
		t.Fatalf("runBufferedREPL exit=%d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "unknown function referenced: nosuch") {
		t.Fatalf("stderr = %q", errOut.String())
	}
	if got := out.String(); got != "Evaluated to 2.000000\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", `""`},
		{"abc", `"abc"`},
		{"\n", `"\n"`},
		{"\t", `"\t"`},
		{`"`, `"\""`},
		{`\`, `"\\"`},
	}
	for _, tt := range tests {
		if got := formatLiteral(tt.in); got != tt.want {
			t.Errorf("formatLiteral(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func writeTempSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.sl")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
