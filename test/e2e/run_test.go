package e2e

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Wolfram70/SimpleLang/internal/session"
	"github.com/Wolfram70/SimpleLang/internal/ssa/passes"
)

// TestE2E runs every .sl file in testdata/ through a session and compares
// the combined output and diagnostics with the matching .golden file.
// Each program runs twice, with and without slot promotion, and must
// produce the same output both times.
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.sl")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .sl test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".sl")
		testFile := testFile
		t.Run(name, func(t *testing.T) {
			for _, optimize := range []bool{false, true} {
				runE2ETest(t, testFile, optimize)
			}
		})
	}
}

// runE2ETest runs a single program.
func runE2ETest(t *testing.T, srcFile string, optimize bool) {
	t.Helper()

	goldenFile := strings.TrimSuffix(srcFile, ".sl") + ".golden"
	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	f, err := os.Open(srcFile)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	// Results and diagnostics share one buffer so that their order is kept.
	var out bytes.Buffer
	var ll bytes.Buffer
	s := session.New(session.Config{
		Filename:     filepath.Base(srcFile),
		Out:          &out,
		Err:          &out,
		Optimize:     optimize,
		Passes:       passes.Config{Verify: true},
		DumpLL:       &ll,
		MaxCallDepth: 200,
	})
	defer s.Close()

	_ = s.Run(f)

	if diff := cmp.Diff(string(expected), out.String()); diff != "" {
		t.Errorf("optimize=%v: output mismatch (-want +got):\n%s", optimize, diff)
	}
	if s.Errors() == 0 && !strings.Contains(ll.String(), "define double @") {
		t.Errorf("optimize=%v: no LLVM IR was emitted", optimize)
	}
}
