package syntax

import (
	"strings"
	"testing"
)

func TestSourceBasic(t *testing.T) {
	src := newSource("test", strings.NewReader("ab\nc"))

	want := []struct {
		ch        rune
		line, col uint32
	}{
		{'a', 1, 1},
		{'b', 1, 2},
		{'\n', 1, 3},
		{'c', 2, 1},
		{-1, 2, 2},
	}
	for i, w := range want {
		if src.ch != w.ch || src.line != w.line || src.col != w.col {
			t.Fatalf("step %d: got %q at %d:%d, want %q at %d:%d",
				i, src.ch, src.line, src.col, w.ch, w.line, w.col)
		}
		src.nextch()
	}
}

func TestSourceEmpty(t *testing.T) {
	src := newSource("test", strings.NewReader(""))
	if src.ch != -1 {
		t.Errorf("ch = %q, want EOF", src.ch)
	}
	if src.err != nil {
		t.Errorf("err = %v, want nil", src.err)
	}
}

func TestSourcePeek(t *testing.T) {
	src := newSource("test", strings.NewReader(".5"))
	if got := src.peek(); got != '5' {
		t.Errorf("peek() = %q, want '5'", got)
	}
	if src.ch != '.' {
		t.Errorf("peek consumed input: ch = %q", src.ch)
	}
	src.nextch()
	if src.ch != '5' {
		t.Errorf("ch after nextch = %q, want '5'", src.ch)
	}
	src.nextch()
	if got := src.peek(); got != -1 {
		t.Errorf("peek() at EOF = %q, want -1", got)
	}
}

func TestSourceUTF8(t *testing.T) {
	src := newSource("test", strings.NewReader("λx"))
	if src.ch != 'λ' {
		t.Errorf("ch = %q, want 'λ'", src.ch)
	}
	src.nextch()
	if src.ch != 'x' || src.col != 2 {
		t.Errorf("got %q at col %d, want 'x' at col 2", src.ch, src.col)
	}
}
