package syntax

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// scanned is a comparable summary of one token.
type scanned struct {
	Tok Token
	Lit string
}

func scanAll(src string) []scanned {
	s := NewScanner("test.sl", strings.NewReader(src))
	var out []scanned
	for {
		s.Next()
		out = append(out, scanned{s.Token(), s.Literal()})
		if s.Token() == _EOF {
			return out
		}
	}
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []scanned
	}{
		{"empty", "", []scanned{{_EOF, ""}}},
		{"ident", "foo", []scanned{{_Name, "foo"}, {_EOF, ""}}},
		{"ident_digits", "x1y2", []scanned{{_Name, "x1y2"}, {_EOF, ""}}},
		{"keyword_upper", "DEF Extern", []scanned{{_Def, "DEF"}, {_Extern, "Extern"}, {_EOF, ""}}},
		{"define_alias", "define", []scanned{{_Def, "define"}, {_EOF, ""}}},
		{"number", "1.5", []scanned{{_Number, "1.5"}, {_EOF, ""}}},
		{"number_leading_dot", ".5", []scanned{{_Number, ".5"}, {_EOF, ""}}},
		{"number_second_dot", "1.2.3", []scanned{{_Number, "1.2"}, {_Number, ".3"}, {_EOF, ""}}},
		{"lone_dot", ". x", []scanned{{_Char, "."}, {_Name, "x"}, {_EOF, ""}}},
		{"underscore_is_char", "_a", []scanned{{_Char, "_"}, {_Name, "a"}, {_EOF, ""}}},
		{"operators", "a+b*c", []scanned{
			{_Name, "a"}, {_Char, "+"}, {_Name, "b"}, {_Char, "*"}, {_Name, "c"}, {_EOF, ""},
		}},
		{"comment", "1 # one\n2", []scanned{{_Number, "1"}, {_Number, "2"}, {_EOF, ""}}},
		{"comment_at_eof", "x # trailing", []scanned{{_Name, "x"}, {_EOF, ""}}},
		{"call", "foo(a, b);", []scanned{
			{_Name, "foo"}, {_Char, "("}, {_Name, "a"}, {_Char, ","},
			{_Name, "b"}, {_Char, ")"}, {_Char, ";"}, {_EOF, ""},
		}},
		{"for", "for i = 1 when i < n inc 2 do x", []scanned{
			{_For, "for"}, {_Name, "i"}, {_Char, "="}, {_Number, "1"},
			{_When, "when"}, {_Name, "i"}, {_Char, "<"}, {_Name, "n"},
			{_Inc, "inc"}, {_Number, "2"}, {_Do, "do"}, {_Name, "x"}, {_EOF, ""},
		}},
		{"whitespace", " \t\r\n\v\fx", []scanned{{_Name, "x"}, {_EOF, ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, scanAll(tt.src)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanPayload(t *testing.T) {
	s := NewScanner("", strings.NewReader("abc 42.25 | 99999999999999999999"))

	s.Next()
	if s.Name() != "abc" {
		t.Errorf("Name() = %q, want abc", s.Name())
	}
	s.Next()
	if s.Number() != 42.25 {
		t.Errorf("Number() = %v, want 42.25", s.Number())
	}
	s.Next()
	if s.Char() != '|' {
		t.Errorf("Char() = %q, want '|'", s.Char())
	}
	s.Next()
	if s.Number() != 1e20 || math.IsInf(s.Number(), 0) {
		t.Errorf("Number() = %v, want 1e20", s.Number())
	}
}

func TestScanPositions(t *testing.T) {
	s := NewScanner("pos.sl", strings.NewReader("def f(x)\n  x + 1"))
	want := []string{
		"pos.sl:1:1", // def
		"pos.sl:1:5", // f
		"pos.sl:1:6", // (
		"pos.sl:1:7", // x
		"pos.sl:1:8", // )
		"pos.sl:2:3", // x
		"pos.sl:2:5", // +
		"pos.sl:2:7", // 1
		"pos.sl:2:8", // EOF
	}
	var got []string
	for {
		s.Next()
		got = append(got, s.Pos().String())
		if s.Token() == _EOF {
			break
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestScanNeverFails(t *testing.T) {
	// Arbitrary bytes come back as _Char tokens.
	for _, tok := range scanAll("@ $ ` ~ ?") {
		if tok.Tok != _Char && tok.Tok != _EOF {
			t.Errorf("got %v %q, want CHAR", tok.Tok, tok.Lit)
		}
	}
}
