package syntax

import "testing"

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{_EOF, "EOF"},
		{_Def, "def"},
		{_Extern, "extern"},
		{_Binary, "binary"},
		{_When, "when"},
		{_Name, "NAME"},
		{_Number, "NUMBER"},
		{_Char, "CHAR"},
		{tokenCount + 3, "token(20)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.tok.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident string
		want  Token
	}{
		{"def", _Def},
		{"DEF", _Def},
		{"Def", _Def},
		{"define", _Def},
		{"DEFINE", _Def},
		{"extern", _Extern},
		{"if", _If},
		{"then", _Then},
		{"else", _Else},
		{"for", _For},
		{"in", _In},
		{"var", _Var},
		{"binary", _Binary},
		{"unary", _Unary},
		{"when", _When},
		{"inc", _Inc},
		{"do", _Do},
		{"foo", _Name},
		{"defx", _Name},
		{"iff", _Name},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			if got := LookupKeyword(tt.ident); got != tt.want {
				t.Errorf("LookupKeyword(%q) = %v, want %v", tt.ident, got, tt.want)
			}
		})
	}
}

func TestIsKeyword(t *testing.T) {
	for tok := Token(0); tok < tokenCount; tok++ {
		want := tok >= _Def && tok <= _Do
		if got := tok.IsKeyword(); got != want {
			t.Errorf("%v.IsKeyword() = %v, want %v", tok, got, want)
		}
	}
}
