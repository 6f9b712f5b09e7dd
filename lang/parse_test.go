package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestParseString_Tokens(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   []TokenKind
		varIdx int    // index of a TokenVariable to inspect, -1 to skip
		wantId string // its expected identifier
	}{
		{
			name:   "single assignment",
			input:  "PKGVER=8.2",
			want:   []TokenKind{TokenVariable},
			varIdx: 0,
			wantId: "PKGVER",
		},
		{
			name:  "comment line",
			input: "# Test APML\n",
			want:  []TokenKind{TokenComment, TokenNewline},
		},
		{
			name:   "comment then assignment",
			input:  "# header\nNAME=mesa\n",
			want:   []TokenKind{TokenComment, TokenNewline, TokenVariable, TokenNewline},
			varIdx: 2,
			wantId: "NAME",
		},
		{
			name:  "blank lines and spaces",
			input: "\n  \t\n",
			want:  []TokenKind{TokenNewline, TokenSpace, TokenNewline},
		},
		{
			name:   "suffixed identifier is ordinary",
			input:  "MESON_AFTER__AMD64=x",
			want:   []TokenKind{TokenVariable},
			varIdx: 0,
			wantId: "MESON_AFTER__AMD64",
		},
		{
			name:   "empty value",
			input:  "FOO=\n",
			want:   []TokenKind{TokenVariable, TokenNewline},
			varIdx: 0,
			wantId: "FOO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lst, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if len(lst.Tokens) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d", len(tt.want), len(lst.Tokens))
			}

			for i, kind := range tt.want {
				if lst.Tokens[i].Kind != kind {
					t.Errorf("token %d: expected kind %v, got %v", i, kind, lst.Tokens[i].Kind)
				}
			}

			if tt.wantId != "" {
				if got := lst.Tokens[tt.varIdx].Var.Name; got != tt.wantId {
					t.Errorf("expected identifier %q, got %q", tt.wantId, got)
				}
			}
		})
	}
}

func TestParseString_Expansions(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantKind   ExpandKind
		wantBraced bool
		wantMod    *ModKind
	}{
		{
			name:     "bare",
			input:    "A=$FOO",
			wantName: "FOO",
			wantKind: ExpandString,
		},
		{
			name:       "braced",
			input:      "A=${FOO}",
			wantName:   "FOO",
			wantKind:   ExpandString,
			wantBraced: true,
		},
		{
			name:       "array",
			input:      "A=${FOO[@]}",
			wantName:   "FOO",
			wantKind:   ExpandArray,
			wantBraced: true,
		},
		{
			name:       "trim prefix",
			input:      "A=${FOO#*-}",
			wantName:   "FOO",
			wantKind:   ExpandString,
			wantBraced: true,
			wantMod:    modKindPtr(ModTrimPrefix),
		},
		{
			name:       "trim longest prefix",
			input:      "A=${FOO##*-}",
			wantName:   "FOO",
			wantKind:   ExpandString,
			wantBraced: true,
			wantMod:    modKindPtr(ModTrimLongPrefix),
		},
		{
			name:       "trim suffix",
			input:      "A=${FOO%.*}",
			wantName:   "FOO",
			wantKind:   ExpandString,
			wantBraced: true,
			wantMod:    modKindPtr(ModTrimSuffix),
		},
		{
			name:       "trim longest suffix",
			input:      "A=${FOO%%.*}",
			wantName:   "FOO",
			wantKind:   ExpandString,
			wantBraced: true,
			wantMod:    modKindPtr(ModTrimLongSuffix),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lst, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			x := firstExpansion(t, lst)

			if x.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, x.Name)
			}

			if x.Kind != tt.wantKind {
				t.Errorf("expected kind %v, got %v", tt.wantKind, x.Kind)
			}

			if x.Braced != tt.wantBraced {
				t.Errorf("expected braced %v, got %v", tt.wantBraced, x.Braced)
			}

			switch {
			case tt.wantMod == nil && x.Mod != nil:
				t.Errorf("unexpected modifier %v", x.Mod.Kind)
			case tt.wantMod != nil && x.Mod == nil:
				t.Error("expected a modifier")
			case tt.wantMod != nil && x.Mod.Kind != *tt.wantMod:
				t.Errorf("expected modifier %v, got %v", *tt.wantMod, x.Mod.Kind)
			}
		})
	}
}

func modKindPtr(k ModKind) *ModKind { return &k }

// firstExpansion digs the first expansion word out of the first assignment.
func firstExpansion(t *testing.T, lst *LST) *Expansion {
	t.Helper()

	for _, tok := range lst.Tokens {
		if tok.Kind != TokenVariable {
			continue
		}

		for _, u := range tok.Var.Value.Units {
			for _, w := range u.Words {
				if w.Kind == WordExpansion {
					return w.Expand
				}
			}
		}
	}

	t.Fatal("no expansion found")

	return nil
}

func TestParseString_Array(t *testing.T) {
	lst, err := ParseString(t.Context(), "DEPS=(a b\n  # inner\n  \"c d\"\n)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	v := lst.Tokens[0].Var.Value
	if v.Kind != VariableArray {
		t.Fatalf("expected array value, got %v", v.Kind)
	}

	var elements, comments int

	for _, tok := range v.Array {
		switch tok.Kind {
		case ArrayElement:
			elements++
		case ArrayComment:
			comments++
		}
	}

	if elements != 3 {
		t.Errorf("expected 3 elements, got %d", elements)
	}

	if comments != 1 {
		t.Errorf("expected 1 comment, got %d", comments)
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated double quote", input: `PKGDEP="x11-lib`},
		{name: "unterminated single quote", input: "A='abc"},
		{name: "unterminated expansion", input: "A=${FOO"},
		{name: "unterminated expansion with modifier", input: "A=${FOO%pat"},
		{name: "invalid character in expansion", input: "A=${FOO;}"},
		{name: "expansion missing identifier", input: "A=${}"},
		{name: "unterminated array", input: "A=(x y"},
		{name: "missing equals", input: "FOO\n"},
		{name: "space before equals", input: "FOO =1\n"},
		{name: "identifier starts with digit", input: "1FOO=x"},
		{name: "bare equals", input: "=x"},
		{name: "escape at end of input", input: `A=\`},
		{name: "unterminated quote after empty assignment", input: "PKGVER=\nPKGDEP=\"x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lst, err := ParseString(t.Context(), tt.input, WithoutCache())
			if err == nil {
				t.Fatal("expected a parse error")
			}

			if lst != nil {
				t.Error("no partial tree may be returned on failure")
			}

			if !IsParseError(err) {
				t.Errorf("expected ParseError, got %T: %v", err, err)
			}

			var perr *ParseError
			if errors.As(err, &perr) && perr.Position().Line < 1 {
				t.Errorf("error position missing: %+v", perr.Position())
			}
		})
	}
}

func TestParseString_ErrorPosition(t *testing.T) {
	_, err := ParseString(t.Context(), "GOOD=1\nBAD='oops", WithoutCache())

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}

	if perr.Position().Line != 2 {
		t.Errorf("expected error on line 2, got %v", perr.Position())
	}
}

func TestParseString_ContinuationCrossesLines(t *testing.T) {
	lst, err := ParseString(t.Context(), "A=fir\\\nst\nB=2\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	// The continuation consumes the newline, so only two assignments and
	// two top-level newlines remain.
	var vars int

	for _, tok := range lst.Tokens {
		if tok.Kind == TokenVariable {
			vars++
		}
	}

	if vars != 2 {
		t.Errorf("expected 2 assignments, got %d", vars)
	}

	if got := lst.String(); got != "A=fir\\\nst\nB=2\n" {
		t.Errorf("lossless reconstruction mismatch: %q", got)
	}
}

func TestParseReader(t *testing.T) {
	lst, err := ParseReader(t.Context(), strings.NewReader("PKGVER=8.2\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if got := lst.String(); got != "PKGVER=8.2\n" {
		t.Errorf("expected source reconstruction, got %q", got)
	}
}
