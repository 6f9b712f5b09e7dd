package lang

import (
	"testing"
)

func mustEmit(t *testing.T, source string) *AST {
	t.Helper()

	lst, err := ParseString(t.Context(), source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	ast, err := Emit(lst)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}

	return ast
}

func TestEmit_DropsFormatting(t *testing.T) {
	ast := mustEmit(t, "# header\n\n  \nNAME=mesa\n# tail\nVER=8.2\n")

	if len(ast.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(ast.Statements))
	}

	if ast.Statements[0].Name != "NAME" || ast.Statements[1].Name != "VER" {
		t.Errorf("unexpected statement names: %q, %q",
			ast.Statements[0].Name, ast.Statements[1].Name)
	}
}

func TestEmit_Segments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []SegmentKind
		texts []string // literal text per segment, "" for expansions
	}{
		{
			name:  "plain literal",
			input: "A=8.2",
			want:  []SegmentKind{SegmentLiteral},
			texts: []string{"8.2"},
		},
		{
			name:  "adjacent units merge into one literal",
			input: `A=a"b"'c'`,
			want:  []SegmentKind{SegmentLiteral},
			texts: []string{"abc"},
		},
		{
			name:  "expansion splits literals",
			input: `A="pre ${B} post"`,
			want:  []SegmentKind{SegmentLiteral, SegmentExpand, SegmentLiteral},
			texts: []string{"pre ", "", " post"},
		},
		{
			name:  "continuation folds into joined literal",
			input: "A=fir\\\nst",
			want:  []SegmentKind{SegmentLiteral},
			texts: []string{"first"},
		},
		{
			name:  "continuation keeps leading whitespace of next line",
			input: "A=\"one \\\n   two\"",
			want:  []SegmentKind{SegmentLiteral},
			texts: []string{"one    two"},
		},
		{
			name:  "escape contributes the bare character",
			input: `A="say \"hi\""`,
			want:  []SegmentKind{SegmentLiteral},
			texts: []string{`say "hi"`},
		},
		{
			name:  "empty value has no segments",
			input: "A=",
			want:  []SegmentKind{},
			texts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast := mustEmit(t, tt.input)

			if len(ast.Statements) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(ast.Statements))
			}

			expr := ast.Statements[0].Value
			if expr.Kind != ValueExprString {
				t.Fatalf("expected string expression, got %v", expr.Kind)
			}

			if len(expr.Segments) != len(tt.want) {
				t.Fatalf("expected %d segments, got %d", len(tt.want), len(expr.Segments))
			}

			for i, seg := range expr.Segments {
				if seg.Kind != tt.want[i] {
					t.Errorf("segment %d: expected %v, got %v", i, tt.want[i], seg.Kind)
				}

				if tt.want[i] == SegmentLiteral && seg.Text != tt.texts[i] {
					t.Errorf("segment %d: expected text %q, got %q", i, tt.texts[i], seg.Text)
				}
			}
		})
	}
}

func TestEmit_ArrayElements(t *testing.T) {
	ast := mustEmit(t, "DEPS=(a \"b c\"\n # note\n ${EXTRA[@]})")

	expr := ast.Statements[0].Value
	if expr.Kind != ValueExprArray {
		t.Fatalf("expected array expression, got %v", expr.Kind)
	}

	if len(expr.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(expr.Elements))
	}

	if expr.Elements[0][0].Text != "a" {
		t.Errorf("element 0: expected literal a, got %+v", expr.Elements[0][0])
	}

	if expr.Elements[1][0].Text != "b c" {
		t.Errorf("element 1: expected literal \"b c\", got %+v", expr.Elements[1][0])
	}

	last := expr.Elements[2][0]
	if last.Kind != SegmentExpand || last.Expand.Kind != ExpandArray {
		t.Errorf("element 2: expected array expansion, got %+v", last)
	}
}

// Emitted expansions are copies: mutating the lossless tree afterwards must
// not leak into the semantic tree.
func TestEmit_OwnsExpansions(t *testing.T) {
	lst, err := ParseString(t.Context(), "A=${B%x}", WithoutCache())
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	ast, err := Emit(lst)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}

	lstExpand := lst.Tokens[0].Var.Value.Units[0].Words[0].Expand
	astExpand := ast.Statements[0].Value.Segments[0].Expand

	if lstExpand == astExpand {
		t.Error("semantic tree must not share expansion nodes with the lossless tree")
	}

	if lstExpand.Mod == astExpand.Mod {
		t.Error("semantic tree must not share modifier nodes with the lossless tree")
	}
}
