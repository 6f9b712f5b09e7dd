package lang

import (
	"iter"
)

// AST is the semantic tree: an ordered sequence of assignment statements
// with all formatting discarded. It is built once by [Emit] and immutable
// afterwards.
type AST struct {
	Statements []*Statement
}

// All returns an iterator over all statements in source order.
func (ast *AST) All() iter.Seq[*Statement] {
	return func(yield func(*Statement) bool) {
		for _, st := range ast.Statements {
			if !yield(st) {
				return
			}
		}
	}
}

// Statement is one assignment: a variable name and its value expression.
type Statement struct {
	Name  string
	Pos   Position
	Value *ValueExpr
}

// ValueExprKind discriminates the two value-expression shapes.
type ValueExprKind int

const (
	// ValueExprString is a scalar expression: one ordered segment list.
	ValueExprString ValueExprKind = iota

	// ValueExprArray is an array literal: one segment list per element.
	ValueExprArray
)

// ValueExpr is the value side of a statement.
type ValueExpr struct {
	Kind     ValueExprKind
	Segments []*Segment   // ValueExprString
	Elements [][]*Segment // ValueExprArray
}

// SegmentKind discriminates value-expression segments.
type SegmentKind int

const (
	// SegmentLiteral contributes fixed text.
	SegmentLiteral SegmentKind = iota

	// SegmentExpand contributes the expansion of a variable reference.
	SegmentExpand
)

// Segment is one piece of a value expression. Consecutive segments are
// combined left to right during evaluation.
type Segment struct {
	Kind   SegmentKind
	Pos    Position
	Text   string     // SegmentLiteral
	Expand *Expansion // SegmentExpand, an emitter-owned copy
}

// Emit converts a lossless tree into a semantic tree, discarding comments,
// whitespace, and continuation markers.
//
// Emission fails with an *EmitError only when a tree shape has no semantic
// counterpart, such as an assignment with a missing value expression; such
// shapes cannot be produced by [ParseString].
func Emit(lst *LST) (*AST, error) {
	ast := &AST{Statements: make([]*Statement, 0, len(lst.Tokens))}

	for _, tok := range lst.Tokens {
		switch tok.Kind {
		case TokenSpace, TokenNewline, TokenComment:
			// Formatting only.

		case TokenVariable:
			st, err := emitStatement(tok)
			if err != nil {
				return nil, err
			}

			ast.Statements = append(ast.Statements, st)

		default:
			return nil, emitError(tok.Pos, "unrecognized token")
		}
	}

	return ast, nil
}

func emitStatement(tok *Token) (*Statement, error) {
	if tok.Var == nil || tok.Var.Value == nil {
		return nil, emitError(tok.Pos, "assignment without value expression")
	}

	expr, err := emitValueExpr(tok.Pos, tok.Var.Value)
	if err != nil {
		return nil, err
	}

	return &Statement{Name: tok.Var.Name, Pos: tok.Pos, Value: expr}, nil
}

func emitValueExpr(pos Position, v *VariableValue) (*ValueExpr, error) {
	if v.Kind == VariableArray {
		elements := make([][]*Segment, 0, len(v.Array))

		for _, tok := range v.Array {
			switch tok.Kind {
			case ArraySpace, ArrayNewline, ArrayComment:
				// Formatting only.

			case ArrayElement:
				segs, err := emitSegments(tok.Pos, tok.Units)
				if err != nil {
					return nil, err
				}

				elements = append(elements, segs)

			default:
				return nil, emitError(tok.Pos, "unrecognized array token")
			}
		}

		return &ValueExpr{Kind: ValueExprArray, Elements: elements}, nil
	}

	segs, err := emitSegments(pos, v.Units)
	if err != nil {
		return nil, err
	}

	return &ValueExpr{Kind: ValueExprString, Segments: segs}, nil
}

// emitSegments flattens text units into an ordered segment list, merging
// adjacent literal contributions and dropping continuation markers.
func emitSegments(pos Position, units []*Unit) ([]*Segment, error) {
	segs := make([]*Segment, 0, len(units))

	literal := func(pos Position, text string) {
		if n := len(segs); n > 0 && segs[n-1].Kind == SegmentLiteral {
			segs[n-1].Text += text

			return
		}

		segs = append(segs, &Segment{
			Kind: SegmentLiteral,
			Pos:  pos,
			Text: text,
		})
	}

	for _, u := range units {
		switch u.Kind {
		case UnitSingleQuoted:
			literal(u.Pos, u.Text)

		case UnitUnquoted, UnitDoubleQuoted:
			for _, w := range u.Words {
				switch w.Kind {
				case WordLiteral, WordEscaped:
					literal(w.Pos, w.Text)

				case WordContinuation:
					// The joined text carries no newline.

				case WordExpansion:
					if w.Expand == nil {
						return nil, emitError(w.Pos, "expansion without reference")
					}

					segs = append(segs, &Segment{
						Kind: SegmentExpand,
						Pos:  w.Pos,
						Expand: &Expansion{
							Kind:   w.Expand.Kind,
							Name:   w.Expand.Name,
							Braced: w.Expand.Braced,
							Mod:    copyModifier(w.Expand.Mod),
						},
					})

				default:
					return nil, emitError(w.Pos, "unrecognized word")
				}
			}

		default:
			return nil, emitError(pos, "unrecognized text unit")
		}
	}

	return segs, nil
}

func copyModifier(m *Modifier) *Modifier {
	if m == nil {
		return nil
	}

	c := *m

	return &c
}
