package lang

import (
	"context"
	"log/slog"
)

// Eval walks the semantic tree in source order, resolving each statement's
// value expression against the variables assigned so far, and returns the
// completed context.
//
// References to names not yet assigned resolve to an empty value; they are
// never errors. An *EvalError is reserved for structurally invalid forms
// that cannot be produced by [Emit].
func (ast *AST) Eval(ctx context.Context, opts ...Option) (*Context, error) {
	o := makeOptions(opts...)

	ev := &evaluator{
		vars:  NewContext(),
		match: o.match,
	}

	for _, st := range ast.Statements {
		value, err := ev.evalValueExpr(st.Value, st.Pos)
		if err != nil {
			return nil, err
		}

		ev.vars.Insert(st.Name, value)

		o.logger.TraceContext(ctx, "assigned variable",
			slog.String("name", st.Name),
			slog.String("kind", value.Kind().String()),
			slog.Int("length", value.Len()))
	}

	o.logger.TraceContext(ctx, "evaluation complete",
		slog.Int("statement_count", len(ast.Statements)),
		slog.Int("variable_count", ev.vars.Len()))

	return ev.vars, nil
}

// evaluator holds the state for one evaluation run.
type evaluator struct {
	vars  *Context
	match MatchFunc
}

func (ev *evaluator) evalValueExpr(expr *ValueExpr, pos Position) (Value, error) {
	if expr == nil {
		return Value{}, evalError(pos, "statement without value expression")
	}

	if expr.Kind == ValueExprArray {
		elements := make([]string, 0, len(expr.Elements))

		for _, segs := range expr.Elements {
			v, err := ev.evalSegments(segs)
			if err != nil {
				return Value{}, err
			}

			elements = append(elements, v.Array()...)
		}

		return Array(elements...), nil
	}

	return ev.evalSegments(expr.Segments)
}

// evalSegments combines segment values left to right. The first segment's
// kind fixes the kind of the whole result.
func (ev *evaluator) evalSegments(segs []*Segment) (Value, error) {
	acc := Value{}

	for i, seg := range segs {
		v, err := ev.evalSegment(seg)
		if err != nil {
			return Value{}, err
		}

		if i == 0 {
			acc = v
		} else {
			acc = acc.Concat(v)
		}
	}

	return acc, nil
}

func (ev *evaluator) evalSegment(seg *Segment) (Value, error) {
	switch seg.Kind {
	case SegmentLiteral:
		return String(seg.Text), nil

	case SegmentExpand:
		return ev.expand(seg.Expand, seg.Pos)

	default:
		return Value{}, evalError(seg.Pos, "unrecognized segment")
	}
}

// expand resolves one variable reference. An undefined name resolves to an
// empty string value, or an empty array for the [@] form.
func (ev *evaluator) expand(x *Expansion, pos Position) (Value, error) {
	if x == nil {
		return Value{}, evalError(pos, "expansion without reference")
	}

	value := ev.vars.Read(x.Name)

	switch x.Kind {
	case ExpandString:
		// As-is: the reference carries the variable's own kind.

	case ExpandArray:
		value = Array(value.Array()...)

	default:
		return Value{}, evalError(pos, "unrecognized expansion",
			slog.String("name", x.Name))
	}

	if x.Mod != nil {
		return ev.applyModifier(value, x.Mod, pos)
	}

	return value, nil
}

// applyModifier trims a matching prefix or suffix from the expanded value,
// per element for arrays, using the injected pattern matcher.
func (ev *evaluator) applyModifier(
	value Value,
	mod *Modifier,
	pos Position,
) (Value, error) {
	if value.Kind() == KindArray {
		elements := value.Array()

		for i, el := range elements {
			trimmed, err := ev.trim(el, mod, pos)
			if err != nil {
				return Value{}, err
			}

			elements[i] = trimmed
		}

		return Array(elements...), nil
	}

	trimmed, err := ev.trim(value.String(), mod, pos)
	if err != nil {
		return Value{}, err
	}

	return String(trimmed), nil
}

// trim removes the shortest or longest prefix or suffix of s matching the
// modifier's pattern. Candidate boundaries are rune boundaries; when no
// candidate matches, s is returned unchanged.
func (ev *evaluator) trim(s string, mod *Modifier, pos Position) (string, error) {
	bounds := runeBoundaries(s)

	switch mod.Kind {
	case ModTrimPrefix:
		for _, i := range bounds {
			ok, err := ev.matchAt(s[:i], mod, pos)
			if err != nil {
				return "", err
			}

			if ok {
				return s[i:], nil
			}
		}

	case ModTrimLongPrefix:
		for j := len(bounds) - 1; j >= 0; j-- {
			i := bounds[j]

			ok, err := ev.matchAt(s[:i], mod, pos)
			if err != nil {
				return "", err
			}

			if ok {
				return s[i:], nil
			}
		}

	case ModTrimSuffix:
		for j := len(bounds) - 1; j >= 0; j-- {
			i := bounds[j]

			ok, err := ev.matchAt(s[i:], mod, pos)
			if err != nil {
				return "", err
			}

			if ok {
				return s[:i], nil
			}
		}

	case ModTrimLongSuffix:
		for _, i := range bounds {
			ok, err := ev.matchAt(s[i:], mod, pos)
			if err != nil {
				return "", err
			}

			if ok {
				return s[:i], nil
			}
		}

	default:
		return "", evalError(pos, "unrecognized modifier")
	}

	return s, nil
}

func (ev *evaluator) matchAt(s string, mod *Modifier, pos Position) (bool, error) {
	ok, err := ev.match(mod.Pattern, s)
	if err != nil {
		return false, &EvalError{
			NewError("pattern match failed").
				WithPosition(pos).
				With(slog.String("pattern", mod.Pattern)).
				Wrap(err),
		}
	}

	return ok, nil
}

// runeBoundaries returns every rune boundary index of s in ascending order,
// including 0 and len(s).
func runeBoundaries(s string) []int {
	bounds := make([]int, 0, len(s)+1)

	for i := range s {
		bounds = append(bounds, i)
	}

	return append(bounds, len(s))
}
