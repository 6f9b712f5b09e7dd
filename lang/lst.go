package lang

import (
	"strings"
)

// LST is the lossless syntax tree for one source text. Every byte of the
// input appears in exactly one node, so [LST.String] reproduces the source
// verbatim. Nodes are immutable after parsing and owned by the tree.
type LST struct {
	Tokens []*Token
}

// String reconstructs the original source text byte-for-byte.
func (t *LST) String() string {
	var sb strings.Builder

	for _, tok := range t.Tokens {
		sb.WriteString(tok.String())
	}

	return sb.String()
}

// TokenKind discriminates top-level lexical units.
type TokenKind int

const (
	// TokenSpace is a run of horizontal whitespace.
	TokenSpace TokenKind = iota

	// TokenNewline is a single newline character.
	TokenNewline

	// TokenComment is a line comment, '#' through end of line.
	TokenComment

	// TokenVariable is a variable assignment.
	TokenVariable
)

// Token is one top-level lexical unit of the source.
type Token struct {
	Kind TokenKind
	Pos  Position

	// Text holds the raw bytes for TokenSpace (the whitespace run) and
	// TokenComment (everything after '#', excluding the newline).
	Text string

	// Var is set for TokenVariable.
	Var *Variable
}

// String returns the exact source bytes of the token.
func (t *Token) String() string {
	switch t.Kind {
	case TokenSpace:
		return t.Text

	case TokenNewline:
		return "\n"

	case TokenComment:
		return "#" + t.Text

	case TokenVariable:
		return t.Var.String()

	default:
		return ""
	}
}

// Variable is an assignment: identifier '=' value.
type Variable struct {
	Name  string
	Value *VariableValue
}

// String returns the exact source bytes of the assignment.
func (v *Variable) String() string {
	return v.Name + "=" + v.Value.String()
}

// VariableKind discriminates the two assignment value shapes.
type VariableKind int

const (
	// VariableString is a scalar text value.
	VariableString VariableKind = iota

	// VariableArray is a parenthesized array literal.
	VariableArray
)

// VariableValue is the right-hand side of an assignment: either a run of
// text units up to the end of line, or an array literal.
type VariableValue struct {
	Kind  VariableKind
	Units []*Unit       // VariableString
	Array []*ArrayToken // VariableArray
}

// String returns the exact source bytes of the value.
func (v *VariableValue) String() string {
	var sb strings.Builder

	if v.Kind == VariableArray {
		sb.WriteByte('(')

		for _, tok := range v.Array {
			sb.WriteString(tok.String())
		}

		sb.WriteByte(')')

		return sb.String()
	}

	for _, u := range v.Units {
		sb.WriteString(u.String())
	}

	return sb.String()
}

// ArrayTokenKind discriminates lexical units inside an array literal.
type ArrayTokenKind int

const (
	// ArraySpace is a run of horizontal whitespace between elements.
	ArraySpace ArrayTokenKind = iota

	// ArrayNewline is a single newline character.
	ArrayNewline

	// ArrayComment is a line comment inside the array literal.
	ArrayComment

	// ArrayElement is one array element.
	ArrayElement
)

// ArrayToken is one lexical unit inside an array literal.
type ArrayToken struct {
	Kind  ArrayTokenKind
	Pos   Position
	Text  string  // ArraySpace, ArrayComment (after '#', excluding newline)
	Units []*Unit // ArrayElement
}

// String returns the exact source bytes of the array token.
func (t *ArrayToken) String() string {
	switch t.Kind {
	case ArraySpace:
		return t.Text

	case ArrayNewline:
		return "\n"

	case ArrayComment:
		return "#" + t.Text

	case ArrayElement:
		var sb strings.Builder

		for _, u := range t.Units {
			sb.WriteString(u.String())
		}

		return sb.String()

	default:
		return ""
	}
}

// UnitKind discriminates quoting contexts within a value.
type UnitKind int

const (
	// UnitUnquoted is a run of words outside any quotes.
	UnitUnquoted UnitKind = iota

	// UnitDoubleQuoted is a double-quoted region, which permits escapes,
	// line continuations, and expansion.
	UnitDoubleQuoted

	// UnitSingleQuoted is a single-quoted literal-only region.
	UnitSingleQuoted
)

// Unit is one quoting context within a value: an unquoted word run, a
// double-quoted region, or a single-quoted region.
type Unit struct {
	Kind  UnitKind
	Pos   Position
	Words []*Word // UnitUnquoted, UnitDoubleQuoted
	Text  string  // UnitSingleQuoted, raw content between the quotes
}

// String returns the exact source bytes of the unit.
func (u *Unit) String() string {
	if u.Kind == UnitSingleQuoted {
		return "'" + u.Text + "'"
	}

	var sb strings.Builder

	if u.Kind == UnitDoubleQuoted {
		sb.WriteByte('"')
	}

	for _, w := range u.Words {
		sb.WriteString(w.String())
	}

	if u.Kind == UnitDoubleQuoted {
		sb.WriteByte('"')
	}

	return sb.String()
}

// WordKind discriminates the atoms within a unit.
type WordKind int

const (
	// WordLiteral is a run of literal characters.
	WordLiteral WordKind = iota

	// WordEscaped is a backslash-escaped character.
	WordEscaped

	// WordContinuation is a backslash immediately followed by a newline,
	// joining two physical lines with no newline in the logical value.
	WordContinuation

	// WordExpansion is a variable expansion.
	WordExpansion
)

// Word is one atom within a unit.
type Word struct {
	Kind   WordKind
	Pos    Position
	Text   string     // WordLiteral (verbatim), WordEscaped (char, sans backslash)
	Expand *Expansion // WordExpansion
}

// String returns the exact source bytes of the word.
func (w *Word) String() string {
	switch w.Kind {
	case WordLiteral:
		return w.Text

	case WordEscaped:
		return "\\" + w.Text

	case WordContinuation:
		return "\\\n"

	case WordExpansion:
		return w.Expand.String()

	default:
		return ""
	}
}

// ExpandKind discriminates expansion forms.
type ExpandKind int

const (
	// ExpandString is $NAME or ${NAME}: the variable's current value.
	ExpandString ExpandKind = iota

	// ExpandArray is ${NAME[@]}: the variable's value as an array.
	ExpandArray
)

// ModKind discriminates pattern-trimming expansion modifiers.
type ModKind int

const (
	// ModTrimPrefix is ${NAME#pattern}: remove the shortest matching prefix.
	ModTrimPrefix ModKind = iota

	// ModTrimLongPrefix is ${NAME##pattern}: remove the longest matching
	// prefix.
	ModTrimLongPrefix

	// ModTrimSuffix is ${NAME%pattern}: remove the shortest matching suffix.
	ModTrimSuffix

	// ModTrimLongSuffix is ${NAME%%pattern}: remove the longest matching
	// suffix.
	ModTrimLongSuffix
)

func (k ModKind) operator() string {
	switch k {
	case ModTrimPrefix:
		return "#"

	case ModTrimLongPrefix:
		return "##"

	case ModTrimSuffix:
		return "%"

	case ModTrimLongSuffix:
		return "%%"

	default:
		return ""
	}
}

// Modifier is a pattern-trimming operation attached to a braced expansion.
type Modifier struct {
	Kind    ModKind
	Pattern string // glob pattern, raw source bytes
}

// Expansion is a variable reference within a value.
type Expansion struct {
	Kind   ExpandKind
	Name   string
	Braced bool      // ${NAME} rather than $NAME
	Mod    *Modifier // optional, braced expansions only
}

// String returns the exact source bytes of the expansion.
func (x *Expansion) String() string {
	if !x.Braced {
		return "$" + x.Name
	}

	var sb strings.Builder

	sb.WriteString("${")
	sb.WriteString(x.Name)

	if x.Kind == ExpandArray {
		sb.WriteString("[@]")
	}

	if x.Mod != nil {
		sb.WriteString(x.Mod.Kind.operator())
		sb.WriteString(x.Mod.Pattern)
	}

	sb.WriteByte('}')

	return sb.String()
}
