// Package lang implements the ACBS Package Metadata Language (APML): a
// restricted shell variable-assignment dialect used by package build
// metadata files. It parses source text into a lossless syntax tree, emits
// a compact semantic tree of assignment statements, and evaluates that tree
// into a context mapping variable names to resolved values.
//
// # Pipeline
//
// The three stages are exposed individually and as compositions:
//
//	lst, err := lang.ParseString(ctx, source) // lossless tree
//	ast, err := lang.Emit(lst)                // semantic tree
//	vars, err := ast.Eval(ctx)                // evaluated context
//
//	vars, err := lang.EvalSource(ctx, source) // all of the above
//
// Each stage is all-or-nothing: a failure at any stage aborts the run and
// no partial result is returned. A run is a pure function of its input,
// owns all of its intermediate state, and may execute concurrently with
// other runs without coordination.
//
// # Grammar
//
// Informal EBNF:
//
//	File       → (Comment | Assignment | Space | Newline)*
//	Comment    → '#' <any except newline>*
//	Assignment → Identifier '=' Value
//	Identifier → (letter | '_') (letter | digit | '_')*
//	Value      → Array | Text
//	Array      → '(' (Space | Newline | Comment | Element)* ')'
//	Text       → Unit*                  ; stops at newline
//	Unit       → Unquoted | DoubleQuoted | SingleQuoted
//	Word       → Literal | Escape | Continuation | Expansion
//	Expansion  → '$' Identifier
//	           | '${' Identifier ['[@]'] [Modifier] '}'
//	Modifier   → ('#'|'##'|'%'|'%%') Pattern
//
// A backslash immediately followed by a newline is a line continuation: it
// joins the current and next physical lines without inserting a newline,
// and every following character (leading whitespace included) is kept
// verbatim.
//
// # Losslessness
//
// The lossless tree retains every byte of input, comments and whitespace
// included, so [LST.String] reproduces the original source exactly. The
// semantic tree discards formatting and keeps only statement structure.
//
// # Values
//
// A [Value] is either a string or an array of strings. Concatenation is
// asymmetric: the left operand's kind fixes the result's kind. Expanding an
// undefined variable yields an empty value, never an error.
package lang
