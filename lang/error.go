package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Position locates a byte in the source text.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number, starting at 1
}

// String returns the position in "line:column" form.
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Error represents an error with an optional source position and structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error       // wrapped error (for errors.Unwrap)
	pos   *Position   // source position, if known
	attrs []slog.Attr // attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.pos != nil {
		part = append(part, e.pos.String())
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches any *Error carrying the same message, so errors.Is works
// against sentinel values after Wrap, With, or WithPosition.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// Position returns the source position, or a zero Position if unknown.
func (e *Error) Position() Position {
	if e.pos == nil {
		return Position{}
	}

	return *e.pos
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.String("position", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		pos:   e.pos,
		attrs: e.attrs, // share attrs
	}
}

// WithPosition creates a new Error annotated with a source position.
func (e *Error) WithPosition(pos Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   &pos,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: newAttrs,
	}
}

// The pipeline reports exactly three disjoint error kinds, one per stage.
// The error interface is the transparent wrapper between stages: whichever
// stage fails, its error reaches the caller unmodified, and the kind is
// recovered with errors.As.
//
//	var perr *lang.ParseError
//	if errors.As(err, &perr) { ... }

// wrapped aliases Error so the stage error kinds can embed it without the
// field name shadowing the promoted Error method.
type wrapped = Error

// ParseError reports a lexical or syntactic failure in raw source text.
type ParseError struct{ *wrapped }

// EmitError reports a lossless-tree shape with no semantic counterpart.
type EmitError struct{ *wrapped }

// EvalError reports a structurally invalid form surviving to evaluation.
type EvalError struct{ *wrapped }

func parseError(pos Position, msg string, attrs ...slog.Attr) *ParseError {
	return &ParseError{NewError(msg).WithPosition(pos).With(attrs...)}
}

func emitError(pos Position, msg string, attrs ...slog.Attr) *EmitError {
	return &EmitError{NewError(msg).WithPosition(pos).With(attrs...)}
}

func evalError(pos Position, msg string, attrs ...slog.Attr) *EvalError {
	return &EvalError{NewError(msg).WithPosition(pos).With(attrs...)}
}

// IsParseError reports whether any error in err's chain is a ParseError.
func IsParseError(err error) bool {
	var target *ParseError

	return errors.As(err, &target)
}

// IsEmitError reports whether any error in err's chain is an EmitError.
func IsEmitError(err error) bool {
	var target *EmitError

	return errors.As(err, &target)
}

// IsEvalError reports whether any error in err's chain is an EvalError.
func IsEvalError(err error) bool {
	var target *EvalError

	return errors.As(err, &target)
}
