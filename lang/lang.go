package lang

import (
	"context"
	"io"

	"github.com/ardnew/apml/log"
)

// options holds configuration shared by the pipeline stages.
type options struct {
	logger  log.Logger
	match   MatchFunc
	noCache bool
}

func makeOptions(opts ...Option) options {
	o := options{
		match: Match,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithLogger sets the structured logger used for trace events.
// The default logger discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMatcher sets the pattern matcher consulted by trim modifiers such as
// ${NAME#pattern}. The default is [Match].
func WithMatcher(match MatchFunc) Option {
	return func(o *options) {
		o.match = match
	}
}

// WithoutCache disables the shared lossless-tree cache for this call.
func WithoutCache() Option {
	return func(o *options) {
		o.noCache = true
	}
}

// EvalSource parses, emits, and evaluates APML source text.
//
// The first failing stage's error is returned unmodified; no context is
// returned on failure.
func EvalSource(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Context, error) {
	lst, err := ParseString(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	return EvalLST(ctx, lst, opts...)
}

// EvalReader parses, emits, and evaluates APML source from a reader.
func EvalReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Context, error) {
	lst, err := ParseReader(ctx, r, opts...)
	if err != nil {
		return nil, err
	}

	return EvalLST(ctx, lst, opts...)
}

// EvalLST emits and evaluates a lossless tree.
func EvalLST(
	ctx context.Context,
	lst *LST,
	opts ...Option,
) (*Context, error) {
	ast, err := Emit(lst)
	if err != nil {
		return nil, err
	}

	return ast.Eval(ctx, opts...)
}
