package lang

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ParseString parses APML source text into a lossless tree.
//
// Parsing is all-or-nothing: on malformed syntax a *ParseError locating the
// offending byte is returned and no tree is produced. Identical source
// strings may share one immutable tree through the package cache; pass
// [WithoutCache] to force a fresh parse.
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*LST, error) {
	o := makeOptions(opts...)

	if !o.noCache {
		if lst, ok := cachedLST(source); ok {
			o.logger.TraceContext(ctx, "parse cache hit",
				slog.Int("source_bytes", len(source)))

			return lst, nil
		}
	}

	lst, err := parseLST(source)
	if err != nil {
		return nil, err
	}

	if !o.noCache {
		storeLST(source, lst)
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(source)),
		slog.Int("token_count", len(lst.Tokens)))

	return lst, nil
}

// parseLST runs the parser without consulting the cache.
func parseLST(source string) (*LST, error) {
	p := &parser{
		input: []byte(source),
		line:  1,
		col:   1,
	}

	return p.parseFile()
}

// parser holds the parser state.
type parser struct {
	input []byte
	pos   int
	line  int
	col   int
}

// parseFile parses the entire input as a sequence of top-level tokens.
func (p *parser) parseFile() (*LST, error) {
	lst := &LST{Tokens: make([]*Token, 0)}

	for !p.eof() {
		pos := p.position()

		switch ch := p.peek(); {
		case ch == '\n':
			p.advance()
			lst.Tokens = append(lst.Tokens, &Token{Kind: TokenNewline, Pos: pos})

		case isSpace(ch):
			lst.Tokens = append(lst.Tokens, &Token{
				Kind: TokenSpace,
				Pos:  pos,
				Text: p.takeSpaceRun(),
			})

		case ch == '#':
			p.advance() // '#'
			lst.Tokens = append(lst.Tokens, &Token{
				Kind: TokenComment,
				Pos:  pos,
				Text: p.takeLineRemainder(),
			})

		default:
			v, err := p.parseVariable()
			if err != nil {
				return nil, err
			}

			lst.Tokens = append(lst.Tokens, &Token{
				Kind: TokenVariable,
				Pos:  pos,
				Var:  v,
			})
		}
	}

	return lst, nil
}

// parseVariable parses: identifier '=' value.
func (p *parser) parseVariable() (*Variable, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	if !p.expect('=') {
		return nil, parseError(p.position(), "expected '=' after identifier",
			slog.String("identifier", name))
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return &Variable{Name: name, Value: value}, nil
}

// parseIdentifier parses a variable name: a letter or underscore followed
// by letters, digits, or underscores.
func (p *parser) parseIdentifier() (string, error) {
	if p.eof() || !isIdentStart(p.peek()) {
		return "", parseError(p.position(), "invalid identifier")
	}

	start := p.pos

	p.advance()

	for !p.eof() && isIdentCont(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos]), nil
}

// parseValue parses the right-hand side of an assignment.
func (p *parser) parseValue() (*VariableValue, error) {
	if p.peek() == '(' {
		return p.parseArrayValue()
	}

	return p.parseTextValue()
}

// parseTextValue parses a scalar value: text units up to the end of line.
func (p *parser) parseTextValue() (*VariableValue, error) {
	units := make([]*Unit, 0, 1)

	for !p.eof() && p.peek() != '\n' {
		u, err := p.parseUnit(func(ch byte) bool { return ch == '\n' })
		if err != nil {
			return nil, err
		}

		units = append(units, u)
	}

	return &VariableValue{Kind: VariableString, Units: units}, nil
}

// parseArrayValue parses a parenthesized array literal, preserving interior
// whitespace, newlines, and comments.
func (p *parser) parseArrayValue() (*VariableValue, error) {
	open := p.position()

	p.advance() // '('

	tokens := make([]*ArrayToken, 0)

	stop := func(ch byte) bool {
		return ch == ')' || ch == '\n' || isSpace(ch)
	}

	for {
		if p.eof() {
			return nil, parseError(open, "unterminated array")
		}

		pos := p.position()

		switch ch := p.peek(); {
		case ch == ')':
			p.advance()

			return &VariableValue{Kind: VariableArray, Array: tokens}, nil

		case ch == '\n':
			p.advance()
			tokens = append(tokens, &ArrayToken{Kind: ArrayNewline, Pos: pos})

		case isSpace(ch):
			tokens = append(tokens, &ArrayToken{
				Kind: ArraySpace,
				Pos:  pos,
				Text: p.takeSpaceRun(),
			})

		case ch == '#':
			p.advance() // '#'
			tokens = append(tokens, &ArrayToken{
				Kind: ArrayComment,
				Pos:  pos,
				Text: p.takeLineRemainder(),
			})

		default:
			units := make([]*Unit, 0, 1)

			for !p.eof() && !stop(p.peek()) {
				u, err := p.parseUnit(stop)
				if err != nil {
					return nil, err
				}

				units = append(units, u)
			}

			tokens = append(tokens, &ArrayToken{
				Kind:  ArrayElement,
				Pos:   pos,
				Units: units,
			})
		}
	}
}

// parseUnit parses one quoting context. The stop predicate bounds unquoted
// word runs; quoted regions ignore it until their closing quote.
func (p *parser) parseUnit(stop func(byte) bool) (*Unit, error) {
	switch p.peek() {
	case '\'':
		return p.parseSingleQuoted()

	case '"':
		return p.parseDoubleQuoted()

	default:
		return p.parseUnquoted(stop)
	}
}

// parseSingleQuoted parses a literal-only quoted region. No character is
// special between single quotes, not even a backslash.
func (p *parser) parseSingleQuoted() (*Unit, error) {
	open := p.position()

	p.advance() // opening quote

	start := p.pos

	for !p.eof() {
		if p.peek() == '\'' {
			text := string(p.input[start:p.pos])

			p.advance() // closing quote

			return &Unit{Kind: UnitSingleQuoted, Pos: open, Text: text}, nil
		}

		p.advance()
	}

	return nil, parseError(open, "unterminated single-quoted string")
}

// parseDoubleQuoted parses a double-quoted region, which permits escapes,
// line continuations, and expansion. Raw newlines are literal.
func (p *parser) parseDoubleQuoted() (*Unit, error) {
	open := p.position()

	p.advance() // opening quote

	words := make([]*Word, 0, 1)

	for !p.eof() {
		pos := p.position()

		switch ch := p.peek(); ch {
		case '"':
			p.advance() // closing quote

			return &Unit{Kind: UnitDoubleQuoted, Pos: open, Words: words}, nil

		case '\\':
			w, err := p.parseEscape(pos, dquoteEscapes)
			if err != nil {
				return nil, err
			}

			words = appendWord(words, w)

		case '$':
			w, err := p.parseExpansionWord(pos)
			if err != nil {
				return nil, err
			}

			words = appendWord(words, w)

		default:
			words = appendWord(words, &Word{
				Kind: WordLiteral,
				Pos:  pos,
				Text: p.takeLiteralRun(func(c byte) bool { return c == '"' }),
			})
		}
	}

	return nil, parseError(open, "unterminated double-quoted string")
}

// parseUnquoted parses a run of words outside any quotes, bounded by the
// stop predicate and by the start of a quoted region.
func (p *parser) parseUnquoted(stop func(byte) bool) (*Unit, error) {
	pos := p.position()
	words := make([]*Word, 0, 1)

	for !p.eof() {
		wordPos := p.position()

		ch := p.peek()
		if stop(ch) || ch == '\'' || ch == '"' {
			break
		}

		switch ch {
		case '\\':
			w, err := p.parseEscape(wordPos, "")
			if err != nil {
				return nil, err
			}

			words = appendWord(words, w)

		case '$':
			w, err := p.parseExpansionWord(wordPos)
			if err != nil {
				return nil, err
			}

			words = appendWord(words, w)

		default:
			words = appendWord(words, &Word{
				Kind: WordLiteral,
				Pos:  wordPos,
				Text: p.takeLiteralRun(func(c byte) bool {
					return stop(c) || c == '\'' || c == '"'
				}),
			})
		}
	}

	return &Unit{Kind: UnitUnquoted, Pos: pos, Words: words}, nil
}

// dquoteEscapes is the set of characters a backslash escapes inside double
// quotes. A backslash before any other character is two literal characters.
const dquoteEscapes = "$\"\\`"

// parseEscape parses a backslash sequence: a line continuation when
// followed by a newline, otherwise an escaped character. When escapes is
// non-empty, only its members are escapable and other sequences remain two
// literal characters.
func (p *parser) parseEscape(pos Position, escapes string) (*Word, error) {
	p.advance() // backslash

	if p.eof() {
		return nil, parseError(pos, "incomplete escape at end of input")
	}

	if p.peek() == '\n' {
		p.advance()

		return &Word{Kind: WordContinuation, Pos: pos}, nil
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])
	ch := string(p.input[p.pos : p.pos+size])

	p.advance()

	if escapes != "" && (r >= utf8.RuneSelf || !strings.ContainsRune(escapes, r)) {
		// Not an escapable character here: the backslash is literal.
		return &Word{Kind: WordLiteral, Pos: pos, Text: "\\" + ch}, nil
	}

	return &Word{Kind: WordEscaped, Pos: pos, Text: ch}, nil
}

// parseExpansionWord parses a word starting at '$'. A dollar sign that does
// not begin a valid expansion is a literal dollar sign.
func (p *parser) parseExpansionWord(pos Position) (*Word, error) {
	p.advance() // '$'

	if p.eof() {
		return &Word{Kind: WordLiteral, Pos: pos, Text: "$"}, nil
	}

	if p.peek() == '{' {
		p.advance() // '{'

		x, err := p.parseBracedExpansion(pos)
		if err != nil {
			return nil, err
		}

		return &Word{Kind: WordExpansion, Pos: pos, Expand: x}, nil
	}

	if !isIdentStart(p.peek()) {
		return &Word{Kind: WordLiteral, Pos: pos, Text: "$"}, nil
	}

	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	return &Word{
		Kind:   WordExpansion,
		Pos:    pos,
		Expand: &Expansion{Kind: ExpandString, Name: name},
	}, nil
}

// parseBracedExpansion parses the interior of ${...}, after the brace.
func (p *parser) parseBracedExpansion(pos Position) (*Expansion, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	x := &Expansion{Kind: ExpandString, Name: name, Braced: true}

	if p.hasPrefix("[@]") {
		p.advanceN(3)

		x.Kind = ExpandArray
	}

	if !p.eof() && (p.peek() == '#' || p.peek() == '%') {
		x.Mod, err = p.parseModifier(pos)
		if err != nil {
			return nil, err
		}
	}

	if !p.expect('}') {
		if p.eof() {
			return nil, parseError(pos, "unterminated expansion",
				slog.String("name", name))
		}

		return nil, parseError(p.position(), "invalid character in expansion",
			slog.String("name", name))
	}

	return x, nil
}

// parseModifier parses a trim operator and its pattern, up to but not
// including the closing brace.
func (p *parser) parseModifier(pos Position) (*Modifier, error) {
	op := p.peek()

	p.advance()

	var kind ModKind

	long := !p.eof() && p.peek() == op
	if long {
		p.advance()
	}

	switch {
	case op == '#' && long:
		kind = ModTrimLongPrefix
	case op == '#':
		kind = ModTrimPrefix
	case long:
		kind = ModTrimLongSuffix
	default:
		kind = ModTrimSuffix
	}

	start := p.pos

	for !p.eof() && p.peek() != '}' {
		p.advance()
	}

	if p.eof() {
		return nil, parseError(pos, "unterminated expansion")
	}

	return &Modifier{Kind: kind, Pattern: string(p.input[start:p.pos])}, nil
}

// appendWord appends a word, merging consecutive literals into one node.
func appendWord(words []*Word, w *Word) []*Word {
	if n := len(words); n > 0 &&
		w.Kind == WordLiteral && words[n-1].Kind == WordLiteral {
		words[n-1] = &Word{
			Kind: WordLiteral,
			Pos:  words[n-1].Pos,
			Text: words[n-1].Text + w.Text,
		}

		return words
	}

	return append(words, w)
}

// Helper methods

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}

	return p.input[p.pos]
}

func (p *parser) hasPrefix(s string) bool {
	return p.pos+len(s) <= len(p.input) &&
		string(p.input[p.pos:p.pos+len(s)]) == s
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) advanceN(n int) {
	for range n {
		p.advance()
	}
}

func (p *parser) expect(ch byte) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

// takeSpaceRun consumes a run of horizontal whitespace.
func (p *parser) takeSpaceRun() string {
	start := p.pos

	for !p.eof() && isSpace(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos])
}

// takeLineRemainder consumes everything up to, but not including, the next
// newline.
func (p *parser) takeLineRemainder() string {
	start := p.pos

	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}

	return string(p.input[start:p.pos])
}

// takeLiteralRun consumes literal characters up to the next special
// character or the stop predicate.
func (p *parser) takeLiteralRun(stop func(byte) bool) string {
	start := p.pos

	for !p.eof() {
		ch := p.peek()
		if ch == '\\' || ch == '$' || stop(ch) {
			break
		}

		p.advance()
	}

	return string(p.input[start:p.pos])
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isIdentStart(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z')
}

func isIdentCont(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
