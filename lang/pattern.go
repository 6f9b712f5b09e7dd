package lang

import (
	"github.com/bmatcuk/doublestar/v4"
)

// MatchFunc reports whether text matches a glob pattern in its entirety.
// The evaluator consults it for trim modifiers such as ${NAME#pattern};
// the matching dialect is the collaborator's concern, not this package's.
type MatchFunc func(pattern, text string) (bool, error)

// Match is the default [MatchFunc], backed by doublestar. It supports the
// usual '*', '?', '[...]', and '{a,b}' glob forms.
func Match(pattern, text string) (bool, error) {
	return doublestar.Match(pattern, text)
}
