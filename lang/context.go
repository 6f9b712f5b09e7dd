package lang

import (
	"iter"
	"maps"
	"slices"
)

// Context is the result of one evaluation run: a mapping from variable name
// to resolved [Value]. It is created empty by the evaluator, written one
// assignment at a time in source order, and handed to the caller complete.
// Reassigning a name overwrites its value; no history is kept.
type Context struct {
	vars map[string]Value
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{vars: make(map[string]Value)}
}

// Get returns the value of a variable, reporting whether it is defined.
func (c *Context) Get(name string) (Value, bool) {
	v, ok := c.vars[name]

	return v, ok
}

// Read returns the value of a variable, or an empty string value if the
// name is undefined.
func (c *Context) Read(name string) Value {
	return c.vars[name]
}

// Insert sets the value of a variable, overwriting any previous value.
func (c *Context) Insert(name string, value Value) {
	c.vars[name] = value
}

// Remove deletes a variable, returning its value and whether it was
// defined.
func (c *Context) Remove(name string) (Value, bool) {
	v, ok := c.vars[name]
	if ok {
		delete(c.vars, name)
	}

	return v, ok
}

// Len returns the number of defined variables.
func (c *Context) Len() int {
	return len(c.vars)
}

// Names returns an iterator over all defined variable names. The sequence
// is a snapshot of the keys at call time, in unspecified order.
func (c *Context) Names() iter.Seq[string] {
	names := slices.Collect(maps.Keys(c.vars))

	return func(yield func(string) bool) {
		for _, name := range names {
			if !yield(name) {
				return
			}
		}
	}
}

// Equal reports whether two contexts define the same names with
// structurally equal values.
func (c *Context) Equal(rhs *Context) bool {
	if len(c.vars) != len(rhs.vars) {
		return false
	}

	for name, v := range c.vars {
		r, ok := rhs.vars[name]
		if !ok || !v.Equal(r) {
			return false
		}
	}

	return true
}

// ToMap converts the context to a native Go map: string values map to
// string, array values to []string.
func (c *Context) ToMap() map[string]any {
	result := make(map[string]any, len(c.vars))

	for name, v := range c.vars {
		if v.Kind() == KindArray {
			result[name] = v.Array()
		} else {
			result[name] = v.String()
		}
	}

	return result
}
