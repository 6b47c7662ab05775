package expand

import (
	"go/ast"
	"strconv"
)

// NameSet tracks identifiers in use so generated names stay hygienic.
// The front end builds one set per file, seeded with every identifier the
// file mentions, and shares it across all invocations so fresh names never
// collide with user code or with each other.
type NameSet map[string]bool

// Reserve marks identifiers as taken so Fresh never returns them.
func (s NameSet) Reserve(names ...string) {
	for _, name := range names {
		s[name] = true
	}
}

// Fresh returns base if unused, otherwise base with the smallest numeric
// suffix that is unused. The returned name is reserved.
func (s NameSet) Fresh(base string) string {
	name := base
	for i := 1; s[name]; i++ {
		name = base + strconv.Itoa(i)
	}

	s[name] = true

	return name
}

// Context describes the lexical position of one invocation. The front end
// builds it from the syntax enclosing the marker call; the engine consults
// it to validate escapes and to choose hygienic fresh identifiers.
//
// A function literal bounds the context: markers inside a literal see the
// literal's signature and labels, never the outer function's.
type Context struct {
	// Func is the signature of the innermost enclosing function declaration
	// or literal. Nil when the invocation is outside any function body.
	Func *ast.FuncType

	// InLoop reports whether a for or range statement encloses the
	// invocation within Func.
	InLoop bool

	// InSwitch reports whether a switch or select statement encloses the
	// invocation within Func (a plain break target).
	InSwitch bool

	// LoopLabels are the labels of enclosing for and range statements.
	LoopLabels []string

	// BreakLabels are the labels of enclosing breakable statements
	// (loops, switches, selects).
	BreakLabels []string

	// GotoLabels are all labels declared in the enclosing function body.
	GotoLabels []string

	// Names is the file-wide identifier reservation shared across
	// invocations.
	Names NameSet
}

// NewContext returns a Context for the enclosing function signature fn,
// drawing fresh names from names. A nil names starts an empty set.
func NewContext(fn *ast.FuncType, names NameSet) *Context {
	if names == nil {
		names = make(NameSet)
	}

	return &Context{
		Func:  fn,
		Names: names,
	}
}

// Fresh returns an unused identifier derived from base and reserves it.
func (c *Context) Fresh(base string) string {
	if c.Names == nil {
		c.Names = make(NameSet)
	}

	return c.Names.Fresh(base)
}
