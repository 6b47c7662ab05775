// Package guard declares the marker functions the guard tool recognizes and
// expands into explicit control flow. The markers exist so that source files
// using them type-check before expansion; they are never meant to execute.
// Running an unexpanded marker panics.
//
// # Binding form
//
// Let declares a new variable holding the unwrapped value, escaping the
// enclosing function when the target is absent:
//
//	res := guard.Let(sut)
//
// An optional fallback block runs before the escape, and an alternative
// escape replaces the default function return:
//
//	res := guard.Let(sut, guard.Else(func() { fmt.Println("absent") }))
//	res := guard.Let(sut, guard.Break())
//
// # Expression form
//
// Value yields the unwrapped value in place, usable as a sub-expression.
// It accepts an alternative escape but no fallback block:
//
//	print(guard.Value(sut))
//	res := total + guard.Value(sut, guard.Continue())
//
// The escape always fires after a fallback block completes; a fallback that
// wants a different exit must transfer control itself. A bare return inside
// the block returns from the enclosing function with its zero results after
// expansion.
package guard

import "github.com/ardnew/guard/option"

// Arg is an argument accepted by Let after the target: an escape statement
// or a fallback block.
type Arg interface {
	guardArg()
}

// Escape selects the control-transfer statement executed on the absent path.
// The zero value (and an omitted escape) means a function return producing
// the enclosing function's zero results.
type Escape struct {
	kind  int
	label string
}

func (Escape) guardArg() {}

// Return selects the default escape explicitly: return from the enclosing
// function with its zero results.
func Return() Escape { return Escape{} }

// Break escapes the innermost enclosing loop, switch, or select.
func Break() Escape { return Escape{kind: 1} }

// BreakTo escapes the enclosing statement labeled label.
func BreakTo(label string) Escape { return Escape{kind: 1, label: label} }

// Continue advances the innermost enclosing loop.
func Continue() Escape { return Escape{kind: 2} }

// ContinueTo advances the enclosing loop labeled label.
func ContinueTo(label string) Escape { return Escape{kind: 2, label: label} }

// Goto jumps to the label declared in the enclosing function.
func Goto(label string) Escape { return Escape{kind: 3, label: label} }

// Fallback wraps a block of statements run on the absent path before the
// escape statement fires.
type Fallback struct {
	fn func()
}

func (Fallback) guardArg() {}

// Else supplies the fallback block for the binding form. The function
// literal's body is spliced into the absent branch in its own nested scope;
// a bare return written in the body becomes a return of the enclosing
// function's zero results.
func Else(fn func()) Fallback { return Fallback{fn: fn} }

// Let is the binding-form marker. It must be used as the sole right-hand
// side of a short variable declaration:
//
//	name := guard.Let(target)
//
// The guard tool replaces the declaration with a test of target, binding
// name on the present path and escaping on the absent path.
func Let[T any](o option.Option[T], args ...Arg) T {
	panic("guard: unexpanded marker; run the guard tool over this package")
}

// Value is the expression-form marker. The guard tool hoists the test of
// target before the enclosing statement and substitutes the unwrapped value
// at the call site.
//
// Hoisting means target is evaluated, and the escape may fire, before any
// other operand of the enclosing statement:
//
//	use(g(), guard.Value(sut))
//
// expands so that sut is tested before g() is called. Positions where this
// would change how often target evaluates (for-loop conditions, range
// expressions, short-circuit operands) are rejected at expansion time.
func Value[T any](o option.Option[T], escape ...Escape) T {
	panic("guard: unexpanded marker; run the guard tool over this package")
}
