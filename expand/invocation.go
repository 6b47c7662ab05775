package expand

import (
	"go/ast"
	"go/token"
)

// Form indicates which construct surface an invocation uses.
type Form int

const (
	// FormBinding declares a new named variable holding the unwrapped value.
	FormBinding Form = iota

	// FormExpression yields the unwrapped value in place, usable as a
	// sub-expression.
	FormExpression
)

// String returns a string representation of the form.
func (f Form) String() string {
	switch f {
	case FormBinding:
		return "Binding"

	case FormExpression:
		return "Expression"

	default:
		return "Unknown"
	}
}

// Target is the expression an invocation tests and extracts from, together
// with the front end's verdict on its static type.
type Target struct {
	// Expr is the target expression. It is spliced into the expansion
	// verbatim, exactly once.
	Expr ast.Expr

	// Optional reports whether the resolver proved the static type to be an
	// optional value. False produces a TypeMismatch diagnostic.
	Optional bool

	// Type is the rendered static type for diagnostics. May be empty.
	Type string
}

// Invocation is one marker use site, lifted out of the syntax tree.
// It is consumed once by [Expand] and shares no state with other
// invocations.
type Invocation struct {
	Form   Form
	Target Target

	// Name is the identifier declared by the binding form. Nil for the
	// expression form.
	Name *ast.Ident

	// Escape is the control transfer executed on the absent path. The zero
	// value is the default function return.
	Escape Escape

	// Fallback is the block spliced before the escape on the absent path.
	// Binding form only.
	Fallback *ast.BlockStmt

	// Pos locates the marker call for diagnostics.
	Pos token.Pos
}

// validate checks the invocation's own shape before expansion.
func (inv *Invocation) validate(ctx *Context) *Diagnostic {
	switch inv.Form {
	case FormBinding:
		if inv.Name == nil {
			return diagf(MalformedInvocation, inv.Pos,
				"binding form must declare a new variable: name := guard.Let(target)")
		}

	case FormExpression:
		if inv.Fallback != nil {
			return diagf(MalformedInvocation, inv.Pos,
				"fallback block is not supported in expression form")
		}

	default:
		return diagf(MalformedInvocation, inv.Pos, "unknown invocation form")
	}

	if !inv.Target.Optional {
		if inv.Target.Type != "" {
			return diagf(TypeMismatch, inv.Pos,
				"target must be an option.Option value, not %s", inv.Target.Type)
		}

		return diagf(TypeMismatch, inv.Pos,
			"target must be an option.Option value")
	}

	return inv.Escape.validate(inv.Pos, ctx)
}
