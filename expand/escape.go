package expand

import (
	"go/ast"
	"go/token"
	"slices"
)

// EscapeKind enumerates the control-transfer statements an invocation may
// execute on the absent path.
type EscapeKind int

const (
	// EscapeReturn returns from the enclosing function with its zero
	// results. This is the default when no escape is supplied.
	EscapeReturn EscapeKind = iota

	// EscapeBreak breaks the innermost (or labeled) enclosing loop, switch,
	// or select.
	EscapeBreak

	// EscapeContinue continues the innermost (or labeled) enclosing loop.
	EscapeContinue

	// EscapeGoto jumps to a label declared in the enclosing function.
	EscapeGoto
)

// String returns a string representation of the escape kind.
func (k EscapeKind) String() string {
	switch k {
	case EscapeReturn:
		return "return"

	case EscapeBreak:
		return "break"

	case EscapeContinue:
		return "continue"

	case EscapeGoto:
		return "goto"

	default:
		return "unknown"
	}
}

// Escape is the control-transfer statement executed when the target is
// absent. The zero value is the default function return.
type Escape struct {
	Kind  EscapeKind
	Label string

	// Pos locates the escape argument when explicitly supplied.
	Pos token.Pos
}

// validate checks that the escape is legal at the invocation's lexical
// position. pos is the fallback location when the escape has none.
func (e Escape) validate(pos token.Pos, ctx *Context) *Diagnostic {
	if e.Pos.IsValid() {
		pos = e.Pos
	}

	switch e.Kind {
	case EscapeReturn:
		if ctx.Func == nil {
			return diagf(InvalidControlTransfer, pos,
				"return escape requires an enclosing function body")
		}

	case EscapeBreak:
		if e.Label == "" {
			if !ctx.InLoop && !ctx.InSwitch {
				return diagf(InvalidControlTransfer, pos,
					"break escape requires an enclosing loop, switch, or select")
			}
		} else if !slices.Contains(ctx.BreakLabels, e.Label) {
			return diagf(InvalidControlTransfer, pos,
				"label %q does not name an enclosing breakable statement", e.Label)
		}

	case EscapeContinue:
		if e.Label == "" {
			if !ctx.InLoop {
				return diagf(InvalidControlTransfer, pos,
					"continue escape requires an enclosing loop")
			}
		} else if !slices.Contains(ctx.LoopLabels, e.Label) {
			return diagf(InvalidControlTransfer, pos,
				"label %q does not name an enclosing loop", e.Label)
		}

	case EscapeGoto:
		if e.Label == "" {
			return diagf(InvalidControlTransfer, pos, "goto escape requires a label")
		}

		if !slices.Contains(ctx.GotoLabels, e.Label) {
			return diagf(InvalidControlTransfer, pos,
				"label %q is not declared in the enclosing function", e.Label)
		}

	default:
		return diagf(InvalidControlTransfer, pos,
			"unknown escape kind %d", int(e.Kind))
	}

	return nil
}

// stmt builds the escape's statement. The default return synthesizes one
// zero value per result of the enclosing function.
func (e Escape) stmt(ctx *Context) ast.Stmt {
	switch e.Kind {
	case EscapeBreak:
		return &ast.BranchStmt{Tok: token.BREAK, Label: labelIdent(e.Label)}

	case EscapeContinue:
		return &ast.BranchStmt{Tok: token.CONTINUE, Label: labelIdent(e.Label)}

	case EscapeGoto:
		return &ast.BranchStmt{Tok: token.GOTO, Label: ast.NewIdent(e.Label)}

	default:
		return &ast.ReturnStmt{Results: zeroResults(ctx.Func)}
	}
}

// labelIdent returns nil for unlabeled branch statements.
func labelIdent(label string) *ast.Ident {
	if label == "" {
		return nil
	}

	return ast.NewIdent(label)
}
