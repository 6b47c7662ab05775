package rewrite

import (
	"go/ast"
	"go/token"
	"strconv"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/guard/expand"
)

// Marker function names recognized in the marker package.
const (
	markerLet   = "Let"
	markerValue = "Value"
)

// Argument constructor names recognized in the marker package. Each is only
// meaningful as a direct argument to a marker call.
const (
	argReturn     = "Return"
	argBreak      = "Break"
	argBreakTo    = "BreakTo"
	argContinue   = "Continue"
	argContinueTo = "ContinueTo"
	argGoto       = "Goto"
	argElse       = "Else"
)

// knownNames is every exported name callers may reference in the marker
// package, used to suggest corrections for misspellings.
//
//nolint:gochecknoglobals
var knownNames = []string{
	markerLet, markerValue,
	argReturn, argBreak, argBreakTo, argContinue, argContinueTo, argGoto,
	argElse,
}

func isMarker(name string) bool {
	return name == markerLet || name == markerValue
}

func isArgCtor(name string) bool {
	switch name {
	case argReturn, argBreak, argBreakTo, argContinue, argContinueTo,
		argGoto, argElse:
		return true

	default:
		return false
	}
}

// suggest returns the known name closest to input, or "" when nothing
// resembles it.
func suggest(input string) string {
	matches := fuzzy.Find(input, knownNames)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

// arguments is the parsed tail of a marker call: everything after the
// target.
type arguments struct {
	escape   expand.Escape
	fallback *ast.BlockStmt
}

// parseArgs interprets the marker call's trailing arguments. sel reports
// whether an expression is a constructor call on the marker package,
// returning its name.
func parseArgs(
	call *ast.CallExpr,
	sel func(ast.Expr) (*ast.CallExpr, string, bool),
) (arguments, *expand.Diagnostic) {
	var (
		args      arguments
		hasEscape bool
	)

	if call.Ellipsis.IsValid() {
		return args, malformed(call.Ellipsis,
			"marker arguments cannot be spread with ...")
	}

	for _, arg := range call.Args[1:] {
		ctor, name, ok := sel(arg)
		if !ok {
			return args, malformed(arg.Pos(),
				"marker arguments must be escape or fallback constructors")
		}

		if name == argElse {
			if args.fallback != nil {
				return args, malformed(arg.Pos(),
					"marker call supplies more than one fallback")
			}

			block, diag := fallbackBlock(ctor)
			if diag != nil {
				return args, diag
			}

			args.fallback = block

			continue
		}

		if hasEscape {
			return args, malformed(arg.Pos(),
				"marker call supplies more than one escape")
		}

		escape, diag := escapeCtor(ctor, name)
		if diag != nil {
			return args, diag
		}

		args.escape = escape
		hasEscape = true
	}

	return args, nil
}

// escapeCtor translates one escape constructor call into its Escape.
func escapeCtor(call *ast.CallExpr, name string) (expand.Escape, *expand.Diagnostic) {
	escape := expand.Escape{Pos: call.Pos()}

	var labeled bool

	switch name {
	case argReturn:
		escape.Kind = expand.EscapeReturn

	case argBreak:
		escape.Kind = expand.EscapeBreak

	case argBreakTo:
		escape.Kind, labeled = expand.EscapeBreak, true

	case argContinue:
		escape.Kind = expand.EscapeContinue

	case argContinueTo:
		escape.Kind, labeled = expand.EscapeContinue, true

	case argGoto:
		escape.Kind, labeled = expand.EscapeGoto, true

	default:
		return escape, malformed(call.Pos(),
			"%s is not an escape constructor", name)
	}

	if !labeled {
		if len(call.Args) != 0 {
			return escape, malformed(call.Pos(),
				"%s takes no arguments", name)
		}

		return escape, nil
	}

	if len(call.Args) != 1 {
		return escape, malformed(call.Pos(),
			"%s requires exactly one label argument", name)
	}

	label, ok := stringLit(call.Args[0])
	if !ok {
		return escape, malformed(call.Args[0].Pos(),
			"%s label must be a string literal", name)
	}

	if label == "" {
		return escape, malformed(call.Args[0].Pos(),
			"%s label must not be empty", name)
	}

	escape.Label = label

	return escape, nil
}

// fallbackBlock extracts the block from Else(func() { ... }). The literal's
// body is spliced into the expansion, so it must be written in place.
func fallbackBlock(call *ast.CallExpr) (*ast.BlockStmt, *expand.Diagnostic) {
	if len(call.Args) != 1 {
		return nil, malformed(call.Pos(),
			"Else requires exactly one function literal argument")
	}

	lit, ok := call.Args[0].(*ast.FuncLit)
	if !ok {
		return nil, malformed(call.Args[0].Pos(),
			"Else argument must be a function literal written in place")
	}

	if lit.Type.Params != nil && len(lit.Type.Params.List) > 0 {
		return nil, malformed(lit.Pos(),
			"Else function literal must take no parameters")
	}

	if lit.Type.Results != nil && len(lit.Type.Results.List) > 0 {
		return nil, malformed(lit.Pos(),
			"Else function literal must return no values")
	}

	return lit.Body, nil
}

func stringLit(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}

	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}

	return value, true
}
