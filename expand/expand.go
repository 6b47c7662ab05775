package expand

import (
	"go/ast"
	"go/token"
)

// getMethod is the extraction method expanded code calls on the target.
const getMethod = "Get"

// Result is the code fragment produced for one invocation.
//
// For the binding form, Stmts replaces the marker declaration. For the
// expression form, Stmts is hoisted immediately before the enclosing
// statement and Value substitutes the marker call.
type Result struct {
	Stmts []ast.Stmt
	Value *ast.Ident
}

// Expand rewrites one invocation into explicit control flow:
//
//	name, ok := target.Get()
//	if !ok {
//		{ fallback }
//		escape
//	}
//
// The target expression is spliced exactly once. Expand mutates only the
// fresh-name state of ctx; the invocation itself is read-only and carries
// no state between calls.
func Expand(inv *Invocation, ctx *Context) (*Result, *Diagnostic) {
	if d := inv.validate(ctx); d != nil {
		return nil, d
	}

	name := ""
	if inv.Form == FormBinding {
		name = inv.Name.Name
	} else {
		name = ctx.Fresh("val")
	}

	ok := ctx.Fresh("ok")

	extract := &ast.CallExpr{
		Fun: &ast.SelectorExpr{
			X:   receiver(inv.Target.Expr),
			Sel: ast.NewIdent(getMethod),
		},
	}

	declare := &ast.AssignStmt{
		Lhs: []ast.Expr{ast.NewIdent(name), ast.NewIdent(ok)},
		Tok: token.DEFINE,
		Rhs: []ast.Expr{extract},
	}

	// The fallback block keeps its own scope, and the escape is always
	// appended after it: completing the block does not suppress the escape.
	body := make([]ast.Stmt, 0, 2)
	if inv.Fallback != nil {
		retargetReturns(inv.Fallback, ctx.Func)
		body = append(body, inv.Fallback)
	}

	body = append(body, inv.Escape.stmt(ctx))

	test := &ast.IfStmt{
		Cond: &ast.UnaryExpr{Op: token.NOT, X: ast.NewIdent(ok)},
		Body: &ast.BlockStmt{List: body},
	}

	result := &Result{Stmts: []ast.Stmt{declare, test}}
	if inv.Form == FormExpression {
		result.Value = ast.NewIdent(name)
	}

	return result, nil
}

// retargetReturns rebinds bare returns in a fallback block to the function
// the block is spliced into. The block is written against a parameterless,
// resultless literal, so a bare return inside it must produce the enclosing
// function's zero results once spliced. Returns inside nested function
// literals keep their own signature and are left alone.
func retargetReturns(block *ast.BlockStmt, fn *ast.FuncType) {
	ast.Inspect(block, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.FuncLit:
			return false

		case *ast.ReturnStmt:
			if len(n.Results) == 0 {
				n.Results = zeroResults(fn)
			}
		}

		return true
	})
}

// receiver wraps the target in parentheses when selecting a method on it
// would otherwise bind incorrectly (unary and binary expressions).
func receiver(x ast.Expr) ast.Expr {
	switch x.(type) {
	case *ast.Ident, *ast.SelectorExpr, *ast.CallExpr, *ast.IndexExpr,
		*ast.IndexListExpr, *ast.SliceExpr, *ast.TypeAssertExpr,
		*ast.ParenExpr, *ast.CompositeLit, *ast.BasicLit:
		return x

	default:
		return &ast.ParenExpr{X: x}
	}
}
