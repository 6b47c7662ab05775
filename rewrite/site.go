package rewrite

import (
	"go/ast"
	"go/token"
	"slices"

	"github.com/ardnew/guard/expand"
)

// site is one reference to the marker package, together with the chain of
// ancestor nodes leading to it (outermost first, ending at the call).
type site struct {
	call *ast.CallExpr
	name string
	path []ast.Node
}

// depth orders sites innermost-first so nested markers expand before the
// markers that contain them.
func (s *site) depth() int { return len(s.path) }

// collect gathers every selector on the marker package under root.
// References that are not calls (the marker used as a value) surface as a
// diagnostic immediately, since no rewrite can expand them.
func collect(root ast.Node, isPkg func(*ast.Ident) bool) ([]*site, *expand.Diagnostic) {
	var (
		stack []ast.Node
		sites []*site
		diag  *expand.Diagnostic
	)

	ast.Inspect(root, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]

			return true
		}

		// Children of a node are skipped without the closing nil visit, so
		// bail before pushing.
		if diag != nil {
			return false
		}

		stack = append(stack, n)

		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		id, ok := sel.X.(*ast.Ident)
		if !ok || !isPkg(id) {
			return true
		}

		call, ok := callOf(stack, sel)
		if !ok {
			diag = malformed(sel.Pos(),
				"%s.%s is not a value; it must be called",
				id.Name, sel.Sel.Name)

			stack = stack[:len(stack)-1]

			return false
		}

		// The call is the parent of the selector: swap it in as the site
		// node so path ends at the call.
		path := slices.Clone(stack[:len(stack)-1])

		sites = append(sites, &site{
			call: call,
			name: sel.Sel.Name,
			path: path,
		})

		return true
	})

	if diag != nil {
		return nil, diag
	}

	return sites, nil
}

// callOf returns the call expression invoking sel, if the stack shows sel in
// call position.
func callOf(stack []ast.Node, sel *ast.SelectorExpr) (*ast.CallExpr, bool) {
	if len(stack) < 2 {
		return nil, false
	}

	call, ok := stack[len(stack)-2].(*ast.CallExpr)
	if !ok || call.Fun != sel {
		return nil, false
	}

	return call, true
}

// vet rejects unknown marker-package names and argument constructors that
// appear outside a marker call.
func vet(sites []*site) *expand.Diagnostic {
	for _, s := range sites {
		switch {
		case isMarker(s.name):

		case isArgCtor(s.name):
			if !argPosition(s) {
				return malformed(s.call.Pos(),
					"%s must appear as an argument to %s or %s",
					s.name, markerLet, markerValue)
			}

		default:
			diag := malformed(s.call.Pos(),
				"%s is not a marker or argument constructor", s.name)
			diag.Hint = suggest(s.name)

			return diag
		}
	}

	return nil
}

// argPosition reports whether the site's call is a direct argument of a
// marker call.
func argPosition(s *site) bool {
	if len(s.path) < 2 {
		return false
	}

	parent, ok := s.path[len(s.path)-2].(*ast.CallExpr)
	if !ok {
		return false
	}

	sel, ok := parent.Fun.(*ast.SelectorExpr)
	if !ok || !isMarker(sel.Sel.Name) {
		return false
	}

	return slices.Contains(parent.Args, ast.Expr(s.call))
}

// innermost picks the deepest marker site, or nil when none remain.
func innermost(sites []*site) *site {
	var pick *site

	for _, s := range sites {
		if !isMarker(s.name) {
			continue
		}

		if pick == nil || s.depth() > pick.depth() {
			pick = s
		}
	}

	return pick
}

// lexical builds the expansion context for a site from its ancestor path:
// the innermost enclosing function bounds the context, and only loops,
// switches, and labels between that function and the site are visible.
func lexical(s *site, names expand.NameSet) *expand.Context {
	ctx := expand.NewContext(nil, names)

	start := 0

	for i, node := range s.path {
		switch fn := node.(type) {
		case *ast.FuncDecl:
			ctx.Func = fn.Type
			start = i

		case *ast.FuncLit:
			ctx.Func = fn.Type
			start = i
		}
	}

	if ctx.Func == nil {
		return ctx
	}

	for i := start; i < len(s.path); i++ {
		label := ""
		if i > 0 {
			if labeled, ok := s.path[i-1].(*ast.LabeledStmt); ok {
				label = labeled.Label.Name
			}
		}

		switch s.path[i].(type) {
		case *ast.ForStmt, *ast.RangeStmt:
			ctx.InLoop = true

			if label != "" {
				ctx.LoopLabels = append(ctx.LoopLabels, label)
				ctx.BreakLabels = append(ctx.BreakLabels, label)
			}

		case *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt:
			ctx.InSwitch = true

			if label != "" {
				ctx.BreakLabels = append(ctx.BreakLabels, label)
			}
		}
	}

	// Any label in the function body is a goto target.
	ast.Inspect(s.path[start], func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok && n != s.path[start] {
			return false
		}

		if labeled, ok := n.(*ast.LabeledStmt); ok {
			ctx.GotoLabels = append(ctx.GotoLabels, labeled.Label.Name)
		}

		return true
	})

	return ctx
}

// anchor finds the statement enclosing the site that sits directly in a
// statement list, scanning the path innermost-out. Expansion statements
// splice into that list. Returns nil when the site is outside any statement
// list (for example a package-level initializer).
func anchor(s *site) (ast.Stmt, ast.Node) {
	for i := len(s.path) - 1; i > 0; i-- {
		stmt, ok := s.path[i].(ast.Stmt)
		if !ok {
			continue
		}

		parent := s.path[i-1]
		if slices.Contains(stmtList(parent), stmt) {
			return stmt, parent
		}
	}

	return nil, nil
}

// stmtList returns the statement list a container node owns, or nil.
func stmtList(node ast.Node) []ast.Stmt {
	switch c := node.(type) {
	case *ast.BlockStmt:
		return c.List

	case *ast.CaseClause:
		return c.Body

	case *ast.CommClause:
		return c.Body

	default:
		return nil
	}
}

// setStmtList replaces a container node's statement list.
func setStmtList(node ast.Node, list []ast.Stmt) {
	switch c := node.(type) {
	case *ast.BlockStmt:
		c.List = list

	case *ast.CaseClause:
		c.Body = list

	case *ast.CommClause:
		c.Body = list
	}
}

// hoistable rejects site positions whose enclosing syntax evaluates them
// repeatedly or conditionally: hoisting the expansion above the anchor would
// change how often, or whether, the target runs. at is the anchor statement.
func hoistable(s *site, at ast.Stmt) *expand.Diagnostic {
	from := slices.Index(s.path, ast.Node(at))

	for i := from; i < len(s.path)-1; i++ {
		child := s.path[i+1]

		switch node := s.path[i].(type) {
		case *ast.ForStmt:
			return malformed(s.call.Pos(),
				"marker cannot appear in a for statement's clauses; "+
					"move it before the loop")

		case *ast.RangeStmt:
			return malformed(s.call.Pos(),
				"marker cannot appear in a range expression; "+
					"move it before the loop")

		case *ast.IfStmt:
			// The anchor if's own condition is evaluated exactly once, but
			// an else-if deeper in the chain is evaluated conditionally.
			if i > from {
				return malformed(s.call.Pos(),
					"marker cannot appear in an else-if condition; "+
						"restructure the chain")
			}

		case *ast.CaseClause:
			return malformed(s.call.Pos(),
				"marker cannot appear in a case expression")

		case *ast.CommClause:
			return malformed(s.call.Pos(),
				"marker cannot appear in a select communication clause")

		case *ast.BinaryExpr:
			if (node.Op == token.LAND || node.Op == token.LOR) && child == node.Y {
				return malformed(s.call.Pos(),
					"marker cannot appear on the right of %s; "+
						"its evaluation is conditional", node.Op)
			}
		}
	}

	return nil
}
