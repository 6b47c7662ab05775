package rewrite

import (
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/ardnew/guard/expand"
)

// optionType is the name of the optional-value type in the option package.
const optionType = "Option"

// File expands every marker call in file, mutating its syntax tree in
// place, and reports whether anything changed. The marker package must be
// imported under its own name or an alias; its import is removed when the
// last marker is expanded.
//
// On error the returned *Error locates the first diagnostic; the tree may
// hold a partial rewrite and must not be written out.
func File(fset *token.FileSet, file *ast.File, opts ...Option) (bool, error) {
	cfg := apply(defaults(), opts...)

	local, aliased, ok := importName(file, cfg.markerPath)
	if !ok {
		return false, nil
	}

	isPkg := cfg.packageMatcher(local)
	names := identifiers(file)

	changed := false

	for {
		sites, diag := collect(file, isPkg)
		if diag != nil {
			return changed, position(fset, diag)
		}

		if diag := vet(sites); diag != nil {
			return changed, position(fset, diag)
		}

		s := innermost(sites)
		if s == nil {
			break
		}

		if diag := cfg.rewrite(s, names, isPkg); diag != nil {
			return changed, position(fset, diag)
		}

		changed = true
	}

	if changed && !references(file, local) {
		if aliased {
			astutil.DeleteNamedImport(fset, file, local, cfg.markerPath)
		} else {
			astutil.DeleteImport(fset, file, cfg.markerPath)
		}
	}

	return changed, nil
}

// rewrite expands one site and splices the result into its statement list.
func (cfg config) rewrite(
	s *site,
	names expand.NameSet,
	isPkg func(*ast.Ident) bool,
) *expand.Diagnostic {
	at, container := anchor(s)
	if at == nil {
		return malformed(s.call.Pos(),
			"marker must appear inside a function body")
	}

	if diag := hoistable(s, at); diag != nil {
		return diag
	}

	if len(s.call.Args) == 0 {
		return malformed(s.call.Pos(), "%s requires a target argument", s.name)
	}

	args, diag := parseArgs(s.call, ctorMatcher(isPkg))
	if diag != nil {
		return diag
	}

	optional, typeName := cfg.optionalTarget(s.call.Args[0])

	inv := &expand.Invocation{
		Target: expand.Target{
			Expr:     s.call.Args[0],
			Optional: optional,
			Type:     typeName,
		},
		Escape:   args.escape,
		Fallback: args.fallback,
		Pos:      s.call.Pos(),
	}

	if s.name == markerLet {
		assign, ok := bindingShape(s, at)
		if !ok {
			return malformed(s.call.Pos(),
				"%s must be the sole initializer of a new variable: "+
					"name := %s(target)", markerLet, markerLet)
		}

		inv.Form = expand.FormBinding
		inv.Name, _ = assign.Lhs[0].(*ast.Ident)
	} else {
		inv.Form = expand.FormExpression
	}

	result, diag := expand.Expand(inv, lexical(s, names))
	if diag != nil {
		return diag
	}

	list := stmtList(container)

	i := slices.Index(list, at)
	if i < 0 {
		return malformed(s.call.Pos(), "marker site lost its anchor statement")
	}

	if inv.Form == expand.FormBinding {
		setStmtList(container, slices.Replace(list, i, i+1, result.Stmts...))

		return nil
	}

	// A bare marker statement has no use for the unwrapped value; the
	// expansion replaces it outright, discarding the binding so the
	// generated declaration does not trip the unused-variable check.
	if expr, ok := at.(*ast.ExprStmt); ok && expr.X == ast.Expr(s.call) {
		if assign, ok := result.Stmts[0].(*ast.AssignStmt); ok {
			assign.Lhs[0] = ast.NewIdent("_")
		}

		setStmtList(container, slices.Replace(list, i, i+1, result.Stmts...))

		return nil
	}

	setStmtList(container, slices.Insert(list, i, result.Stmts...))
	substitute(at, s.call, result.Value)

	return nil
}

// bindingShape requires the Let call to be the sole initializer of a
// single-variable short declaration that is itself the anchor statement.
func bindingShape(s *site, at ast.Stmt) (*ast.AssignStmt, bool) {
	if len(s.path) < 2 {
		return nil, false
	}

	assign, ok := s.path[len(s.path)-2].(*ast.AssignStmt)
	if !ok || ast.Stmt(assign) != at {
		return nil, false
	}

	if assign.Tok != token.DEFINE ||
		len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
		return nil, false
	}

	if assign.Rhs[0] != ast.Expr(s.call) {
		return nil, false
	}

	if _, ok := assign.Lhs[0].(*ast.Ident); !ok {
		return nil, false
	}

	return assign, true
}

// substitute replaces the marker call under root with the fresh identifier.
func substitute(root ast.Node, call *ast.CallExpr, value *ast.Ident) {
	astutil.Apply(root, func(c *astutil.Cursor) bool {
		if c.Node() == ast.Node(call) {
			c.Replace(value)

			return false
		}

		return true
	}, nil)
}

// ctorMatcher recognizes argument constructor calls on the marker package.
func ctorMatcher(
	isPkg func(*ast.Ident) bool,
) func(ast.Expr) (*ast.CallExpr, string, bool) {
	return func(expr ast.Expr) (*ast.CallExpr, string, bool) {
		call, ok := expr.(*ast.CallExpr)
		if !ok {
			return nil, "", false
		}

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return nil, "", false
		}

		id, ok := sel.X.(*ast.Ident)
		if !ok || !isPkg(id) {
			return nil, "", false
		}

		return call, sel.Sel.Name, true
	}
}

// packageMatcher decides whether an identifier denotes the marker package.
// Type information resolves shadowing exactly; without it the local import
// name is matched syntactically.
func (cfg config) packageMatcher(local string) func(*ast.Ident) bool {
	return func(id *ast.Ident) bool {
		if cfg.info != nil {
			pkg, ok := cfg.info.Uses[id].(*types.PkgName)

			return ok && pkg.Imported().Path() == cfg.markerPath
		}

		return id.Name == local
	}
}

// optionalTarget reports whether the target expression's static type is the
// optional-value type, and renders the type for diagnostics when it is not.
// Without type information every target is assumed optional; the compiler
// catches mismatches in the generated code instead.
func (cfg config) optionalTarget(expr ast.Expr) (bool, string) {
	if cfg.info == nil {
		return true, ""
	}

	tv, ok := cfg.info.Types[expr]
	if !ok || tv.Type == nil {
		return false, ""
	}

	if named, ok := types.Unalias(tv.Type).(*types.Named); ok {
		obj := named.Obj()
		if obj.Name() == optionType &&
			obj.Pkg() != nil && obj.Pkg().Path() == cfg.optionPath {
			return true, ""
		}
	}

	return false, types.TypeString(tv.Type, func(p *types.Package) string {
		return p.Name()
	})
}

// importName resolves the local name the file imports the marker package
// under. Dot and blank imports cannot host marker calls and are skipped.
func importName(file *ast.File, path string) (local string, aliased, ok bool) {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || p != path {
			continue
		}

		if spec.Name == nil {
			return path[strings.LastIndexByte(path, '/')+1:], false, true
		}

		if spec.Name.Name == "." || spec.Name.Name == "_" {
			return "", false, false
		}

		return spec.Name.Name, true, true
	}

	return "", false, false
}

// identifiers seeds the hygiene set with every name the file mentions.
func identifiers(file *ast.File) expand.NameSet {
	names := make(expand.NameSet)

	ast.Inspect(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			names[id.Name] = true
		}

		return true
	})

	return names
}

// references reports whether any identifier outside the import declaration
// still names the marker package.
func references(file *ast.File, local string) bool {
	found := false

	ast.Inspect(file, func(n ast.Node) bool {
		if _, ok := n.(*ast.ImportSpec); ok {
			return false
		}

		if id, ok := n.(*ast.Ident); ok && id.Name == local {
			found = true
		}

		return !found
	})

	return found
}

func position(fset *token.FileSet, diag *expand.Diagnostic) *Error {
	return &Error{Diagnostic: diag, Position: fset.Position(diag.Pos)}
}
