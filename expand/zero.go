package expand

import (
	"go/ast"
	"go/token"
)

// zeroResults returns one zero-value expression per result of fn, or nil
// when a bare return suffices (no results, or named results).
func zeroResults(fn *ast.FuncType) []ast.Expr {
	if fn == nil || fn.Results == nil || len(fn.Results.List) == 0 {
		return nil
	}

	// Named results zero themselves; a bare return is both shorter and
	// preserves any values assigned before the escape.
	if len(fn.Results.List[0].Names) > 0 {
		return nil
	}

	zeros := make([]ast.Expr, 0, len(fn.Results.List))
	for _, field := range fn.Results.List {
		zeros = append(zeros, zeroExpr(field.Type))
	}

	return zeros
}

// zeroExpr synthesizes a zero-value expression for the type denoted by typ.
// Predeclared types get their literal zeros; everything else falls back to
// *new(T), which is a valid zero for any type.
func zeroExpr(typ ast.Expr) ast.Expr {
	switch t := typ.(type) {
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType,
		*ast.InterfaceType:
		return ast.NewIdent("nil")

	case *ast.ArrayType:
		if t.Len == nil { // slice
			return ast.NewIdent("nil")
		}

	case *ast.ParenExpr:
		return zeroExpr(t.X)

	case *ast.Ident:
		switch t.Name {
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"byte", "rune":
			return &ast.BasicLit{Kind: token.INT, Value: "0"}

		case "float32", "float64":
			return &ast.BasicLit{Kind: token.INT, Value: "0"}

		case "complex64", "complex128":
			return &ast.BasicLit{Kind: token.INT, Value: "0"}

		case "string":
			return &ast.BasicLit{Kind: token.STRING, Value: `""`}

		case "bool":
			return ast.NewIdent("false")

		case "error", "any":
			return ast.NewIdent("nil")
		}
	}

	return &ast.StarExpr{
		X: &ast.CallExpr{
			Fun:  ast.NewIdent("new"),
			Args: []ast.Expr{typ},
		},
	}
}
