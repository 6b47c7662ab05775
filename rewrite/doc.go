// Package rewrite locates guard marker calls in parsed Go source and
// replaces them with their expansions.
//
// The package is the syntactic front end to [github.com/ardnew/guard/expand]:
// it recognizes calls to the marker package, lifts each call site into an
// [expand.Invocation] together with its lexical [expand.Context], and splices
// the generated statements back into the file's syntax tree.
//
// [File] rewrites one file in place. Binding-form sites replace their
// declaration statement; expression-form sites hoist their expansion before
// the nearest enclosing statement and substitute a fresh identifier for the
// call. Sites nested inside other sites are rewritten innermost first, so a
// marker may appear anywhere an expression may, including inside another
// marker's target.
//
// Positions that would be evaluated more than once, or conditionally, cannot
// host an expression-form site: a for statement's clauses, a range
// expression, an else-if condition, case expressions, and select
// communication clauses are all rejected with a diagnostic rather than
// silently changing how often the target is evaluated.
//
// Rewriting stops at the first diagnostic. A file either rewrites completely
// or is left with its syntax tree unmodified beyond sites already expanded;
// callers discard the tree on error rather than writing partial output.
package rewrite
