package rewrite_test

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"strings"
	"testing"

	"github.com/ardnew/guard/expand"
	"github.com/ardnew/guard/rewrite"
)

const (
	markerPath = "github.com/ardnew/guard/guard"
	optionPath = "github.com/ardnew/guard/option"
)

// importer resolves the marker and option packages type-checked from their
// sources on disk, so fixtures can import the real paths without a build.
type importer map[string]*types.Package

func (m importer) Import(path string) (*types.Package, error) {
	pkg, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("importer: unknown package %q", path)
	}

	return pkg, nil
}

// checkFile type-checks one parsed file. Type errors are collected rather
// than fatal: some fixtures are deliberately ill-typed, and the rewriter
// works from whatever the checker recorded.
func checkFile(
	t *testing.T,
	fset *token.FileSet,
	imp importer,
	path string,
	file *ast.File,
) (*types.Package, *types.Info) {
	t.Helper()

	info := &types.Info{
		Types: map[ast.Expr]types.TypeAndValue{},
		Defs:  map[*ast.Ident]types.Object{},
		Uses:  map[*ast.Ident]types.Object{},
	}

	conf := types.Config{
		Importer: imp,
		Error:    func(error) {},
	}

	pkg, _ := conf.Check(path, fset, []*ast.File{file}, info)

	return pkg, info
}

// dependencies type-checks the option and guard packages from their sources
// so fixture imports resolve.
func dependencies(t *testing.T, fset *token.FileSet) importer {
	t.Helper()

	imp := importer{}

	for _, dep := range []struct {
		path   string
		source string
	}{
		{path: optionPath, source: "../option/option.go"},
		{path: markerPath, source: "../guard/guard.go"},
	} {
		src, err := os.ReadFile(dep.source)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", dep.source, err)
		}

		file, err := parser.ParseFile(fset, dep.source, src, parser.SkipObjectResolution)
		if err != nil {
			t.Fatalf("ParseFile(%s): %v", dep.source, err)
		}

		pkg, _ := checkFile(t, fset, imp, dep.path, file)
		if pkg == nil {
			t.Fatalf("Check(%s): no package", dep.path)
		}

		imp[dep.path] = pkg
	}

	return imp
}

// process parses, checks, and rewrites one fixture.
func process(t *testing.T, src string) (string, bool, error) {
	t.Helper()

	fset := token.NewFileSet()
	imp := dependencies(t, fset)

	file, err := parser.ParseFile(fset, "fixture.go", src, parser.SkipObjectResolution)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	_, info := checkFile(t, fset, imp, "example.com/fixture", file)

	changed, err := rewrite.File(fset, file, rewrite.WithTypes(info))
	if err != nil {
		return "", changed, err
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		t.Fatalf("format.Node: %v", err)
	}

	return buf.String(), changed, nil
}

// normalize runs src through gofmt and strips blank lines, so position
// drift from spliced nodes cannot fail a comparison.
func normalize(t *testing.T, src string) string {
	t.Helper()

	out, err := format.Source([]byte(src))
	if err != nil {
		t.Fatalf("format.Source: %v\n%s", err, src)
	}

	var b strings.Builder

	for line := range strings.Lines(string(out)) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		b.WriteString(line)
	}

	return b.String()
}

func expectRewrite(t *testing.T, src, want string) {
	t.Helper()

	got, changed, err := process(t, src)
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	if !changed {
		t.Fatal("File: reported no change")
	}

	if normalize(t, got) != normalize(t, want) {
		t.Errorf("File:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func expectDiagnostic(t *testing.T, src string, code expand.Code) *expand.Diagnostic {
	t.Helper()

	_, _, err := process(t, src)
	if err == nil {
		t.Fatal("File: expected a diagnostic")
	}

	var rerr *rewrite.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("File: error %T is not a *rewrite.Error", err)
	}

	if rerr.Diagnostic.Code != code {
		t.Fatalf("File: diagnostic %v, want %v: %v",
			rerr.Diagnostic.Code, code, err)
	}

	return rerr.Diagnostic
}

func TestFileBindingDefaultReturn(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func describe(sut option.Option[string]) string {
	res := guard.Let(sut)
	return res
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func describe(sut option.Option[string]) string {
	res, ok := sut.Get()
	if !ok {
		return ""
	}
	return res
}
`)
}

func TestFileFallbackRunsBeforeEscape(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func note(string) {}

func double(sut option.Option[int]) int {
	res := guard.Let(sut, guard.Else(func() {
		note("missing")
	}))
	return res * 2
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func note(string) {}

func double(sut option.Option[int]) int {
	res, ok := sut.Get()
	if !ok {
		{
			note("missing")
		}
		return 0
	}
	return res * 2
}
`)
}

func TestFileFallbackExplicitReturn(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func note(string) {}

func pick(sut option.Option[int]) int {
	res := guard.Let(sut, guard.Else(func() {
		note("missing")
		return
	}))
	return res
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func note(string) {}

func pick(sut option.Option[int]) int {
	res, ok := sut.Get()
	if !ok {
		{
			note("missing")
			return 0
		}
		return 0
	}
	return res
}
`)
}

func TestFileNestedMarkerInFallback(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func note(int) {}

func pick(sut, alt option.Option[int]) int {
	res := guard.Let(sut, guard.Else(func() {
		note(guard.Value(alt))
	}))
	return res
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func note(int) {}

func pick(sut, alt option.Option[int]) int {
	res, ok1 := sut.Get()
	if !ok1 {
		{
			val, ok := alt.Get()
			if !ok {
				return 0
			}
			note(val)
		}
		return 0
	}
	return res
}
`)
}

func TestFileLoopBreak(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func drain(queue []option.Option[int]) int {
	total := 0
	for _, sut := range queue {
		n := guard.Let(sut, guard.Break())
		total += n
	}
	return total
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func drain(queue []option.Option[int]) int {
	total := 0
	for _, sut := range queue {
		n, ok := sut.Get()
		if !ok {
			break
		}
		total += n
	}
	return total
}
`)
}

func TestFileLabeledContinue(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func flatten(rows [][]option.Option[string]) []string {
	var out []string
outer:
	for _, row := range rows {
		for _, cell := range row {
			s := guard.Let(cell, guard.ContinueTo("outer"))
			out = append(out, s)
		}
	}
	return out
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func flatten(rows [][]option.Option[string]) []string {
	var out []string
outer:
	for _, row := range rows {
		for _, cell := range row {
			s, ok := cell.Get()
			if !ok {
				continue outer
			}
			out = append(out, s)
		}
	}
	return out
}
`)
}

func TestFileExpressionHoisting(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func width(int) string { return "" }

func render(sut option.Option[int]) string {
	return width(guard.Value(sut))
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func width(int) string { return "" }

func render(sut option.Option[int]) string {
	val, ok := sut.Get()
	if !ok {
		return ""
	}
	return width(val)
}
`)
}

func TestFileHoistedCheckPrecedesSiblingOperands(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func tick() int { return 1 }

func use(int, int) {}

func apply(sut option.Option[int]) {
	use(tick(), guard.Value(sut))
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func tick() int { return 1 }

func use(int, int) {}

func apply(sut option.Option[int]) {
	val, ok := sut.Get()
	if !ok {
		return
	}
	use(tick(), val)
}
`)
}

func TestFileFreshNamesAvoidUserIdentifiers(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func pick(sut option.Option[int]) int {
	ok := true
	_ = ok
	return guard.Value(sut)
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func pick(sut option.Option[int]) int {
	ok := true
	_ = ok
	val, ok1 := sut.Get()
	if !ok1 {
		return 0
	}
	return val
}
`)
}

func TestFileNestedMarkersExpandInnermostFirst(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func chase(inner option.Option[string], find func(string) option.Option[int]) int {
	res := guard.Let(find(guard.Value(inner)))
	return res
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func chase(inner option.Option[string], find func(string) option.Option[int]) int {
	val, ok := inner.Get()
	if !ok {
		return 0
	}
	res, ok1 := find(val).Get()
	if !ok1 {
		return 0
	}
	return res
}
`)
}

func TestFileBareMarkerStatementDiscardsValue(t *testing.T) {
	t.Parallel()

	expectRewrite(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func ensure(sut option.Option[int]) {
	guard.Value(sut)
}
`, `
package fixture

import (
	"github.com/ardnew/guard/option"
)

func ensure(sut option.Option[int]) {
	_, ok := sut.Get()
	if !ok {
		return
	}
}
`)
}

func TestFileTargetEvaluatedOnce(t *testing.T) {
	t.Parallel()

	got, _, err := process(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func next() option.Option[int] { return option.Some(1) }

func step() int {
	return guard.Value(next()) + 1
}
`)
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	if n := strings.Count(got, "next()"); n != 2 {
		// One in the declaration of next, one at the expansion.
		t.Errorf("File: next() appears %d times, want 2:\n%s", n, got)
	}
}

func TestFileWithoutMarkerImport(t *testing.T) {
	t.Parallel()

	src := `
package fixture

import "github.com/ardnew/guard/option"

func id(sut option.Option[int]) option.Option[int] {
	return sut
}
`

	got, changed, err := process(t, src)
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	if changed {
		t.Error("File: reported a change for a file with no markers")
	}

	if normalize(t, got) != normalize(t, src) {
		t.Errorf("File: modified a file with no markers:\ngot:\n%s", got)
	}
}

func TestFileTypeMismatch(t *testing.T) {
	t.Parallel()

	diag := expectDiagnostic(t, `
package fixture

import "github.com/ardnew/guard/guard"

func deref(sut *string) string {
	res := guard.Let(sut)
	return res
}
`, expand.TypeMismatch)

	if !strings.Contains(diag.Msg, "*string") {
		t.Errorf("File: diagnostic %q does not name the target type", diag.Msg)
	}
}

func TestFileBreakOutsideLoop(t *testing.T) {
	t.Parallel()

	expectDiagnostic(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func pick(sut option.Option[int]) int {
	res := guard.Let(sut, guard.Break())
	return res
}
`, expand.InvalidControlTransfer)
}

func TestFileUnknownMarkerSuggestsNearest(t *testing.T) {
	t.Parallel()

	diag := expectDiagnostic(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func pick(sut option.Option[int]) int {
	res := guard.Let(sut, guard.Brek())
	return res
}
`, expand.MalformedInvocation)

	if diag.Hint != "Break" {
		t.Errorf("File: hint = %q, want %q", diag.Hint, "Break")
	}
}

func TestFileEscapeConstructorOutsideMarker(t *testing.T) {
	t.Parallel()

	expectDiagnostic(t, `
package fixture

import "github.com/ardnew/guard/guard"

func stray() {
	esc := guard.Break()
	_ = esc
}
`, expand.MalformedInvocation)
}

func TestFileMarkerUsedAsValue(t *testing.T) {
	t.Parallel()

	expectDiagnostic(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func alias() func(option.Option[int], ...guard.Arg) int {
	return guard.Let
}
`, expand.MalformedInvocation)
}

func TestFileLetOutsideDeclaration(t *testing.T) {
	t.Parallel()

	expectDiagnostic(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func sum(sut option.Option[int]) int {
	return guard.Let(sut) + 1
}
`, expand.MalformedInvocation)
}

func TestFileFallbackOnExpressionForm(t *testing.T) {
	t.Parallel()

	expectDiagnostic(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func pick(sut option.Option[int]) int {
	return guard.Value(sut, guard.Else(func() {}))
}
`, expand.MalformedInvocation)
}

func TestFileMarkerInForCondition(t *testing.T) {
	t.Parallel()

	expectDiagnostic(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func spin(sut option.Option[bool]) {
	for guard.Value(sut) {
	}
}
`, expand.MalformedInvocation)
}

func TestFileMarkerInShortCircuit(t *testing.T) {
	t.Parallel()

	expectDiagnostic(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func both(a bool, sut option.Option[bool]) bool {
	return a && guard.Value(sut)
}
`, expand.MalformedInvocation)
}

func TestFileDuplicateEscape(t *testing.T) {
	t.Parallel()

	expectDiagnostic(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func pick(queue []option.Option[int]) int {
	for _, sut := range queue {
		res := guard.Let(sut, guard.Break(), guard.Continue())
		return res
	}
	return 0
}
`, expand.MalformedInvocation)
}

func TestFileLabelMustBeLiteral(t *testing.T) {
	t.Parallel()

	expectDiagnostic(t, `
package fixture

import (
	"github.com/ardnew/guard/guard"
	"github.com/ardnew/guard/option"
)

func pick(queue []option.Option[int], label string) {
outer:
	for _, sut := range queue {
		guard.Value(sut, guard.BreakTo(label))
		continue outer
	}
}
`, expand.MalformedInvocation)
}

func TestFileErrorPositionAndRender(t *testing.T) {
	t.Parallel()

	src := `package fixture

import "github.com/ardnew/guard/guard"

func deref(sut *string) string {
	res := guard.Let(sut)
	return res
}
`

	_, _, err := process(t, src)

	var rerr *rewrite.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("File: error %T is not a *rewrite.Error", err)
	}

	if rerr.Position.Line != 6 {
		t.Errorf("File: diagnostic at line %d, want 6", rerr.Position.Line)
	}

	rendered := rerr.Render(src)
	if !strings.Contains(rendered, "guard.Let(sut)") {
		t.Errorf("File: rendered diagnostic missing source line:\n%s", rendered)
	}
}
