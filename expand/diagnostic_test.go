package expand

import (
	"go/token"
	"log/slog"
	"strings"
	"testing"
)

func TestCodeString(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		code   Code
		expect string
	}{
		{code: TypeMismatch, expect: "TypeMismatch"},
		{code: InvalidControlTransfer, expect: "InvalidControlTransfer"},
		{code: MalformedInvocation, expect: "MalformedInvocation"},
		{code: Code(-1), expect: "Unknown"},
	} {
		if got := test.code.String(); got != test.expect {
			t.Errorf("Code(%d).String() = %q, expect %q",
				int(test.code), got, test.expect)
		}
	}
}

func TestDiagnosticError(t *testing.T) {
	t.Parallel()

	diag := diagf(TypeMismatch, token.NoPos,
		"target must be an option.Option value, not %s", "int")

	expect := "TypeMismatch: target must be an option.Option value, not int"
	if got := diag.Error(); got != expect {
		t.Errorf("Error() = %q, expect %q", got, expect)
	}

	diag.Hint = "Let"

	if got := diag.Error(); !strings.HasSuffix(got, "(did you mean Let?)") {
		t.Errorf("Error() = %q, expect did-you-mean suffix", got)
	}
}

func TestDiagnosticLogValue(t *testing.T) {
	t.Parallel()

	diag := diagf(MalformedInvocation, token.NoPos, "unknown marker")
	diag.Hint = "Value"

	value := diag.LogValue()
	if value.Kind() != slog.KindGroup {
		t.Fatalf("LogValue().Kind() = %v, expect %v", value.Kind(), slog.KindGroup)
	}

	found := map[string]string{}
	for _, attr := range value.Group() {
		found[attr.Key] = attr.Value.String()
	}

	if found["code"] != "MalformedInvocation" {
		t.Errorf(`LogValue() code = %q, expect "MalformedInvocation"`, found["code"])
	}

	if found["error"] != "unknown marker" {
		t.Errorf(`LogValue() error = %q, expect "unknown marker"`, found["error"])
	}

	if found["hint"] != "Value" {
		t.Errorf(`LogValue() hint = %q, expect "Value"`, found["hint"])
	}
}

func TestDiagnosticRender(t *testing.T) {
	t.Parallel()

	source := "package main\n" +
		"\n" +
		"func main() {\n" +
		"\tres := guard.Let(sut)\n" +
		"}\n"

	diag := diagf(TypeMismatch, token.NoPos,
		"target must be an option.Option value")

	position := token.Position{Filename: "main.go", Line: 4, Column: 9}

	got := diag.Render(position, source)

	for _, want := range []string{
		"main.go:4:9",
		"TypeMismatch",
		"target must be an option.Option value",
		"4 | ",
		"res := guard.Let(sut)",
		"^",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q:\n%s", want, got)
		}
	}
}

func TestDiagnosticRenderOutOfRangeLine(t *testing.T) {
	t.Parallel()

	diag := diagf(MalformedInvocation, token.NoPos, "oops")
	position := token.Position{Filename: "main.go", Line: 99, Column: 1}

	got := diag.Render(position, "package main\n")

	if strings.Contains(got, "^") {
		t.Errorf("Render() emitted a caret for an out-of-range line:\n%s", got)
	}

	if !strings.Contains(got, "main.go:99:1") {
		t.Errorf("Render() missing position header:\n%s", got)
	}
}
