package expand

import (
	"fmt"
	"go/token"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Code classifies an expansion-time diagnostic.
type Code int

const (
	// TypeMismatch: the target is not statically an optional value.
	TypeMismatch Code = iota

	// InvalidControlTransfer: the escape statement is not legal at the
	// invocation's lexical position.
	InvalidControlTransfer

	// MalformedInvocation: required arguments missing, duplicated, or forms
	// mixed incorrectly.
	MalformedInvocation
)

// String returns a string representation of the diagnostic code.
func (c Code) String() string {
	switch c {
	case TypeMismatch:
		return "TypeMismatch"

	case InvalidControlTransfer:
		return "InvalidControlTransfer"

	case MalformedInvocation:
		return "MalformedInvocation"

	default:
		return "Unknown"
	}
}

// Diagnostic is an expansion-time failure located at one invocation.
// It implements both error and slog.LogValuer.
type Diagnostic struct {
	Code Code
	Pos  token.Pos
	Msg  string

	// Hint optionally suggests a correction (for example the nearest known
	// marker name).
	Hint string
}

// diagf creates a Diagnostic with a formatted message.
func diagf(code Code, pos token.Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code: code,
		Pos:  pos,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Hint != "" {
		return d.Code.String() + ": " + d.Msg + " (did you mean " + d.Hint + "?)"
	}

	return d.Code.String() + ": " + d.Msg
}

// LogValue implements slog.LogValuer for structured logging.
func (d *Diagnostic) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", d.Code.String()),
		slog.String("error", d.Msg),
	}

	if d.Hint != "" {
		attrs = append(attrs, slog.String("hint", d.Hint))
	}

	return slog.GroupValue(attrs...)
}

// Styles used to render diagnostics for terminals.
//
//nolint:gochecknoglobals
var (
	styleCode   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleGutter = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleCaret  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Render formats the diagnostic with a source snippet and a caret marking
// the invocation's column:
//
//	file.go:10:9: MalformedInvocation: ...
//	  10 | res := guard.Let(sut, guard.Else(nil))
//	               ^
//
// position locates the diagnostic in source; source is the file content the
// snippet is cut from (may be empty to omit the snippet).
func (d *Diagnostic) Render(position token.Position, source string) string {
	var buf strings.Builder

	buf.WriteString(position.String())
	buf.WriteString(": ")
	buf.WriteString(styleCode.Render(d.Code.String()))
	buf.WriteString(": ")
	buf.WriteString(d.Msg)

	if d.Hint != "" {
		buf.WriteString(" (did you mean ")
		buf.WriteString(d.Hint)
		buf.WriteString("?)")
	}

	buf.WriteByte('\n')

	lines := strings.Split(source, "\n")
	if position.Line <= 0 || position.Line > len(lines) {
		return buf.String()
	}

	line := lines[position.Line-1]
	number := strconv.Itoa(position.Line)

	buf.WriteString(styleGutter.Render("  " + number + " | "))
	buf.WriteString(line)
	buf.WriteByte('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(number)+5)
	if position.Column > 0 {
		padding += strings.Repeat(" ", position.Column-1)
	}

	buf.WriteString(padding)
	buf.WriteString(styleCaret.Render("^"))
	buf.WriteByte('\n')

	return buf.String()
}
