package rewrite

import (
	"fmt"
	"go/token"

	"github.com/ardnew/guard/expand"
)

// Error is a diagnostic resolved to a file position.
type Error struct {
	Diagnostic *expand.Diagnostic
	Position   token.Position
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Position.String() + ": " + e.Diagnostic.Error()
}

// Unwrap exposes the diagnostic to errors.As.
func (e *Error) Unwrap() error {
	return e.Diagnostic
}

// Render formats the error with a snippet of source (may be empty).
func (e *Error) Render(source string) string {
	return e.Diagnostic.Render(e.Position, source)
}

func malformed(pos token.Pos, format string, args ...any) *expand.Diagnostic {
	return &expand.Diagnostic{
		Code: expand.MalformedInvocation,
		Pos:  pos,
		Msg:  fmt.Sprintf(format, args...),
	}
}
