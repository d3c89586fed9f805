package diag

import (
	"fmt"

	"pyrite/internal/source"
)

// Error carries a single fatal diagnostic through Go error returns.
// Non-fatal diagnostics go through a Reporter instead.
type Error struct {
	Diag Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Diag.Code, e.Diag.Message)
}

// Errorf builds a fatal error diagnostic in one call.
func Errorf(code Code, primary source.Span, format string, args ...any) *Error {
	return &Error{Diag: NewError(code, primary, fmt.Sprintf(format, args...))}
}
