package schema

import "fmt"

// ValidationError reports the first structural violation found in a document.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("pattern validation failed: %s", e.Message)
	}
	return fmt.Sprintf("pattern validation failed: %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Migration axes. Pattern documents and project containers version
// independently; the same error kind covers both.
const (
	AxisSchema  = "schema"
	AxisProject = "project"
)

// MigrationError reports that no migration path exists between two versions.
type MigrationError struct {
	Axis string
	From string
	To   string
}

func (e *MigrationError) Error() string {
	from := e.From
	if from == "" {
		from = "<none>"
	}
	return fmt.Sprintf("no %s migration path from %s to %s", e.Axis, from, e.To)
}
