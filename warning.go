package mangler

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal issue encountered while mangling: a lookup
// that missed, a glyph that could not be substituted, an operand that did
// not have the expected shape. Warnings never stop a run.
type Warning struct {
	// Page is the 1-indexed page the warning arose on, 0 for
	// document-level issues.
	Page int

	// Object is the object number involved, 0 when not applicable.
	Object int

	// Message describes the issue.
	Message string
}

// String renders the warning with its location context.
func (w Warning) String() string {
	switch {
	case w.Page > 0 && w.Object > 0:
		return fmt.Sprintf("page %d, object %d: %s", w.Page, w.Object, w.Message)
	case w.Page > 0:
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	case w.Object > 0:
		return fmt.Sprintf("object %d: %s", w.Object, w.Message)
	default:
		return w.Message
	}
}

// FormatWarnings renders a warning list one per line for display.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
