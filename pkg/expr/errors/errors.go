package errors

import "fmt"

// RejectedError reports an expression the sandbox refused to parse or
// evaluate: unparseable syntax, a disallowed name, attribute, or call, or an
// operation the dialect does not support. A correctly authored catalog never
// triggers it, so callers treat it as an internal/catalog-authoring fault
// rather than a user input error.
type RejectedError struct {
	// Construct is the offending token, name, or syntax fragment.
	Construct string

	// Pos is the byte offset in the expression source, or -1 when unknown.
	Pos int

	// Message describes why the construct was rejected.
	Message string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	if e.Construct != "" {
		return fmt.Sprintf("expression rejected: %s: %q", e.Message, e.Construct)
	}
	return "expression rejected: " + e.Message
}

// Reject creates a RejectedError for the given construct.
func Reject(message, construct string, pos int) *RejectedError {
	return &RejectedError{Construct: construct, Pos: pos, Message: message}
}
