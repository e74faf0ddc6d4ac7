package quote

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPricingOp marks an unrecognized operation name in a pricing
// rule. It indicates a malformed catalog, not malformed user input, so the
// pricing pass aborts instead of degrading into a field error.
var ErrUnknownPricingOp = errors.New("unknown pricing operation")

// ValidationError is the recoverable, user-facing failure mode of the
// validation engine. It is never partial: one pass collects every field
// problem found, keyed by field id, so the caller can render one combined
// error response.
type ValidationError struct {
	Title       string
	Detail      string
	FieldErrors map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	ids := make([]string, 0, len(e.FieldErrors))
	for id := range e.FieldErrors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%s: %d field error(s) %v", e.Title, len(e.FieldErrors), ids)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
