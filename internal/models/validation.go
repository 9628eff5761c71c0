package models

import "fmt"

// ValidationErrors maps field names to human-readable error messages.
// An empty map means the input is valid. Validation never aborts on the
// first failure; every invalid field gets its own message so the client
// can attach them to the in-progress form state.
type ValidationErrors map[string]string

// Any reports whether any field failed validation
func (e ValidationErrors) Any() bool {
	return len(e) > 0
}

// Field records an error for an indexed sub-field, e.g. visitors[2].phone
func (e ValidationErrors) Field(list string, i int, field, message string) {
	e[fmt.Sprintf("%s[%d].%s", list, i, field)] = message
}
