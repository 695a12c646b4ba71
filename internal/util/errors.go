package util

import "strings"

// InvalidInput carries per-field problems with a request body. Handlers
// surface it as a 400 with the structured field list.
type InvalidInput struct {
	Fields []FieldError
}

func (e *InvalidInput) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
