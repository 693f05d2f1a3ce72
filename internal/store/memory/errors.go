package memory

import "fmt"

// duplicateError mirrors the unique-index violations of the real backends.
type duplicateError struct {
	field, value string
}

func (e *duplicateError) Error() string {
	return fmt.Sprintf("memory: duplicate %s %q", e.field, e.value)
}

func errDuplicate(field, value string) error {
	return &duplicateError{field: field, value: value}
}
