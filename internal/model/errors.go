package model

import "fmt"

// ValidationError describes a single accounting invariant violation. It is
// always surfaced to the caller and never auto-corrected.
type ValidationError struct {
	EntityID    string
	Description string
}

func (e *ValidationError) Error() string {
	if e.EntityID == "" {
		return "validation: " + e.Description
	}
	return fmt.Sprintf("validation [%s]: %s", e.EntityID, e.Description)
}
