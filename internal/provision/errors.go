package provision

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownIssueType means the webhook carried an issue type with
	// no compiled-in field table or provisioner.
	ErrUnknownIssueType = errors.New("issue type not configured for provisioning")

	// ErrValidation is the normalized kind for every cross-field
	// validation failure: name collisions, missing parents or
	// subfolders, incomplete budgets.
	ErrValidation = errors.New("provisioning validation failed")
)

// MissingFieldsError aggregates every mandatory field absent from the
// normalized request. The message always lists all of them.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing mandatory fields: " + strings.Join(e.Fields, ", ")
}
