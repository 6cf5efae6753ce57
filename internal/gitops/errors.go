package gitops

import "errors"

// ErrorResponse is the GitHub REST error envelope.
type ErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}

var (
	// ErrBranchExists means the ref already points somewhere. Creating
	// the same branch for every file of a publish unit is expected, so
	// callers treat this as success.
	ErrBranchExists = errors.New("branch already exists")

	// ErrContentConflict means the path already holds different content
	// on the target branch.
	ErrContentConflict = errors.New("file exists with different content")
)
