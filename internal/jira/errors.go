package jira

import "errors"

// ErrorResponse is the Jira REST error envelope.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

var ErrTransitionNotFound = errors.New("transition not found")
