package jira

// WebhookPayload is the inbound issue webhook body. Custom fields keep
// their raw shape: the extractor walks them by schema, not by struct.
type WebhookPayload struct {
	Issue Issue `json:"issue"`
}

type Issue struct {
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// IssueType returns the display name of the issue type, or "" when the
// payload does not carry one.
func (i Issue) IssueType() string {
	issueType, ok := i.Fields["issuetype"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := issueType["name"].(string)
	return name
}

// Valid reports whether the payload has the minimal webhook shape:
// an issue key and a named issue type.
func (p WebhookPayload) Valid() bool {
	return p.Issue.Key != "" && p.Issue.IssueType() != "" && p.Issue.Fields != nil
}
