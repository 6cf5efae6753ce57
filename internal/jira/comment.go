package jira

// CommentKind selects the glyph prefix a ticket comment is rendered with.
type CommentKind string

const (
	CommentInfo           CommentKind = "info"
	CommentError          CommentKind = "error"
	CommentManualApproval CommentKind = "manual-approval"
)

// Decorate prefixes the comment text with the kind's glyph.
func (k CommentKind) Decorate(text string) string {
	switch k {
	case CommentError:
		return "❌[ERROR]: " + text
	case CommentManualApproval:
		return "🧑‍🔧[MANUAL APPROVAL]: " + text
	default:
		return "✅[INFO]: " + text
	}
}

type CommentRequest struct {
	Body string `json:"body"`
}
