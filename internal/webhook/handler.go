// Package webhook is the HTTP entry point of the provisioning
// pipeline: it gatekeeps method and payload shape, then hands the
// issue to the Processor and maps its errors to status codes.
package webhook

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/datawave-cloud/provisioning-webhook/internal/ctxlog"
	"github.com/datawave-cloud/provisioning-webhook/internal/jira"
	"github.com/datawave-cloud/provisioning-webhook/internal/provision"
)

// Handler accepts Jira issue webhooks on POST /.
type Handler struct {
	processor *Processor
}

func NewHandler(processor *Processor) *Handler {
	return &Handler{processor: processor}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := ctxlog.From(r.Context()).With("delivery", uuid.NewString())
	ctx := ctxlog.With(r.Context(), log)

	if r.Method != http.MethodPost {
		log.Error("rejected non-POST request", "method", r.Method)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload jira.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Error("could not decode webhook payload", "error", err)
		http.Error(w, "Bad Request: invalid payload format or content.", http.StatusBadRequest)
		return
	}
	if !payload.Valid() {
		log.Error("webhook payload missing issue key or issue type")
		http.Error(w, "Bad Request: invalid payload format or content.", http.StatusBadRequest)
		return
	}

	log = log.With("issue", payload.Issue.Key, "issue_type", payload.Issue.IssueType())
	ctx = ctxlog.With(ctx, log)

	err := h.processor.Process(ctx, payload.Issue)

	var missing *provision.MissingFieldsError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Webhook processed successfully"))
	case errors.Is(err, provision.ErrUnknownIssueType):
		http.Error(w, "Not Found: "+err.Error(), http.StatusNotFound)
	case errors.As(err, &missing):
		http.Error(w, "Bad Request: essential data missing from payload. "+err.Error(), http.StatusBadRequest)
	default:
		log.Error("webhook processing failed", "error", err)
		http.Error(w, "Internal Server Error: "+err.Error(), http.StatusInternalServerError)
	}
}
