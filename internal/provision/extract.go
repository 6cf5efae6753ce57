package provision

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/datawave-cloud/provisioning-webhook/internal/ctxlog"
	"github.com/datawave-cloud/provisioning-webhook/internal/jira"
)

// Notifier is the ticket-side reporting surface the pipeline depends
// on. *jira.Client satisfies it.
type Notifier interface {
	AddComment(ctx context.Context, issueKey, text string, kind jira.CommentKind) error
	TransitionIssue(ctx context.Context, issueKey, transitionName string) error
}

// Extract reads the raw issue fields per the table, coercing and
// validating each into a normalized Request. Field-level failures are
// reported to the ticket and leave the destination key unset; only the
// mandatory-field sweep at the end aborts, listing every missing field.
func Extract(ctx context.Context, fields []Field, issue jira.Issue, notifier Notifier) (Request, error) {
	log := ctxlog.From(ctx)
	req := Request{KeyIssueKey: issue.Key}

	for _, field := range fields {
		raw, ok := issue.Fields[field.SourceKey]
		if !ok || raw == nil {
			log.Info("field absent from payload", "source", field.SourceKey, "dest", field.DestKey)
			continue
		}

		switch field.Kind {
		case SingleChoice:
			if v, ok := subKey(raw, "value"); ok {
				req[field.DestKey] = v
			}
		case NestedChoice:
			if child, ok := raw.(map[string]any); ok {
				if v, ok := subKey(child["child"], "value"); ok {
					req[field.DestKey] = v
				}
			}
		case PersonReference:
			if list, ok := raw.([]any); ok && len(list) > 0 {
				if v, ok := subKey(list[0], "displayName"); ok {
					req[field.DestKey] = v
				}
			}
		case ReporterReference:
			if v, ok := subKey(raw, "displayName"); ok {
				req[field.DestKey] = v
			}
		case MultiChoice:
			if list, ok := raw.([]any); ok {
				values := make([]string, 0, len(list))
				for _, item := range list {
					if v, ok := subKey(item, "value"); ok {
						values = append(values, v)
					}
				}
				req[field.DestKey] = values
			}
		case FreeText:
			text, ok := raw.(string)
			if !ok {
				continue
			}
			if field.Pattern != "" && !regexp.MustCompile(field.Pattern).MatchString(text) {
				if err := reportFieldError(ctx, notifier, issue.Key, field, text); err != nil {
					return nil, err
				}
				continue
			}
			req[field.DestKey] = text
		case Numeric:
			text := stringify(raw)
			if field.Pattern != "" && !regexp.MustCompile(field.Pattern).MatchString(text) {
				if err := reportFieldError(ctx, notifier, issue.Key, field, text); err != nil {
					return nil, err
				}
				continue
			}
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				if err := reportFieldError(ctx, notifier, issue.Key, field, text); err != nil {
					return nil, err
				}
				continue
			}
			req[field.DestKey] = value
		}
	}

	if err := checkMandatory(ctx, fields, req, issue.Key, notifier); err != nil {
		return nil, err
	}
	return req, nil
}

func checkMandatory(ctx context.Context, fields []Field, req Request, issueKey string, notifier Notifier) error {
	var missing []string
	for _, field := range fields {
		if !field.Mandatory || req.Has(field.DestKey) {
			continue
		}
		missing = append(missing, field.DestKey)
		ctxlog.From(ctx).Error("mandatory field missing", "field", field.DestKey, "issue", issueKey)
		if err := notifier.AddComment(ctx, issueKey,
			fmt.Sprintf("Mandatory field '%s' is missing in the request.", field.DestKey),
			jira.CommentError); err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

func reportFieldError(ctx context.Context, notifier Notifier, issueKey string, field Field, value string) error {
	message := fmt.Sprintf("Invalid value '%s' for '%s'. %s", value, field.DestKey, field.PatternMessage)
	ctxlog.From(ctx).Error("field validation failed", "field", field.DestKey, "value", value)
	return notifier.AddComment(ctx, issueKey, message, jira.CommentError)
}

func subKey(raw any, key string) (string, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := obj[key].(string)
	return v, ok
}

// stringify renders the raw numeric field for pattern matching. JSON
// numbers arrive as float64; user input may also be a string.
func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		// Integral JSON numbers still need a decimal point to satisfy
		// the budget pattern, so 100 renders as "100.0".
		if v == math.Trunc(v) {
			return strconv.FormatFloat(v, 'f', 1, 64)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
