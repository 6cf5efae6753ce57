// Package jira is a thin client for the two ticket-side effects this
// service performs: adding comments and moving issues through workflow
// transitions.
package jira

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/datawave-cloud/provisioning-webhook/internal/ctxlog"
)

type Client struct {
	HTTPClient *resty.Client
}

func New(baseURL, user, token string) *Client {
	return &Client{
		HTTPClient: resty.New().
			SetBaseURL(baseURL).
			SetBasicAuth(user, token).
			SetHeader("Accept", "application/json").
			SetHeader("Content-Type", "application/json"),
	}
}

// AddComment posts a comment on the issue, decorated per kind.
func (c *Client) AddComment(ctx context.Context, issueKey, text string, kind CommentKind) error {
	ctxlog.From(ctx).Info("adding ticket comment", "issue", issueKey, "kind", string(kind))

	resp, err := c.HTTPClient.R().
		SetContext(ctx).
		SetBody(CommentRequest{Body: kind.Decorate(text)}).
		SetError(&ErrorResponse{}).
		Post("/rest/api/2/issue/" + issueKey + "/comment")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return handleError(resp)
	}
	return nil
}

// TransitionIssue resolves the transition id by display name and
// applies it. An unknown name is an error: a ticket left in the wrong
// state is worse than a failed request.
func (c *Client) TransitionIssue(ctx context.Context, issueKey, transitionName string) error {
	resp, err := c.HTTPClient.R().
		SetContext(ctx).
		SetResult(TransitionsResponse{}).
		SetError(&ErrorResponse{}).
		Get("/rest/api/2/issue/" + issueKey + "/transitions")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return handleError(resp)
	}

	var transitionID string
	for _, t := range resp.Result().(*TransitionsResponse).Transitions {
		if t.Name == transitionName {
			transitionID = t.ID
			break
		}
	}
	if transitionID == "" {
		return fmt.Errorf("%w: %q on issue %s", ErrTransitionNotFound, transitionName, issueKey)
	}

	ctxlog.From(ctx).Info("transitioning issue", "issue", issueKey, "transition", transitionName)

	resp, err = c.HTTPClient.R().
		SetContext(ctx).
		SetBody(TransitionRequest{Transition: TransitionRef{ID: transitionID}}).
		SetError(&ErrorResponse{}).
		Post("/rest/api/2/issue/" + issueKey + "/transitions")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return handleError(resp)
	}
	return nil
}

func handleError(resp *resty.Response) error {
	if errResp, ok := resp.Error().(*ErrorResponse); ok && len(errResp.ErrorMessages) > 0 {
		return errors.New(errResp.ErrorMessages[0])
	}
	return errors.New("jira API: " + resp.Status())
}
