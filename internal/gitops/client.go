// Package gitops is the GitHub client used to publish synthesized
// configuration documents: branch creation, idempotent file commits,
// and pull requests with optional auto-merge.
package gitops

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/datawave-cloud/provisioning-webhook/internal/ctxlog"
)

type Client struct {
	HTTPClient *resty.Client

	owner string
	repo  string
}

func New(baseURL, token, owner, repo string) *Client {
	return &Client{
		HTTPClient: resty.New().
			SetBaseURL(baseURL).
			SetAuthScheme("token").
			SetAuthToken(token).
			SetHeader("Accept", "application/vnd.github.v3+json"),
		owner: owner,
		repo:  repo,
	}
}

func (c *Client) repoPath(parts ...string) string {
	return "/repos/" + c.owner + "/" + c.repo + "/" + strings.Join(parts, "/")
}

// BranchHeadSHA returns the SHA of the latest commit on the branch.
func (c *Client) BranchHeadSHA(ctx context.Context, branch string) (string, error) {
	resp, err := c.HTTPClient.R().
		SetContext(ctx).
		SetResult(Reference{}).
		SetError(&ErrorResponse{}).
		Get(c.repoPath("git", "refs", "heads", branch))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", handleError(resp)
	}
	return resp.Result().(*Reference).Object.SHA, nil
}

// CreateBranch creates a branch at the given SHA. Returns
// ErrBranchExists when the ref is already present.
func (c *Client) CreateBranch(ctx context.Context, name, sha string) error {
	resp, err := c.HTTPClient.R().
		SetContext(ctx).
		SetBody(CreateReferenceRequest{Ref: "refs/heads/" + name, SHA: sha}).
		SetError(&ErrorResponse{}).
		Post(c.repoPath("git", "refs"))
	if err != nil {
		return err
	}
	if resp.StatusCode() == 422 {
		return fmt.Errorf("%w: %s", ErrBranchExists, name)
	}
	if resp.IsError() {
		return handleError(resp)
	}
	return nil
}

// CommitFile writes one base64-encoded file to the branch. The call is
// idempotent: a 422 for a path that already holds byte-identical
// content is a no-op, while differing content is ErrContentConflict.
func (c *Client) CommitFile(ctx context.Context, path, message, encodedContent, branch string) error {
	resp, err := c.HTTPClient.R().
		SetContext(ctx).
		SetBody(PutContentsRequest{Message: message, Content: encodedContent, Branch: branch}).
		SetError(&ErrorResponse{}).
		Put(c.repoPath("contents", path))
	if err != nil {
		return err
	}
	if resp.StatusCode() == 422 {
		return c.compareExistingContent(ctx, path, branch, encodedContent)
	}
	if resp.IsError() {
		return handleError(resp)
	}
	ctxlog.From(ctx).Info("committed file", "path", path, "branch", branch)
	return nil
}

func (c *Client) compareExistingContent(ctx context.Context, path, branch, encodedContent string) error {
	resp, err := c.HTTPClient.R().
		SetContext(ctx).
		SetQueryParam("ref", branch).
		SetResult(ContentsFile{}).
		SetError(&ErrorResponse{}).
		Get(c.repoPath("contents", path))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return handleError(resp)
	}

	existing, err := base64.StdEncoding.DecodeString(stripNewlines(resp.Result().(*ContentsFile).Content))
	if err != nil {
		return fmt.Errorf("decoding existing content of %s: %w", path, err)
	}
	incoming, err := base64.StdEncoding.DecodeString(encodedContent)
	if err != nil {
		return fmt.Errorf("decoding new content of %s: %w", path, err)
	}

	if strings.TrimSpace(string(existing)) == strings.TrimSpace(string(incoming)) {
		ctxlog.From(ctx).Info("file already present with identical content", "path", path, "branch", branch)
		return nil
	}
	return fmt.Errorf("%w: %s on %s", ErrContentConflict, path, branch)
}

// stripNewlines removes the line wrapping the contents API inserts
// into base64 payloads.
func stripNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}

// CreatePullRequest opens a PR from head into base and returns its URL.
// With autoMerge the PR is additionally flagged to merge when checks
// pass and to delete the head branch afterwards.
func (c *Client) CreatePullRequest(ctx context.Context, title, body, base string, autoMerge bool, head string) (string, error) {
	resp, err := c.HTTPClient.R().
		SetContext(ctx).
		SetBody(CreatePullRequestRequest{Title: title, Head: head, Base: base, Body: body}).
		SetResult(PullRequest{}).
		SetError(&ErrorResponse{}).
		Post(c.repoPath("pulls"))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", handleError(resp)
	}

	pr := resp.Result().(*PullRequest)
	ctxlog.From(ctx).Info("pull request created", "url", pr.HTMLURL, "auto_merge", autoMerge)

	if autoMerge {
		if err := c.enableAutoMerge(ctx, pr.Number); err != nil {
			return "", err
		}
		if err := c.deleteBranchOnMerge(ctx, pr.Number); err != nil {
			return "", err
		}
	}
	return pr.HTMLURL, nil
}

func (c *Client) enableAutoMerge(ctx context.Context, number int) error {
	resp, err := c.HTTPClient.R().
		SetContext(ctx).
		SetQueryParam("auto_merge", "true").
		SetError(&ErrorResponse{}).
		Put(c.repoPath("pulls", strconv.Itoa(number), "merge"))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return handleError(resp)
	}
	return nil
}

func (c *Client) deleteBranchOnMerge(ctx context.Context, number int) error {
	resp, err := c.HTTPClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.github.loki-preview+json").
		SetError(&ErrorResponse{}).
		Post(c.repoPath("pulls", strconv.Itoa(number), "update_branch"))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return handleError(resp)
	}
	return nil
}

func handleError(resp *resty.Response) error {
	if errResp, ok := resp.Error().(*ErrorResponse); ok && errResp.Message != "" {
		return errors.New("github API: " + errResp.Message)
	}
	return errors.New("github API: " + resp.Status())
}
