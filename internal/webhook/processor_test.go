package webhook

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datawave-cloud/provisioning-webhook/internal/config"
	"github.com/datawave-cloud/provisioning-webhook/internal/gitops"
	"github.com/datawave-cloud/provisioning-webhook/internal/hierarchy"
	"github.com/datawave-cloud/provisioning-webhook/internal/jira"
	"github.com/datawave-cloud/provisioning-webhook/internal/provision"
)

type fakeNotifier struct {
	comments    []string
	transitions []string

	// failFrom fails every call once this many comments were recorded.
	failFrom int
	failErr  error
}

func (n *fakeNotifier) AddComment(_ context.Context, issueKey, text string, kind jira.CommentKind) error {
	if n.failErr != nil && len(n.comments) >= n.failFrom {
		return n.failErr
	}
	n.comments = append(n.comments, string(kind)+"|"+text)
	return nil
}

func (n *fakeNotifier) TransitionIssue(_ context.Context, issueKey, transitionName string) error {
	if n.failErr != nil && len(n.comments) >= n.failFrom {
		return n.failErr
	}
	n.transitions = append(n.transitions, transitionName)
	return nil
}

type fakePublisher struct {
	calls        []string
	branchExists bool
	commitErr    error
}

func (f *fakePublisher) BranchHeadSHA(_ context.Context, branch string) (string, error) {
	f.calls = append(f.calls, "head:"+branch)
	return "abc123", nil
}

func (f *fakePublisher) CreateBranch(_ context.Context, name, sha string) error {
	f.calls = append(f.calls, "branch:"+name+"@"+sha)
	if f.branchExists {
		return fmt.Errorf("%w: %s", gitops.ErrBranchExists, name)
	}
	f.branchExists = true
	return nil
}

func (f *fakePublisher) CommitFile(_ context.Context, path, message, encodedContent, branch string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.calls = append(f.calls, "commit:"+path)
	return nil
}

func (f *fakePublisher) CreatePullRequest(_ context.Context, title, body, base string, autoMerge bool, head string) (string, error) {
	f.calls = append(f.calls, fmt.Sprintf("pr:%s auto=%t", head, autoMerge))
	return "https://github.example/pr/" + head, nil
}

type fakeLister struct {
	assets []hierarchy.Asset
	err    error
}

func (f *fakeLister) ListAssets(_ context.Context, orgID string) ([]hierarchy.Asset, error) {
	return f.assets, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		OrgID:       "123456",
		BaseBranch:  "main",
		BudgetLimit: 150,
		RepoOwner:   "datawave-cloud",
		RepoName:    "gcp-iac",
	}
}

func folderAsset(id, displayName string, ancestors ...string) hierarchy.Asset {
	return hierarchy.Asset{
		Name:      "//cloudresourcemanager.googleapis.com/folders/" + id,
		AssetType: hierarchy.FolderAssetType,
		Ancestors: ancestors,
		Resource: hierarchy.AssetResource{Data: map[string]any{
			"displayName": displayName,
		}},
	}
}

func projectWebhookIssue(key string) jira.Issue {
	return jira.Issue{
		Key: key,
		Fields: map[string]any{
			"issuetype":         map[string]any{"name": "New GCP Project Provisioning"},
			"customfield_10550": map[string]any{"value": "l0"},
			"customfield_10611": map[string]any{"value": "Client", "child": map[string]any{"value": "Asset"}},
			"customfield_10549": []any{map[string]any{"value": "dev"}, map[string]any{"value": "prod"}},
			"customfield_10579": "100.0",
			"customfield_10614": "350.0",
			"customfield_10551": "myapp",
			"customfield_10578": "clients",
			"customfield_10644": "WBS-1234",
			"reporter":          map[string]any{"displayName": "Ada Lovelace"},
		},
	}
}

func projectAssets() []hierarchy.Asset {
	return []hierarchy.Asset{
		folderAsset("111", "clients"),
		folderAsset("211", "Development", "folders/111"),
		folderAsset("212", "Production", "folders/111"),
	}
}

func TestProcessProjectFlow(t *testing.T) {
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	processor := NewProcessor(testConfig(), notifier, publisher, &fakeLister{assets: projectAssets()})

	err := processor.Process(context.Background(), projectWebhookIssue("DWP-301"))
	require.NoError(t, err)

	// Dev and prod units share the ticket branch; the second create is
	// answered with branch-exists and reused.
	require.Equal(t, []string{
		"head:main",
		"branch:ticket-DWP-301@abc123",
		"commit:data/budgets/dw-dev-myapp.yaml",
		"commit:data/projects/dw-dev-myapp.yaml",
		"pr:ticket-DWP-301 auto=true",
		"head:main",
		"branch:ticket-DWP-301@abc123",
		"commit:data/budgets/dw-prod-myapp.yaml",
		"commit:data/projects/dw-prod-myapp.yaml",
		"pr:ticket-DWP-301 auto=false",
	}, publisher.calls)

	require.Len(t, notifier.comments, 5)
	require.Contains(t, notifier.comments[0], "[START] Received Jira webhook payload for DWP-301")
	require.Contains(t, notifier.comments[1], "dw-dev-myapp")
	require.Contains(t, notifier.comments[2], "Connecting to GitHub 'gcp-iac' under 'datawave-cloud'")
	require.Contains(t, notifier.comments[3], "Created and auto-approved PR at")
	require.Contains(t, notifier.comments[4], "Created a PR that needs manual approval at")
	require.Contains(t, notifier.comments[4], "manual-approval|")

	require.Equal(t, []string{transitionDone, transitionReviewed}, notifier.transitions)
}

func TestProcessUnknownIssueType(t *testing.T) {
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	processor := NewProcessor(testConfig(), notifier, publisher, &fakeLister{})

	issue := projectWebhookIssue("DWP-302")
	issue.Fields["issuetype"] = map[string]any{"name": "Bug"}

	err := processor.Process(context.Background(), issue)
	require.ErrorIs(t, err, provision.ErrUnknownIssueType)
	require.Empty(t, publisher.calls)
	require.Empty(t, notifier.comments)
}

func TestProcessValidationFailureBlocksTicket(t *testing.T) {
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	// A failed listing degrades to an empty snapshot, so the parent
	// folder lookup fails validation.
	lister := &fakeLister{err: errors.New("asset API unavailable")}
	processor := NewProcessor(testConfig(), notifier, publisher, lister)

	err := processor.Process(context.Background(), projectWebhookIssue("DWP-303"))
	require.ErrorIs(t, err, provision.ErrValidation)

	require.Empty(t, publisher.calls)
	require.Equal(t, []string{transitionBlocked}, notifier.transitions)
	last := notifier.comments[len(notifier.comments)-1]
	require.Contains(t, last, "error|")
	require.Contains(t, last, "parent folder 'clients' not found")
}

func TestProcessMissingMandatoryFields(t *testing.T) {
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	processor := NewProcessor(testConfig(), notifier, publisher, &fakeLister{assets: projectAssets()})

	issue := projectWebhookIssue("DWP-304")
	delete(issue.Fields, "customfield_10551")
	delete(issue.Fields, "customfield_10550")

	err := processor.Process(context.Background(), issue)

	var missing *provision.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	require.ElementsMatch(t, []string{"PROJECT_NAME", "DATASECURITY"}, missing.Fields)
	require.Empty(t, publisher.calls)

	// Per-field comments, then the aggregate error comment and the
	// blocked transition as the terminal pair.
	require.Equal(t, []string{transitionBlocked}, notifier.transitions)
	last := notifier.comments[len(notifier.comments)-1]
	require.Contains(t, last, "error|missing mandatory fields:")
	require.Contains(t, last, "PROJECT_NAME")
	require.Contains(t, last, "DATASECURITY")
}

func TestProcessBlockedJoinsNotificationFailures(t *testing.T) {
	notifyErr := errors.New("jira API: 503 Service Unavailable")
	// The start comment succeeds, everything after fails.
	notifier := &fakeNotifier{failFrom: 1, failErr: notifyErr}
	publisher := &fakePublisher{}
	lister := &fakeLister{err: errors.New("asset API unavailable")}
	processor := NewProcessor(testConfig(), notifier, publisher, lister)

	err := processor.Process(context.Background(), projectWebhookIssue("DWP-306"))
	require.ErrorIs(t, err, provision.ErrValidation)
	require.ErrorIs(t, err, notifyErr)
	require.Empty(t, notifier.transitions)
}

func TestProcessPublishFailureBlocksTicket(t *testing.T) {
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{commitErr: errors.New("github API: 502 Bad Gateway")}
	processor := NewProcessor(testConfig(), notifier, publisher, &fakeLister{assets: projectAssets()})

	err := processor.Process(context.Background(), projectWebhookIssue("DWP-305"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "committing")

	require.Equal(t, []string{transitionBlocked}, notifier.transitions)
	last := notifier.comments[len(notifier.comments)-1]
	require.Contains(t, last, "error|")
}
