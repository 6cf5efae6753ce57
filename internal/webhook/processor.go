package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/datawave-cloud/provisioning-webhook/internal/config"
	"github.com/datawave-cloud/provisioning-webhook/internal/ctxlog"
	"github.com/datawave-cloud/provisioning-webhook/internal/gitops"
	"github.com/datawave-cloud/provisioning-webhook/internal/hierarchy"
	"github.com/datawave-cloud/provisioning-webhook/internal/jira"
	"github.com/datawave-cloud/provisioning-webhook/internal/provision"
)

// Transition display names of the ticket workflow.
const (
	transitionBlocked  = "Set as blocked"
	transitionDone     = "Set as done"
	transitionReviewed = "Set as to be reviewed"
)

// prBody is the fixed body of every generated pull request.
const prBody = "This pull request adds new files with YAML content, autogenerated by the Jira to GitHub application."

// Publisher is the source-control surface the processor publishes
// through. *gitops.Client satisfies it.
type Publisher interface {
	BranchHeadSHA(ctx context.Context, branch string) (string, error)
	CreateBranch(ctx context.Context, name, sha string) error
	CommitFile(ctx context.Context, path, message, encodedContent, branch string) error
	CreatePullRequest(ctx context.Context, title, body, base string, autoMerge bool, head string) (string, error)
}

// AssetLister fetches the resource hierarchy snapshot.
// *hierarchy.Client satisfies it.
type AssetLister interface {
	ListAssets(ctx context.Context, orgID string) ([]hierarchy.Asset, error)
}

// Processor runs the full provisioning pipeline for one webhook
// delivery: extraction, validation against a fresh hierarchy snapshot,
// document synthesis, and publication. It holds no per-request state;
// one instance serves every delivery.
type Processor struct {
	cfg       *config.Config
	notifier  provision.Notifier
	publisher Publisher
	assets    AssetLister
}

func NewProcessor(cfg *config.Config, notifier provision.Notifier, publisher Publisher, assets AssetLister) *Processor {
	return &Processor{cfg: cfg, notifier: notifier, publisher: publisher, assets: assets}
}

// Process drives one issue through the pipeline. Missing-data,
// validation, synthesis, and publish failures notify the ticket and
// transition it to blocked before the error is returned; an unknown
// issue type only returns the error, leaving the status mapping to
// the caller.
func (p *Processor) Process(ctx context.Context, issue jira.Issue) error {
	log := ctxlog.From(ctx)

	kind, ok := provision.KindForIssueType(issue.IssueType())
	if !ok {
		return fmt.Errorf("%w: %q", provision.ErrUnknownIssueType, issue.IssueType())
	}
	log.Info("processing provisioning request", "issue", issue.Key, "kind", kind.String())

	start := fmt.Sprintf("[START] Received Jira webhook payload for %s (%s).", issue.Key, issue.IssueType())
	if err := p.notifier.AddComment(ctx, issue.Key, start, jira.CommentInfo); err != nil {
		return fmt.Errorf("posting start comment: %w", err)
	}

	req, err := provision.Extract(ctx, kind.Fields(), issue, p.notifier)
	if err != nil {
		var missing *provision.MissingFieldsError
		if errors.As(err, &missing) {
			return p.blocked(ctx, issue.Key, err)
		}
		return err
	}

	prov := kind.NewProvisioner(req, p.snapshot(ctx), provision.Options{BudgetLimit: p.cfg.BudgetLimit})

	if err := prov.Validate(ctx); err != nil {
		return p.blocked(ctx, issue.Key, err)
	}
	if err := p.notifier.AddComment(ctx, issue.Key, prov.Summary(), jira.CommentInfo); err != nil {
		return fmt.Errorf("posting request summary: %w", err)
	}

	connecting := fmt.Sprintf("Connecting to GitHub '%s' under '%s' for '%s'.",
		p.cfg.RepoName, p.cfg.RepoOwner, issue.IssueType())
	if err := p.notifier.AddComment(ctx, issue.Key, connecting, jira.CommentInfo); err != nil {
		return fmt.Errorf("posting publish comment: %w", err)
	}

	units, err := prov.Synthesize(ctx)
	if err != nil {
		return p.blocked(ctx, issue.Key, err)
	}

	if err := p.publish(ctx, issue.Key, units); err != nil {
		return p.blocked(ctx, issue.Key, err)
	}

	log.Info("provisioning request processed", "issue", issue.Key, "units", len(units))
	return nil
}

// snapshot fetches the hierarchy listing once for this request. A
// failed listing degrades to an empty index: every lookup reports
// not-found and the validators turn that into hard failures.
func (p *Processor) snapshot(ctx context.Context) *hierarchy.Index {
	assets, err := p.assets.ListAssets(ctx, p.cfg.OrgID)
	if err != nil {
		ctxlog.From(ctx).Warn("hierarchy listing failed, validating against an empty snapshot", "error", err)
		return hierarchy.NewIndex(nil)
	}
	return hierarchy.NewIndex(assets)
}

// publish pushes each unit in order: resolve the base head, create the
// unit branch (already-exists is fine, several units share the ticket
// branch), commit every entry, open the pull request, and report the
// outcome to the ticket.
func (p *Processor) publish(ctx context.Context, issueKey string, units []provision.PublishUnit) error {
	log := ctxlog.From(ctx)

	for _, unit := range units {
		sha, err := p.publisher.BranchHeadSHA(ctx, p.cfg.BaseBranch)
		if err != nil {
			return fmt.Errorf("resolving head of %q: %w", p.cfg.BaseBranch, err)
		}
		if err := p.publisher.CreateBranch(ctx, unit.Branch, sha); err != nil {
			if !errors.Is(err, gitops.ErrBranchExists) {
				return fmt.Errorf("creating branch %q: %w", unit.Branch, err)
			}
			log.Info("branch exists, reusing", "branch", unit.Branch)
		}

		for _, entry := range unit.Entries {
			log.Info("committing file", "path", entry.Path, "branch", unit.Branch)
			if err := p.publisher.CommitFile(ctx, entry.Path, entry.Message, entry.Content, unit.Branch); err != nil {
				return fmt.Errorf("committing %q: %w", entry.Path, err)
			}
		}

		url, err := p.publisher.CreatePullRequest(ctx, unit.Title, prBody, p.cfg.BaseBranch, unit.AutoApprove, unit.Branch)
		if err != nil {
			return fmt.Errorf("creating pull request %q: %w", unit.Title, err)
		}
		log.Info("pull request created", "title", unit.Title, "url", url, "auto_approve", unit.AutoApprove)

		if unit.AutoApprove {
			if err := p.notifier.AddComment(ctx, issueKey,
				fmt.Sprintf("Created and auto-approved PR at %s", url), jira.CommentInfo); err != nil {
				return err
			}
			if err := p.notifier.TransitionIssue(ctx, issueKey, transitionDone); err != nil {
				return err
			}
			continue
		}
		if err := p.notifier.AddComment(ctx, issueKey,
			fmt.Sprintf("Created a PR that needs manual approval at %s", url), jira.CommentManualApproval); err != nil {
			return err
		}
		if err := p.notifier.TransitionIssue(ctx, issueKey, transitionReviewed); err != nil {
			return err
		}
	}
	return nil
}

// blocked reports the failure to the ticket and moves it to the
// blocked state, best effort. Notification failures are logged and
// joined onto the cause rather than replacing or hiding it.
func (p *Processor) blocked(ctx context.Context, issueKey string, cause error) error {
	log := ctxlog.From(ctx)
	log.Error("provisioning failed", "issue", issueKey, "error", cause)

	commentErr := p.notifier.AddComment(ctx, issueKey, cause.Error(), jira.CommentError)
	if commentErr != nil {
		log.Error("could not post failure comment", "issue", issueKey, "error", commentErr)
	}
	transitionErr := p.notifier.TransitionIssue(ctx, issueKey, transitionBlocked)
	if transitionErr != nil {
		log.Error("could not transition issue to blocked", "issue", issueKey, "error", transitionErr)
	}
	return errors.Join(cause, commentErr, transitionErr)
}
