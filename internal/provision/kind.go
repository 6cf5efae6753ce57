package provision

import (
	"context"

	"github.com/datawave-cloud/provisioning-webhook/internal/hierarchy"
)

// Kind is the closed set of provisioning request kinds. Each kind
// carries its own field table, validator, and synthesizer.
type Kind int

const (
	KindFolder Kind = iota
	KindProject
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindProject:
		return "project"
	}
	return "unknown"
}

// KindForIssueType maps an issue type display name to its kind.
func KindForIssueType(issueType string) (Kind, bool) {
	switch issueType {
	case "New GCP Folder Provisioning":
		return KindFolder, true
	case "New GCP Project Provisioning":
		return KindProject, true
	}
	return 0, false
}

// Fields returns the field table driving extraction for this kind.
func (k Kind) Fields() []Field {
	if k == KindFolder {
		return folderFields
	}
	return projectFields
}

// Provisioner is the per-kind capability surface the orchestrator
// drives: cross-field validation against the hierarchy snapshot,
// deterministic document synthesis, and a human-readable summary of
// the validated request.
type Provisioner interface {
	Validate(ctx context.Context) error
	Synthesize(ctx context.Context) ([]PublishUnit, error)
	Summary() string
}

// Options carries the policy settings a provisioner needs.
type Options struct {
	// BudgetLimit is the exclusive dev-budget bound for auto-approval.
	BudgetLimit float64
}

// NewProvisioner builds the kind's provisioner over one validated-once
// request and one hierarchy snapshot.
func (k Kind) NewProvisioner(req Request, index *hierarchy.Index, opts Options) Provisioner {
	if k == KindFolder {
		return &FolderProvisioner{Request: req, Index: index}
	}
	return &ProjectProvisioner{Request: req, Index: index, Opts: opts}
}

var (
	_ Provisioner = (*FolderProvisioner)(nil)
	_ Provisioner = (*ProjectProvisioner)(nil)
)
