package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/datawave-cloud/provisioning-webhook/internal/ctxlog"
	"github.com/datawave-cloud/provisioning-webhook/internal/hierarchy"
)

// FolderProvisioner validates and synthesizes a folder creation
// request: one new folder under an existing parent-type folder.
type FolderProvisioner struct {
	Request Request
	Index   *hierarchy.Index
}

// Validate asserts the requested name is free and the declared parent
// folder exists, recording the resolved parent id for synthesis.
func (p *FolderProvisioner) Validate(ctx context.Context) error {
	log := ctxlog.From(ctx)

	folderName, _ := p.Request.String(KeyFolderName)
	if _, exists := p.Index.Exists(folderName, hierarchy.FolderAssetType); exists {
		return fmt.Errorf("%w: folder '%s' exists already in the resource hierarchy", ErrValidation, folderName)
	}
	log.Info("folder name is free", "folder", folderName)

	parentName, _ := p.Request.String(KeyProjectTypeFolder)
	resourceName, exists := p.Index.Exists(parentName, hierarchy.FolderAssetType)
	if !exists {
		return fmt.Errorf("%w: parent folder '%s' does not exist in the resource hierarchy", ErrValidation, parentName)
	}
	parentID, ok := hierarchy.FolderID(resourceName)
	if !ok {
		return fmt.Errorf("%w: could not extract folder id from '%s'", ErrValidation, resourceName)
	}

	p.Request[KeyParentFolderID] = parentID
	log.Info("resolved parent folder", "parent", parentName, "id", parentID)
	return nil
}

// Synthesize builds the single folder document and its publish unit.
func (p *FolderProvisioner) Synthesize(ctx context.Context) ([]PublishUnit, error) {
	parentID, ok := p.Request.String(KeyParentFolderID)
	if !ok {
		return nil, fmt.Errorf("%w: parent folder id missing, request was not validated", ErrValidation)
	}

	folderName, _ := p.Request.String(KeyFolderName)
	doc := FolderDocument{
		Parent: parentID,
		Name:   folderName,
		Labels: FolderLabels{
			ProjectType:       FormatLabel(p.Request.StringOr(KeyProjectType, "")),
			ProjectSubType:    FormatLabel(p.Request.StringOr(KeyProjectTypeFolder, "")),
			ProjectNameFolder: FormatLabel(folderName),
		},
	}

	encoded, err := EncodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding folder document: %w", err)
	}

	issueKey, _ := p.Request.String(KeyIssueKey)
	ctxlog.From(ctx).Info("folder document synthesized", "folder", folderName)
	return []PublishUnit{newFolderUnit(issueKey, folderName, encoded)}, nil
}

// Summary renders the validated request for a ticket comment.
func (p *FolderProvisioner) Summary() string {
	parts := []string{
		"*Jira Issue:* 🔑 " + p.Request.StringOr(KeyIssueKey, "N/A"),
		"*Target Folder:* 📂 " + p.Request.StringOr(KeyFolderName, "N/A"),
		"*Project Type:* 🏷️ " + p.Request.StringOr(KeyProjectType, "N/A"),
		"*Project Type Folder:* 🗂️ " + p.Request.StringOr(KeyProjectTypeFolder, "N/A"),
	}
	return strings.Join(parts, "\n")
}
