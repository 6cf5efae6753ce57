package provision

import "fmt"

// PublishUnit is everything the publisher needs for one logical
// target: the head branch, the pull request title, the approval
// policy, and the ordered files to commit. Units are fully built
// before they are handed over and never mutated afterwards.
type PublishUnit struct {
	Branch      string
	Title       string
	AutoApprove bool
	Entries     []CommitEntry
}

// CommitEntry is one file of a publish unit. Content is the
// base64-encoded YAML document.
type CommitEntry struct {
	Path    string
	Message string
	Content string
}

// newProjectUnit plans the publish unit for one environment project:
// the budget document first, then the project document, both on the
// ticket branch shared by every environment of the request.
func newProjectUnit(issueKey string, target EnvironmentTarget, encodedBudget, encodedProject string, autoApprove bool) PublishUnit {
	return PublishUnit{
		Branch:      "ticket-" + issueKey,
		Title:       fmt.Sprintf("[%s] PR for project creation: %s", issueKey, target.ProjectName),
		AutoApprove: autoApprove,
		Entries: []CommitEntry{
			{
				Path:    fmt.Sprintf("data/budgets/%s.yaml", target.ProjectName),
				Message: fmt.Sprintf("[%s] Add configuration budget for %s project.", issueKey, target.ProjectName),
				Content: encodedBudget,
			},
			{
				Path:    fmt.Sprintf("data/projects/%s.yaml", target.ProjectName),
				Message: fmt.Sprintf("[%s] Add configuration project for %s project.", issueKey, target.ProjectName),
				Content: encodedProject,
			},
		},
	}
}

// newFolderUnit plans the publish unit for one folder. Folder requests
// always go through manual review.
func newFolderUnit(issueKey, folderName, encodedFolder string) PublishUnit {
	formatted := FormatLabel(folderName)
	return PublishUnit{
		Branch:      fmt.Sprintf("feature/jira-%s-folder-%s", issueKey, formatted),
		Title:       fmt.Sprintf("feat: GCP Folder '%s' - Jira %s", folderName, issueKey),
		AutoApprove: false,
		Entries: []CommitEntry{
			{
				Path:    fmt.Sprintf("gcp/folders/%s/folder.yaml", formatted),
				Message: fmt.Sprintf("feat: Add GCP folder '%s' via Jira %s", folderName, issueKey),
				Content: encodedFolder,
			},
		},
	}
}
