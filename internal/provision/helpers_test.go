package provision

import (
	"context"
	"strings"
	"testing"

	"github.com/thanhpk/randstr"

	"github.com/datawave-cloud/provisioning-webhook/internal/hierarchy"
	"github.com/datawave-cloud/provisioning-webhook/internal/jira"
)

// GenerateResourceName returns a random lowercase name that satisfies
// the folder and project name patterns.
func GenerateResourceName(t *testing.T) string {
	t.Helper()
	name := strings.ToLower(randstr.String(16))
	runes := []rune(name)
	runes[0] = 'r'
	return string(runes)
}

// recordingNotifier captures ticket comments and transitions for
// assertions.
type recordingNotifier struct {
	comments    []string
	transitions []string
	failWith    error
}

func (n *recordingNotifier) AddComment(_ context.Context, issueKey, text string, kind jira.CommentKind) error {
	if n.failWith != nil {
		return n.failWith
	}
	n.comments = append(n.comments, issueKey+"|"+string(kind)+"|"+text)
	return nil
}

func (n *recordingNotifier) TransitionIssue(_ context.Context, issueKey, transitionName string) error {
	if n.failWith != nil {
		return n.failWith
	}
	n.transitions = append(n.transitions, issueKey+"|"+transitionName)
	return nil
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

func projectAsset(projectID string) hierarchy.Asset {
	return hierarchy.Asset{
		Name:      "//cloudresourcemanager.googleapis.com/projects/" + projectID,
		AssetType: hierarchy.ProjectAssetType,
		Resource: hierarchy.AssetResource{Data: map[string]any{
			"name":      "projects/" + projectID,
			"projectId": projectID,
		}},
	}
}

func choice(value string) map[string]any {
	return map[string]any{"value": value}
}

func nestedChoice(parent, child string) map[string]any {
	return map[string]any{
		"value": parent,
		"child": map[string]any{"value": child},
	}
}

func checklist(values ...string) []any {
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = map[string]any{"value": v}
	}
	return items
}

func reporter(displayName string) map[string]any {
	return map[string]any{"displayName": displayName}
}

// projectIssue builds a complete, valid project provisioning issue.
// Tests mutate the fields map to break specific properties.
func projectIssue(key string) jira.Issue {
	return jira.Issue{
		Key: key,
		Fields: map[string]any{
			"issuetype":         map[string]any{"name": "New GCP Project Provisioning"},
			"customfield_10550": choice("l0"),
			"customfield_10611": nestedChoice("Client", "Asset"),
			"customfield_10549": checklist("dev", "prod"),
			"customfield_10579": "100.0",
			"customfield_10614": "350.0",
			"customfield_10551": "myapp",
			"customfield_10578": "clients",
			"customfield_10644": "WBS-1234",
			"reporter":          reporter("Ada Lovelace"),
		},
	}
}
