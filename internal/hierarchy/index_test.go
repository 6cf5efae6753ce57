package hierarchy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func folderAsset(name, displayName, parent string, ancestors ...string) Asset {
	return Asset{
		Name:      name,
		AssetType: FolderAssetType,
		Ancestors: ancestors,
		Resource: AssetResource{Data: map[string]any{
			"displayName": displayName,
			"parent":      parent,
		}},
	}
}

func projectAsset(name, projectID string) Asset {
	return Asset{
		Name:      name,
		AssetType: ProjectAssetType,
		Resource: AssetResource{Data: map[string]any{
			"name":      "projects/" + projectID,
			"projectId": projectID,
		}},
	}
}

func testIndex() *Index {
	return NewIndex([]Asset{
		folderAsset("//cloudresourcemanager.googleapis.com/folders/100", "clients", "organizations/1", "folders/100", "organizations/1"),
		folderAsset("//cloudresourcemanager.googleapis.com/folders/200", "Development", "folders/100", "folders/200", "folders/100", "organizations/1"),
		folderAsset("//cloudresourcemanager.googleapis.com/folders/300", "Production", "folders/100", "folders/300", "folders/100", "organizations/1"),
		projectAsset("//cloudresourcemanager.googleapis.com/projects/900", "dw-dev-existing"),
	})
}

func TestExistsFolderByDisplayName(t *testing.T) {
	idx := testIndex()

	name, ok := idx.Exists("clients", FolderAssetType)
	require.True(t, ok)
	require.Equal(t, "//cloudresourcemanager.googleapis.com/folders/100", name)

	_, ok = idx.Exists("missing", FolderAssetType)
	require.False(t, ok)

	// A project name must not match folder lookups.
	_, ok = idx.Exists("dw-dev-existing", FolderAssetType)
	require.False(t, ok)
}

func TestExistsProjectByNameOrID(t *testing.T) {
	idx := testIndex()

	_, ok := idx.Exists("dw-dev-existing", ProjectAssetType)
	require.True(t, ok)

	_, ok = idx.Exists("dw-dev-unknown", ProjectAssetType)
	require.False(t, ok)
}

func TestSubfolderContainment(t *testing.T) {
	idx := testIndex()

	id, ok := idx.SubfolderID("folders/100", "Development")
	require.True(t, ok)
	require.Equal(t, "//cloudresourcemanager.googleapis.com/folders/200", id)

	// Same display name but different parent.
	_, ok = idx.SubfolderID("folders/999", "Development")
	require.False(t, ok)
}

func TestSubfolderDirectParentFallback(t *testing.T) {
	// No ancestor chain at all, only the direct parent pointer.
	idx := NewIndex([]Asset{
		folderAsset("//cloudresourcemanager.googleapis.com/folders/400", "Test", "folders/100"),
	})
	id, ok := idx.SubfolderID("folders/100", "Test")
	require.True(t, ok)
	require.Equal(t, "//cloudresourcemanager.googleapis.com/folders/400", id)
}

func TestEmptyIndexReportsNothing(t *testing.T) {
	idx := NewIndex(nil)
	require.Equal(t, 0, idx.Len())
	_, ok := idx.Exists("anything", FolderAssetType)
	require.False(t, ok)
}

func TestFolderID(t *testing.T) {
	id, ok := FolderID("//cloudresourcemanager.googleapis.com/folders/12345")
	require.True(t, ok)
	require.Equal(t, "folders/12345", id)

	_, ok = FolderID("organizations/1")
	require.False(t, ok)
}

func TestListAssetsFollowsPagination(t *testing.T) {
	var tokens []string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r := require.New(t)
		r.Equal("/v1/organizations/1234567890/assets", req.URL.Path)
		r.Equal("RESOURCE", req.URL.Query().Get("contentType"))
		r.ElementsMatch([]string{ProjectAssetType, FolderAssetType}, req.URL.Query()["assetTypes"])

		token := req.URL.Query().Get("pageToken")
		tokens = append(tokens, token)

		w.Header().Set("Content-Type", "application/json")
		if token == "" {
			json.NewEncoder(w).Encode(ListAssetsResponse{
				Assets:        []Asset{folderAsset("//cloudresourcemanager.googleapis.com/folders/1", "first", "organizations/1")},
				NextPageToken: "page-2",
			})
			return
		}
		json.NewEncoder(w).Encode(ListAssetsResponse{
			Assets: []Asset{folderAsset("//cloudresourcemanager.googleapis.com/folders/2", "second", "organizations/1")},
		})
	}))
	defer api.Close()

	assets, err := New(api.URL, "token").ListAssets(context.Background(), "1234567890")
	require.NoError(t, err)
	require.Len(t, assets, 2)
	require.Equal(t, []string{"", "page-2"}, tokens)
}
