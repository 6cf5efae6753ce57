package hierarchy

// Asset types tracked by the snapshot. These are the only two resource
// kinds the provisioning pipeline reasons about.
const (
	FolderAssetType  = "cloudresourcemanager.googleapis.com/Folder"
	ProjectAssetType = "cloudresourcemanager.googleapis.com/Project"
)

// Asset is one node of the resource hierarchy as returned by the asset
// inventory listing. Resource data keeps its raw shape: folders and
// projects carry different keys.
type Asset struct {
	Name      string        `json:"name"`
	AssetType string        `json:"assetType"`
	Ancestors []string      `json:"ancestors"`
	Resource  AssetResource `json:"resource"`
}

type AssetResource struct {
	Data map[string]any `json:"data"`
}

// DisplayName returns the human-readable name for folders, "" otherwise.
func (a Asset) DisplayName() string {
	name, _ := a.Resource.Data["displayName"].(string)
	return name
}

// ResourceName returns the resource's "name" data field
// (e.g. "projects/my-project").
func (a Asset) ResourceName() string {
	name, _ := a.Resource.Data["name"].(string)
	return name
}

// ProjectID returns the bare project id for project assets.
func (a Asset) ProjectID() string {
	id, _ := a.Resource.Data["projectId"].(string)
	return id
}

// ParentID returns the direct parent pointer from the resource data.
func (a Asset) ParentID() string {
	parent, _ := a.Resource.Data["parent"].(string)
	return parent
}

type ListAssetsResponse struct {
	Assets        []Asset `json:"assets"`
	NextPageToken string  `json:"nextPageToken"`
}
