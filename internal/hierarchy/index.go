package hierarchy

import "regexp"

// Index is a request-scoped, read-only view over one hierarchy
// snapshot. All lookups run against the assets captured at fetch time;
// concurrent requests may see different snapshots.
type Index struct {
	assets []Asset
}

// NewIndex builds an index over the snapshot. A nil slice yields an
// empty index where every lookup reports not-found, which is the
// documented degradation when the listing could not be fetched.
func NewIndex(assets []Asset) *Index {
	return &Index{assets: assets}
}

// Len reports how many nodes the snapshot holds.
func (x *Index) Len() int {
	return len(x.assets)
}

// Exists looks a resource up by name and asset type, returning its
// canonical resource name. Folders match on display name; projects
// match on either "projects/<name>" or the bare project id.
func (x *Index) Exists(name, assetType string) (string, bool) {
	for _, asset := range x.assets {
		if asset.AssetType != assetType {
			continue
		}
		switch assetType {
		case FolderAssetType:
			if asset.DisplayName() == name {
				return asset.Name, true
			}
		case ProjectAssetType:
			if asset.ResourceName() == "projects/"+name || asset.ProjectID() == name {
				return asset.Name, true
			}
		}
	}
	return "", false
}

// SubfolderID finds a folder by display name that sits under the given
// parent folder id, either through its ancestor chain or through its
// direct parent pointer.
func (x *Index) SubfolderID(parentFolderID, displayName string) (string, bool) {
	for _, asset := range x.assets {
		if asset.AssetType != FolderAssetType || asset.DisplayName() != displayName {
			continue
		}
		for _, ancestor := range asset.Ancestors {
			if ancestor == parentFolderID {
				return asset.Name, true
			}
		}
		if asset.ParentID() == parentFolderID {
			return asset.Name, true
		}
	}
	return "", false
}

var folderIDPattern = regexp.MustCompile(`folders/(\d+)$`)

// FolderID normalizes a full folder resource name to "folders/<id>".
func FolderID(resourceName string) (string, bool) {
	match := folderIDPattern.FindStringSubmatch(resourceName)
	if match == nil {
		return "", false
	}
	return "folders/" + match[1], true
}
