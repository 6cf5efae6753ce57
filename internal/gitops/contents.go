package gitops

// PutContentsRequest creates or updates one file on a branch. Content
// is base64 encoded, as the contents API requires.
type PutContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

// ContentsFile is the stored-file view returned by the contents API.
type ContentsFile struct {
	Path    string `json:"path"`
	SHA     string `json:"sha"`
	Content string `json:"content"`
}
