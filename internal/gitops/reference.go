package gitops

type Reference struct {
	Ref    string    `json:"ref"`
	Object GitObject `json:"object"`
}

type GitObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

type CreateReferenceRequest struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}
