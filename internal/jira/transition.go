package jira

type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TransitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

type TransitionRequest struct {
	Transition TransitionRef `json:"transition"`
}

type TransitionRef struct {
	ID string `json:"id"`
}
