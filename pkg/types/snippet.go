package types

// Snippet contains the text around a match.
type Snippet struct {
	Before   string `json:"before"`
	Matching string `json:"matching"`
	After    string `json:"after"`
}
