package domain

// Principal is the verified identity resolved from a bearer credential.
// Authorization is binary: a request either resolves to a principal or is
// rejected, no attributes beyond existence are consumed.
type Principal struct {
	ID    string
	Email string
}

// ContextTalk is a single retrieved passage supplied as grounding material
// for answer generation. Input order determines citation numbering.
type ContextTalk struct {
	Title   string `json:"title"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	TalkID  string `json:"talk_id,omitempty"`
}
