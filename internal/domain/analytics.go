package domain

const (
	// DefaultSearchType tags question events when the caller supplies none.
	DefaultSearchType = "semantic"
	// SearchTypeRAG tags analytics events produced by the answer endpoint.
	SearchTypeRAG = "rag"
)

// QuestionEvent is one question analytics row.
type QuestionEvent struct {
	SearchType string `json:"search_type"`
	Question   string `json:"question"`
}

// CitationEvent is one citation analytics row.
type CitationEvent struct {
	SearchType string `json:"search_type"`
	TalkID     string `json:"talk_id"`
	Title      string `json:"title"`
	Speaker    string `json:"speaker"`
}

// NewCitationEvent builds the citation row for a context talk. A talk without
// a talk_id falls back to its title as a synthetic identifier.
func NewCitationEvent(talk ContextTalk) CitationEvent {
	id := talk.TalkID
	if id == "" {
		id = talk.Title
	}
	return CitationEvent{
		SearchType: SearchTypeRAG,
		TalkID:     id,
		Title:      talk.Title,
		Speaker:    talk.Speaker,
	}
}
