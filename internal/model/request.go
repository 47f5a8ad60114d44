package model

// Message is a single prior turn of the conversation, used to build
// provider prompts. Role is "user", "assistant" or "system".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnalysisRequest is the inbound request from the chat layer.
// Immutable once decoded; components must not modify it.
type AnalysisRequest struct {
	Text     string    `json:"text"`
	CallerID string    `json:"caller_id"`
	Context  []Message `json:"context,omitempty"`
	Hints    []string  `json:"hints,omitempty"`
}
