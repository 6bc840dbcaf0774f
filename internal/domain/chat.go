package domain

// ChatMessage is the provider-agnostic chat message shape shared by the
// extraction prompts and the LLM integration.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
