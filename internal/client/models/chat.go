package models

type ChatRequest struct {
	Message        string `json:"message" validate:"required"`
	UserID         string `json:"user_id" validate:"required"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ChatReply struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	ModelUsed      string `json:"model_used"`
	Timestamp      string `json:"timestamp"`
}

type NewConversationRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type Conversation struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	CreatedAt      string `json:"created_at"`
}

// ChatMessage is one exchange as stored in the chat history.
type ChatMessage struct {
	UserID         string `json:"user_id"`
	UserMessage    string `json:"user_message"`
	BotResponse    string `json:"bot_response"`
	ConversationID string `json:"conversation_id"`
	ModelUsed      string `json:"model_used"`
	CreatedAt      string `json:"created_at"`
}
