package models

// ConversationResponse is derived per query, never persisted: zero staleness
// at read-time cost.
type ConversationResponse struct {
	Counterpart UserResponse         `json:"counterpart"`
	LastMessage *ChatMessageResponse `json:"last_message"`
	UnreadCount int64                `json:"unread_count"`
}
