package models

// ChatEvent is published on the shared redis channel for sibling subsystems
// (badge composer, analytics). Best effort, never client push.
type ChatEvent struct {
	Type        string `json:"type"`
	MessageID   uint   `json:"message_id,omitempty"`
	SenderID    uint   `json:"sender_id,omitempty"`
	RecipientID uint   `json:"recipient_id,omitempty"`
	UserID      uint   `json:"user_id,omitempty"`
	Count       int64  `json:"count,omitempty"`
}
