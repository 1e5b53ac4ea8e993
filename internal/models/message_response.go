package models

import "time"

type ChatMessageResponse struct {
	ID          uint        `json:"id"`
	SenderID    uint        `json:"sender_id"`
	SenderName  string      `json:"sender_name"`
	SenderRole  string      `json:"sender_role"`
	RecipientID uint        `json:"recipient_id"`
	Content     string      `json:"content"`
	Attachment  *Attachment `json:"attachment,omitempty"`
	IsRead      bool        `json:"is_read"`
	CreatedAt   time.Time   `json:"created_at"`
}
