package models

import (
	"gorm.io/gorm"
)

// ChatMessage is the durable log record of the messaging core. Sender name
// and role are display snapshots captured at send time and never updated
// afterwards. IsRead is the only mutable field and flips false -> true only.
type ChatMessage struct {
	gorm.Model
	SenderID       uint    `gorm:"index;not null" json:"sender_id"`
	SenderName     string  `gorm:"not null" json:"sender_name"`
	SenderRole     string  `gorm:"not null" json:"sender_role"`
	RecipientID    uint    `gorm:"index;not null" json:"recipient_id"`
	Content        string  `json:"content"`
	AttachmentURL  *string `json:"-"`
	AttachmentName *string `json:"-"`
	AttachmentSize *int64  `json:"-"`
	AttachmentKind *string `json:"-"`
	IsRead         bool    `gorm:"not null;default:false;index" json:"is_read"`
}

type Attachment struct {
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	SizeBytes    int64  `json:"size_bytes"`
	Kind         string `json:"kind"`
}

func (message *ChatMessage) Attachment() *Attachment {
	if message.AttachmentURL == nil {
		return nil
	}
	attachment := &Attachment{URL: *message.AttachmentURL}
	if message.AttachmentName != nil {
		attachment.OriginalName = *message.AttachmentName
	}
	if message.AttachmentSize != nil {
		attachment.SizeBytes = *message.AttachmentSize
	}
	if message.AttachmentKind != nil {
		attachment.Kind = *message.AttachmentKind
	}
	return attachment
}

func (message *ChatMessage) SetAttachment(attachment Attachment) {
	message.AttachmentURL = &attachment.URL
	message.AttachmentName = &attachment.OriginalName
	message.AttachmentSize = &attachment.SizeBytes
	message.AttachmentKind = &attachment.Kind
}

func (message *ChatMessage) ToMessageResponse() ChatMessageResponse {
	return ChatMessageResponse{
		ID:          message.ID,
		SenderID:    message.SenderID,
		SenderName:  message.SenderName,
		SenderRole:  message.SenderRole,
		RecipientID: message.RecipientID,
		Content:     message.Content,
		Attachment:  message.Attachment(),
		IsRead:      message.IsRead,
		CreatedAt:   message.CreatedAt,
	}
}
