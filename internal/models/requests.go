package models

type MessageRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Content     string `json:"content"`
}

type BulkDeleteRequest struct {
	MessageIDs []uint `json:"message_ids" binding:"required"`
}
