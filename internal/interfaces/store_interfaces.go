package interfaces

import "clientdesk/internal/models"

// MessageStore is the durable message log. List methods return newest first;
// delete methods are idempotent and report rows affected.
type MessageStore interface {
	Save(message *models.ChatMessage) error
	FindBetween(userA, userB uint, limit int) ([]models.ChatMessage, error)
	FindInvolving(userID uint, limit int) ([]models.ChatMessage, error)
	LastBetween(userA, userB uint) (*models.ChatMessage, error)
	CountUnread(recipientID uint, senderID *uint) (int64, error)
	MarkRead(recipientID uint, senderID *uint) (int64, error)
	DeleteByID(messageID uint) (int64, error)
	DeleteBetween(userA, userB uint) (int64, error)
	DeleteInvolving(userID uint) (int64, error)
}

type UserStore interface {
	FindByID(userID uint) (*models.User, error)
	FindSoleAdmin() (*models.User, error)
	FindClients() ([]models.User, error)
}
