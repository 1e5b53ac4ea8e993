package repositories

import (
	"errors"

	"clientdesk/internal/models"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

func (chr *ChatRepository) Save(message *models.ChatMessage) error {
	return chr.db.Create(message).Error
}

// FindBetween returns messages exchanged between the two users, newest
// first. A limit <= 0 means the full history.
func (chr *ChatRepository) FindBetween(userA, userB uint, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	query := chr.db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (chr *ChatRepository) FindInvolving(userID uint, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	query := chr.db.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (chr *ChatRepository) LastBetween(userA, userB uint) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := chr.db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (chr *ChatRepository) CountUnread(recipientID uint, senderID *uint) (int64, error) {
	var count int64
	query := chr.db.Model(&models.ChatMessage{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false)
	if senderID != nil {
		query = query.Where("sender_id = ?", *senderID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead flips matching unread messages to read. Concurrent callers all
// write the same terminal value, so the update needs no coordination.
func (chr *ChatRepository) MarkRead(recipientID uint, senderID *uint) (int64, error) {
	query := chr.db.Model(&models.ChatMessage{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false)
	if senderID != nil {
		query = query.Where("sender_id = ?", *senderID)
	}
	result := query.Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByID removes one message if it exists and reports rows affected,
// never an error for a miss.
func (chr *ChatRepository) DeleteByID(messageID uint) (int64, error) {
	result := chr.db.Unscoped().Delete(&models.ChatMessage{}, messageID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (chr *ChatRepository) DeleteBetween(userA, userB uint) (int64, error) {
	result := chr.db.Unscoped().
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Delete(&models.ChatMessage{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (chr *ChatRepository) DeleteInvolving(userID uint) (int64, error) {
	result := chr.db.Unscoped().
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Delete(&models.ChatMessage{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
