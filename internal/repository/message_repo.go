package repository

import (
	"time"

	"github.com/ideafund/ideafund-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(msg *domain.Message) error
	FindInbox(recipientID uint64, page, limit int) ([]*domain.Message, int64, error)
	CountUnread(recipientID uint64) (int64, error)
	// MarkAsRead is scoped to the recipient; gorm.ErrRecordNotFound when the
	// message does not exist or belongs to someone else
	MarkAsRead(id, recipientID uint64) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *domain.Message) error {
	return r.db.Create(msg).Error
}

// FindInbox returns received messages, newest first
func (r *messageRepository) FindInbox(recipientID uint64, page, limit int) ([]*domain.Message, int64, error) {
	var messages []*domain.Message
	var total int64

	if err := r.db.Model(&domain.Message{}).
		Where("recipient_id = ?", recipientID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

func (r *messageRepository) CountUnread(recipientID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	return count, err
}

func (r *messageRepository) MarkAsRead(id, recipientID uint64) error {
	var msg domain.Message
	if err := r.db.Where("id = ? AND recipient_id = ?", id, recipientID).First(&msg).Error; err != nil {
		return err
	}
	if msg.ReadAt != nil {
		return nil
	}
	now := time.Now()
	return r.db.Model(&domain.Message{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", now).Error
}
