package domain

import "time"

// Message is an admin-to-user notice (submission reviews, launches)
// Table: messages
type Message struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SenderID    uint64     `gorm:"column:sender_id" json:"sender_id"`
	RecipientID uint64     `gorm:"column:recipient_id;index" json:"recipient_id"`
	Subject     string     `gorm:"column:subject;size:200" json:"subject"`
	Body        string     `gorm:"column:body;type:text" json:"body"`
	ReadAt      *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	RecipientID uint64 `json:"recipient_id" validate:"required,min=1"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Body        string `json:"body" validate:"required,max=10000"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID        uint64     `json:"id"`
	SenderID  uint64     `json:"sender_id"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToResponse converts Message to MessageResponse
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Subject:   m.Subject,
		Body:      m.Body,
		IsRead:    m.ReadAt != nil,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}
