package domain

import "time"

// Submission review states
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// Submission is an idea sent in by a user for review
// Table: submissions
type Submission struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     uint64     `gorm:"column:user_id;index" json:"user_id"`
	Title      string     `gorm:"column:title;size:200" json:"title"`
	Summary    string     `gorm:"column:summary;type:text" json:"summary"`
	ImageURL   string     `gorm:"column:image_url;size:500" json:"image_url,omitempty"`
	Status     string     `gorm:"column:status;size:16;default:pending;index" json:"status"`
	ReviewNote string     `gorm:"column:review_note;type:text" json:"review_note,omitempty"`
	ReviewedBy *uint64    `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Submission model
func (Submission) TableName() string {
	return "submissions"
}

// CreateSubmissionRequest is the idea form
type CreateSubmissionRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=200"`
	Summary  string `json:"summary" validate:"required,min=10,max=5000"`
	ImageURL string `json:"image_url" validate:"omitempty,url,max=500"`
}

// ReviewSubmissionRequest is an admin decision
type ReviewSubmissionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Note     string `json:"note" validate:"max=2000"`
}
