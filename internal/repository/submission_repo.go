package repository

import (
	"time"

	"github.com/ideafund/ideafund-backend/internal/domain"
	"gorm.io/gorm"
)

// SubmissionRepository idea submission data access
type SubmissionRepository interface {
	Create(s *domain.Submission) error
	FindByID(id uint64) (*domain.Submission, error)
	FindByUser(userID uint64, page, limit int) ([]*domain.Submission, int64, error)
	FindByStatus(status string, page, limit int) ([]*domain.Submission, int64, error)
	// Review moves a pending submission to status. ErrAlreadyReviewed when it
	// is no longer pending.
	Review(id uint64, status, note string, reviewerID uint64) (*domain.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(s *domain.Submission) error {
	if s.Status == "" {
		s.Status = domain.SubmissionPending
	}
	return r.db.Create(s).Error
}

func (r *submissionRepository) FindByID(id uint64) (*domain.Submission, error) {
	var s domain.Submission
	if err := r.db.Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepository) FindByUser(userID uint64, page, limit int) ([]*domain.Submission, int64, error) {
	return r.paginate(r.db.Where("user_id = ?", userID), page, limit)
}

func (r *submissionRepository) FindByStatus(status string, page, limit int) ([]*domain.Submission, int64, error) {
	q := r.db
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return r.paginate(q, page, limit)
}

func (r *submissionRepository) paginate(q *gorm.DB, page, limit int) ([]*domain.Submission, int64, error) {
	var rows []*domain.Submission
	var total int64

	if err := q.Session(&gorm.Session{}).Model(&domain.Submission{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Session(&gorm.Session{}).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *submissionRepository) Review(id uint64, status, note string, reviewerID uint64) (*domain.Submission, error) {
	now := time.Now()
	res := r.db.Model(&domain.Submission{}).
		Where("id = ? AND status = ?", id, domain.SubmissionPending).
		Updates(map[string]interface{}{
			"status":      status,
			"review_note": note,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(id); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyReviewed
	}
	return r.FindByID(id)
}
