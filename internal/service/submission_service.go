package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/repository"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// SubmissionService idea submission and review
type SubmissionService interface {
	Create(userID uint64, req *domain.CreateSubmissionRequest) (*domain.Submission, error)
	ListMine(userID uint64, page, limit int) ([]*domain.Submission, int64, error)
	ListByStatus(status string, page, limit int) ([]*domain.Submission, int64, error)
	Review(ctx context.Context, id, reviewerID uint64, req *domain.ReviewSubmissionRequest) (*domain.Submission, error)
}

type submissionService struct {
	repo     repository.SubmissionRepository
	messages MessageService
}

// NewSubmissionService creates a new SubmissionService. Review outcomes are
// sent to the author through messages when it is non-nil.
func NewSubmissionService(repo repository.SubmissionRepository, messages MessageService) SubmissionService {
	return &submissionService{repo: repo, messages: messages}
}

func (s *submissionService) Create(userID uint64, req *domain.CreateSubmissionRequest) (*domain.Submission, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	sub := &domain.Submission{
		UserID:   userID,
		Title:    strings.TrimSpace(req.Title),
		Summary:  strings.TrimSpace(req.Summary),
		ImageURL: req.ImageURL,
		Status:   domain.SubmissionPending,
	}
	if err := s.repo.Create(sub); err != nil {
		return nil, common.NewPersistence(err)
	}
	return sub, nil
}

func (s *submissionService) ListMine(userID uint64, page, limit int) ([]*domain.Submission, int64, error) {
	page, limit = normalizePage(page, limit)
	rows, total, err := s.repo.FindByUser(userID, page, limit)
	if err != nil {
		return nil, 0, common.NewPersistence(err)
	}
	return rows, total, nil
}

// ListByStatus lists submissions for review. An empty status lists all.
func (s *submissionService) ListByStatus(status string, page, limit int) ([]*domain.Submission, int64, error) {
	switch status {
	case "", domain.SubmissionPending, domain.SubmissionApproved, domain.SubmissionRejected:
	default:
		return nil, 0, common.NewValidation("error.validation", fmt.Errorf("unknown status %q", status))
	}

	page, limit = normalizePage(page, limit)
	rows, total, err := s.repo.FindByStatus(status, page, limit)
	if err != nil {
		return nil, 0, common.NewPersistence(err)
	}
	return rows, total, nil
}

// Review records the admin decision and notifies the author
func (s *submissionService) Review(ctx context.Context, id, reviewerID uint64, req *domain.ReviewSubmissionRequest) (*domain.Submission, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	sub, err := s.repo.Review(id, req.Decision, strings.TrimSpace(req.Note), reviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyReviewed) {
			return nil, common.NewConflict("submission.already_reviewed", err)
		}
		return nil, repoError(err, "submission.not_found")
	}

	if s.messages != nil {
		// 알림 실패는 심사 결과에 영향 없음
		if _, err := s.messages.Send(ctx, reviewerID, reviewMessage(sub)); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("submission_id", sub.ID).Msg("review message not sent")
		}
	}
	return sub, nil
}

func reviewMessage(sub *domain.Submission) *domain.SendMessageRequest {
	var subject, body string
	if sub.Status == domain.SubmissionApproved {
		subject = "Your idea was approved"
		body = fmt.Sprintf("Good news! %q was approved and will be prepared as a campaign.", sub.Title)
	} else {
		subject = "Your idea was not selected"
		body = fmt.Sprintf("Thanks for submitting %q. It was not selected this time.", sub.Title)
	}
	if sub.ReviewNote != "" {
		body += "\n\n" + sub.ReviewNote
	}
	return &domain.SendMessageRequest{RecipientID: sub.UserID, Subject: subject, Body: body}
}
