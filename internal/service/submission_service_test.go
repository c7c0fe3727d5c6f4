package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubMessages records review notices
type stubMessages struct {
	MessageService
	sent []*domain.SendMessageRequest
	err  error
}

func (s *stubMessages) Send(_ context.Context, _ uint64, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	s.sent = append(s.sent, req)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.MessageResponse{Subject: req.Subject}, nil
}

func TestCreateSubmission(t *testing.T) {
	repo := new(mockSubmissionRepo)
	svc := NewSubmissionService(repo, nil)

	repo.On("Create", mock.AnythingOfType("*domain.Submission")).Return(nil)

	sub, err := svc.Create(4, &domain.CreateSubmissionRequest{Title: "  Solar lamp ", Summary: "A lamp that charges itself"})
	require.NoError(t, err)
	assert.Equal(t, "Solar lamp", sub.Title)
	assert.Equal(t, domain.SubmissionPending, sub.Status)
	assert.Equal(t, uint64(4), sub.UserID)

	_, err = svc.Create(4, &domain.CreateSubmissionRequest{Title: "x", Summary: "short"})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestReviewSubmission_MessagesAuthor(t *testing.T) {
	repo := new(mockSubmissionRepo)
	messages := &stubMessages{}
	svc := NewSubmissionService(repo, messages)

	reviewed := &domain.Submission{ID: 3, UserID: 4, Title: "Solar lamp", Status: domain.SubmissionApproved, ReviewNote: "ship it"}
	repo.On("Review", uint64(3), domain.SubmissionApproved, "ship it", uint64(1)).Return(reviewed, nil)

	sub, err := svc.Review(context.Background(), 3, 1, &domain.ReviewSubmissionRequest{Decision: "approved", Note: " ship it "})
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionApproved, sub.Status)

	require.Len(t, messages.sent, 1)
	assert.Equal(t, uint64(4), messages.sent[0].RecipientID)
	assert.Contains(t, messages.sent[0].Body, "Solar lamp")
	assert.Contains(t, messages.sent[0].Body, "ship it")
}

func TestReviewSubmission_MessageFailureIgnored(t *testing.T) {
	repo := new(mockSubmissionRepo)
	svc := NewSubmissionService(repo, &stubMessages{err: errors.New("smtp down")})

	repo.On("Review", uint64(3), domain.SubmissionRejected, "", uint64(1)).
		Return(&domain.Submission{ID: 3, UserID: 4, Status: domain.SubmissionRejected}, nil)

	_, err := svc.Review(context.Background(), 3, 1, &domain.ReviewSubmissionRequest{Decision: "rejected"})
	assert.NoError(t, err)
}

func TestReviewSubmission_Errors(t *testing.T) {
	repo := new(mockSubmissionRepo)
	svc := NewSubmissionService(repo, nil)

	repo.On("Review", uint64(3), domain.SubmissionApproved, "", uint64(1)).Return(nil, repository.ErrAlreadyReviewed)

	_, err := svc.Review(context.Background(), 3, 1, &domain.ReviewSubmissionRequest{Decision: "approved"})
	assert.True(t, errors.Is(err, common.ErrConflict))

	_, err = svc.Review(context.Background(), 3, 1, &domain.ReviewSubmissionRequest{Decision: "maybe"})
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	_, _, err = svc.ListByStatus("weird", 1, 10)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}
