package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ideafund/ideafund-backend/internal/blocks"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubSearch records index maintenance calls
type stubSearch struct {
	SearchService
	mu      sync.Mutex
	indexed []uint64
	removed []uint64
}

func (s *stubSearch) Index(_ context.Context, c *domain.Campaign) {
	s.mu.Lock()
	s.indexed = append(s.indexed, c.ID)
	s.mu.Unlock()
}

func (s *stubSearch) Remove(_ context.Context, id uint64) {
	s.mu.Lock()
	s.removed = append(s.removed, id)
	s.mu.Unlock()
}

func newCampaignSvc() (CampaignService, *mockCampaignRepo, *mockSubmissionRepo, *stubSearch) {
	repo := new(mockCampaignRepo)
	subs := new(mockSubmissionRepo)
	search := &stubSearch{}
	return NewCampaignService(repo, subs, search, nil), repo, subs, search
}

func TestCreateCampaign_NormalizesLegacyDescription(t *testing.T) {
	svc, repo, _, search := newCampaignSvc()

	repo.On("Create", mock.AnythingOfType("*domain.Campaign")).
		Run(func(args mock.Arguments) { args.Get(0).(*domain.Campaign).ID = 5 }).
		Return(nil)

	resp, err := svc.Create(context.Background(), 1, &domain.CreateCampaignRequest{
		Title:           "Solar lamp",
		ReservationGoal: 100,
		Description:     "Just some plain text",
	})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TabLive, resp.Tab)
	require.Len(t, resp.Description, 1)
	assert.Equal(t, "Just some plain text", resp.Description[0].Content)

	stored := repo.Calls[0].Arguments.Get(0).(*domain.Campaign)
	assert.True(t, len(stored.Description) > 0 && stored.Description[0] == '[', "stored as a block array")
	assert.Equal(t, []uint64{5}, search.indexed)
}

func TestCreateCampaign_SubmissionRules(t *testing.T) {
	svc, repo, subs, _ := newCampaignSvc()
	pending, approved, used := uint64(1), uint64(2), uint64(3)

	subs.On("FindByID", pending).Return(&domain.Submission{ID: pending, Status: domain.SubmissionPending}, nil)
	subs.On("FindByID", approved).Return(&domain.Submission{ID: approved, Status: domain.SubmissionApproved}, nil)
	subs.On("FindByID", used).Return(&domain.Submission{ID: used, Status: domain.SubmissionApproved}, nil)
	repo.On("ExistsForSubmission", approved).Return(false, nil)
	repo.On("ExistsForSubmission", used).Return(true, nil)
	repo.On("Create", mock.AnythingOfType("*domain.Campaign")).Return(nil)

	req := func(id uint64) *domain.CreateCampaignRequest {
		return &domain.CreateCampaignRequest{Title: "Idea", ReservationGoal: 10, SubmissionID: &id}
	}

	_, err := svc.Create(context.Background(), 1, req(pending))
	assert.True(t, errors.Is(err, &common.AppError{Kind: common.KindValidation, Message: "submission.not_approved"}))

	_, err = svc.Create(context.Background(), 1, req(used))
	assert.True(t, errors.Is(err, common.ErrConflict))

	_, err = svc.Create(context.Background(), 1, req(approved))
	assert.NoError(t, err)
}

func TestTransition_PersistsThenReturnsStoredState(t *testing.T) {
	svc, repo, _, search := newCampaignSvc()

	before := &domain.Campaign{ID: 7, Title: "Lamp", Status: lifecycle.StatusLive, CurrentReservations: 10, ReservationGoal: 10}
	after := &domain.Campaign{ID: 7, Title: "Lamp", Status: lifecycle.StatusKickstarter, KickstarterURL: "https://www.kickstarter.com/p/lamp", CurrentReservations: 10, ReservationGoal: 10}

	repo.On("FindByID", uint64(7)).Return(before, nil).Once()
	repo.On("UpdateLifecycle", mock.MatchedBy(func(c *domain.Campaign) bool {
		return c.Status == lifecycle.StatusKickstarter && c.KickstarterURL == "https://www.kickstarter.com/p/lamp"
	})).Return(nil)
	repo.On("FindByID", uint64(7)).Return(after, nil).Once()

	resp, err := svc.Transition(context.Background(), 7, lifecycle.ActionMoveToKickstarter, &domain.TransitionRequest{
		KickstarterURL: "https://www.kickstarter.com/p/lamp",
	})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TabKickstarter, resp.Tab)
	assert.Equal(t, "https://www.kickstarter.com/p/lamp", resp.KickstarterURL)
	assert.Equal(t, []uint64{7}, search.indexed)
	repo.AssertExpectations(t)
}

func TestTransition_Rejections(t *testing.T) {
	svc, repo, _, _ := newCampaignSvc()
	live := &domain.Campaign{ID: 7, Status: lifecycle.StatusLive, CurrentReservations: 3, ReservationGoal: 10}
	repo.On("FindByID", uint64(7)).Return(live, nil)
	repo.On("FindByID", uint64(8)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Transition(context.Background(), 7, lifecycle.ActionMarkGoalReached, nil)
	assert.True(t, errors.Is(err, &common.AppError{Kind: common.KindValidation, Message: "campaign.goal_not_met"}))

	_, err = svc.Transition(context.Background(), 7, lifecycle.ActionRestore, nil)
	assert.True(t, errors.Is(err, &common.AppError{Kind: common.KindConflict, Message: "campaign.action_invalid"}))

	_, err = svc.Transition(context.Background(), 7, lifecycle.ActionMoveToKickstarter, &domain.TransitionRequest{KickstarterURL: "https://bit.ly/abc"})
	assert.Equal(t, common.KindValidation, common.KindOf(err), "shortener links rejected")

	_, err = svc.Transition(context.Background(), 8, lifecycle.ActionArchive, nil)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	repo.AssertNotCalled(t, "UpdateLifecycle", mock.Anything)
}

func TestDeleteCampaign(t *testing.T) {
	svc, repo, _, search := newCampaignSvc()
	repo.On("Delete", uint64(7)).Return(nil)
	repo.On("Delete", uint64(8)).Return(gorm.ErrRecordNotFound)

	require.NoError(t, svc.Delete(context.Background(), 7))
	assert.Equal(t, []uint64{7}, search.removed)

	err := svc.Delete(context.Background(), 8)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = svc.Transition(context.Background(), 7, lifecycle.ActionDelete, nil)
	assert.NoError(t, err)
}

func TestListCampaigns(t *testing.T) {
	svc, repo, _, _ := newCampaignSvc()
	repo.On("List", lifecycle.TabLaunched, 2, 10).
		Return([]*domain.Campaign{{ID: 1, Title: "A", AmazonURL: "https://amazon.com/x"}}, int64(11), nil)

	items, total, err := svc.List(context.Background(), "launched", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, items, 1)
	assert.Equal(t, lifecycle.TabLaunched, items[0].Tab)

	_, _, err = svc.List(context.Background(), "sideways", 1, 10)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestSaveDescription_RejectsInvalidDocument(t *testing.T) {
	svc, repo, _, _ := newCampaignSvc()

	_, err := svc.SaveDescription(context.Background(), 7, blocks.Document{})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	repo.AssertNotCalled(t, "UpdateDescription", mock.Anything, mock.Anything)
}
