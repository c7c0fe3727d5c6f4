package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ideafund/ideafund-backend/internal/blocks"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/lifecycle"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/pkg/cache"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// CampaignService campaign catalogue and lifecycle
type CampaignService interface {
	Create(ctx context.Context, adminID uint64, req *domain.CreateCampaignRequest) (*domain.CampaignResponse, error)
	// List returns one page of a tab; an empty tab lists every campaign
	List(ctx context.Context, tab string, page, limit int) ([]*domain.CampaignSummary, int64, error)
	Get(id uint64) (*domain.CampaignResponse, error)
	// Load returns the stored row, description unparsed
	Load(id uint64) (*domain.Campaign, error)
	Actions(id uint64) (*domain.ActionsResponse, error)
	// Transition applies a lifecycle action, persists it and returns the
	// campaign as stored afterwards
	Transition(ctx context.Context, id uint64, action lifecycle.Action, req *domain.TransitionRequest) (*domain.CampaignResponse, error)
	Delete(ctx context.Context, id uint64) error
	SaveDescription(ctx context.Context, id uint64, doc blocks.Document) (*domain.CampaignResponse, error)
	// InvalidateLists drops cached list pages after reservations change
	InvalidateLists(ctx context.Context)
}

type campaignService struct {
	repo        repository.CampaignRepository
	submissions repository.SubmissionRepository
	search      SearchService
	lists       cache.Service
}

// NewCampaignService creates a new CampaignService. search and lists may be nil.
func NewCampaignService(repo repository.CampaignRepository, submissions repository.SubmissionRepository, search SearchService, lists cache.Service) CampaignService {
	return &campaignService{
		repo:        repo,
		submissions: submissions,
		search:      search,
		lists:       lists,
	}
}

// campaignPage is the cached shape of one list page
type campaignPage struct {
	Items []*domain.CampaignSummary `json:"items"`
	Total int64                     `json:"total"`
}

func (s *campaignService) Create(ctx context.Context, adminID uint64, req *domain.CreateCampaignRequest) (*domain.CampaignResponse, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	if req.SubmissionID != nil {
		if err := s.checkSubmission(*req.SubmissionID); err != nil {
			return nil, err
		}
	}

	// 레거시 텍스트도 블록 문서로 정규화해서 저장
	description, err := blocks.Marshal(blocks.Parse(req.Description))
	if err != nil {
		return nil, common.NewValidation("error.validation", err)
	}

	c := &domain.Campaign{
		SubmissionID:    req.SubmissionID,
		Title:           strings.TrimSpace(req.Title),
		Description:     description,
		ImageURL:        req.ImageURL,
		Status:          lifecycle.StatusLive,
		ReservationGoal: req.ReservationGoal,
		CreatedBy:       adminID,
	}
	if err := s.repo.Create(c); err != nil {
		return nil, common.NewPersistence(err)
	}

	s.changed(ctx, c)
	return c.ToResponse(), nil
}

func (s *campaignService) checkSubmission(id uint64) error {
	sub, err := s.submissions.FindByID(id)
	if err != nil {
		return repoError(err, "submission.not_found")
	}
	if sub.Status != domain.SubmissionApproved {
		return common.NewValidation("submission.not_approved", nil)
	}
	used, err := s.repo.ExistsForSubmission(id)
	if err != nil {
		return common.NewPersistence(err)
	}
	if used {
		return common.NewConflict("submission.already_used", nil)
	}
	return nil
}

func (s *campaignService) List(ctx context.Context, tab string, page, limit int) ([]*domain.CampaignSummary, int64, error) {
	var t lifecycle.Tab
	if tab != "" {
		parsed, ok := lifecycle.ParseTab(tab)
		if !ok {
			return nil, 0, common.NewValidation("error.validation", errors.New("unknown tab "+tab))
		}
		t = parsed
	}
	page, limit = normalizePage(page, limit)

	if s.cacheAvailable() {
		if data, err := s.lists.GetCampaigns(ctx, string(t), page, limit); err == nil {
			var cached campaignPage
			if json.Unmarshal(data, &cached) == nil {
				return cached.Items, cached.Total, nil
			}
		}
	}

	rows, total, err := s.repo.List(t, page, limit)
	if err != nil {
		return nil, 0, common.NewPersistence(err)
	}
	items := summaries(rows)

	if s.cacheAvailable() {
		if err := s.lists.SetCampaigns(ctx, string(t), page, limit, campaignPage{Items: items, Total: total}); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("campaign list cache write failed")
		}
	}
	return items, total, nil
}

func (s *campaignService) Get(id uint64) (*domain.CampaignResponse, error) {
	c, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	return c.ToResponse(), nil
}

func (s *campaignService) Load(id uint64) (*domain.Campaign, error) {
	c, err := s.repo.FindByID(id)
	if err != nil {
		return nil, repoError(err, "campaign.not_found")
	}
	return c, nil
}

func (s *campaignService) Actions(id uint64) (*domain.ActionsResponse, error) {
	c, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	snap := c.Snapshot()
	return &domain.ActionsResponse{
		CampaignID: c.ID,
		Tab:        lifecycle.TabOf(snap),
		Actions:    lifecycle.AvailableActions(snap),
	}, nil
}

func (s *campaignService) Transition(ctx context.Context, id uint64, action lifecycle.Action, req *domain.TransitionRequest) (*domain.CampaignResponse, error) {
	if action == lifecycle.ActionDelete {
		return nil, s.Delete(ctx, id)
	}
	if req == nil {
		req = &domain.TransitionRequest{}
	}
	if err := common.Validate(req); err != nil {
		return nil, err
	}
	for _, u := range []string{req.KickstarterURL, req.AmazonURL, req.WebsiteURL} {
		if err := common.ValidateExternalURL(u); err != nil {
			return nil, err
		}
	}

	c, err := s.Load(id)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.Apply(c.Snapshot(), action, lifecycle.Params{
		KickstarterURL: req.KickstarterURL,
		AmazonURL:      req.AmazonURL,
		WebsiteURL:     req.WebsiteURL,
	})
	if err != nil {
		return nil, transitionError(err)
	}

	c.ApplySnapshot(next)
	if err := s.repo.UpdateLifecycle(c); err != nil {
		return nil, repoError(err, "campaign.not_found")
	}

	// 저장된 상태를 다시 읽어 반환
	stored, err := s.Load(id)
	if err != nil {
		return nil, err
	}

	log := pkglogger.WithCampaign(id)
	log.Info().Str("action", string(action)).Str("tab", string(lifecycle.TabOf(stored.Snapshot()))).Msg("campaign transition")

	s.changed(ctx, stored)
	return stored.ToResponse(), nil
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrGoalNotReached):
		return common.NewValidation("campaign.goal_not_met", err)
	case errors.Is(err, lifecycle.ErrLaunchURLRequired):
		return common.NewValidation("campaign.urls_required", err)
	default:
		return common.NewConflict("campaign.action_invalid", err)
	}
}

// Delete removes the campaign and its votes permanently
func (s *campaignService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(id); err != nil {
		return repoError(err, "campaign.not_found")
	}

	log := pkglogger.WithCampaign(id)
	log.Info().Msg("campaign deleted")

	if s.search != nil {
		s.search.Remove(ctx, id)
	}
	s.InvalidateLists(ctx)
	return nil
}

func (s *campaignService) SaveDescription(ctx context.Context, id uint64, doc blocks.Document) (*domain.CampaignResponse, error) {
	if err := doc.Validate(); err != nil {
		return nil, common.NewValidation("error.validation", err)
	}
	description, err := blocks.Marshal(doc)
	if err != nil {
		return nil, common.NewValidation("error.validation", err)
	}
	if err := s.repo.UpdateDescription(id, description); err != nil {
		return nil, repoError(err, "campaign.not_found")
	}

	stored, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, stored)
	return stored.ToResponse(), nil
}

func (s *campaignService) InvalidateLists(ctx context.Context) {
	if !s.cacheAvailable() {
		return
	}
	if err := s.lists.InvalidateCampaigns(ctx); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("campaign list cache invalidation failed")
	}
}

func (s *campaignService) cacheAvailable() bool {
	return s.lists != nil && s.lists.IsAvailable()
}

// changed refreshes the search index and list caches after a write
func (s *campaignService) changed(ctx context.Context, c *domain.Campaign) {
	if s.search != nil {
		s.search.Index(ctx, c)
	}
	s.InvalidateLists(ctx)
}
