package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ideafund/ideafund-backend/internal/blocks"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/lifecycle"
	"github.com/ideafund/ideafund-backend/internal/repository"
	es "github.com/ideafund/ideafund-backend/pkg/elasticsearch"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// SearchIndex is the subset of the Elasticsearch client used for campaigns.
// *elasticsearch.Client implements it.
type SearchIndex interface {
	IndexDocument(ctx context.Context, index, docID string, body interface{}) error
	DeleteDocument(ctx context.Context, index, docID string) error
	BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}, from, size int) (*es.SearchResponse, error)
	CreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error
}

// SearchService campaign search: Elasticsearch when configured, SQL LIKE otherwise
type SearchService interface {
	Search(ctx context.Context, query string, tab lifecycle.Tab, page, limit int) ([]*domain.CampaignSummary, int64, error)
	// Index and Remove keep the index in sync; failures are logged only
	Index(ctx context.Context, c *domain.Campaign)
	Remove(ctx context.Context, id uint64)
	// Reindex rebuilds the whole index from the database
	Reindex(ctx context.Context) error
}

type searchService struct {
	index     SearchIndex
	campaigns repository.CampaignRepository
}

// NewSearchService creates a new SearchService. index may be nil.
func NewSearchService(index SearchIndex, campaigns repository.CampaignRepository) SearchService {
	return &searchService{index: index, campaigns: campaigns}
}

func toDocument(c *domain.Campaign) es.CampaignDocument {
	return es.CampaignDocument{
		ID:          c.ID,
		Title:       c.Title,
		Description: blocks.PlainText(blocks.Parse(c.Description)),
		Tab:         string(lifecycle.TabOf(c.Snapshot())),
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *searchService) Search(ctx context.Context, query string, tab lifecycle.Tab, page, limit int) ([]*domain.CampaignSummary, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, common.NewValidation("search.query_required", nil)
	}
	page, limit = normalizePage(page, limit)

	if s.index != nil {
		items, total, err := s.searchIndex(ctx, query, tab, page, limit)
		if err == nil {
			return items, total, nil
		}
		pkglogger.GetLogger().Warn().Err(err).Str("query", query).Msg("elasticsearch search failed, using SQL fallback")
	}

	rows, total, err := s.campaigns.SearchLike(query, tab, page, limit)
	if err != nil {
		return nil, 0, common.NewPersistence(err)
	}
	return summaries(rows), total, nil
}

func (s *searchService) searchIndex(ctx context.Context, query string, tab lifecycle.Tab, page, limit int) ([]*domain.CampaignSummary, int64, error) {
	resp, err := s.index.Search(ctx, es.CampaignsIndex, es.CampaignQuery(query, string(tab)), (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint64, 0, len(resp.Results))
	for _, hit := range resp.Results {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	rows, err := s.campaigns.FindByIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uint64]*domain.Campaign, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}

	// 점수 순서 유지, 인덱스에만 남은 문서는 건너뜀
	items := make([]*domain.CampaignSummary, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			items = append(items, c.ToSummary())
		}
	}
	return items, resp.Total, nil
}

func (s *searchService) Index(ctx context.Context, c *domain.Campaign) {
	if s.index == nil || c == nil {
		return
	}
	id := strconv.FormatUint(c.ID, 10)
	if err := s.index.IndexDocument(ctx, es.CampaignsIndex, id, toDocument(c)); err != nil {
		log := pkglogger.WithCampaign(c.ID)
		log.Warn().Err(err).Msg("campaign indexing failed")
	}
}

func (s *searchService) Remove(ctx context.Context, id uint64) {
	if s.index == nil {
		return
	}
	if err := s.index.DeleteDocument(ctx, es.CampaignsIndex, strconv.FormatUint(id, 10)); err != nil {
		log := pkglogger.WithCampaign(id)
		log.Warn().Err(err).Msg("campaign index removal failed")
	}
}

func (s *searchService) Reindex(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	if err := s.index.CreateIndex(ctx, es.CampaignsIndex, es.CampaignsMapping()); err != nil {
		return err
	}

	rows, err := s.campaigns.FindAll()
	if err != nil {
		return err
	}
	docs := make(map[string]interface{}, len(rows))
	for _, c := range rows {
		docs[strconv.FormatUint(c.ID, 10)] = toDocument(c)
	}
	if err := s.index.BulkIndex(ctx, es.CampaignsIndex, docs); err != nil {
		return err
	}

	pkglogger.GetLogger().Info().Int("count", len(docs)).Msg("campaign index rebuilt")
	return nil
}

func summaries(rows []*domain.Campaign) []*domain.CampaignSummary {
	out := make([]*domain.CampaignSummary, len(rows))
	for i, c := range rows {
		out[i] = c.ToSummary()
	}
	return out
}
