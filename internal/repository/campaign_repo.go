package repository

import (
	"strings"

	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/lifecycle"
	"gorm.io/gorm"
)

// CampaignRepository campaign data access
type CampaignRepository interface {
	Create(c *domain.Campaign) error
	FindByID(id uint64) (*domain.Campaign, error)
	FindByIDs(ids []uint64) ([]*domain.Campaign, error)
	// List returns campaigns in tab, newest first. An empty tab lists all.
	List(tab lifecycle.Tab, page, limit int) ([]*domain.Campaign, int64, error)
	// SearchLike is the SQL fallback used when Elasticsearch is disabled.
	// An empty tab searches every tab.
	SearchLike(query string, tab lifecycle.Tab, page, limit int) ([]*domain.Campaign, int64, error)
	FindAll() ([]*domain.Campaign, error)
	ExistsForSubmission(submissionID uint64) (bool, error)
	UpdateLifecycle(c *domain.Campaign) error
	UpdateDescription(id uint64, description string) error
	// Delete removes the campaign and its votes
	Delete(id uint64) error
}

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(c *domain.Campaign) error {
	if c.Status == "" {
		c.Status = lifecycle.StatusLive
	}
	return r.db.Create(c).Error
}

func (r *campaignRepository) FindByID(id uint64) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := r.db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *campaignRepository) FindByIDs(ids []uint64) ([]*domain.Campaign, error) {
	var rows []*domain.Campaign
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

const launchedCond = "(TRIM(COALESCE(amazon_url, '')) <> '' OR TRIM(COALESCE(website_url, '')) <> '')"

// scopeTab mirrors lifecycle.TabOf in SQL
func scopeTab(q *gorm.DB, tab lifecycle.Tab) *gorm.DB {
	switch tab {
	case lifecycle.TabArchived:
		return q.Where("is_archived = ?", true)
	case lifecycle.TabLaunched:
		return q.Where("is_archived = ?", false).Where(launchedCond)
	case lifecycle.TabKickstarter:
		return q.Where("is_archived = ?", false).Where("NOT " + launchedCond).
			Where("status = ?", lifecycle.StatusKickstarter)
	case lifecycle.TabGoalReached:
		return q.Where("is_archived = ?", false).Where("NOT " + launchedCond).
			Where("status = ?", lifecycle.StatusGoalReached)
	case lifecycle.TabLive:
		return q.Where("is_archived = ?", false).Where("NOT " + launchedCond).
			Where("COALESCE(status, '') NOT IN ?", []string{lifecycle.StatusKickstarter, lifecycle.StatusGoalReached})
	default:
		return q
	}
}

func (r *campaignRepository) List(tab lifecycle.Tab, page, limit int) ([]*domain.Campaign, int64, error) {
	var rows []*domain.Campaign
	var total int64

	if err := scopeTab(r.db.Model(&domain.Campaign{}), tab).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := scopeTab(r.db, tab).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *campaignRepository) SearchLike(query string, tab lifecycle.Tab, page, limit int) ([]*domain.Campaign, int64, error) {
	var rows []*domain.Campaign
	var total int64

	pattern := "%" + escapeLike(query) + "%"
	cond := "(title LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!')"

	if err := scopeTab(r.db.Model(&domain.Campaign{}), tab).Where(cond, pattern, pattern).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := scopeTab(r.db, tab).Where(cond, pattern, pattern).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func (r *campaignRepository) FindAll() ([]*domain.Campaign, error) {
	var rows []*domain.Campaign
	err := r.db.Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *campaignRepository) ExistsForSubmission(submissionID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Campaign{}).Where("submission_id = ?", submissionID).Count(&count).Error
	return count > 0, err
}

func (r *campaignRepository) UpdateLifecycle(c *domain.Campaign) error {
	res := r.db.Model(&domain.Campaign{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"status":          c.Status,
		"is_archived":     c.IsArchived,
		"kickstarter_url": c.KickstarterURL,
		"amazon_url":      c.AmazonURL,
		"website_url":     c.WebsiteURL,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *campaignRepository) UpdateDescription(id uint64, description string) error {
	res := r.db.Model(&domain.Campaign{}).Where("id = ?", id).Update("description", description)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *campaignRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&domain.Vote{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Campaign{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
