package domain

import (
	"time"

	"github.com/ideafund/ideafund-backend/internal/blocks"
	"github.com/ideafund/ideafund-backend/internal/lifecycle"
)

// Campaign is a fundable idea collecting reservations (votes).
// Description stores the block document as JSON; the listing tab is derived
// from the other fields on every read and never stored.
// Table: campaigns
type Campaign struct {
	ID                  uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubmissionID        *uint64   `gorm:"column:submission_id;uniqueIndex" json:"submission_id,omitempty"`
	Title               string    `gorm:"column:title;size:200" json:"title"`
	Description         string    `gorm:"column:description;type:text" json:"-"`
	ImageURL            string    `gorm:"column:image_url;size:500" json:"image_url,omitempty"`
	Status              string    `gorm:"column:status;size:16;default:live;index" json:"status"`
	IsArchived          bool      `gorm:"column:is_archived;default:false;index" json:"is_archived"`
	CurrentReservations int64     `gorm:"column:current_reservations;default:0" json:"current_reservations"`
	ReservationGoal     int64     `gorm:"column:reservation_goal" json:"reservation_goal"`
	KickstarterURL      string    `gorm:"column:kickstarter_url;size:500" json:"kickstarter_url,omitempty"`
	AmazonURL           string    `gorm:"column:amazon_url;size:500" json:"amazon_url,omitempty"`
	WebsiteURL          string    `gorm:"column:website_url;size:500" json:"website_url,omitempty"`
	CreatedBy           uint64    `gorm:"column:created_by" json:"created_by"`
	CreatedAt           time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}

// Snapshot returns the fields the lifecycle rules look at
func (c *Campaign) Snapshot() lifecycle.Snapshot {
	return lifecycle.Snapshot{
		Status:              c.Status,
		IsArchived:          c.IsArchived,
		CurrentReservations: c.CurrentReservations,
		ReservationGoal:     c.ReservationGoal,
		KickstarterURL:      c.KickstarterURL,
		AmazonURL:           c.AmazonURL,
		WebsiteURL:          c.WebsiteURL,
	}
}

// ApplySnapshot copies lifecycle-owned fields back onto the row
func (c *Campaign) ApplySnapshot(s lifecycle.Snapshot) {
	c.Status = s.Status
	c.IsArchived = s.IsArchived
	c.KickstarterURL = s.KickstarterURL
	c.AmazonURL = s.AmazonURL
	c.WebsiteURL = s.WebsiteURL
}

// CreateCampaignRequest is the admin campaign form. Description is either a
// block array or legacy plain text.
type CreateCampaignRequest struct {
	Title           string  `json:"title" validate:"required,min=3,max=200"`
	ReservationGoal int64   `json:"reservation_goal" validate:"required,min=1"`
	Description     string  `json:"description" validate:"max=200000"`
	ImageURL        string  `json:"image_url" validate:"omitempty,url,max=500"`
	SubmissionID    *uint64 `json:"submission_id" validate:"omitempty,min=1"`
}

// TransitionRequest carries optional URLs for lifecycle actions
type TransitionRequest struct {
	KickstarterURL string `json:"kickstarter_url" validate:"omitempty,url,max=500"`
	AmazonURL      string `json:"amazon_url" validate:"omitempty,url,max=500"`
	WebsiteURL     string `json:"website_url" validate:"omitempty,url,max=500"`
}

// CampaignResponse is the API response format for a campaign
type CampaignResponse struct {
	ID                  uint64          `json:"id"`
	SubmissionID        *uint64         `json:"submission_id,omitempty"`
	Title               string          `json:"title"`
	Description         blocks.Document `json:"description"`
	ImageURL            string          `json:"image_url,omitempty"`
	Status              string          `json:"status"`
	Tab                 lifecycle.Tab   `json:"tab"`
	IsArchived          bool            `json:"is_archived"`
	CurrentReservations int64           `json:"current_reservations"`
	ReservationGoal     int64           `json:"reservation_goal"`
	GoalReached         bool            `json:"goal_reached"`
	KickstarterURL      string          `json:"kickstarter_url,omitempty"`
	AmazonURL           string          `json:"amazon_url,omitempty"`
	WebsiteURL          string          `json:"website_url,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// CampaignSummary is a list item; the description is reduced to plain text
type CampaignSummary struct {
	ID                  uint64        `json:"id"`
	Title               string        `json:"title"`
	Excerpt             string        `json:"excerpt"`
	ImageURL            string        `json:"image_url,omitempty"`
	Tab                 lifecycle.Tab `json:"tab"`
	CurrentReservations int64         `json:"current_reservations"`
	ReservationGoal     int64         `json:"reservation_goal"`
	CreatedAt           time.Time     `json:"created_at"`
}

// ToResponse converts Campaign to CampaignResponse, parsing the description
func (c *Campaign) ToResponse() *CampaignResponse {
	snap := c.Snapshot()
	status := c.Status
	if status == "" {
		status = lifecycle.StatusLive
	}
	return &CampaignResponse{
		ID:                  c.ID,
		SubmissionID:        c.SubmissionID,
		Title:               c.Title,
		Description:         blocks.Parse(c.Description),
		ImageURL:            c.ImageURL,
		Status:              status,
		Tab:                 lifecycle.TabOf(snap),
		IsArchived:          c.IsArchived,
		CurrentReservations: c.CurrentReservations,
		ReservationGoal:     c.ReservationGoal,
		GoalReached:         lifecycle.GoalReached(snap),
		KickstarterURL:      c.KickstarterURL,
		AmazonURL:           c.AmazonURL,
		WebsiteURL:          c.WebsiteURL,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

const excerptRunes = 200

// ToSummary converts Campaign to a list item
func (c *Campaign) ToSummary() *CampaignSummary {
	excerpt := []rune(blocks.PlainText(blocks.Parse(c.Description)))
	if len(excerpt) > excerptRunes {
		excerpt = append(excerpt[:excerptRunes], '…')
	}
	return &CampaignSummary{
		ID:                  c.ID,
		Title:               c.Title,
		Excerpt:             string(excerpt),
		ImageURL:            c.ImageURL,
		Tab:                 lifecycle.TabOf(c.Snapshot()),
		CurrentReservations: c.CurrentReservations,
		ReservationGoal:     c.ReservationGoal,
		CreatedAt:           c.CreatedAt,
	}
}

// ActionsResponse lists the lifecycle actions currently offered
type ActionsResponse struct {
	CampaignID uint64             `json:"campaign_id"`
	Tab        lifecycle.Tab      `json:"tab"`
	Actions    []lifecycle.Action `json:"actions"`
}
