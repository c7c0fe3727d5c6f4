package domain

import "github.com/ideafund/ideafund-backend/internal/blocks"

// Editor operations accepted by POST /admin/campaigns/:id/editor/ops
const (
	OpInsertText  = "insert_text"
	OpUpdateText  = "update_text"
	OpSplit       = "split"
	OpMerge       = "merge"
	OpRemove      = "remove"
	OpMoveUp      = "move_up"
	OpMoveDown    = "move_down"
	OpToggleWidth = "toggle_width"
	OpResize      = "resize"
)

// EditorOp is one structural edit. Fields are read according to Op.
type EditorOp struct {
	Op      string  `json:"op" validate:"required,oneof=insert_text update_text split merge remove move_up move_down toggle_width resize"`
	BlockID string  `json:"block_id"`
	AfterID string  `json:"after_id"`
	Content string  `json:"content"`
	Cursor  int     `json:"cursor" validate:"min=0"`
	Width   float64 `json:"width"`
}

// EditorState is returned after every editor request
type EditorState struct {
	CampaignID uint64          `json:"campaign_id"`
	Version    uint64          `json:"version"`
	Document   blocks.Document `json:"document"`
	Focus      *blocks.Focus   `json:"focus,omitempty"`
	Uploading  int             `json:"uploading"`
	Rejected   []RejectedFile  `json:"rejected,omitempty"`
}

// RejectedFile reports an image refused by validation
type RejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BlockStatusEvent is pushed over the WebSocket when an upload finishes
type BlockStatusEvent struct {
	CampaignID uint64        `json:"campaign_id"`
	BlockID    string        `json:"block_id"`
	Status     blocks.Status `json:"status"`
	URL        string        `json:"url,omitempty"`
	Error      string        `json:"error,omitempty"`
}
