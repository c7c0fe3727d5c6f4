// Package blocks implements the campaign description document: an ordered
// sequence of text and image blocks, the structural edits applied to it by the
// editor, and its JSON persisted form.
//
// Every operation takes a Document and returns a new one; the input is never
// mutated, so a caller may keep the previous version while a newer one is built.
package blocks

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Type is the block variant
type Type string

const (
	TypeText  Type = "text"
	TypeImage Type = "image"
)

// Status is the upload state of an image block.
// It only moves uploading → complete or uploading → failed.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusFailed    Status = "failed"
	StatusComplete  Status = "complete"
)

// Image widths, as a percentage of the container
const (
	MinWidth  = 20.0
	MaxWidth  = 100.0
	HalfWidth = 50.0
)

// Block is one node of a Document. Content is used by text blocks;
// URL, Width and Status by image blocks.
type Block struct {
	ID      string
	Type    Type
	Content string
	URL     string
	Width   float64
	Status  Status
}

// Document is an ordered list of blocks. A valid document is never empty.
type Document []Block

// Focus tells the client where to put the caret after an edit. Offset is in runes.
type Focus struct {
	BlockID string `json:"block_id"`
	Offset  int    `json:"offset"`
}

func newID() string {
	return uuid.NewString()
}

// NewText returns a text block with a fresh id
func NewText(content string) Block {
	return Block{ID: newID(), Type: TypeText, Content: content}
}

// NewImage returns a full-width image block in the uploading state
func NewImage(url string) Block {
	return Block{ID: newID(), Type: TypeImage, URL: url, Width: MaxWidth, Status: StatusUploading}
}

// New returns the minimal document: one empty text block
func New() Document {
	return Document{NewText("")}
}

// IsText reports whether b is a text block
func (b Block) IsText() bool { return b.Type == TypeText }

// IsImage reports whether b is an image block
func (b Block) IsImage() bool { return b.Type == TypeImage }

// ClampWidth limits w to [MinWidth, MaxWidth]. NaN is treated as MaxWidth.
func ClampWidth(w float64) float64 {
	if math.IsNaN(w) {
		return MaxWidth
	}
	return math.Max(MinWidth, math.Min(MaxWidth, w))
}

// Index returns the position of the block with id, or -1
func (d Document) Index(id string) int {
	for i := range d {
		if d[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the block with id
func (d Document) Find(id string) (Block, bool) {
	if i := d.Index(id); i >= 0 {
		return d[i], true
	}
	return Block{}, false
}

// Clone returns a copy that shares nothing with d
func (d Document) Clone() Document {
	out := make(Document, len(d))
	copy(out, d)
	return out
}

// UploadingIDs returns the ids of image blocks still uploading, in document order
func (d Document) UploadingIDs() []string {
	var ids []string
	for _, b := range d {
		if b.IsImage() && b.Status == StatusUploading {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// Validate reports the first broken document invariant, if any
func (d Document) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("document is empty")
	}
	seen := make(map[string]struct{}, len(d))
	for i, b := range d {
		if b.ID == "" {
			return fmt.Errorf("block %d has no id", i)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("duplicate block id %q", b.ID)
		}
		seen[b.ID] = struct{}{}

		switch b.Type {
		case TypeText:
		case TypeImage:
			if b.Width < MinWidth || b.Width > MaxWidth {
				return fmt.Errorf("block %q width %v out of range", b.ID, b.Width)
			}
			switch b.Status {
			case StatusUploading, StatusFailed, StatusComplete:
			default:
				return fmt.Errorf("block %q has unknown status %q", b.ID, b.Status)
			}
		default:
			return fmt.Errorf("block %q has unknown type %q", b.ID, b.Type)
		}
	}
	return nil
}

type textJSON struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	Content string `json:"content"`
}

type imageJSON struct {
	ID     string  `json:"id"`
	Type   Type    `json:"type"`
	URL    string  `json:"url"`
	Width  float64 `json:"width"`
	Status Status  `json:"status"`
}

// MarshalJSON writes only the fields of the block's variant
func (b Block) MarshalJSON() ([]byte, error) {
	if b.Type == TypeImage {
		return json.Marshal(imageJSON{ID: b.ID, Type: b.Type, URL: b.URL, Width: b.Width, Status: b.Status})
	}
	return json.Marshal(textJSON{ID: b.ID, Type: b.Type, Content: b.Content})
}

// UnmarshalJSON reads either variant. Missing image width and status get
// MaxWidth and StatusComplete, which is how images saved before those
// fields existed are displayed.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string   `json:"id"`
		Type    Type     `json:"type"`
		Content string   `json:"content"`
		URL     string   `json:"url"`
		Width   *float64 `json:"width"`
		Status  Status   `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Block{ID: raw.ID, Type: raw.Type}
	switch raw.Type {
	case TypeImage:
		b.URL = raw.URL
		b.Width = MaxWidth
		if raw.Width != nil {
			b.Width = *raw.Width
		}
		b.Status = raw.Status
		if b.Status == "" {
			b.Status = StatusComplete
		}
	default:
		b.Content = raw.Content
	}
	return nil
}
