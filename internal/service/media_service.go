package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ideafund/ideafund-backend/internal/blocks"
	"github.com/ideafund/ideafund-backend/internal/common"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
	"github.com/ideafund/ideafund-backend/pkg/storage"
)

// UploadObserver receives the outcome of every object upload ("ok" or "error")
type UploadObserver func(outcome string, size int64, elapsed time.Duration)

// MediaService validates images and stores them in object storage
type MediaService struct {
	store   storage.ObjectStorage
	maxSize int64
	observe UploadObserver
}

// NewMediaService creates a new MediaService. maxSize <= 0 uses blocks.MaxImageBytes.
func NewMediaService(store storage.ObjectStorage, maxSize int64, observe UploadObserver) *MediaService {
	if maxSize <= 0 {
		maxSize = blocks.MaxImageBytes
	}
	return &MediaService{store: store, maxSize: maxSize, observe: observe}
}

// MediaUploadResult represents the result of an upload operation
type MediaUploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	CDNURL      string `json:"cdn_url,omitempty"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// MaxSize is the per-image limit in bytes
func (s *MediaService) MaxSize() int64 {
	return s.maxSize
}

// ReadImage reads an uploaded file into memory and sniffs its content type.
// At most maxSize+1 bytes are read so oversized files are detected without
// buffering them whole.
func (s *MediaService) ReadImage(name string, r io.Reader) (blocks.File, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return blocks.File{}, common.NewValidation("error.bad_request", err)
	}
	return blocks.File{
		Name:        name,
		ContentType: http.DetectContentType(data),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// UploadImage validates f and stores it under prefix
func (s *MediaService) UploadImage(ctx context.Context, prefix string, f blocks.File) (*MediaUploadResult, error) {
	if err := blocks.ValidateImage(f, s.maxSize); err != nil {
		if errors.Is(err, blocks.ErrTooLarge) {
			return nil, common.NewValidation("file.too_large", err)
		}
		return nil, common.NewValidation("file.type_not_allowed", err)
	}

	key := storage.GenerateKey(prefix, f.Name)
	start := time.Now()
	res, err := s.store.Upload(ctx, key, bytes.NewReader(f.Data), f.ContentType, int64(len(f.Data)))
	s.record(err, int64(len(f.Data)), time.Since(start))
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("image upload failed")
		return nil, common.NewUpload("file.upload_failed", err)
	}

	return &MediaUploadResult{
		Key:         res.Key,
		URL:         res.PreferredURL(),
		CDNURL:      res.CDNURL,
		Filename:    f.Name,
		ContentType: f.ContentType,
		Size:        res.Size,
	}, nil
}

// UserImagePrefix is where images uploaded outside the editor are stored
func UserImagePrefix(userID uint64) string {
	return fmt.Sprintf("users/%d", userID)
}

// CampaignImagePrefix is where editor images of a campaign are stored
func CampaignImagePrefix(campaignID uint64) string {
	return fmt.Sprintf("campaigns/%d", campaignID)
}

// Delete removes a stored object; a failure is logged and returned
func (s *MediaService) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("object delete failed")
		return err
	}
	return nil
}

func (s *MediaService) record(err error, size int64, elapsed time.Duration) {
	if s.observe == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.observe(outcome, size, elapsed)
}
