package blocks

import (
	"errors"
	"fmt"
	"strings"
)

// MaxImageBytes is the default upload limit for one image
const MaxImageBytes int64 = 5 << 20

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("file exceeds the size limit")
)

// File is an image the user dropped into the editor
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// ValidationError rejects one file of a batch
type ValidationError struct {
	File string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UploadTask is one pending upload. The uploader must report its outcome
// through CompleteUpload or FailUpload with BlockID.
type UploadTask struct {
	BlockID string
	Preview string
	File    File
}

// ImageOptions configures InsertImages
type ImageOptions struct {
	// MaxBytes defaults to MaxImageBytes
	MaxBytes int64
	// Preview returns the local URL shown while the file uploads
	Preview func(File) string
}

// ValidateImage checks the file type and size
func ValidateImage(f File, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = MaxImageBytes
	}
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return &ValidationError{File: f.Name, Err: ErrNotImage}
	}
	if f.Size > maxBytes {
		return &ValidationError{File: f.Name, Err: ErrTooLarge}
	}
	return nil
}

// InsertImages validates files and inserts one uploading image block per
// valid file, consecutively after afterID (or at the end), keeping the order
// of files. Invalid files are reported and skipped without affecting the rest
// of the batch. All placeholders are in the returned document before any
// task is handed out.
func InsertImages(doc Document, afterID string, files []File, opts ImageOptions) (Document, []UploadTask, []*ValidationError) {
	var (
		placeholders []Block
		tasks        []UploadTask
		rejected     []*ValidationError
	)

	for _, f := range files {
		if err := ValidateImage(f, opts.MaxBytes); err != nil {
			var verr *ValidationError
			errors.As(err, &verr)
			rejected = append(rejected, verr)
			continue
		}

		preview := ""
		if opts.Preview != nil {
			preview = opts.Preview(f)
		}
		b := NewImage(preview)
		placeholders = append(placeholders, b)
		tasks = append(tasks, UploadTask{BlockID: b.ID, Preview: preview, File: f})
	}

	if len(placeholders) == 0 {
		return doc, nil, rejected
	}
	return insertAfter(doc, afterID, placeholders...), tasks, rejected
}

// CompleteUpload swaps the preview URL for the stored one and marks the block
// complete. ok is false, and the document unchanged, when the block is gone or
// no longer uploading; the caller then owns the result.
func CompleteUpload(doc Document, id, url string) (Document, bool) {
	i := uploadingIndex(doc, id)
	if i < 0 {
		return doc, false
	}
	out := doc.Clone()
	out[i].URL = url
	out[i].Status = StatusComplete
	return out, true
}

// FailUpload marks an uploading block failed. Same no-op rules as CompleteUpload.
func FailUpload(doc Document, id string) (Document, bool) {
	i := uploadingIndex(doc, id)
	if i < 0 {
		return doc, false
	}
	out := doc.Clone()
	out[i].Status = StatusFailed
	return out, true
}

func uploadingIndex(doc Document, id string) int {
	i := doc.Index(id)
	if i < 0 || !doc[i].IsImage() || doc[i].Status != StatusUploading {
		return -1
	}
	return i
}
