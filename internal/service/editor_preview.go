package service

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// PreviewScheme prefixes the placeholder URL an image shows while uploading
const PreviewScheme = "preview://"

// IsPreviewURL reports whether url is a local placeholder, never persisted storage
func IsPreviewURL(url string) bool {
	return strings.HasPrefix(url, PreviewScheme)
}

// previewRegistry tracks preview placeholders so each is released exactly once
type previewRegistry struct {
	mu   sync.Mutex
	live map[string]string // url -> file name
	// released keeps handed-out urls so a second release is detected
	released map[string]struct{}
}

func newPreviewRegistry() *previewRegistry {
	return &previewRegistry{
		live:     make(map[string]string),
		released: make(map[string]struct{}),
	}
}

// Create hands out a new preview url for a file
func (r *previewRegistry) Create(name string) string {
	url := PreviewScheme + uuid.NewString()
	r.mu.Lock()
	r.live[url] = name
	r.mu.Unlock()
	return url
}

// Release frees a preview. It returns false, and logs, when url was already
// released or never handed out by this registry.
func (r *previewRegistry) Release(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[url]; ok {
		delete(r.live, url)
		r.released[url] = struct{}{}
		return true
	}
	if _, ok := r.released[url]; ok {
		pkglogger.GetLogger().Warn().Str("preview", url).Msg("preview released twice")
	}
	return false
}

// Forget drops the release record of urls once nothing can refer to them
func (r *previewRegistry) Forget(urls []string) {
	r.mu.Lock()
	for _, url := range urls {
		delete(r.released, url)
	}
	r.mu.Unlock()
}

// Live returns the number of previews not yet released
func (r *previewRegistry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}
