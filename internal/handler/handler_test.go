package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/middleware"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/internal/service"
	"github.com/ideafund/ideafund-backend/internal/testutil"
	"github.com/ideafund/ideafund-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser stands in for JWTAuth
func asUser(id uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) common.V2Response {
	t.Helper()
	var env common.V2Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func newCampaignRouter(t *testing.T) *gin.Engine {
	db := testutil.OpenDB(t)
	campaignRepo := repository.NewCampaignRepository(db)
	search := service.NewSearchService(nil, campaignRepo)
	h := NewCampaignHandler(service.NewCampaignService(campaignRepo, repository.NewSubmissionRepository(db), search, nil), search)

	r := gin.New()
	r.Use(middleware.I18n())
	r.GET("/campaigns/:id", h.Get)
	r.POST("/campaigns", asUser(1), h.Create)
	r.POST("/campaigns/:id/archive", h.Transition("archive"))
	return r
}

func TestCampaignHandler_ErrorEnvelope(t *testing.T) {
	r := newCampaignRouter(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"non numeric id", "/campaigns/abc", http.StatusBadRequest, "BAD_REQUEST"},
		{"zero id", "/campaigns/0", http.StatusBadRequest, "BAD_REQUEST"},
		{"missing campaign", "/campaigns/99", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestCampaignHandler_TransitionAcceptsEmptyBody(t *testing.T) {
	r := newCampaignRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader(`{"title":"Pocket drone","reservation_goal":5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/campaigns/1/archive", nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/campaigns/1/archive", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_UploadImage(t *testing.T) {
	store := storage.NewMemoryStorage("https://cdn.test")
	h := NewMediaHandler(service.NewMediaService(store, 1024, nil))

	r := gin.New()
	r.POST("/media/images", asUser(7), h.UploadImage)
	r.POST("/anonymous", h.UploadImage)

	upload := func(path, name string, data []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, path, &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

	w := upload("/media/images", "cat.png", png)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result service.MediaUploadResult
	env := decodeEnvelope(t, w)
	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, strings.HasPrefix(result.Key, "users/7/"), result.Key)
	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, 1, store.Len())

	w = upload("/media/images", "notes.txt", []byte("hello there"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload("/media/images", "big.png", append(png, bytes.Repeat([]byte{0}, 2048)...))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload("/anonymous", "cat.png", png)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 1, store.Len())
}

func TestEditorHandler_AddImagesRequiresFiles(t *testing.T) {
	h := NewEditorHandler(nil, service.NewMediaService(storage.NewMemoryStorage(""), 0, nil))

	r := gin.New()
	r.POST("/campaigns/:id/editor/images", asUser(1), h.AddImages)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("after_id", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/campaigns/1/editor/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}
