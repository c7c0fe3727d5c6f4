package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/blocks"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/service"
)

// MediaHandler handles standalone image uploads (submission images)
type MediaHandler struct {
	media *service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadImage handles POST /api/v1/media/images
// @Summary 이미지 업로드
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "이미지 (최대 5MB)"
// @Success 201 {object} common.V2Response{data=service.MediaUploadResult}
// @Failure 400 {object} common.V2Response
// @Failure 502 {object} common.V2Response
// @Router /media/images [post]
func (h *MediaHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		common.RespondError(c, common.NewValidation("error.bad_request", err))
		return
	}
	f, err := readFormImage(h.media, header)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	result, err := h.media.UploadImage(c.Request.Context(), service.UserImagePrefix(userID), f)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Created(c, result)
}

func readFormImage(media *service.MediaService, header *multipart.FileHeader) (blocks.File, error) {
	src, err := header.Open()
	if err != nil {
		return blocks.File{}, common.NewValidation("error.bad_request", err)
	}
	defer src.Close()
	return media.ReadImage(header.Filename, src)
}
