package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// V2Response 는 모든 API 응답의 공통 봉투
type V2Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *V2Meta     `json:"meta,omitempty"`
	Error   *V2Error    `json:"error,omitempty"`
}

// V2Meta carries list paging
type V2Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// V2Error is the error half of the envelope. Code is one of the upper-case
// codes from getErrorCode; Message is already translated.
type V2Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// NewV2Meta fills in total_pages; a zero total still reports zero pages
func NewV2Meta(page, perPage int, total int64) *V2Meta {
	if perPage < 1 {
		perPage = 1
	}
	per := int64(perPage)
	return &V2Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + per - 1) / per,
	}
}

func ok(c *gin.Context, status int, data interface{}, meta *V2Meta) {
	c.JSON(status, V2Response{Success: true, Data: data, Meta: meta})
}

// V2Success writes 200 with data
func V2Success(c *gin.Context, data interface{}) { ok(c, http.StatusOK, data, nil) }

// V2SuccessWithMeta writes 200 with a page of data
func V2SuccessWithMeta(c *gin.Context, data interface{}, meta *V2Meta) {
	ok(c, http.StatusOK, data, meta)
}

// V2Created writes 201 with the created resource
func V2Created(c *gin.Context, data interface{}) { ok(c, http.StatusCreated, data, nil) }

// V2Accepted writes 202 for work that continues after the response
func V2Accepted(c *gin.Context, data interface{}) { ok(c, http.StatusAccepted, data, nil) }

// V2NoContent acknowledges without a body; clients expect 200 with success=true
func V2NoContent(c *gin.Context) { ok(c, http.StatusOK, nil, nil) }
