package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// SignUp handles POST /api/v1/auth/signup
// @Summary 회원가입
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.SignUpRequest true "가입 정보"
// @Success 201 {object} common.V2Response{data=domain.UserResponse}
// @Failure 409 {object} common.V2Response
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.SignUp(&req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Created(c, user)
}

// SignIn handles POST /api/v1/auth/signin
// @Summary 로그인
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.SignInRequest true "로그인 정보"
// @Success 200 {object} common.V2Response{data=domain.TokenResponse}
// @Failure 401 {object} common.V2Response
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req domain.SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.service.SignIn(&req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, tokens)
}

// Refresh handles POST /api/v1/auth/refresh
// @Summary 토큰 재발급
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RefreshRequest true "refresh 토큰"
// @Success 200 {object} common.V2Response{data=domain.TokenResponse}
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.service.Refresh(&req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, tokens)
}

// Me handles GET /api/v1/auth/me
// @Summary 내 정보
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.V2Response{data=domain.UserResponse}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.service.Me(userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, user)
}
