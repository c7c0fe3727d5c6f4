package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/handler"
	"github.com/ideafund/ideafund-backend/internal/lifecycle"
	"github.com/ideafund/ideafund-backend/internal/middleware"
	"github.com/ideafund/ideafund-backend/pkg/jwt"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Auth       *handler.AuthHandler
	Coin       *handler.CoinHandler
	Submission *handler.SubmissionHandler
	Campaign   *handler.CampaignHandler
	Vote       *handler.VoteHandler
	Message    *handler.MessageHandler
	Media      *handler.MediaHandler
	Editor     *handler.EditorHandler
	WS         *handler.WSHandler
}

// Setup configures all API routes under /api/v1 plus the /ws endpoint.
// extra runs on /api/v1 before any route (rate limiting).
func Setup(router *gin.Engine, h *Handlers, jwtManager *jwt.Manager, audit *middleware.AuditLogger, extra ...gin.HandlerFunc) {
	auth := middleware.JWTAuth(jwtManager)

	router.GET("/ws", auth, h.WS.Connect)

	api := router.Group("/api/v1", extra...)

	// 인증
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", h.Auth.SignUp)
	authGroup.POST("/signin", h.Auth.SignIn)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.GET("/me", auth, h.Auth.Me)

	// 코인
	coins := api.Group("/coins", auth)
	coins.GET("/balance", h.Coin.Balance)
	coins.GET("/history", h.Coin.History)

	// 아이디어 제출
	submissions := api.Group("/submissions", auth)
	submissions.POST("", h.Submission.Create)
	submissions.GET("/mine", h.Submission.ListMine)

	// 캠페인 (공개)
	campaigns := api.Group("/campaigns")
	campaigns.GET("", h.Campaign.List)
	campaigns.GET("/search", h.Campaign.Search)
	campaigns.GET("/:id", h.Campaign.Get)
	campaigns.POST("/:id/votes", auth, h.Vote.Vote)

	api.GET("/me/supports", auth, h.Vote.MySupports)

	// 쪽지
	messages := api.Group("/messages", auth)
	messages.GET("", h.Message.Inbox)
	messages.GET("/unread-count", h.Message.UnreadCount)
	messages.POST("/:id/read", h.Message.MarkRead)

	api.POST("/media/images", auth, h.Media.UploadImage)

	// 관리자
	admin := api.Group("/admin", auth, middleware.RequireAdmin(), middleware.Audit(audit))
	admin.GET("/submissions", h.Submission.ListByStatus)
	admin.POST("/submissions/:id/review", h.Submission.Review)
	admin.POST("/users/:id/coins", h.Coin.Adjust)
	admin.POST("/messages", h.Message.Send)

	adminCampaigns := admin.Group("/campaigns")
	adminCampaigns.POST("", h.Campaign.Create)
	adminCampaigns.DELETE("/:id", h.Campaign.Delete)
	adminCampaigns.GET("/:id/actions", h.Campaign.Actions)
	adminCampaigns.POST("/:id/goal-reached", h.Campaign.Transition(lifecycle.ActionMarkGoalReached))
	adminCampaigns.POST("/:id/kickstarter", h.Campaign.Transition(lifecycle.ActionMoveToKickstarter))
	adminCampaigns.POST("/:id/live", h.Campaign.Transition(lifecycle.ActionMoveBackToLive))
	adminCampaigns.POST("/:id/launch", h.Campaign.Transition(lifecycle.ActionSetLaunchURLs))
	adminCampaigns.POST("/:id/archive", h.Campaign.Transition(lifecycle.ActionArchive))
	adminCampaigns.POST("/:id/restore", h.Campaign.Transition(lifecycle.ActionRestore))

	// 설명 편집 세션
	editor := adminCampaigns.Group("/:id/editor")
	editor.POST("", h.Editor.Open)
	editor.GET("", h.Editor.State)
	editor.DELETE("", h.Editor.Close)
	editor.POST("/ops", h.Editor.Apply)
	editor.POST("/images", h.Editor.AddImages)
	editor.POST("/save", h.Editor.Save)
}
