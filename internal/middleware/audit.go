package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/pkg/logger"
	"gorm.io/gorm"
)

// AuditLogger handles writing audit log entries
type AuditLogger struct {
	db *gorm.DB
}

// NewAuditLogger creates a new AuditLogger. A nil db disables auditing.
func NewAuditLogger(db *gorm.DB) *AuditLogger {
	return &AuditLogger{db: db}
}

// Log writes an audit entry. A failed write is logged, never returned.
func (a *AuditLogger) Log(ctx context.Context, entry *domain.AuditLog) {
	if a == nil || a.db == nil {
		return
	}
	if err := a.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.GetLogger().Error().Err(err).
			Str("action", entry.Action).
			Uint64("user_id", entry.UserID).
			Msg("audit log write failed")
	}
}

// List retrieves audit entries, newest first
func (a *AuditLogger) List(ctx context.Context, userID uint64, page, perPage int) ([]domain.AuditLog, int64, error) {
	var logs []domain.AuditLog
	var total int64

	query := a.db.WithContext(ctx).Model(&domain.AuditLog{})
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&logs).Error
	return logs, total, err
}

// Audit records every state-changing request that completed successfully.
// Mount after JWTAuth so the user is known.
func Audit(a *AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		a.Log(ctx, &domain.AuditLog{
			UserID:     GetUserID(c),
			Action:     c.Request.Method + " " + c.FullPath(),
			ResourceID: c.Param("id"),
			Status:     status,
			ClientIP:   c.ClientIP(),
			RequestID:  c.GetString(RequestIDKey),
		})
	}
}
