package service

import (
	"errors"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/ws"
	"gorm.io/gorm"
)

// Notifier pushes real-time events to a signed-in user. *ws.Hub implements it.
type Notifier interface {
	SendToUser(userID uint64, event *ws.Event)
}

type nopNotifier struct{}

func (nopNotifier) SendToUser(uint64, *ws.Event) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// repoError maps a repository error: record-not-found becomes a not_found
// AppError with notFoundKey, anything else a persistence error.
func repoError(err error, notFoundKey string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NewNotFound(notFoundKey)
	}
	return common.NewPersistence(err)
}

// normalizePage applies the list defaults used by every paginated service call
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
