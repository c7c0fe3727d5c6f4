package service

import (
	"context"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/internal/ws"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// MessageService admin-to-user messages
type MessageService interface {
	Send(ctx context.Context, senderID uint64, req *domain.SendMessageRequest) (*domain.MessageResponse, error)
	Inbox(userID uint64, page, limit int) ([]*domain.MessageResponse, int64, error)
	UnreadCount(userID uint64) (int64, error)
	MarkRead(ctx context.Context, id, userID uint64) error
}

type messageService struct {
	repo     repository.MessageRepository
	userRepo repository.UserRepository
	notifier Notifier
}

// NewMessageService creates a new MessageService. notifier may be nil.
func NewMessageService(repo repository.MessageRepository, userRepo repository.UserRepository, notifier Notifier) MessageService {
	return &messageService{
		repo:     repo,
		userRepo: userRepo,
		notifier: notifierOrNop(notifier),
	}
}

// Send stores the message and pushes it to the recipient if connected
func (s *messageService) Send(ctx context.Context, senderID uint64, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	// 수신자 존재 확인
	if _, err := s.userRepo.FindByID(req.RecipientID); err != nil {
		return nil, repoError(err, "error.not_found")
	}

	msg := &domain.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Body:        req.Body,
	}
	if err := s.repo.Create(msg); err != nil {
		return nil, common.NewPersistence(err)
	}

	resp := msg.ToResponse()
	s.notifier.SendToUser(msg.RecipientID, &ws.Event{Type: ws.EventMessageNew, Payload: resp})
	s.pushUnread(msg.RecipientID)
	return resp, nil
}

func (s *messageService) Inbox(userID uint64, page, limit int) ([]*domain.MessageResponse, int64, error) {
	page, limit = normalizePage(page, limit)
	rows, total, err := s.repo.FindInbox(userID, page, limit)
	if err != nil {
		return nil, 0, common.NewPersistence(err)
	}

	out := make([]*domain.MessageResponse, len(rows))
	for i, m := range rows {
		out[i] = m.ToResponse()
	}
	return out, total, nil
}

func (s *messageService) UnreadCount(userID uint64) (int64, error) {
	n, err := s.repo.CountUnread(userID)
	if err != nil {
		return 0, common.NewPersistence(err)
	}
	return n, nil
}

// MarkRead marks one of the user's own messages as read
func (s *messageService) MarkRead(_ context.Context, id, userID uint64) error {
	if err := s.repo.MarkAsRead(id, userID); err != nil {
		return repoError(err, "message.not_found")
	}
	s.pushUnread(userID)
	return nil
}

func (s *messageService) pushUnread(userID uint64) {
	n, err := s.repo.CountUnread(userID)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("user_id", userID).Msg("unread count failed")
		return
	}
	s.notifier.SendToUser(userID, &ws.Event{Type: ws.EventUnreadCount, Payload: map[string]int64{"count": n}})
}
