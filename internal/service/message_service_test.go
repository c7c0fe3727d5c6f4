package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSendMessage_PushesToRecipient(t *testing.T) {
	repo := new(mockMessageRepo)
	users := new(mockUserRepo)
	notifier := newRecordingNotifier()
	svc := NewMessageService(repo, users, notifier)

	users.On("FindByID", uint64(2)).Return(&domain.User{ID: 2}, nil)
	repo.On("Create", mock.AnythingOfType("*domain.Message")).
		Run(func(args mock.Arguments) { args.Get(0).(*domain.Message).ID = 11 }).
		Return(nil)
	repo.On("CountUnread", uint64(2)).Return(int64(3), nil)

	resp, err := svc.Send(context.Background(), 1, &domain.SendMessageRequest{RecipientID: 2, Subject: "hi", Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, uint64(11), resp.ID)
	assert.False(t, resp.IsRead)

	events := notifier.For(2)
	require.Len(t, events, 2)
	assert.Equal(t, ws.EventMessageNew, events[0].Type)
	assert.Equal(t, ws.EventUnreadCount, events[1].Type)
	assert.Equal(t, map[string]int64{"count": 3}, events[1].Payload)
	assert.Empty(t, notifier.For(1))
}

func TestSendMessage_UnknownRecipient(t *testing.T) {
	repo := new(mockMessageRepo)
	users := new(mockUserRepo)
	svc := NewMessageService(repo, users, nil)

	users.On("FindByID", uint64(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Send(context.Background(), 1, &domain.SendMessageRequest{RecipientID: 9, Subject: "hi", Body: "hello"})
	assert.True(t, errors.Is(err, common.ErrNotFound))
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestMarkRead(t *testing.T) {
	repo := new(mockMessageRepo)
	notifier := newRecordingNotifier()
	svc := NewMessageService(repo, new(mockUserRepo), notifier)

	repo.On("MarkAsRead", uint64(5), uint64(2)).Return(nil)
	repo.On("MarkAsRead", uint64(5), uint64(3)).Return(gorm.ErrRecordNotFound)
	repo.On("CountUnread", uint64(2)).Return(int64(0), nil)

	require.NoError(t, svc.MarkRead(context.Background(), 5, 2))
	require.Len(t, notifier.For(2), 1)

	err := svc.MarkRead(context.Background(), 5, 3)
	assert.True(t, errors.Is(err, &common.AppError{Kind: common.KindNotFound, Message: "message.not_found"}))
}
