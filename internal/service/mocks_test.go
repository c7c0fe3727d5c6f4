package service

import (
	"context"
	"sync"
	"time"

	"github.com/ideafund/ideafund-backend/internal/blocks"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/lifecycle"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/internal/ws"
	es "github.com/ideafund/ideafund-backend/pkg/elasticsearch"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(id uint64) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) CreateWithGrant(user *domain.User, grant int64) error {
	return m.Called(user, grant).Error(0)
}

func (m *mockUserRepo) UpdateLevel(id uint64, level int) error {
	return m.Called(id, level).Error(0)
}

// --- Mock CoinRepository ---

type mockCoinRepo struct {
	mock.Mock
}

func (m *mockCoinRepo) Balance(userID uint64) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCoinRepo) History(userID uint64, page, limit int) ([]*domain.CoinTransaction, int64, error) {
	args := m.Called(userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.CoinTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockCoinRepo) Adjust(userID uint64, amount int64, reason string, campaignID *uint64) (*domain.CoinTransaction, error) {
	args := m.Called(userID, amount, reason, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoinTransaction), args.Error(1)
}

// --- Mock SubmissionRepository ---

type mockSubmissionRepo struct {
	mock.Mock
}

func (m *mockSubmissionRepo) Create(s *domain.Submission) error {
	return m.Called(s).Error(0)
}

func (m *mockSubmissionRepo) FindByID(id uint64) (*domain.Submission, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *mockSubmissionRepo) FindByUser(userID uint64, page, limit int) ([]*domain.Submission, int64, error) {
	args := m.Called(userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *mockSubmissionRepo) FindByStatus(status string, page, limit int) ([]*domain.Submission, int64, error) {
	args := m.Called(status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *mockSubmissionRepo) Review(id uint64, status, note string, reviewerID uint64) (*domain.Submission, error) {
	args := m.Called(id, status, note, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

// --- Mock CampaignRepository ---

type mockCampaignRepo struct {
	mock.Mock
}

func (m *mockCampaignRepo) Create(c *domain.Campaign) error {
	return m.Called(c).Error(0)
}

func (m *mockCampaignRepo) FindByID(id uint64) (*domain.Campaign, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *mockCampaignRepo) FindByIDs(ids []uint64) ([]*domain.Campaign, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Campaign), args.Error(1)
}

func (m *mockCampaignRepo) List(tab lifecycle.Tab, page, limit int) ([]*domain.Campaign, int64, error) {
	args := m.Called(tab, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *mockCampaignRepo) SearchLike(query string, tab lifecycle.Tab, page, limit int) ([]*domain.Campaign, int64, error) {
	args := m.Called(query, tab, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *mockCampaignRepo) FindAll() ([]*domain.Campaign, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Campaign), args.Error(1)
}

func (m *mockCampaignRepo) ExistsForSubmission(submissionID uint64) (bool, error) {
	args := m.Called(submissionID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCampaignRepo) UpdateLifecycle(c *domain.Campaign) error {
	return m.Called(c).Error(0)
}

func (m *mockCampaignRepo) UpdateDescription(id uint64, description string) error {
	return m.Called(id, description).Error(0)
}

func (m *mockCampaignRepo) Delete(id uint64) error {
	return m.Called(id).Error(0)
}

// --- Mock VoteRepository ---

type mockVoteRepo struct {
	mock.Mock
}

func (m *mockVoteRepo) Cast(campaignID, userID uint64, coins int64) (*repository.VoteResult, error) {
	args := m.Called(campaignID, userID, coins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.VoteResult), args.Error(1)
}

func (m *mockVoteRepo) Position(campaignID, userID uint64) (int64, error) {
	args := m.Called(campaignID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockVoteRepo) SupportsByUser(userID uint64) ([]domain.SupportRow, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SupportRow), args.Error(1)
}

func (m *mockVoteRepo) CountSupporters(campaignID uint64) (int64, error) {
	args := m.Called(campaignID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(msg *domain.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMessageRepo) FindInbox(recipientID uint64, page, limit int) ([]*domain.Message, int64, error) {
	args := m.Called(recipientID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Message), args.Get(1).(int64), args.Error(2)
}

func (m *mockMessageRepo) CountUnread(recipientID uint64) (int64, error) {
	args := m.Called(recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) MarkAsRead(id, recipientID uint64) error {
	return m.Called(id, recipientID).Error(0)
}

// --- Mock SearchIndex ---

type mockSearchIndex struct {
	mock.Mock
}

func (m *mockSearchIndex) IndexDocument(ctx context.Context, index, docID string, body interface{}) error {
	return m.Called(index, docID, body).Error(0)
}

func (m *mockSearchIndex) DeleteDocument(ctx context.Context, index, docID string) error {
	return m.Called(index, docID).Error(0)
}

func (m *mockSearchIndex) BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error {
	return m.Called(index, docs).Error(0)
}

func (m *mockSearchIndex) Search(ctx context.Context, index string, query map[string]interface{}, from, size int) (*es.SearchResponse, error) {
	args := m.Called(index, query, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*es.SearchResponse), args.Error(1)
}

func (m *mockSearchIndex) CreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error {
	return m.Called(index, mapping).Error(0)
}

// --- Fakes ---

// recordingNotifier collects pushed events
type recordingNotifier struct {
	mu     sync.Mutex
	events map[uint64][]*ws.Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[uint64][]*ws.Event)}
}

func (n *recordingNotifier) SendToUser(userID uint64, event *ws.Event) {
	n.mu.Lock()
	n.events[userID] = append(n.events[userID], event)
	n.mu.Unlock()
}

func (n *recordingNotifier) For(userID uint64) []*ws.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*ws.Event(nil), n.events[userID]...)
}

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeCampaigns is an in-memory CampaignService for editor tests
type fakeCampaigns struct {
	CampaignService

	mu           sync.Mutex
	descriptions map[uint64]string
	saves        int
}

func newFakeCampaigns() *fakeCampaigns {
	return &fakeCampaigns{descriptions: make(map[uint64]string)}
}

func (f *fakeCampaigns) Load(id uint64) (*domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.descriptions[id]
	if !ok {
		return nil, repoError(errRecordNotFound, "campaign.not_found")
	}
	return &domain.Campaign{ID: id, Title: "campaign", Description: d}, nil
}

func (f *fakeCampaigns) SaveDescription(_ context.Context, id uint64, doc blocks.Document) (*domain.CampaignResponse, error) {
	s, err := blocks.Marshal(doc)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.descriptions[id] = s
	f.saves++
	f.mu.Unlock()
	c := &domain.Campaign{ID: id, Description: s}
	return c.ToResponse(), nil
}

func (f *fakeCampaigns) Stored(id uint64) blocks.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return blocks.Parse(f.descriptions[id])
}

var errRecordNotFound = gorm.ErrRecordNotFound
