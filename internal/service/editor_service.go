package service

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ideafund/ideafund-backend/internal/blocks"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/domain"
	"github.com/ideafund/ideafund-backend/internal/ws"
	"github.com/ideafund/ideafund-backend/pkg/cache"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var errEditorStopped = common.NewConflict("error.conflict", errors.New("editor service stopped"))

// EditorConfig tunes editing sessions
type EditorConfig struct {
	// SessionTTL is how long an untouched session survives the janitor
	SessionTTL time.Duration
	// UploadTimeout bounds one AddImages batch
	UploadTimeout time.Duration
	// UploadConcurrency caps simultaneous uploads per batch
	UploadConcurrency int
	Clock             cache.Clock
}

func (c *EditorConfig) applyDefaults() {
	if c.SessionTTL <= 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.UploadTimeout <= 0 {
		c.UploadTimeout = 2 * time.Minute
	}
	if c.UploadConcurrency <= 0 {
		c.UploadConcurrency = 4
	}
	if c.Clock == nil {
		c.Clock = cache.SystemClock{}
	}
}

// EditorService holds one in-memory document per (campaign, editor) pair.
// Structural edits run in request order under the session lock; image
// uploads run in the background and only ever touch their own block.
type EditorService interface {
	Open(ctx context.Context, campaignID, editorID uint64) (*domain.EditorState, error)
	State(campaignID, editorID uint64) (*domain.EditorState, error)
	Apply(campaignID, editorID uint64, op *domain.EditorOp) (*domain.EditorState, error)
	// AddImages inserts placeholders for valid files and returns at once;
	// uploads finish in the background
	AddImages(campaignID, editorID uint64, afterID string, files []blocks.File) (*domain.EditorState, error)
	// Save persists the document; with wait it first lets in-flight uploads finish
	Save(ctx context.Context, campaignID, editorID uint64, wait bool) (*domain.CampaignResponse, error)
	Close(campaignID, editorID uint64) error
	// Wait blocks until the session has no upload in flight
	Wait(campaignID, editorID uint64)
	// EvictIdle closes sessions idle for longer than SessionTTL
	EvictIdle() int
	// Start runs the idle-session janitor until Shutdown
	Start()
	Shutdown()
}

type sessionKey struct {
	campaignID uint64
	editorID   uint64
}

type editorSession struct {
	key  sessionKey
	mu   sync.Mutex
	idle *sync.Cond

	doc      blocks.Document
	version  uint64
	inflight int
	// previews still owned by this session
	previews map[string]struct{}
	handed   []string
	lastUsed time.Time
	closed   bool
}

func newSession(key sessionKey, doc blocks.Document, now time.Time) *editorSession {
	sess := &editorSession{
		key:      key,
		doc:      doc,
		previews: make(map[string]struct{}),
		lastUsed: now,
	}
	sess.idle = sync.NewCond(&sess.mu)
	return sess
}

// state must be called with mu held
func (sess *editorSession) state(focus *blocks.Focus, rejected []domain.RejectedFile) *domain.EditorState {
	return &domain.EditorState{
		CampaignID: sess.key.campaignID,
		Version:    sess.version,
		Document:   sess.doc.Clone(),
		Focus:      focus,
		Uploading:  len(sess.doc.UploadingIDs()),
		Rejected:   rejected,
	}
}

// releasePreview must be called with mu held
func (sess *editorSession) releasePreview(registry *previewRegistry, url string) {
	if !IsPreviewURL(url) {
		return
	}
	delete(sess.previews, url)
	registry.Release(url)
}

type editorService struct {
	campaigns CampaignService
	media     *MediaService
	notifier  Notifier
	previews  *previewRegistry
	cfg       EditorConfig

	mu       sync.Mutex
	sessions map[sessionKey]*editorSession
	stopped  bool
	janitor  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEditorService creates a new EditorService. notifier may be nil.
func NewEditorService(campaigns CampaignService, media *MediaService, notifier Notifier, cfg EditorConfig) EditorService {
	cfg.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &editorService{
		campaigns: campaigns,
		media:     media,
		notifier:  notifierOrNop(notifier),
		previews:  newPreviewRegistry(),
		cfg:       cfg,
		sessions:  make(map[sessionKey]*editorSession),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *editorService) now() time.Time {
	return s.cfg.Clock.Now()
}

func (s *editorService) session(key sessionKey) (*editorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		return nil, common.NewNotFound("editor.session_not_found")
	}
	return sess, nil
}

// Open returns the existing session or starts one from the stored description.
// Images left uploading by an interrupted session can never finish and are
// marked failed.
func (s *editorService) Open(_ context.Context, campaignID, editorID uint64) (*domain.EditorState, error) {
	key := sessionKey{campaignID: campaignID, editorID: editorID}
	if sess, err := s.session(key); err == nil {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.lastUsed = s.now()
		return sess.state(nil, nil), nil
	}

	c, err := s.campaigns.Load(campaignID)
	if err != nil {
		return nil, err
	}

	doc := blocks.Parse(c.Description)
	stale := doc.UploadingIDs()
	for _, id := range stale {
		doc, _ = blocks.FailUpload(doc, id)
	}
	if len(stale) > 0 {
		log := pkglogger.WithCampaign(campaignID)
		log.Warn().Int("blocks", len(stale)).Msg("stale uploading images marked failed")
	}

	sess := newSession(key, doc, s.now())
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, errEditorStopped
	}
	if existing, ok := s.sessions[key]; ok {
		sess = existing
	} else {
		s.sessions[key] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state(nil, nil), nil
}

func (s *editorService) State(campaignID, editorID uint64) (*domain.EditorState, error) {
	sess, err := s.session(sessionKey{campaignID: campaignID, editorID: editorID})
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state(nil, nil), nil
}

func (s *editorService) Apply(campaignID, editorID uint64, op *domain.EditorOp) (*domain.EditorState, error) {
	if op == nil {
		return nil, common.NewValidation("editor.unknown_op", nil)
	}
	if err := common.Validate(op); err != nil {
		return nil, err
	}

	sess, err := s.session(sessionKey{campaignID: campaignID, editorID: editorID})
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil, common.NewNotFound("editor.session_not_found")
	}

	doc := sess.doc
	if op.Op != domain.OpInsertText && doc.Index(op.BlockID) < 0 {
		return nil, common.NewNotFound("editor.block_not_found")
	}

	var focus *blocks.Focus
	switch op.Op {
	case domain.OpInsertText:
		next, id := blocks.InsertTextAfter(doc, op.AfterID)
		doc = next
		focus = &blocks.Focus{BlockID: id, Offset: 0}
	case domain.OpUpdateText:
		doc = blocks.UpdateText(doc, op.BlockID, op.Content)
	case domain.OpSplit:
		if next, f, ok := blocks.SplitOnEnter(doc, op.BlockID, op.Cursor); ok {
			doc = next
			focus = &f
		}
	case domain.OpMerge:
		if next, f, ok := blocks.MergeWithPrevious(doc, op.BlockID); ok {
			doc = next
			focus = &f
		}
	case domain.OpRemove:
		i := doc.Index(op.BlockID)
		next, removed, _ := blocks.Remove(doc, op.BlockID)
		if removed.IsImage() {
			sess.releasePreview(s.previews, removed.URL)
		}
		doc = next
		focus = focusAfterRemove(doc, i)
	case domain.OpMoveUp:
		doc = blocks.MoveUp(doc, op.BlockID)
	case domain.OpMoveDown:
		doc = blocks.MoveDown(doc, op.BlockID)
	case domain.OpToggleWidth:
		doc = blocks.ToggleWidth(doc, op.BlockID)
	case domain.OpResize:
		doc = blocks.Resize(doc, op.BlockID, op.Width)
	default:
		return nil, common.NewValidation("editor.unknown_op", nil)
	}

	sess.doc = doc
	sess.version++
	sess.lastUsed = s.now()
	return sess.state(focus, nil), nil
}

// focusAfterRemove puts the caret at the end of the block before the removed one
func focusAfterRemove(doc blocks.Document, removedAt int) *blocks.Focus {
	if removedAt > 0 && removedAt-1 < len(doc) {
		prev := doc[removedAt-1]
		return &blocks.Focus{BlockID: prev.ID, Offset: utf8.RuneCountInString(prev.Content)}
	}
	return &blocks.Focus{BlockID: doc[0].ID, Offset: 0}
}

func (s *editorService) AddImages(campaignID, editorID uint64, afterID string, files []blocks.File) (*domain.EditorState, error) {
	if len(files) == 0 {
		return nil, common.NewValidation("error.validation", errors.New("no files"))
	}

	sess, err := s.session(sessionKey{campaignID: campaignID, editorID: editorID})
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return nil, common.NewNotFound("editor.session_not_found")
	}
	next, tasks, rejected := blocks.InsertImages(sess.doc, afterID, files, blocks.ImageOptions{
		MaxBytes: s.media.MaxSize(),
		Preview: func(f blocks.File) string {
			url := s.previews.Create(f.Name)
			sess.previews[url] = struct{}{}
			sess.handed = append(sess.handed, url)
			return url
		},
	})
	sess.doc = next
	if len(tasks) > 0 {
		sess.version++
		sess.inflight += len(tasks)
	}
	sess.lastUsed = s.now()
	state := sess.state(nil, rejectedFiles(rejected))
	sess.mu.Unlock()

	if len(tasks) > 0 && !s.launch(sess, tasks) {
		for _, task := range tasks {
			s.finish(sess, task, nil, errEditorStopped)
		}
	}
	return state, nil
}

func rejectedFiles(errs []*blocks.ValidationError) []domain.RejectedFile {
	if len(errs) == 0 {
		return nil
	}
	out := make([]domain.RejectedFile, len(errs))
	for i, e := range errs {
		reason := "file.type_not_allowed"
		if errors.Is(e, blocks.ErrTooLarge) {
			reason = "file.too_large"
		}
		out[i] = domain.RejectedFile{Name: e.File, Reason: reason}
	}
	return out
}

// launch runs one batch of uploads in the background. It reports false when
// the service is shutting down and nothing was started.
func (s *editorService) launch(sess *editorSession, tasks []blocks.UploadTask) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		// 요청 컨텍스트와 분리: 응답 후에도 업로드는 계속된다
		ctx, cancel := context.WithTimeout(s.ctx, s.cfg.UploadTimeout)
		defer cancel()

		var g errgroup.Group
		g.SetLimit(s.cfg.UploadConcurrency)
		prefix := CampaignImagePrefix(sess.key.campaignID)
		for _, task := range tasks {
			task := task
			g.Go(func() error {
				res, err := s.media.UploadImage(ctx, prefix, task.File)
				s.finish(sess, task, res, err)
				// 한 파일의 실패가 나머지를 취소하지 않도록 항상 nil
				return nil
			})
		}
		_ = g.Wait()
	}()
	return true
}

// finish applies one upload outcome to its own block. Outcomes for blocks
// that were removed, or sessions that were closed, are discarded and a
// stored object is deleted.
func (s *editorService) finish(sess *editorSession, task blocks.UploadTask, res *MediaUploadResult, uploadErr error) {
	// 정리까지 끝나야 in-flight에서 빠진다
	defer sess.done()

	sess.mu.Lock()
	applied := false
	if !sess.closed {
		var next blocks.Document
		if uploadErr == nil {
			next, applied = blocks.CompleteUpload(sess.doc, task.BlockID, res.URL)
		} else {
			next, applied = blocks.FailUpload(sess.doc, task.BlockID)
		}
		if applied {
			sess.doc = next
			sess.version++
			if uploadErr == nil {
				sess.releasePreview(s.previews, task.Preview)
			}
		}
	}
	sess.mu.Unlock()

	if !applied {
		if uploadErr == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = s.media.Delete(ctx, res.Key)
			cancel()
		}
		return
	}

	event := domain.BlockStatusEvent{
		CampaignID: sess.key.campaignID,
		BlockID:    task.BlockID,
		Status:     blocks.StatusComplete,
	}
	if uploadErr == nil {
		event.URL = res.URL
	} else {
		event.Status = blocks.StatusFailed
		event.Error = "file.upload_failed"
	}
	s.notifier.SendToUser(sess.key.editorID, &ws.Event{Type: ws.EventBlockStatus, Payload: event})
}

func (s *editorService) Wait(campaignID, editorID uint64) {
	sess, err := s.session(sessionKey{campaignID: campaignID, editorID: editorID})
	if err != nil {
		return
	}
	sess.wait()
}

func (sess *editorSession) done() {
	sess.mu.Lock()
	sess.inflight--
	if sess.inflight == 0 {
		sess.idle.Broadcast()
	}
	sess.mu.Unlock()
}

func (sess *editorSession) wait() {
	sess.mu.Lock()
	for sess.inflight > 0 {
		sess.idle.Wait()
	}
	sess.mu.Unlock()
}

func (s *editorService) Save(ctx context.Context, campaignID, editorID uint64, wait bool) (*domain.CampaignResponse, error) {
	sess, err := s.session(sessionKey{campaignID: campaignID, editorID: editorID})
	if err != nil {
		return nil, err
	}
	if wait {
		sess.wait()
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return nil, common.NewNotFound("editor.session_not_found")
	}
	doc := persistable(sess.doc)
	sess.lastUsed = s.now()
	sess.mu.Unlock()

	resp, err := s.campaigns.SaveDescription(ctx, campaignID, doc)
	if err != nil {
		return nil, err
	}

	log := pkglogger.WithCampaign(campaignID)
	log.Info().Uint64("editor_id", editorID).Int("blocks", len(doc)).Msg("campaign description saved")
	return resp, nil
}

// persistable copies doc for storage. Preview URLs only resolve inside this
// process, so images still uploading are stored without a URL.
func persistable(doc blocks.Document) blocks.Document {
	out := make(blocks.Document, len(doc))
	copy(out, doc)
	for i := range out {
		if IsPreviewURL(out[i].URL) {
			out[i].URL = ""
		}
	}
	return out
}

func (s *editorService) Close(campaignID, editorID uint64) error {
	key := sessionKey{campaignID: campaignID, editorID: editorID}
	s.mu.Lock()
	sess, ok := s.sessions[key]
	if ok {
		delete(s.sessions, key)
	}
	s.mu.Unlock()
	if !ok {
		return common.NewNotFound("editor.session_not_found")
	}
	s.closeSession(sess)
	return nil
}

// closeSession releases every preview the session still owns
func (s *editorService) closeSession(sess *editorSession) {
	sess.mu.Lock()
	sess.closed = true
	for url := range sess.previews {
		s.previews.Release(url)
	}
	sess.previews = make(map[string]struct{})
	handed := sess.handed
	sess.handed = nil
	sess.mu.Unlock()

	s.previews.Forget(handed)
}

func (s *editorService) EvictIdle() int {
	now := s.now()

	s.mu.Lock()
	var victims []*editorSession
	for key, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.inflight == 0 && now.Sub(sess.lastUsed) >= s.cfg.SessionTTL
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, key)
			victims = append(victims, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range victims {
		s.closeSession(sess)
	}
	return len(victims)
}

func (s *editorService) Start() {
	s.mu.Lock()
	if s.stopped || s.janitor {
		s.mu.Unlock()
		return
	}
	s.janitor = true
	s.wg.Add(1)
	s.mu.Unlock()

	interval := s.cfg.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.EvictIdle(); n > 0 {
					pkglogger.GetLogger().Info().Int("sessions", n).Msg("idle editor sessions evicted")
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// Shutdown cancels in-flight uploads, waits for background work and closes
// every session
func (s *editorService) Shutdown() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	sessions := make([]*editorSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessions = make(map[sessionKey]*editorSession)
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	for _, sess := range sessions {
		s.closeSession(sess)
	}
}
