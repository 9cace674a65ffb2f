package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"skill-upcycle/internal/domain/analysis"
	"skill-upcycle/internal/infrastructure/analysisapi"
	"skill-upcycle/internal/infrastructure/cache"
	"skill-upcycle/internal/repository"
	"skill-upcycle/internal/session"
	"skill-upcycle/internal/worker"
	"skill-upcycle/internal/ws"
)

type UploadStep string

const (
	StepReadingPDF       UploadStep = "reading_pdf"
	StepProcessingSkills UploadStep = "processing_skills"
	StepAgentAnalyzing   UploadStep = "agent_analyzing"
)

// UploadSteps is the order the progress indicator advances through.
var UploadSteps = []UploadStep{StepReadingPDF, StepProcessingSkills, StepAgentAnalyzing}

type UploadStatus string

const (
	UploadProcessing UploadStatus = "processing"
	UploadPartial    UploadStatus = "partial"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
)

const (
	PartialResultMessage = "Faça login para ver o resultado completo."
	uploadLockTTL        = 5 * time.Minute
	pdfMagic             = "%PDF-"
)

type UploadProgress struct {
	Type       string       `json:"type"`
	Status     UploadStatus `json:"status"`
	Step       UploadStep   `json:"step,omitempty"`
	StepIndex  int          `json:"step_index"`
	StepCount  int          `json:"step_count"`
	Message    string       `json:"message,omitempty"`
	AnalysisID int64        `json:"analysis_id,omitempty"`
	Timestamp  string       `json:"timestamp"`
}

type UploadInput struct {
	FileName string
	Content  []byte
}

type UploadResult struct {
	Status   UploadStatus     `json:"status"`
	Message  string           `json:"message,omitempty"`
	Analysis *analysis.Resume `json:"analysis,omitempty"`
}

type TaskSubmitter interface {
	Submit(ctx context.Context, t worker.Task) error
}

type UploadUsecase interface {
	Upload(ctx context.Context, sess *session.Session, anonID string, in UploadInput) (UploadResult, error)
	ClaimPending(ctx context.Context, sess session.Session, anonID string) (bool, error)
}

type UploadOptions struct {
	MaxBytes     int64
	StepInterval time.Duration
	PendingTTL   time.Duration
}

type Upload struct {
	client   analysisapi.Client
	sessions session.Store
	history  repository.AnalysisHistoryRepository
	cache    Cache
	locker   Locker
	events   Publisher
	pool     TaskSubmitter
	opts     UploadOptions
	logger   *log.Logger
	now      func() time.Time
}

func NewUploadUsecase(
	client analysisapi.Client,
	sessions session.Store,
	history repository.AnalysisHistoryRepository,
	c Cache,
	locker Locker,
	events Publisher,
	pool TaskSubmitter,
	opts UploadOptions,
	logger *log.Logger,
) *Upload {
	if c == nil {
		c = noopCache{}
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	if events == nil {
		events = noopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10 << 20
	}
	if opts.StepInterval <= 0 {
		opts.StepInterval = 1500 * time.Millisecond
	}
	return &Upload{
		client:   client,
		sessions: sessions,
		history:  history,
		cache:    c,
		locker:   locker,
		events:   events,
		pool:     pool,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// ValidateResume accepts only PDF files no larger than maxBytes, checked by
// extension and by the %PDF- signature.
func ValidateResume(fileName string, content []byte, maxBytes int64) error {
	if !strings.EqualFold(filepath.Ext(strings.TrimSpace(fileName)), ".pdf") {
		return ErrInvalidFile
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return ErrFileTooLarge
	}
	if !bytes.HasPrefix(content, []byte(pdfMagic)) {
		return ErrInvalidFile
	}
	return nil
}

func (u *Upload) Upload(ctx context.Context, sess *session.Session, anonID string, in UploadInput) (UploadResult, error) {
	in.FileName = filepath.Base(strings.TrimSpace(in.FileName))
	if err := ValidateResume(in.FileName, in.Content, u.opts.MaxBytes); err != nil {
		return UploadResult{}, err
	}

	if sess == nil {
		return u.uploadAnonymous(ctx, anonID, in)
	}
	res, err := u.analyze(ctx, *sess, in)
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{Status: UploadCompleted, Analysis: &res}, nil
}

func (u *Upload) uploadAnonymous(ctx context.Context, anonID string, in UploadInput) (UploadResult, error) {
	if strings.TrimSpace(anonID) == "" {
		return UploadResult{}, ErrUnauthorized
	}
	p := session.PendingUpload{FileName: in.FileName, Content: in.Content, UploadedAt: u.now().UTC()}
	if err := u.sessions.SavePending(ctx, anonID, p, u.opts.PendingTTL); err != nil {
		u.logger.Printf("[Upload] save pending failed anon=%s error=%v", anonID, err)
		return UploadResult{}, ErrInternal
	}
	u.publish(ws.AnonTopic(anonID), UploadProgress{Status: UploadPartial, Message: PartialResultMessage})
	u.logger.Printf("[Upload] pending stored anon=%s file=%s bytes=%d", anonID, in.FileName, len(in.Content))
	return UploadResult{Status: UploadPartial, Message: PartialResultMessage}, nil
}

// ClaimPending hands a resume uploaded before login to the worker pool. It
// reports whether there was anything to claim.
func (u *Upload) ClaimPending(ctx context.Context, sess session.Session, anonID string) (bool, error) {
	if strings.TrimSpace(anonID) == "" {
		return false, nil
	}
	p, ok, err := u.sessions.TakePending(ctx, anonID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if u.pool == nil {
		u.restorePending(ctx, anonID, p)
		return false, errors.New("no worker pool configured")
	}

	in := UploadInput{FileName: p.FileName, Content: p.Content}
	task := worker.Task{
		Name: fmt.Sprintf("claim-pending user=%d", sess.UserID),
		Run: func(taskCtx context.Context) error {
			if _, err := u.analyze(taskCtx, sess, in); err != nil {
				u.restorePending(context.WithoutCancel(taskCtx), anonID, p)
				return err
			}
			return nil
		},
	}
	if err := u.pool.Submit(ctx, task); err != nil {
		u.restorePending(context.WithoutCancel(ctx), anonID, p)
		return false, fmt.Errorf("submit claim: %w", err)
	}
	u.logger.Printf("[Upload] pending claimed user=%d file=%s", sess.UserID, p.FileName)
	return true, nil
}

// restorePending puts a claimed upload back for whatever is left of its
// original lifetime so a later login can claim it again.
func (u *Upload) restorePending(ctx context.Context, anonID string, p session.PendingUpload) {
	var ttl time.Duration
	if u.opts.PendingTTL > 0 {
		ttl = u.opts.PendingTTL - u.now().Sub(p.UploadedAt)
		if ttl <= 0 {
			u.logger.Printf("[Upload] pending expired anon=%s file=%s", anonID, p.FileName)
			return
		}
	}
	if err := u.sessions.SavePending(ctx, anonID, p, ttl); err != nil {
		u.logger.Printf("[Upload] restore pending failed anon=%s error=%v", anonID, err)
		return
	}
	u.logger.Printf("[Upload] pending restored anon=%s file=%s ttl=%s", anonID, p.FileName, ttl)
}

func (u *Upload) analyze(ctx context.Context, sess session.Session, in UploadInput) (analysis.Resume, error) {
	lockKey := cache.UploadLockKey(sess.UserID)
	acquired, err := u.locker.SetIfNotExists(ctx, lockKey, sess.ID, uploadLockTTL)
	if err != nil {
		u.logger.Printf("[Upload] lock error user=%d error=%v", sess.UserID, err)
		return analysis.Resume{}, ErrInternal
	}
	if !acquired {
		return analysis.Resume{}, ErrUploadInProgress
	}
	defer func() {
		_ = u.locker.Delete(context.Background(), lockKey)
	}()

	topic := ws.UserTopic(sess.UserID)
	stop := u.startProgress(topic)
	start := u.now()
	res, err := u.client.AnalyzeResume(ctx, sess.UpstreamToken, in.FileName, in.Content)
	stop()

	if err != nil {
		u.logger.Printf("[Upload] analysis failed user=%d file=%s error=%v", sess.UserID, in.FileName, err)
		u.publish(topic, UploadProgress{Status: UploadFailed, Message: "Erro ao conectar com o servidor."})
		return analysis.Resume{}, upstreamError(err)
	}

	if res.UserID == nil {
		uid := sess.UserID
		res.UserID = &uid
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = u.now().UTC()
	}
	if u.history != nil {
		if err := u.history.Save(ctx, sess.UserID, res); err != nil {
			u.logger.Printf("[Upload] history save failed user=%d analysis=%d error=%v", sess.UserID, res.ID, err)
		}
	}
	if err := u.cache.InvalidateUser(ctx, sess.UserID); err != nil {
		u.logger.Printf("[Upload] cache invalidate failed user=%d error=%v", sess.UserID, err)
	}

	u.publish(topic, UploadProgress{Status: UploadCompleted, AnalysisID: res.ID, StepIndex: len(UploadSteps) - 1})
	u.logger.Printf("[Upload] analysis completed user=%d analysis=%d skills=%d duration_ms=%d",
		sess.UserID, res.ID, len(res.Skills), u.now().Sub(start).Milliseconds())
	return res, nil
}

// startProgress announces the first step, then advances one step per
// interval and stays on the last one until stop is called.
func (u *Upload) startProgress(topic string) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	u.publishStep(topic, 0)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(u.opts.StepInterval)
		defer ticker.Stop()
		idx := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if idx < len(UploadSteps)-1 {
					idx++
					u.publishStep(topic, idx)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

func (u *Upload) publishStep(topic string, idx int) {
	u.publish(topic, UploadProgress{Status: UploadProcessing, Step: UploadSteps[idx], StepIndex: idx})
}

func (u *Upload) publish(topic string, p UploadProgress) {
	p.Type = "upload_progress"
	p.StepCount = len(UploadSteps)
	p.Timestamp = u.now().UTC().Format(time.RFC3339)
	if err := u.events.PublishJSON(topic, p); err != nil {
		u.logger.Printf("[Upload] publish failed topic=%s error=%v", topic, err)
	}
}

// upstreamError maps analysis backend failures to usecase errors.
func upstreamError(err error) error {
	var se *analysisapi.StatusError
	switch {
	case errors.Is(err, analysisapi.ErrMalformedResponse):
		return fmt.Errorf("%w: %v", ErrUpstreamContract, err)
	case errors.Is(err, analysisapi.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, analysisapi.ErrEmailTaken):
		return ErrEmailTaken
	case errors.As(err, &se) && se.Status == 401:
		return ErrUnauthorized
	case errors.As(err, &se) && se.Status == 403:
		return ErrForbidden
	case errors.As(err, &se) && se.Status >= 400 && se.Status < 500:
		return fmt.Errorf("%w: %s", ErrInvalidInput, se.Message)
	default:
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
}

var _ UploadUsecase = (*Upload)(nil)
