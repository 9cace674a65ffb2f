package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"skill-upcycle/internal/domain/analysis"
	"skill-upcycle/internal/infrastructure/analysisapi"
	"skill-upcycle/internal/worker"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

type fakeClient struct {
	mu sync.Mutex

	login         func(email, password string) (analysisapi.LoginResult, error)
	signup        func(s analysis.Signup) (analysisapi.LoginResult, error)
	analyze       func(token, fileName string, content []byte) (analysis.Resume, error)
	listAnalyses  func(token string, userID int64) ([]analysis.Resume, error)
	getUser       func(userID int64) (analysis.User, error)
	updateUser    func(u analysis.User) error
	analyzeCalls  int
	lastAnalyzeFn string
}

func (f *fakeClient) Login(_ context.Context, email, password string) (analysisapi.LoginResult, error) {
	return f.login(email, password)
}

func (f *fakeClient) Signup(_ context.Context, s analysis.Signup) (analysisapi.LoginResult, error) {
	return f.signup(s)
}

func (f *fakeClient) AnalyzeResume(_ context.Context, token, fileName string, content []byte) (analysis.Resume, error) {
	f.mu.Lock()
	f.analyzeCalls++
	f.lastAnalyzeFn = fileName
	f.mu.Unlock()
	return f.analyze(token, fileName, content)
}

func (f *fakeClient) ListAnalyses(_ context.Context, token string, userID int64) ([]analysis.Resume, error) {
	return f.listAnalyses(token, userID)
}

func (f *fakeClient) GetUser(_ context.Context, userID int64) (analysis.User, error) {
	return f.getUser(userID)
}

func (f *fakeClient) UpdateUser(_ context.Context, u analysis.User) error {
	return f.updateUser(u)
}

type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated []int64
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *fakeCache) InvalidateUser(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	for k := range c.data {
		delete(c.data, k)
	}
	return nil
}

type publishedEvent struct {
	topic string
	event UploadProgress
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) PublishJSON(topic string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, event: v.(UploadProgress)})
	return nil
}

func (p *fakePublisher) snapshot() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

// syncSubmitter runs tasks inline so tests can observe their effects.
type syncSubmitter struct {
	errs      []error
	submitErr error
}

func (s *syncSubmitter) Submit(ctx context.Context, t worker.Task) error {
	if s.submitErr != nil {
		return s.submitErr
	}
	s.errs = append(s.errs, t.Run(ctx))
	return nil
}

func sampleAnalysis(id int64, at time.Time) analysis.Resume {
	return analysis.Resume{
		ID:             id,
		Kind:           analysis.KindResume,
		LongevityScore: 7.5,
		AtRiskCount:    1,
		StableCount:    1,
		Skills: []analysis.Skill{
			{Name: "Java", Risk: 0.3},
			{Name: "React", Risk: 0.1},
		},
		Routes: []analysis.TransitionRoute{
			{OriginSkill: "Java", TargetCompetency: "Microservices Architecture", MicroSkill: "Spring Boot"},
		},
		CreatedAt: at,
	}
}
