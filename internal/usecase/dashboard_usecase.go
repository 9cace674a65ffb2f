package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skill-upcycle/internal/domain/analysis"
	"skill-upcycle/internal/domain/skillgraph"
	"skill-upcycle/internal/infrastructure/analysisapi"
	"skill-upcycle/internal/infrastructure/cache"
	"skill-upcycle/internal/repository"
	"skill-upcycle/internal/session"
)

const (
	FallbackUserName = "Usuário"
	FallbackGreeting = "Candidato"
)

type SkillCard struct {
	analysis.Skill
	RiskPercent int               `json:"risk_percent"`
	Tier        analysis.CardTier `json:"tier"`
}

// Dashboard is everything the profile screen shows for one user.
type Dashboard struct {
	User       analysis.User              `json:"user"`
	Greeting   string                     `json:"greeting"`
	Current    *analysis.Resume           `json:"current"`
	History    []analysis.Resume          `json:"history"`
	Summary    analysis.Summary           `json:"summary"`
	SkillCards []SkillCard                `json:"skill_cards"`
	RouteCards []analysis.TransitionRoute `json:"route_cards"`
	Graph      *skillgraph.Layout         `json:"graph,omitempty"`
	EmptyGraph string                     `json:"empty_graph,omitempty"`
	Source     string                     `json:"source"`
}

const (
	SourceRemote = "remote"
	SourceLocal  = "local"
	SourceCache  = "cache"
	SourceNone   = "none"
)

type ProfileInput struct {
	Name      string
	Email     string
	BirthDate string
}

type DashboardUsecase interface {
	GetDashboard(ctx context.Context, sess session.Session, targetUserID int64) (Dashboard, error)
	GetAnalysis(ctx context.Context, sess session.Session, analysisID int64) (analysis.Resume, error)
	Graph(ctx context.Context, sess session.Session, analysisID int64) (skillgraph.Layout, error)
	UpdateProfile(ctx context.Context, sess session.Session, in ProfileInput) (analysis.User, error)
}

type DashboardOptions struct {
	CacheTTL    time.Duration
	LayoutOpts  []skillgraph.Option
	MirrorLocal bool
}

type DashboardService struct {
	client  analysisapi.Client
	history repository.AnalysisHistoryRepository
	cache   Cache
	opts    DashboardOptions
	logger  *log.Logger
}

func NewDashboardUsecase(
	client analysisapi.Client,
	history repository.AnalysisHistoryRepository,
	c Cache,
	opts DashboardOptions,
	logger *log.Logger,
) *DashboardService {
	if c == nil {
		c = noopCache{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DashboardService{client: client, history: history, cache: c, opts: opts, logger: logger}
}

func (u *DashboardService) GetDashboard(ctx context.Context, sess session.Session, targetUserID int64) (Dashboard, error) {
	if targetUserID <= 0 {
		targetUserID = sess.UserID
	}
	if targetUserID <= 0 {
		return Dashboard{}, ErrUnauthorized
	}

	if targetUserID != sess.UserID {
		return u.foreignDashboard(ctx, sess, targetUserID)
	}

	key := cache.DashboardKey(targetUserID)
	var cached Dashboard
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		cached.Source = SourceCache
		return cached, nil
	}

	user := u.loadUser(ctx, targetUserID)
	list, source := u.loadAnalyses(ctx, sess, targetUserID)

	d := u.assemble(user, list, source)
	if source != SourceNone {
		if err := u.cache.SetJSON(ctx, key, d, u.opts.CacheTTL); err != nil {
			u.logger.Printf("[Dashboard] cache set failed user=%d error=%v", targetUserID, err)
		}
	}
	return d, nil
}

// foreignDashboard serves another user's dashboard from the remote backend
// only, with the caller's token. The cache and the local history are never
// consulted for it.
func (u *DashboardService) foreignDashboard(ctx context.Context, sess session.Session, targetUserID int64) (Dashboard, error) {
	remote, err := u.client.ListAnalyses(ctx, sess.UpstreamToken, targetUserID)
	if err != nil {
		u.logger.Printf("[Dashboard] remote analyses failed caller=%d user=%d error=%v", sess.UserID, targetUserID, err)
		return Dashboard{}, upstreamError(err)
	}
	source := SourceRemote
	if len(remote) == 0 {
		source = SourceNone
	}
	return u.assemble(u.loadUser(ctx, targetUserID), remote, source), nil
}

func (u *DashboardService) assemble(user analysis.User, list []analysis.Resume, source string) Dashboard {
	d := Build(user, list)
	d.Source = source
	if d.Current != nil {
		d.Graph, d.EmptyGraph = u.layout(*d.Current)
	}
	return d
}

// Build assembles the dashboard from a user and their analyses in any order.
// Graph fields are left to the caller.
func Build(user analysis.User, list []analysis.Resume) Dashboard {
	sorted := make([]analysis.Resume, len(list))
	copy(sorted, list)
	analysis.SortNewestFirst(sorted)
	current, history := analysis.SplitCurrent(sorted)

	d := Dashboard{
		User:       user,
		Greeting:   fmt.Sprintf("Olá, %s!", analysis.FirstName(user.Name, FallbackGreeting)),
		Current:    current,
		History:    history,
		Summary:    analysis.SummaryOf(current),
		SkillCards: []SkillCard{},
		RouteCards: []analysis.TransitionRoute{},
		EmptyGraph: skillgraph.EmptyStateMessage,
	}
	if current != nil {
		for _, s := range current.Skills {
			d.SkillCards = append(d.SkillCards, SkillCard{
				Skill:       s,
				RiskPercent: analysis.RiskPercent(s.Risk),
				Tier:        analysis.CardTierOf(s.Risk),
			})
		}
		d.RouteCards = append(d.RouteCards, current.Routes...)
	}
	return d
}

func (u *DashboardService) layout(r analysis.Resume) (*skillgraph.Layout, string) {
	if len(r.Skills) == 0 {
		return nil, skillgraph.EmptyStateMessage
	}
	l := skillgraph.ComputeLayout(r.Skills, r.Routes, u.opts.LayoutOpts...)
	return &l, ""
}

func (u *DashboardService) loadUser(ctx context.Context, userID int64) analysis.User {
	user, err := u.client.GetUser(ctx, userID)
	if err != nil {
		u.logger.Printf("[Dashboard] user lookup failed user=%d error=%v", userID, err)
		return analysis.User{ID: userID, Name: FallbackUserName}
	}
	return user
}

// loadAnalyses prefers the remote backend and falls back to the local
// history when it fails or has nothing.
func (u *DashboardService) loadAnalyses(ctx context.Context, sess session.Session, userID int64) ([]analysis.Resume, string) {
	remote, err := u.client.ListAnalyses(ctx, sess.UpstreamToken, userID)
	if err != nil {
		u.logger.Printf("[Dashboard] remote analyses failed user=%d error=%v", userID, err)
	}
	if err == nil && len(remote) > 0 {
		if u.opts.MirrorLocal && u.history != nil {
			for _, r := range remote {
				if err := u.history.Save(ctx, userID, r); err != nil {
					u.logger.Printf("[Dashboard] mirror failed user=%d analysis=%d error=%v", userID, r.ID, err)
					break
				}
			}
		}
		return remote, SourceRemote
	}

	if u.history == nil {
		return nil, SourceNone
	}
	local, err := u.history.ListByUser(ctx, userID, 0)
	if err != nil {
		u.logger.Printf("[Dashboard] local history failed user=%d error=%v", userID, err)
		return nil, SourceNone
	}
	if len(local) == 0 {
		return nil, SourceNone
	}
	return local, SourceLocal
}

func (u *DashboardService) GetAnalysis(ctx context.Context, sess session.Session, analysisID int64) (analysis.Resume, error) {
	d, err := u.GetDashboard(ctx, sess, sess.UserID)
	if err != nil {
		return analysis.Resume{}, err
	}
	all := d.History
	if d.Current != nil {
		all = append([]analysis.Resume{*d.Current}, d.History...)
	}
	r, ok := analysis.FindByID(all, analysisID)
	if !ok {
		return analysis.Resume{}, ErrAnalysisNotFound
	}
	return r, nil
}

func (u *DashboardService) Graph(ctx context.Context, sess session.Session, analysisID int64) (skillgraph.Layout, error) {
	r, err := u.GetAnalysis(ctx, sess, analysisID)
	if err != nil {
		return skillgraph.Layout{}, err
	}
	l, _ := u.layout(r)
	if l == nil {
		return skillgraph.Layout{}, ErrEmptyGraph
	}
	return *l, nil
}

func (u *DashboardService) UpdateProfile(ctx context.Context, sess session.Session, in ProfileInput) (analysis.User, error) {
	user := analysis.User{
		ID:        sess.UserID,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		BirthDate: strings.TrimSpace(in.BirthDate),
	}
	if user.Name == "" || user.Email == "" || !strings.Contains(user.Email, "@") {
		return analysis.User{}, ErrInvalidInput
	}
	if user.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", user.BirthDate); err != nil {
			return analysis.User{}, ErrInvalidInput
		}
	}

	if err := u.client.UpdateUser(ctx, user); err != nil {
		u.logger.Printf("[Dashboard] profile update failed user=%d error=%v", sess.UserID, err)
		var se *analysisapi.StatusError
		if errors.As(err, &se) && se.Status == 409 {
			return analysis.User{}, ErrEmailTaken
		}
		return analysis.User{}, upstreamError(err)
	}
	if err := u.cache.InvalidateUser(ctx, sess.UserID); err != nil {
		u.logger.Printf("[Dashboard] cache invalidate failed user=%d error=%v", sess.UserID, err)
	}
	return user, nil
}

var _ DashboardUsecase = (*DashboardService)(nil)
