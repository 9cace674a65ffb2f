package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"skill-upcycle/internal/domain/analysis"
	"skill-upcycle/internal/infrastructure/analysisapi"
	"skill-upcycle/internal/pkg/jwt"
	"skill-upcycle/internal/session"

	"github.com/google/uuid"
)

type LoginInput struct {
	Email    string
	Password string
	// AnonID identifies the visitor's pending upload, if any.
	AnonID string
}

type AuthResult struct {
	UserID         int64  `json:"user_id"`
	SessionID      string `json:"session_id"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	PendingClaimed bool   `json:"pending_claimed"`
}

type AuthUsecase interface {
	Login(ctx context.Context, in LoginInput) (AuthResult, error)
	Signup(ctx context.Context, in analysis.Signup, anonID string) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (AuthResult, error)
	Logout(ctx context.Context, sess session.Session) error
	Authenticate(ctx context.Context, accessToken string) (session.Session, error)
}

// PendingClaimer picks up a resume uploaded before the visitor logged in.
type PendingClaimer interface {
	ClaimPending(ctx context.Context, sess session.Session, anonID string) (bool, error)
}

type Auth struct {
	client   analysisapi.Client
	sessions session.Store
	jwt      jwt.Service
	cache    Cache
	claimer  PendingClaimer
	ttl      time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewAuthUsecase(
	client analysisapi.Client,
	sessions session.Store,
	jwtSvc jwt.Service,
	c Cache,
	claimer PendingClaimer,
	sessionTTL time.Duration,
	logger *log.Logger,
) *Auth {
	if c == nil {
		c = noopCache{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Auth{
		client:   client,
		sessions: sessions,
		jwt:      jwtSvc,
		cache:    c,
		claimer:  claimer,
		ttl:      sessionTTL,
		logger:   logger,
		now:      time.Now,
	}
}

func (u *Auth) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return AuthResult{}, ErrInvalidInput
	}

	lr, err := u.client.Login(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, analysisapi.ErrInvalidCredentials) {
			return AuthResult{}, ErrInvalidCredentials
		}
		u.logger.Printf("[Auth] login upstream error email=%s error=%v", email, err)
		return AuthResult{}, upstreamError(err)
	}
	return u.open(ctx, lr, in.AnonID)
}

func (u *Auth) Signup(ctx context.Context, in analysis.Signup, anonID string) (AuthResult, error) {
	s, err := analysis.NewSignup(in)
	if err != nil {
		return AuthResult{}, errors.Join(ErrInvalidInput, err)
	}

	lr, err := u.client.Signup(ctx, s)
	if err != nil {
		if errors.Is(err, analysisapi.ErrEmailTaken) {
			return AuthResult{}, ErrEmailTaken
		}
		u.logger.Printf("[Auth] signup upstream error email=%s error=%v", s.Email, err)
		return AuthResult{}, upstreamError(err)
	}
	return u.open(ctx, lr, anonID)
}

// open creates the server-side session for an upstream login and claims the
// visitor's pending upload.
func (u *Auth) open(ctx context.Context, lr analysisapi.LoginResult, anonID string) (AuthResult, error) {
	sess := session.Session{
		ID:            uuid.NewString(),
		UserID:        lr.UserID,
		UpstreamToken: lr.Token,
		CreatedAt:     u.now().UTC(),
	}
	if err := u.sessions.SaveSession(ctx, sess, u.ttl); err != nil {
		u.logger.Printf("[Auth] save session failed user=%d error=%v", sess.UserID, err)
		return AuthResult{}, ErrInternal
	}

	out, err := u.issue(sess)
	if err != nil {
		return AuthResult{}, err
	}

	if u.claimer != nil && anonID != "" {
		claimed, err := u.claimer.ClaimPending(ctx, sess, anonID)
		if err != nil {
			u.logger.Printf("[Auth] claim pending failed user=%d anon=%s error=%v", sess.UserID, anonID, err)
		}
		out.PendingClaimed = claimed
	}

	u.logger.Printf("[Auth] session opened user=%d session=%s", sess.UserID, sess.ID)
	return out, nil
}

func (u *Auth) issue(sess session.Session) (AuthResult, error) {
	access, err := u.jwt.GenerateAccessToken(sess.UserID, sess.ID)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(sess.UserID, sess.ID)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	return AuthResult{UserID: sess.UserID, SessionID: sess.ID, AccessToken: access, RefreshToken: refresh}, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return AuthResult{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AuthResult{}, ErrRefreshTokenExpired
		}
		return AuthResult{}, ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return AuthResult{}, ErrInvalidRefreshToken
	}

	sess, err := u.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, ErrInternal
	}
	if sess.UserID != claims.UserID {
		return AuthResult{}, ErrInvalidRefreshToken
	}
	return u.issue(sess)
}

// Logout tears down the session and the user's cached dashboard.
func (u *Auth) Logout(ctx context.Context, sess session.Session) error {
	if err := u.sessions.DeleteSession(ctx, sess.ID); err != nil {
		u.logger.Printf("[Auth] delete session failed session=%s error=%v", sess.ID, err)
		return ErrInternal
	}
	if err := u.cache.InvalidateUser(ctx, sess.UserID); err != nil {
		u.logger.Printf("[Auth] cache invalidate failed user=%d error=%v", sess.UserID, err)
	}
	u.logger.Printf("[Auth] session closed user=%d session=%s", sess.UserID, sess.ID)
	return nil
}

func (u *Auth) Authenticate(ctx context.Context, accessToken string) (session.Session, error) {
	claims, err := u.jwt.ValidateToken(accessToken)
	if err != nil || claims.TokenType != jwt.TokenTypeAccess {
		return session.Session{}, ErrUnauthorized
	}
	sess, err := u.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.Session{}, ErrUnauthorized
		}
		return session.Session{}, ErrInternal
	}
	if sess.UserID != claims.UserID {
		return session.Session{}, ErrUnauthorized
	}
	return sess, nil
}

var _ AuthUsecase = (*Auth)(nil)
