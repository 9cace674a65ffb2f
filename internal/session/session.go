// Package session owns the state that bridges an anonymous visitor and an
// authenticated user: the authenticated session itself and the resume a
// visitor uploaded before logging in.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	UpstreamToken string    `json:"upstream_token"`
	CreatedAt     time.Time `json:"created_at"`
}

// PendingUpload is a resume received before login, analysed once the visitor
// authenticates.
type PendingUpload struct {
	FileName   string    `json:"file_name"`
	Content    []byte    `json:"content"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Store interface {
	SaveSession(ctx context.Context, s Session, ttl time.Duration) error
	GetSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error

	SavePending(ctx context.Context, anonID string, p PendingUpload, ttl time.Duration) error
	// TakePending returns and removes the pending upload.
	TakePending(ctx context.Context, anonID string) (PendingUpload, bool, error)
}
