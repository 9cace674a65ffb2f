package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"skill-upcycle/internal/database"
	"skill-upcycle/internal/domain/analysis"

	"github.com/google/uuid"
)

// AnalysisHistoryRepository keeps a local copy of every analysis returned by
// the remote backend, so the dashboard still renders when it is unreachable.
type AnalysisHistoryRepository interface {
	Save(ctx context.Context, userID int64, r analysis.Resume) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]analysis.Resume, error)
}

const defaultHistoryLimit = 50

func clampHistoryLimit(limit int) int {
	if limit <= 0 || limit > defaultHistoryLimit {
		return defaultHistoryLimit
	}
	return limit
}

type PostgresAnalysisHistoryRepository struct {
	db    database.DB
	newID func() uuid.UUID
}

func NewPostgresAnalysisHistoryRepository(db database.DB) *PostgresAnalysisHistoryRepository {
	return &PostgresAnalysisHistoryRepository{db: db, newID: uuid.New}
}

func (r *PostgresAnalysisHistoryRepository) Save(ctx context.Context, userID int64, res analysis.Resume) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	analysedAt := res.CreatedAt
	if analysedAt.IsZero() {
		analysedAt = time.Now().UTC()
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO analysis_history (id, user_id, analysis_id, kind, payload, analysed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, analysis_id, kind)
		 DO UPDATE SET payload = EXCLUDED.payload, analysed_at = EXCLUDED.analysed_at`,
		r.newID(), userID, res.ID, string(res.Kind), payload, analysedAt,
	)
	return err
}

func (r *PostgresAnalysisHistoryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]analysis.Resume, error) {
	rows, err := r.db.Query(ctx,
		`SELECT payload
		 FROM analysis_history
		 WHERE user_id = $1
		 ORDER BY analysed_at DESC
		 LIMIT $2`,
		userID, clampHistoryLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analysis.Resume, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var res analysis.Resume
		if err := json.Unmarshal(payload, &res); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MemoryAnalysisHistoryRepository is used when no database is configured.
type MemoryAnalysisHistoryRepository struct {
	mu     sync.RWMutex
	byUser map[int64][]analysis.Resume
}

func NewMemoryAnalysisHistoryRepository() *MemoryAnalysisHistoryRepository {
	return &MemoryAnalysisHistoryRepository{byUser: map[int64][]analysis.Resume{}}
}

func (r *MemoryAnalysisHistoryRepository) Save(_ context.Context, userID int64, res analysis.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byUser[userID]
	for i := range list {
		if list[i].ID == res.ID && list[i].Kind == res.Kind {
			list[i] = res
			return nil
		}
	}
	r.byUser[userID] = append(list, res)
	return nil
}

func (r *MemoryAnalysisHistoryRepository) ListByUser(_ context.Context, userID int64, limit int) ([]analysis.Resume, error) {
	r.mu.RLock()
	out := make([]analysis.Resume, len(r.byUser[userID]))
	copy(out, r.byUser[userID])
	r.mu.RUnlock()

	analysis.SortNewestFirst(out)
	if n := clampHistoryLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

var (
	_ AnalysisHistoryRepository = (*PostgresAnalysisHistoryRepository)(nil)
	_ AnalysisHistoryRepository = (*MemoryAnalysisHistoryRepository)(nil)
)
