package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/yywc/internal/analyze"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// DefaultRunLimit caps LatestRuns when the caller passes a non-positive n.
const DefaultRunLimit = 20

// Run is one row of summary_runs.
type Run struct {
	ID                 uuid.UUID       `json:"id"`
	Source             string          `json:"source"`
	Year               *int            `json:"year"`
	TotalMessages      int             `json:"total_messages"`
	TotalConversations int             `json:"total_conversations"`
	TotalWords         int             `json:"total_words"`
	Summary            json.RawMessage `json:"summary,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// NewRun captures the headline numbers and full JSON of s under id.
func NewRun(id uuid.UUID, s analyze.Summary) (Run, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return Run{}, fmt.Errorf("marshal summary: %w", err)
	}
	return Run{
		ID:                 id,
		Source:             s.Source,
		Year:               s.Year,
		TotalMessages:      s.TotalMessages,
		TotalConversations: s.TotalConversations,
		TotalWords:         s.TotalWords,
		Summary:            raw,
	}, nil
}

// SaveRun inserts r. A zero CreatedAt is stamped by the database.
func (s *Store) SaveRun(ctx context.Context, r Run) error {
	var createdAt *time.Time
	if !r.CreatedAt.IsZero() {
		createdAt = &r.CreatedAt
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO summary_runs (id, source, year, total_messages, total_conversations, total_words, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))`,
		r.ID, r.Source, r.Year, r.TotalMessages, r.TotalConversations, r.TotalWords, []byte(r.Summary), createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// LatestRuns returns up to n runs, newest first, without the summary body.
func (s *Store) LatestRuns(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		n = DefaultRunLimit
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, source, year, total_messages, total_conversations, total_words, created_at
		FROM summary_runs
		ORDER BY created_at DESC
		LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.Year, &r.TotalMessages, &r.TotalConversations, &r.TotalWords, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches one run including its summary body.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var r Run
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT id, source, year, total_messages, total_conversations, total_words, summary, created_at
		FROM summary_runs
		WHERE id = $1`, id,
	).Scan(&r.ID, &r.Source, &r.Year, &r.TotalMessages, &r.TotalConversations, &r.TotalWords, &raw, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	r.Summary = raw
	return &r, nil
}
