package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/yywc/internal/analyze"
	"github.com/MikeSquared-Agency/yywc/internal/events"
	"github.com/MikeSquared-Agency/yywc/internal/store"
)

const sinkTimeout = 10 * time.Second

// recordRun stores the run in Postgres when a database is configured.
// Failures are logged and never fail the run.
func (a *app) recordRun(ctx context.Context, logger *slog.Logger, runID uuid.UUID, s analyze.Summary) {
	if a.cfg.DatabaseURL == "" {
		logger.Info("database not configured, run not recorded")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, sinkTimeout)
	defer cancel()

	db, err := store.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		logger.Warn("failed to connect to database", "error", err)
		return
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		logger.Warn("failed to ensure schema", "error", err)
		return
	}
	run, err := store.NewRun(runID, s)
	if err != nil {
		logger.Warn("failed to build run record", "error", err)
		return
	}
	if err := db.SaveRun(ctx, run); err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	logger.Info("run recorded")
}

// announceRun publishes a SummaryCompleted event when NATS is configured.
// Failures are logged and never fail the run.
func (a *app) announceRun(ctx context.Context, logger *slog.Logger, runID uuid.UUID, s analyze.Summary) {
	if a.cfg.NatsURL == "" {
		logger.Info("nats not configured, run not announced")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, sinkTimeout)
	defer cancel()

	pub, err := events.NewPublisher(ctx, a.cfg.NatsURL, a.cfg.NatsToken, logger)
	if err != nil {
		logger.Warn("failed to connect to NATS", "error", err)
		return
	}
	defer pub.Close()

	err = pub.Publish(ctx, events.SubjectSummaryCompleted, events.SummaryCompleted{
		RunID:              runID.String(),
		Source:             s.Source,
		Year:               s.Year,
		TotalMessages:      s.TotalMessages,
		TotalConversations: s.TotalConversations,
		TotalWords:         s.TotalWords,
		OutDir:             a.cfg.OutDir,
		CompletedAt:        time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("failed to publish summary event", "error", err)
		return
	}
	logger.Info("run announced", "subject", events.SubjectSummaryCompleted)
}
