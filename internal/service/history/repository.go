// Package history persists finished searches to PostgreSQL.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/avdeev/channel-scout-go/internal/domain"
	"github.com/avdeev/channel-scout-go/internal/service/database"
	"github.com/avdeev/channel-scout-go/pkg/errors"
	"go.uber.org/zap"
)

type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewRepository(postgres *database.PostgresService, logger *zap.Logger) *Repository {
	return &Repository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// EnsureSchema creates the search log table when it does not exist yet. The
// deployment has no migration tooling, so the bot owns its own schema.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS search_log (
			id            BIGSERIAL PRIMARY KEY,
			chat_id       BIGINT NOT NULL,
			query         TEXT NOT NULL,
			handle_count  INT NOT NULL,
			result_count  INT NOT NULL,
			quality_score DOUBLE PRECISION NOT NULL,
			elapsed_ms    BIGINT NOT NULL,
			success       BOOLEAN NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return errors.NewServiceError("failed to ensure search_log schema", "history", "ensure_schema", err)
	}
	return nil
}

// RecordSearch inserts one finished search.
func (r *Repository) RecordSearch(ctx context.Context, entry domain.SearchLogEntry) error {
	query := `
		INSERT INTO search_log (chat_id, query, handle_count, result_count, quality_score, elapsed_ms, success)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ChatID,
		entry.Query,
		entry.HandleCount,
		entry.ResultCount,
		entry.QualityScore,
		entry.Elapsed.Milliseconds(),
		entry.Success,
	)
	if err != nil {
		return errors.NewServiceError("failed to insert search log entry", "history", "record_search", err)
	}

	r.logger.Debug("Search recorded",
		zap.Int64("chat_id", entry.ChatID),
		zap.Int("results", entry.ResultCount),
	)
	return nil
}

// RecentSearches returns the latest entries for a chat, newest first.
func (r *Repository) RecentSearches(ctx context.Context, chatID int64, limit int) ([]domain.SearchLogEntry, error) {
	query := `
		SELECT chat_id, query, handle_count, result_count, quality_score, elapsed_ms, success
		FROM search_log
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, errors.NewServiceError("failed to query search log", "history", "recent_searches", err)
	}
	defer rows.Close()

	entries := make([]domain.SearchLogEntry, 0, limit)
	for rows.Next() {
		var entry domain.SearchLogEntry
		var elapsedMs int64
		if err := rows.Scan(
			&entry.ChatID,
			&entry.Query,
			&entry.HandleCount,
			&entry.ResultCount,
			&entry.QualityScore,
			&elapsedMs,
			&entry.Success,
		); err != nil {
			return nil, errors.NewServiceError("failed to scan search log row", "history", "recent_searches", err)
		}
		entry.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
