package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
)

type syncHistoryStore struct {
	store *Store
}

var _ driven.SyncHistoryStore = (*syncHistoryStore)(nil)

// Record stores a sync run and returns its ID.
func (s *syncHistoryStore) Record(ctx context.Context, record domain.SyncRecord) (int64, error) {
	if record.ConnectionID <= 0 || record.Status == "" {
		return 0, domain.ErrInvalidInput
	}

	statsJSON, err := json.Marshal(record.Stats)
	if err != nil {
		return 0, fmt.Errorf("marshalling sync stats: %w", err)
	}

	requestedAt := record.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_history
			(connection_id, full_sync, status, stats, error, requested_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ConnectionID, record.FullSync, record.Status, string(statsJSON), record.Error,
		requestedAt.UTC(), nullTime(record.StartedAt), nullTime(record.CompletedAt))
	if err != nil {
		return 0, fmt.Errorf("saving sync record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading sync record id: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first.
func (s *syncHistoryStore) List(ctx context.Context, connectionID int64, limit int) ([]domain.SyncRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, connection_id, full_sync, status, stats, error, requested_at, started_at, completed_at
		FROM sync_history
		WHERE ? = 0 OR connection_id = ?
		ORDER BY requested_at DESC, id DESC
		LIMIT ?
	`, connectionID, connectionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync history: %w", err)
	}
	defer rows.Close()

	var records []domain.SyncRecord
	for rows.Next() {
		record, err := scanSyncRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync history: %w", err)
	}
	return records, nil
}

// scanSyncRecord scans a single sync_history row.
func scanSyncRecord(rows *sql.Rows) (*domain.SyncRecord, error) {
	var record domain.SyncRecord
	var statsJSON sql.NullString
	var startedAt, completedAt sql.NullTime

	if err := rows.Scan(&record.ID, &record.ConnectionID, &record.FullSync, &record.Status,
		&statsJSON, &record.Error, &record.RequestedAt, &startedAt, &completedAt); err != nil {
		return nil, fmt.Errorf("scanning sync record: %w", err)
	}

	if statsJSON.Valid && statsJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(statsJSON.String), &record.Stats); err != nil {
			return nil, fmt.Errorf("unmarshalling sync stats: %w", err)
		}
	}
	if startedAt.Valid {
		record.StartedAt = startedAt.Time
	}
	if completedAt.Valid {
		record.CompletedAt = completedAt.Time
	}
	return &record, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
