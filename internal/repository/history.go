// Package repository implements the durable activity-history store.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/echohealth-screening-server/internal/domain"
)

// HistoryStore is the durable, queryable log of activity records. Records
// are write-once apart from the is_liked annotation and are only ever
// removed in bulk.
type HistoryStore struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewHistoryStore creates a new history store over an open, migrated
// database.
func NewHistoryStore(db *sql.DB, logger *logrus.Logger) *HistoryStore {
	return &HistoryStore{db: db, log: logger}
}

// Insert appends a new record and returns its assigned id. Storage faults
// are reported to the caller, never swallowed.
func (s *HistoryStore) Insert(ctx context.Context, record domain.ActivityRecord) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (
			title, description, timestamp, type,
			risk_level, risk_score, risk_percent, is_liked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Title,
		record.Description,
		record.TimestampMillis,
		nullableType(record.Type),
		record.RiskLevel,
		record.RiskScore,
		record.RiskPercent,
		boolToInt(record.IsLiked),
	)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"title": record.Title,
			"error": err,
		}).Error("Failed to insert activity")
		return 0, fmt.Errorf("inserting activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted activity id: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"id":    id,
		"title": record.Title,
	}).Debug("Activity inserted")

	return id, nil
}

// List returns up to limit records, most recent first. Ordering is by
// timestamp descending with id descending as the tie-breaker, so insertion
// order decides between records sharing a timestamp.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, timestamp, type,
		       risk_level, risk_score, risk_percent, is_liked
		FROM activities
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		record, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}

	return records, nil
}

// SetLiked updates the is_liked annotation of one record. A missing id is a
// no-op, not an error.
func (s *HistoryStore) SetLiked(ctx context.Context, id int64, liked bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE activities SET is_liked = ? WHERE id = ?",
		boolToInt(liked), id)
	if err != nil {
		return fmt.Errorf("updating like status: %w", err)
	}

	updated, err := result.RowsAffected()
	if err == nil && updated == 0 {
		s.log.WithField("id", id).Debug("SetLiked matched no record")
	}

	return nil
}

// Clear deletes all records unconditionally.
func (s *HistoryStore) Clear(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM activities")
	if err != nil {
		return fmt.Errorf("clearing activities: %w", err)
	}

	if deleted, derr := result.RowsAffected(); derr == nil {
		s.log.WithField("deleted", deleted).Info("Activity history cleared")
	}

	return nil
}

// Count returns the number of stored records.
func (s *HistoryStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(s scanner) (domain.ActivityRecord, error) {
	var (
		record       domain.ActivityRecord
		activityType sql.NullString
		riskLevel    sql.NullString
		riskScore    sql.NullInt64
		riskPercent  sql.NullInt64
		liked        int
	)

	err := s.Scan(
		&record.ID, &record.Title, &record.Description, &record.TimestampMillis,
		&activityType, &riskLevel, &riskScore, &riskPercent, &liked,
	)
	if err != nil {
		return domain.ActivityRecord{}, err
	}

	if activityType.Valid {
		record.Type = domain.ActivityType(activityType.String)
	}
	if riskLevel.Valid {
		record.RiskLevel = &riskLevel.String
	}
	if riskScore.Valid {
		v := int(riskScore.Int64)
		record.RiskScore = &v
	}
	if riskPercent.Valid {
		v := int(riskPercent.Int64)
		record.RiskPercent = &v
	}
	record.IsLiked = liked == 1

	return record, nil
}

func nullableType(t domain.ActivityType) interface{} {
	if t == "" {
		return nil
	}
	return string(t)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
