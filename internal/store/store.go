package store

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/courtpipe/courtpipe/internal/model"
)

// RecordFilter specifies criteria for listing enhanced records.
type RecordFilter struct {
	Category model.DocumentCategory `json:"category,omitempty"`
	Court    string                 `json:"court,omitempty"`
	Limit    int                    `json:"limit,omitempty"`
	Offset   int                    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the enhancement pipeline.
// UpsertRecord is keyed on document_hash: a second write for the same hash
// merges, never duplicates, preserving previously resolved fields.
type Store interface {
	// Records
	UpsertRecord(ctx context.Context, record *model.EnhancedRecord) (created bool, err error)
	GetRecord(ctx context.Context, documentHash string) (*model.EnhancedRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.EnhancedRecord, error)

	// Batch verification reports
	SaveReport(ctx context.Context, report *model.BatchReport) error
	GetReport(ctx context.Context, batchID string) (*model.BatchReport, error)
	ListReports(ctx context.Context, limit int) ([]model.BatchReport, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// IsConflict reports whether err is a duplicate-key violation from either
// backend. Conflicting concurrent upserts of the same hash are retried once
// with the merge policy.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}

// hashLocks serializes upserts per document hash within this process. Two
// workers computing the same hash concurrently must not both run the
// read-merge-write sequence at once.
type hashLocks struct {
	stripes [64]sync.Mutex
}

func (h *hashLocks) lock(key string) *sync.Mutex {
	f := fnv.New32a()
	_, _ = f.Write([]byte(key))
	mu := &h.stripes[f.Sum32()%uint32(len(h.stripes))]
	mu.Lock()
	return mu
}
