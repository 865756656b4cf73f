package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/courtpipe/courtpipe/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool  Pool
	locks hashLocks
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS records (
	document_hash TEXT PRIMARY KEY,
	category      TEXT NOT NULL,
	court_code    TEXT,
	court_tier    TEXT NOT NULL,
	judge         JSONB NOT NULL,
	citations     JSONB,
	structure     JSONB NOT NULL,
	keywords      JSONB,
	quality       JSONB NOT NULL,
	outcomes      JSONB NOT NULL,
	source_id     TEXT NOT NULL,
	source        TEXT NOT NULL,
	case_number   TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS batches (
	id          TEXT PRIMARY KEY,
	report      JSONB NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_category ON records(category);
CREATE INDEX IF NOT EXISTS idx_records_court ON records(court_code);
CREATE INDEX IF NOT EXISTS idx_records_case_number ON records(case_number);
CREATE INDEX IF NOT EXISTS idx_batches_started_at ON batches(started_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// UpsertRecord inserts or merges by document hash. The in-process lock
// serializes same-hash writers; the ON CONFLICT clause makes the write
// atomic against other processes, and the caller retries once on a
// surviving conflict.
func (s *PostgresStore) UpsertRecord(ctx context.Context, record *model.EnhancedRecord) (bool, error) {
	mu := s.locks.lock(record.DocumentHash)
	defer mu.Unlock()

	existing, err := s.GetRecord(ctx, record.DocumentHash)
	if err != nil {
		return false, err
	}

	row := *record
	created := existing == nil
	if existing != nil {
		row = existing.Merge(*record)
	}

	cols, err := encodeRecord(&row)
	if err != nil {
		return false, eris.Wrap(err, "postgres: encode record")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO records (
			document_hash, category, court_code, court_tier, judge, citations,
			structure, keywords, quality, outcomes, source_id, source,
			case_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (document_hash) DO UPDATE SET
			category = EXCLUDED.category,
			court_code = EXCLUDED.court_code,
			court_tier = EXCLUDED.court_tier,
			judge = EXCLUDED.judge,
			citations = EXCLUDED.citations,
			structure = EXCLUDED.structure,
			keywords = EXCLUDED.keywords,
			quality = EXCLUDED.quality,
			outcomes = EXCLUDED.outcomes,
			source_id = EXCLUDED.source_id,
			source = EXCLUDED.source,
			case_number = EXCLUDED.case_number,
			updated_at = EXCLUDED.updated_at`,
		row.DocumentHash, string(row.Category), row.Court.Code, string(row.Court.Tier),
		cols.judge, cols.citations, cols.structure, cols.keywords, cols.quality,
		cols.outcomes, row.SourceID, row.Source, row.CaseNumber,
		row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: upsert record %s", row.DocumentHash)
	}
	*record = row
	return created, nil
}

func (s *PostgresStore) GetRecord(ctx context.Context, documentHash string) (*model.EnhancedRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT document_hash, category, court_code, court_tier, judge, citations,
			structure, keywords, quality, outcomes, source_id, source,
			case_number, created_at, updated_at
		 FROM records WHERE document_hash = $1`,
		documentHash,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get record")
	}
	return rec, nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.EnhancedRecord, error) {
	query := `SELECT document_hash, category, court_code, court_tier, judge, citations,
		structure, keywords, quality, outcomes, source_id, source,
		case_number, created_at, updated_at
	 FROM records WHERE 1=1`
	var args []any

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.Court != "" {
		args = append(args, filter.Court)
		query += ` AND court_code = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var records []model.EnhancedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list records iterate")
}

func (s *PostgresStore) SaveReport(ctx context.Context, report *model.BatchReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO batches (id, report, started_at, finished_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET report = EXCLUDED.report, finished_at = EXCLUDED.finished_at`,
		report.BatchID, string(reportJSON), report.StartedAt, report.FinishedAt,
	)
	return eris.Wrap(err, "postgres: save report")
}

func (s *PostgresStore) GetReport(ctx context.Context, batchID string) (*model.BatchReport, error) {
	var reportJSON string
	err := s.pool.QueryRow(ctx,
		`SELECT report FROM batches WHERE id = $1`, batchID,
	).Scan(&reportJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get report")
	}
	var report model.BatchReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal report")
	}
	return &report, nil
}

func (s *PostgresStore) ListReports(ctx context.Context, limit int) ([]model.BatchReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT report FROM batches ORDER BY started_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var reports []model.BatchReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report")
		}
		var report model.BatchReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal report")
		}
		reports = append(reports, report)
	}
	return reports, eris.Wrap(rows.Err(), "postgres: list reports iterate")
}
