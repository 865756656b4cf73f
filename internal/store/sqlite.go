package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/courtpipe/courtpipe/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db    *sql.DB
	locks hashLocks
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS records (
	document_hash TEXT PRIMARY KEY,
	category      TEXT NOT NULL,
	court_code    TEXT,
	court_tier    TEXT NOT NULL,
	judge         TEXT NOT NULL,
	citations     TEXT,
	structure     TEXT NOT NULL,
	keywords      TEXT,
	quality       TEXT NOT NULL,
	outcomes      TEXT NOT NULL,
	source_id     TEXT NOT NULL,
	source        TEXT NOT NULL,
	case_number   TEXT,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS batches (
	id          TEXT PRIMARY KEY,
	report      TEXT NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_category ON records(category);
CREATE INDEX IF NOT EXISTS idx_records_court ON records(court_code);
CREATE INDEX IF NOT EXISTS idx_records_case_number ON records(case_number);
CREATE INDEX IF NOT EXISTS idx_batches_started_at ON batches(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertRecord inserts or merges by document hash. The read-merge-write
// sequence is serialized per hash so concurrent reprocessing of the same
// document converges to one record.
func (s *SQLiteStore) UpsertRecord(ctx context.Context, record *model.EnhancedRecord) (bool, error) {
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
		return false, eris.Wrap(err, "sqlite: encode record")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (
			document_hash, category, court_code, court_tier, judge, citations,
			structure, keywords, quality, outcomes, source_id, source,
			case_number, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (document_hash) DO UPDATE SET
			category = excluded.category,
			court_code = excluded.court_code,
			court_tier = excluded.court_tier,
			judge = excluded.judge,
			citations = excluded.citations,
			structure = excluded.structure,
			keywords = excluded.keywords,
			quality = excluded.quality,
			outcomes = excluded.outcomes,
			source_id = excluded.source_id,
			source = excluded.source,
			case_number = excluded.case_number,
			updated_at = excluded.updated_at`,
		row.DocumentHash, string(row.Category), row.Court.Code, string(row.Court.Tier),
		cols.judge, cols.citations, cols.structure, cols.keywords, cols.quality,
		cols.outcomes, row.SourceID, row.Source, row.CaseNumber,
		row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: upsert record %s", row.DocumentHash)
	}
	*record = row
	return created, nil
}

func (s *SQLiteStore) GetRecord(ctx context.Context, documentHash string) (*model.EnhancedRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT document_hash, category, court_code, court_tier, judge, citations,
			structure, keywords, quality, outcomes, source_id, source,
			case_number, created_at, updated_at
		 FROM records WHERE document_hash = ?`,
		documentHash,
	)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get record")
	}
	return rec, nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.EnhancedRecord, error) {
	query := `SELECT document_hash, category, court_code, court_tier, judge, citations,
		structure, keywords, quality, outcomes, source_id, source,
		case_number, created_at, updated_at
	 FROM records WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	if filter.Court != "" {
		query += ` AND court_code = ?`
		args = append(args, filter.Court)
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var records []model.EnhancedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func (s *SQLiteStore) SaveReport(ctx context.Context, report *model.BatchReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO batches (id, report, started_at, finished_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET report = excluded.report, finished_at = excluded.finished_at`,
		report.BatchID, string(reportJSON), report.StartedAt, report.FinishedAt,
	)
	return eris.Wrap(err, "sqlite: save report")
}

func (s *SQLiteStore) GetReport(ctx context.Context, batchID string) (*model.BatchReport, error) {
	var reportJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM batches WHERE id = ?`, batchID,
	).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get report")
	}
	var report model.BatchReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal report")
	}
	return &report, nil
}

func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]model.BatchReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT report FROM batches ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var reports []model.BatchReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report")
		}
		var report model.BatchReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal report")
		}
		reports = append(reports, report)
	}
	return reports, eris.Wrap(rows.Err(), "sqlite: list reports iterate")
}

// encodedColumns holds the JSON-encoded nested fields of a record.
type encodedColumns struct {
	judge     string
	citations string
	structure string
	keywords  string
	quality   string
	outcomes  string
}

func encodeRecord(r *model.EnhancedRecord) (encodedColumns, error) {
	var cols encodedColumns
	var err error

	encode := func(v any) string {
		if err != nil {
			return ""
		}
		var b []byte
		b, err = json.Marshal(v)
		return string(b)
	}

	cols.judge = encode(r.Judge)
	cols.citations = encode(r.Citations)
	cols.structure = encode(r.Structure)
	cols.keywords = encode(r.Keywords)
	cols.quality = encode(r.Quality)
	cols.outcomes = encode(r.Outcomes)
	return cols, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*model.EnhancedRecord, error) {
	var r model.EnhancedRecord
	var category, tier string
	var courtCode, caseNumber sql.NullString
	var judge, citations, structure, keywords, quality, outcomes sql.NullString
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&r.DocumentHash, &category, &courtCode, &tier, &judge, &citations,
		&structure, &keywords, &quality, &outcomes, &r.SourceID, &r.Source,
		&caseNumber, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Category = model.DocumentCategory(category)
	r.Court = model.ResolvedCourt{Code: courtCode.String, Tier: model.CourtTier(tier)}
	r.CaseNumber = caseNumber.String
	r.CreatedAt = createdAt
	r.UpdatedAt = updatedAt

	decode := func(src sql.NullString, dst any) {
		if err != nil || !src.Valid || src.String == "" || src.String == "null" {
			return
		}
		err = json.Unmarshal([]byte(src.String), dst)
	}

	decode(judge, &r.Judge)
	decode(citations, &r.Citations)
	decode(structure, &r.Structure)
	decode(keywords, &r.Keywords)
	decode(quality, &r.Quality)
	decode(outcomes, &r.Outcomes)
	if err != nil {
		return nil, err
	}

	return &r, nil
}
