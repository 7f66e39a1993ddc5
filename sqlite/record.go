package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/obras"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ obras.RecordStore = (*RecordStore)(nil)

// Run is one archived scraping run.
type Run struct {
	ID        string
	StartedAt time.Time
	Records   int
}

// RecordStore implements obras.RecordStore by archiving every run in
// SQLite. All records of a run are written in one transaction which is
// committed or rolled back with the run.
type RecordStore struct {
	db    *DB
	runID string
	tx    *sql.Tx
}

// NewRecordStore creates a new RecordStore for one run.
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db, runID: uuid.New().String()}
}

// RunID returns the identifier records of this run are stored under.
func (s *RecordStore) RunID() string {
	return s.runID
}

// Save inserts rec into the pending run.
func (s *RecordStore) Save(ctx context.Context, rec *obras.OutputRecord) error {
	if s.tx == nil {
		tx, err := s.db.BeginTx(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, started_at) VALUES (?, ?)`,
			s.runID, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return err
		}
		s.tx = tx
	}

	row := rec.Row()
	_, err := s.tx.ExecContext(ctx, `
		INSERT INTO records (run_id, idx, bpin, name, name_corr, meta_title, slug,
			objective, objective_corr, cost, beneficiaries, viabilization_date,
			sector, sector_corr, preinvestment, classification, location_data,
			loc_table, deptos, jsonld, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.runID, rec.Index, rec.BPIN, rec.Name, rec.NameCorrected, rec.MetaTitle, rec.Slug,
		rec.Objective, rec.ObjectiveCorrected, rec.Cost, rec.Beneficiaries, rec.ViabilizationDate,
		rec.Sector, rec.SectorCorrected, rec.Preinvestment, rec.Classification, rec.LocationData,
		rec.LocationTable, rec.Departments, rec.JSONLD, hashRow(row))
	return err
}

// Commit commits the pending run.
func (s *RecordStore) Commit() error {
	if s.tx == nil {
		return obras.Errorf(obras.EINVALID, "no records to commit")
	}
	err := s.tx.Commit()
	s.tx = nil
	return err
}

// Abort rolls back the pending run.
func (s *RecordStore) Abort() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	return err
}

// FindRecords returns the records of a run ordered by listing index.
// Returns ENOTFOUND if the run does not exist.
func (s *RecordStore) FindRecords(ctx context.Context, runID string) ([]*obras.OutputRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, obras.Errorf(obras.ENOTFOUND, "run not found")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, bpin, name, name_corr, meta_title, slug, objective, objective_corr,
			cost, beneficiaries, viabilization_date, sector, sector_corr, preinvestment,
			classification, location_data, loc_table, deptos, jsonld
		FROM records
		WHERE run_id = ?
		ORDER BY idx
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*obras.OutputRecord
	for rows.Next() {
		var r obras.OutputRecord
		if err := rows.Scan(&r.Index, &r.BPIN, &r.Name, &r.NameCorrected, &r.MetaTitle, &r.Slug,
			&r.Objective, &r.ObjectiveCorrected, &r.Cost, &r.Beneficiaries, &r.ViabilizationDate,
			&r.Sector, &r.SectorCorrected, &r.Preinvestment, &r.Classification, &r.LocationData,
			&r.LocationTable, &r.Departments, &r.JSONLD); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// FindRuns returns all archived runs, newest first.
func (s *RecordStore) FindRuns(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at, COUNT(rec.idx)
		FROM runs r
		LEFT JOIN records rec ON rec.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var startedAt string
		if err := rows.Scan(&run.ID, &startedAt, &run.Records); err != nil {
			return nil, err
		}
		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// ContentHash returns the stored content hash of a record.
// Returns ENOTFOUND if the record does not exist.
func (s *RecordStore) ContentHash(ctx context.Context, runID string, index int) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT content_hash FROM records WHERE run_id = ? AND idx = ?`,
		runID, index).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", obras.Errorf(obras.ENOTFOUND, "record not found")
	}
	return hash, err
}
