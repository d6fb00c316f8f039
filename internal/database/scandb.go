package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/clonescan/clonescan/internal/model"
)

// dbFileName is the SQLite file name inside the archive directory.
const dbFileName = "clonescan.db"

// ScanDB archives completed scans in SQLite for historical comparison.
type ScanDB struct {
	// db is the underlying SQL connection.
	db *sql.DB

	// dbPath is the SQLite file location.
	dbPath string
}

// ScanRecord is an archived scan with its decoded findings.
type ScanRecord struct {
	ID           int64
	Target       string
	Timestamp    time.Time
	FindingCount int
	Findings     []model.Finding
}

// Open opens or creates the scan archive in dbDir.
func Open(dbDir string) (*ScanDB, error) {
	if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dbPath := filepath.Join(dbDir, dbFileName)

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; one pooled connection avoids
	// SQLITE_BUSY under concurrent archive writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return sdb, nil
}

// Close closes the database connection.
func (s *ScanDB) Close() error {
	return s.db.Close()
}

// createTables creates the schema if it does not exist.
func (s *ScanDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		finding_count INTEGER NOT NULL,
		findings_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_target ON scans(target);
	CREATE INDEX IF NOT EXISTS idx_scans_timestamp ON scans(timestamp);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// InsertScan archives a completed scan result.
func (s *ScanDB) InsertScan(ctx context.Context, result *model.ScanResult) (int64, error) {
	findings := result.Findings
	if findings == nil {
		findings = []model.Finding{}
	}
	data, err := json.Marshal(findings)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize findings: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (target, timestamp, finding_count, findings_json) VALUES (?, ?, ?, ?)`,
		result.Target,
		result.DateScanned.UTC(),
		len(findings),
		string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}
	return res.LastInsertId()
}

// ScanHistory returns all archived scans for a target, newest first.
func (s *ScanDB) ScanHistory(ctx context.Context, target string) ([]ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target, timestamp, finding_count, findings_json
		 FROM scans WHERE target = ? ORDER BY timestamp DESC, id DESC`,
		target,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ScanRecord
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetScan returns a single archived scan by ID.
func (s *ScanDB) GetScan(ctx context.Context, id int64) (*ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target, timestamp, finding_count, findings_json FROM scans WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("scan %d not found", id)
	}
	rec, err := scanRow(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListTargets returns the distinct targets present in the archive.
func (s *ScanDB) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT target FROM scans ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var targets []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// scanRow decodes one result row into a ScanRecord.
func scanRow(rows *sql.Rows) (ScanRecord, error) {
	var rec ScanRecord
	var findingsJSON string
	if err := rows.Scan(&rec.ID, &rec.Target, &rec.Timestamp, &rec.FindingCount, &findingsJSON); err != nil {
		return ScanRecord{}, fmt.Errorf("failed to scan row: %w", err)
	}
	if err := json.Unmarshal([]byte(findingsJSON), &rec.Findings); err != nil {
		return ScanRecord{}, fmt.Errorf("corrupt findings JSON for scan %d: %w", rec.ID, err)
	}
	return rec, nil
}
