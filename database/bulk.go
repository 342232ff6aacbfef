package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// BulkLoader streams large record batches into Postgres through COPY.
// The consolidated exports run past a million rows; row-by-row inserts
// are too slow for the initial backfill.
type BulkLoader struct {
	conn *sql.DB
}

// NewBulkLoader opens a dedicated connection for COPY operations
func NewBulkLoader(host, port, dbname, user, password string) (*BulkLoader, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open bulk connection: %w", err)
	}

	conn.SetMaxOpenConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &BulkLoader{conn: conn}, nil
}

// CopyRecords loads records in one COPY transaction
func (l *BulkLoader) CopyRecords(records []LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := l.conn.Begin()
	if err != nil {
		return WrapDBError("CopyRecords.Begin", err)
	}

	stmt, err := tx.Prepare(pq.CopyIn("log_records",
		"country", "timestamp", "file_id", "status", "volume", "s3_size", "local_size"))
	if err != nil {
		tx.Rollback()
		return WrapDBError("CopyRecords.Prepare", err)
	}

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Country, rec.Timestamp, rec.FileID, rec.Status,
			rec.Volume, rec.S3Size, rec.LocalSize); err != nil {
			stmt.Close()
			tx.Rollback()
			return WrapDBError("CopyRecords.Exec", err)
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		tx.Rollback()
		return WrapDBError("CopyRecords.Flush", err)
	}

	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return WrapDBError("CopyRecords.Close", err)
	}

	if err := tx.Commit(); err != nil {
		return WrapDBError("CopyRecords.Commit", err)
	}
	return nil
}

// Close closes the bulk connection
func (l *BulkLoader) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
