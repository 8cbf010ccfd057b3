package seenstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// SQLite persists fingerprints in a single-file database. Entries older than
// the retention window are pruned on Load; retention 0 keeps them forever.
type SQLite struct {
	db            *sql.DB
	retentionDays int
}

// OpenSQLite opens (and migrates) the fingerprint database at path.
func OpenSQLite(path string, retentionDays int) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open seen database: %w", err)
	}

	// sqlite wants a single writer.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping seen database: %w", err)
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS fingerprints (
  fingerprint TEXT PRIMARY KEY,
  first_seen TEXT NOT NULL
);
`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate seen database: %w", err)
	}

	return &SQLite{db: db, retentionDays: retentionDays}, nil
}

func (s *SQLite) Load(ctx context.Context) (Set, error) {
	if s.retentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays).Format(time.RFC3339)
		query, args, err := sq.Delete("fingerprints").Where(sq.Lt{"first_seen": cutoff}).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build prune query: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("prune expired fingerprints: %w", err)
		}
	}

	query, _, err := sq.Select("fingerprint").From("fingerprints").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}
	defer rows.Close()

	set := Set{}
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		set.Add(fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}

	return set, nil
}

func (s *SQLite) Save(ctx context.Context, set Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for fp := range set {
		query, args, err := sq.Insert("fingerprints").
			Options("OR IGNORE").
			Columns("fingerprint", "first_seen").
			Values(fp, now).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert fingerprint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
