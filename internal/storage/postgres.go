package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// Postgres stores the aggregate as a single JSON document row, using the
// revision column for compare-and-swap. The document shape is identical to
// the flat-file provider's, so the two are interchangeable behind the
// Provider contract.
type Postgres struct {
	db *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS portal_database (
	id       int PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	revision bigint NOT NULL,
	document jsonb NOT NULL
)`

// NewPostgres opens a connection with the given DSN and ensures the schema
// exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure portal_database table: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// ReadAll loads the single document row, or an empty database when none has
// been written yet.
func (p *Postgres) ReadAll(ctx context.Context) (Database, error) {
	var (
		revision uint64
		document []byte
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT revision, document FROM portal_database WHERE id = 1`,
	).Scan(&revision, &document)
	if errors.Is(err, sql.ErrNoRows) {
		var db Database
		db.Normalize()
		return db, nil
	}
	if err != nil {
		return Database{}, fmt.Errorf("read portal database: %w", err)
	}

	var db Database
	if err := json.Unmarshal(document, &db); err != nil {
		return Database{}, fmt.Errorf("decode portal database: %w", err)
	}
	db.Revision = revision
	db.Normalize()
	return db, nil
}

// WriteAll upserts the document row, guarded by the revision column.
func (p *Postgres) WriteAll(ctx context.Context, db Database) error {
	next := db
	next.Revision = db.Revision + 1
	next.Normalize()

	document, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode portal database: %w", err)
	}

	res, err := p.db.ExecContext(ctx,
		`UPDATE portal_database SET revision = $1, document = $2
		 WHERE id = 1 AND revision = $3`,
		next.Revision, document, db.Revision,
	)
	if err != nil {
		return fmt.Errorf("write portal database: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write portal database: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// No row updated: either the row does not exist yet (first write, only
	// valid from revision 0) or the snapshot is stale.
	if db.Revision == 0 {
		res, err = p.db.ExecContext(ctx,
			`INSERT INTO portal_database (id, revision, document)
			 VALUES (1, $1, $2) ON CONFLICT (id) DO NOTHING`,
			next.Revision, document,
		)
		if err != nil {
			return fmt.Errorf("write portal database: %w", err)
		}
		if affected, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("write portal database: %w", err)
		}
		if affected > 0 {
			return nil
		}
	}

	current, readErr := p.ReadAll(ctx)
	if readErr != nil {
		return readErr
	}
	return ErrRevisionConflict(db.Revision, current.Revision)
}
