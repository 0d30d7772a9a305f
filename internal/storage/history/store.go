// Package history keeps an append-only log of committed marketplace events
// in a SQL database, so offer lifecycles can be queried after the fact.
// SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq) are supported.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Supported drivers, as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MaxLimit caps the rows a single query returns.
const MaxLimit = 1000

// Record is one event of one committed transaction.
type Record struct {
	Sequence uint64 `json:"sequence"`
	// Index orders events within the transaction
	Index      int             `json:"index"`
	TxHash     string          `json:"txHash"`
	Type       string          `json:"type"`
	Collection string          `json:"collection,omitempty"`
	OfferID    uint64          `json:"offerId,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	Time       time.Time       `json:"time"`
}

// Store is a SQL-backed event log.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	driver string
}

// Open connects to the database and creates the schema if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer; also keeps ":memory:" databases on a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		id = "BIGSERIAL PRIMARY KEY"
	}
	queries := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id ` + id + `,
			seq BIGINT NOT NULL,
			idx INTEGER NOT NULL,
			tx_hash TEXT NOT NULL,
			type TEXT NOT NULL,
			collection TEXT NOT NULL DEFAULT '',
			offer_id BIGINT NOT NULL DEFAULT 0,
			payload TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			UNIQUE (seq, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS events_offer ON events (collection, offer_id)`,
	}
	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to the driver's style.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Append stores records in one transaction. Records already stored under
// the same sequence and index are skipped.
func (s *Store) Append(ctx context.Context, records []Record) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrStoreClosed
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO events
		(seq, idx, tx_hash, type, collection, offer_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (seq, idx) DO NOTHING`))
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			int64(r.Sequence), r.Index, r.TxHash, r.Type, r.Collection,
			int64(r.OfferID), string(r.Payload), r.Time.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert event %d/%d: %w", r.Sequence, r.Index, err)
		}
	}
	return tx.Commit()
}

// Events returns records with a sequence above since, oldest first.
func (s *Store) Events(ctx context.Context, since uint64, limit int) ([]Record, error) {
	if limit <= 0 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	return s.query(ctx, `WHERE seq > ? ORDER BY seq, idx LIMIT ?`, int64(since), limit)
}

// OfferHistory returns every event recorded for one offer, oldest first.
func (s *Store) OfferHistory(ctx context.Context, collection string, offerID uint64) ([]Record, error) {
	return s.query(ctx, `WHERE collection = ? AND offer_id = ? ORDER BY seq, idx`, collection, int64(offerID))
}

// LastSequence returns the highest stored sequence, 0 when empty.
func (s *Store) LastSequence(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, ErrStoreClosed
	}
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM events`).Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

func (s *Store) query(ctx context.Context, where string, args ...any) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT
		seq, idx, tx_hash, type, collection, offer_id, payload, created_at
		FROM events `+where), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r            Record
			seq, offerID int64
			payload      string
			created      int64
		)
		if err := rows.Scan(&seq, &r.Index, &r.TxHash, &r.Type, &r.Collection, &offerID, &payload, &created); err != nil {
			return nil, err
		}
		r.Sequence = uint64(seq)
		r.OfferID = uint64(offerID)
		r.Payload = json.RawMessage(payload)
		r.Time = time.UnixMilli(created).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database. Further calls fail with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
