package migration

import (
	"cmp"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	lockKey      int64 = 582019347
	lockPollWait       = 500 * time.Millisecond
)

var (
	ErrChecksumMismatch = errors.New("migration checksum mismatch")
	ErrOutOfOrder       = errors.New("migration older than the latest applied version")
)

// Migration is one V{n}__name.sql file.
type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// Runner applies migrations from FS in version order on a single connection
// while holding a Postgres advisory lock.
type Runner struct {
	FS     fs.FS
	Logger *log.Logger
}

// Run returns the number of migrations applied by this call.
func (r Runner) Run(ctx context.Context, db *sql.DB) (int, error) {
	migs, err := r.load(db)
	if err != nil || len(migs) == 0 {
		return 0, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	if err := ensureSchemaMigrations(ctx, conn); err != nil {
		return 0, err
	}
	unlock, err := r.lock(ctx, conn)
	if err != nil {
		return 0, err
	}
	defer unlock()

	applied, err := appliedChecksums(ctx, conn)
	if err != nil {
		return 0, err
	}
	pending, err := plan(migs, applied)
	if err != nil {
		return 0, err
	}

	for i, m := range pending {
		start := time.Now()
		if err := applyOne(ctx, conn, m, start); err != nil {
			return i, err
		}
		r.logf("[Migration] applied version=%d name=%s took=%s", m.Version, m.Name, time.Since(start).Round(time.Millisecond))
	}
	return len(pending), nil
}

// Pending lists the migrations Run would apply, without taking the lock.
func (r Runner) Pending(ctx context.Context, db *sql.DB) ([]Migration, error) {
	migs, err := r.load(db)
	if err != nil || len(migs) == 0 {
		return nil, err
	}

	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT to_regclass('public.schema_migrations') IS NOT NULL`).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return migs, nil
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	applied, err := appliedChecksums(ctx, conn)
	if err != nil {
		return nil, err
	}
	return plan(migs, applied)
}

func (r Runner) load(db *sql.DB) ([]Migration, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if r.FS == nil {
		return nil, errors.New("nil migrations fs")
	}
	return loadMigrations(r.FS)
}

// lock polls pg_try_advisory_lock so a second instance reports that it is
// waiting instead of hanging silently.
func (r Runner) lock(ctx context.Context, conn *sql.Conn) (func(), error) {
	logged := false
	for {
		var got bool
		if err := conn.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockKey).Scan(&got); err != nil {
			return nil, err
		}
		if got {
			return func() {
				_, _ = conn.ExecContext(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, lockKey)
			}, nil
		}
		if !logged {
			r.logf("[Migration] waiting for advisory lock key=%d", lockKey)
			logged = true
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire migration lock: %w", ctx.Err())
		case <-time.After(lockPollWait):
		}
	}
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// plan returns the migrations not yet applied. An applied file whose content
// changed, or a new file older than the newest applied one, is an error.
func plan(migs []Migration, applied map[int64]string) ([]Migration, error) {
	var newest int64
	for v := range applied {
		newest = max(newest, v)
	}

	var pending []Migration
	for _, m := range migs {
		sum, ok := applied[m.Version]
		switch {
		case ok && sum != m.Checksum:
			return nil, fmt.Errorf("%w: version=%d file=%s", ErrChecksumMismatch, m.Version, m.Filename)
		case ok:
			continue
		case m.Version < newest:
			return nil, fmt.Errorf("%w: version=%d file=%s latest=%d", ErrOutOfOrder, m.Version, m.Filename, newest)
		}
		pending = append(pending, m)
	}
	return pending, nil
}

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var migs []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m, ok, err := parseFile(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			migs = append(migs, m)
		}
	}

	slices.SortFunc(migs, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", migs[i].Version, migs[i-1].Filename, migs[i].Filename)
		}
	}
	return migs, nil
}

func parseFile(fsys fs.FS, name string) (Migration, bool, error) {
	match := fileRe.FindStringSubmatch(name)
	if match == nil {
		return Migration{}, false, nil
	}
	version, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return Migration{}, false, fmt.Errorf("invalid migration version: %s", name)
	}

	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Migration{}, false, err
	}
	body := strings.TrimSpace(string(b))
	if body == "" {
		return Migration{}, false, fmt.Errorf("empty migration file: %s", name)
	}

	sum := sha256.Sum256([]byte(body))
	return Migration{
		Version:  version,
		Name:     match[2],
		Filename: name,
		SQL:      body,
		Checksum: hex.EncodeToString(sum[:]),
	}, true, nil
}

func ensureSchemaMigrations(ctx context.Context, conn *sql.Conn) error {
	_, err := conn.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	execution_ms BIGINT NOT NULL DEFAULT 0,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return err
}

func appliedChecksums(ctx context.Context, conn *sql.Conn) (map[int64]string, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var v int64
		var sum string
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, err
		}
		out[v] = sum
	}
	return out, rows.Err()
}

func applyOne(ctx context.Context, conn *sql.Conn, m Migration, start time.Time) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply %s: %w", m.Filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum, execution_ms, applied_at) VALUES ($1, $2, $3, $4, $5)`,
		m.Version, m.Name, m.Checksum, time.Since(start).Milliseconds(), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("record %s: %w", m.Filename, err)
	}
	return tx.Commit()
}
