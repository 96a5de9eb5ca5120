// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/decklister/internal/logger"
)

const (
	kvTable      = "kv_entries"
	colKey       = "entry_key"
	colValue     = "entry_value"
	colExpires   = "expires_at"
	sqlTxRetries = 3
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLKV is a [KV] stored in the kv_entries table of a PostgreSQL or SQLite
// database. Expiry is kept in Unix milliseconds and checked on every read.
type SQLKV struct {
	db     *DB
	q      queryer
	now    func() time.Time
	logger *logger.Logger
}

// NewSQLKV returns a key-value store over db. The kv_entries table must
// already exist (see [DB.Migrate]).
func NewSQLKV(db *DB, log *logger.Logger) *SQLKV {
	log.Debug().Str("dialect", db.dialect).Msg("creating sql key-value store")
	return &SQLKV{
		db:     db,
		q:      db.DB,
		now:    time.Now,
		logger: log,
	}
}

func (s *SQLKV) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(s.db.placeholder)
}

func (s *SQLKV) liveCondition(now time.Time) sq.Sqlizer {
	return sq.Or{
		sq.Eq{colExpires: nil},
		sq.Gt{colExpires: now.UnixMilli()},
	}
}

// Get implements [KV].
func (s *SQLKV) Get(ctx context.Context, key string) (string, error) {
	query, args, err := s.builder().
		Select(colValue).
		From(kvTable).
		Where(sq.Eq{colKey: key}).
		Where(s.liveCondition(s.now())).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = s.q.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*SQLKV.Get").Msg("error reading key")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return value, nil
}

// Put implements [KV]. It upserts the row.
func (s *SQLKV) Put(ctx context.Context, key, value string, opts ...PutOption) error {
	expires := expiryColumn(applyPutOptions(opts), s.now())

	query, args, err := s.builder().
		Insert(kvTable).
		Columns(colKey, colValue, colExpires).
		Values(key, value, expires).
		Suffix("ON CONFLICT (" + colKey + ") DO UPDATE SET " +
			colValue + " = excluded." + colValue + ", " +
			colExpires + " = excluded." + colExpires).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.q.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*SQLKV.Put").Msg("error writing key")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

// Create implements [KV]. An expired row under key is removed first so the
// insert only conflicts with a live value.
func (s *SQLKV) Create(ctx context.Context, key, value string, opts ...PutOption) error {
	now := s.now()

	purge, purgeArgs, err := s.builder().
		Delete(kvTable).
		Where(sq.Eq{colKey: key}).
		Where(sq.LtOrEq{colExpires: now.UnixMilli()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	insert, insertArgs, err := s.builder().
		Insert(kvTable).
		Columns(colKey, colValue, colExpires).
		Values(key, value, expiryColumn(applyPutOptions(opts), now)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.q.ExecContext(ctx, purge, purgeArgs...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if _, err = s.q.ExecContext(ctx, insert, insertArgs...); err != nil {
		if s.db.errorClassificator.IsUniqueViolation(err) {
			return ErrKeyExists
		}
		logger.FromContext(ctx).Err(err).Str("func", "*SQLKV.Create").Msg("error inserting key")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

// Delete implements [KV].
func (s *SQLKV) Delete(ctx context.Context, key string) error {
	query, args, err := s.builder().
		Delete(kvTable).
		Where(sq.Eq{colKey: key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.q.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*SQLKV.Delete").Msg("error deleting key")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

// List implements [KV]. The prefix is matched with substr rather than LIKE
// so that "_" and "%" in keys are literal in both dialects.
func (s *SQLKV) List(ctx context.Context, prefix string) ([]string, error) {
	b := s.builder().
		Select(colKey).
		From(kvTable).
		Where(s.liveCondition(s.now())).
		OrderBy(colKey)
	if prefix != "" {
		b = b.Where(sq.Expr("substr("+colKey+", 1, ?) = ?", utf8.RuneCountInString(prefix), prefix))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*SQLKV.List").Msg("error listing keys")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return keys, nil
}

// Update implements [Transactional] with a database transaction. Updates
// failing with a retryable driver error are replayed.
func (s *SQLKV) Update(ctx context.Context, fn func(tx KV) error) error {
	var err error
	for attempt := 0; attempt < sqlTxRetries; attempt++ {
		err = s.update(ctx, fn)
		if err == nil || s.db.errorClassificator.Classify(err) != Retryable {
			return err
		}
		s.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("retryable transaction error")
	}
	return err
}

func (s *SQLKV) update(ctx context.Context, fn func(tx KV) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	txKV := &SQLKV{db: s.db, q: tx, now: s.now, logger: s.logger}
	if err = fn(txKV); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

// Sweep implements [Sweeper]. It deletes every expired row.
func (s *SQLKV) Sweep(ctx context.Context) (int, error) {
	query, args, err := s.builder().
		Delete(kvTable).
		Where(sq.LtOrEq{colExpires: s.now().UnixMilli()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*SQLKV.Sweep").Msg("error deleting expired rows")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return int(removed), nil
}

// Close closes the underlying connection pool.
func (s *SQLKV) Close() error {
	return s.db.Close()
}

func expiryColumn(o putOptions, now time.Time) sql.NullInt64 {
	at := o.expiresAt(now)
	if at.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: at.UnixMilli(), Valid: true}
}

var (
	_ KV            = (*SQLKV)(nil)
	_ Transactional = (*SQLKV)(nil)
	_ Sweeper       = (*SQLKV)(nil)
)
