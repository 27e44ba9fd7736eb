// Package postgres provides a table store backend on PostgreSQL. Each
// entity is one row keyed by (partition_key, row_key); the etag column is
// regenerated on every write and guards conditional replace and delete.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain"
	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/config"
	"github.com/jsamuelsen11/tabletodo-service/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.TodoStore     = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

const defaultPageSize = 1000

var columns = []string{
	"partition_key",
	"row_key",
	"created_time",
	"task_description",
	"is_completed",
	"etag",
	"updated_at",
}

// row is the database shape of a todo entity.
type row struct {
	PartitionKey    string    `db:"partition_key"`
	RowKey          string    `db:"row_key"`
	CreatedTime     time.Time `db:"created_time"`
	TaskDescription string    `db:"task_description"`
	IsCompleted     bool      `db:"is_completed"`
	ETag            string    `db:"etag"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r row) toEntity() todo.Entity {
	return todo.Entity{
		PartitionKey:    r.PartitionKey,
		RowKey:          r.RowKey,
		CreatedTime:     r.CreatedTime.UTC(),
		TaskDescription: r.TaskDescription,
		IsCompleted:     r.IsCompleted,
		ETag:            todo.ETag(r.ETag),
		Timestamp:       r.UpdatedAt.UTC(),
	}
}

// Store implements ports.TodoStore on a single PostgreSQL table.
type Store struct {
	db       *sqlx.DB
	table    string
	pageSize int
	builder  sq.StatementBuilderType
	now      func() time.Time
}

// Open connects to PostgreSQL through the lib/pq driver using cfg.Postgres and returns a Store bound
// to cfg.TableName. The connection is verified with a ping.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	db, err := sqlx.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w: %w", domain.ErrUnavailable, err)
	}

	return New(db, cfg.TableName, cfg.PageSize), nil
}

// New returns a Store over an existing connection pool. The table name must
// already be validated; it is quoted but not otherwise checked.
func New(db *sqlx.DB, table string, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Store{
		db:       db,
		table:    pq.QuoteIdentifier(table),
		pageSize: pageSize,
		builder:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now:      time.Now,
	}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureTable creates the todo table if it does not exist.
func (s *Store) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	partition_key    TEXT        NOT NULL,
	row_key          TEXT        NOT NULL,
	created_time     TIMESTAMPTZ NOT NULL,
	task_description TEXT        NOT NULL,
	is_completed     BOOLEAN     NOT NULL DEFAULT FALSE,
	etag             TEXT        NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (partition_key, row_key)
)`, s.table)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return translateError("creating table", err)
	}
	return nil
}

// Insert adds a new row. A primary key violation maps to domain.ErrConflict.
func (s *Store) Insert(ctx context.Context, entity todo.Entity) (*todo.Entity, error) {
	entity.ETag = todo.NewETag()
	entity.Timestamp = s.now().UTC()

	query, args, err := s.builder.Insert(s.table).
		Columns(columns...).
		Values(
			entity.PartitionKey,
			entity.RowKey,
			entity.CreatedTime,
			entity.TaskDescription,
			entity.IsCompleted,
			string(entity.ETag),
			entity.Timestamp,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, translateError("inserting entity", err)
	}
	return &entity, nil
}

// Get returns the row at (partitionKey, rowKey).
func (s *Store) Get(ctx context.Context, partitionKey, rowKey string) (*todo.Entity, error) {
	query, args, err := s.builder.Select(columns...).
		From(s.table).
		Where(sq.Eq{"partition_key": partitionKey, "row_key": rowKey}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	var r row
	if err := s.db.GetContext(ctx, &r, query, args...); err != nil {
		return nil, translateError(fmt.Sprintf("getting entity %s/%s", partitionKey, rowKey), err)
	}
	e := r.toEntity()
	return &e, nil
}

// Replace overwrites every column of an existing row whose etag matches.
func (s *Store) Replace(ctx context.Context, entity todo.Entity, etag todo.ETag) (*todo.Entity, error) {
	entity.ETag = todo.NewETag()
	entity.Timestamp = s.now().UTC()

	query, args, err := s.builder.Update(s.table).
		Set("created_time", entity.CreatedTime).
		Set("task_description", entity.TaskDescription).
		Set("is_completed", entity.IsCompleted).
		Set("etag", string(entity.ETag)).
		Set("updated_at", entity.Timestamp).
		Where(keyCondition(entity.PartitionKey, entity.RowKey, etag)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building update: %w", err)
	}

	op := fmt.Sprintf("replacing entity %s/%s", entity.PartitionKey, entity.RowKey)
	if err := s.execConditional(ctx, op, entity.PartitionKey, entity.RowKey, etag, query, args); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Delete removes the row whose etag matches.
func (s *Store) Delete(ctx context.Context, partitionKey, rowKey string, etag todo.ETag) error {
	query, args, err := s.builder.Delete(s.table).
		Where(keyCondition(partitionKey, rowKey, etag)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	op := fmt.Sprintf("deleting entity %s/%s", partitionKey, rowKey)
	return s.execConditional(ctx, op, partitionKey, rowKey, etag, query, args)
}

// QueryPartition returns the first page of the partition ordered by row key.
func (s *Store) QueryPartition(ctx context.Context, partitionKey string) ([]todo.Entity, error) {
	query, args, err := s.builder.Select(columns...).
		From(s.table).
		Where(sq.Eq{"partition_key": partitionKey}).
		OrderBy("row_key").
		Limit(uint64(s.pageSize)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building partition query: %w", err)
	}

	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, translateError("querying partition "+partitionKey, err)
	}

	out := make([]todo.Entity, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toEntity())
	}
	return out, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "tablestore.postgres"
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// execConditional runs a keyed UPDATE or DELETE. When no row matched it tells
// a missing row from a stale etag with a follow-up lookup.
func (s *Store) execConditional(ctx context.Context, op, partitionKey, rowKey string, etag todo.ETag, query string, args []any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translateError(op, err)
	}
	if n > 0 {
		return nil
	}
	if etag == todo.ETagAny {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	exists, err := s.exists(ctx, partitionKey, rowKey)
	if err != nil {
		return translateError(op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: etag %s does not match: %w", op, etag, domain.ErrConflict)
}

func (s *Store) exists(ctx context.Context, partitionKey, rowKey string) (bool, error) {
	query, args, err := s.builder.Select("1").
		From(s.table).
		Where(sq.Eq{"partition_key": partitionKey, "row_key": rowKey}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building existence check: %w", err)
	}

	var one int
	err = s.db.GetContext(ctx, &one, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

func keyCondition(partitionKey, rowKey string, etag todo.ETag) sq.Eq {
	cond := sq.Eq{"partition_key": partitionKey, "row_key": rowKey}
	if etag != todo.ETagAny {
		cond["etag"] = string(etag)
	}
	return cond
}
