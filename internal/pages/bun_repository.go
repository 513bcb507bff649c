package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// TableName is the unprefixed page table name.
const TableName = "pages"

// BunRepository stores pages in <prefix>pages through bun.
type BunRepository struct {
	db    bun.IDB
	table string
}

// NewBunRepository constructs a repository over db using the table prefix.
func NewBunRepository(db bun.IDB, prefix string) *BunRepository {
	return &BunRepository{db: db, table: prefix + TableName}
}

var _ Repository = (*BunRepository)(nil)

// Table returns the prefixed table name.
func (r *BunRepository) Table() string {
	return r.table
}

// CreateSchema creates the page table and its (name, lang) unique index.
func (r *BunRepository) CreateSchema(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().
		Model((*Page)(nil)).
		ModelTableExpr("?", bun.Ident(r.table)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("pages: create table %s: %w", r.table, err)
	}
	if _, err := r.db.NewCreateIndex().
		Model((*Page)(nil)).
		ModelTableExpr("?", bun.Ident(r.table)).
		Index(r.table + "_name_lang_idx").
		Unique().
		Column("name", "lang").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("pages: create index on %s: %w", r.table, err)
	}
	return nil
}

func (r *BunRepository) selectQuery() *bun.SelectQuery {
	return r.db.NewSelect().
		Model((*Page)(nil)).
		ModelTableExpr("? AS p", bun.Ident(r.table))
}

func (r *BunRepository) List(ctx context.Context) ([]*Page, error) {
	var records []*Page
	if err := r.db.NewSelect().
		Model(&records).
		ModelTableExpr("? AS p", bun.Ident(r.table)).
		OrderExpr("p.id ASC").
		Scan(ctx); err != nil {
		return nil, mapRepositoryError(err, "list")
	}
	return records, nil
}

func (r *BunRepository) ListByLang(ctx context.Context, lang string) ([]*Page, error) {
	var records []*Page
	if err := r.db.NewSelect().
		Model(&records).
		ModelTableExpr("? AS p", bun.Ident(r.table)).
		Where("p.lang = ?", lang).
		OrderExpr("p.id ASC").
		Scan(ctx); err != nil {
		return nil, mapRepositoryError(err, "list by lang")
	}
	return records, nil
}

func (r *BunRepository) Count(ctx context.Context) (int, error) {
	count, err := r.selectQuery().Count(ctx)
	if err != nil {
		return 0, mapRepositoryError(err, "count")
	}
	return count, nil
}

func (r *BunRepository) FindByNameLang(ctx context.Context, name, lang string) (*Page, error) {
	record := new(Page)
	err := r.db.NewSelect().
		Model(record).
		ModelTableExpr("? AS p", bun.Ident(r.table)).
		Where("p.name = ?", name).
		Where("p.lang = ?", lang).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Name: name, Lang: lang}
	}
	if err != nil {
		return nil, mapRepositoryError(err, "find")
	}
	return record, nil
}

func (r *BunRepository) Insert(ctx context.Context, records ...*Page) error {
	batch := make([]*Page, 0, len(records))
	for _, record := range records {
		if record != nil {
			batch = append(batch, record)
		}
	}
	if len(batch) == 0 {
		return nil
	}
	if _, err := r.db.NewInsert().
		Model(&batch).
		ModelTableExpr("?", bun.Ident(r.table)).
		Exec(ctx); err != nil {
		return mapRepositoryError(err, "insert")
	}
	return nil
}

func (r *BunRepository) UpdateContent(ctx context.Context, name, lang, body, url string, at time.Time) (int64, error) {
	result, err := r.db.NewUpdate().
		Model((*Page)(nil)).
		ModelTableExpr("? AS p", bun.Ident(r.table)).
		Set("body = ?", body).
		Set("url = ?", url).
		Set("last_update = ?", at).
		Where("p.name = ?", name).
		Where("p.lang = ?", lang).
		Exec(ctx)
	if err != nil {
		return 0, mapRepositoryError(err, "update")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, mapRepositoryError(err, "update")
	}
	return affected, nil
}

func (r *BunRepository) Purge(ctx context.Context) error {
	if _, err := r.db.NewDelete().
		Model((*Page)(nil)).
		ModelTableExpr("? AS p", bun.Ident(r.table)).
		Where("1 = 1").
		Exec(ctx); err != nil {
		return mapRepositoryError(err, "purge")
	}
	return nil
}

// ResetSequence realigns the id sequence on PostgreSQL. SQLite hands out
// max(id)+1, so explicit ids already move it.
func (r *BunRepository) ResetSequence(ctx context.Context, next int64) error {
	if r.db.Dialect().Name() != dialect.PG {
		return nil
	}
	var err error
	if next <= 0 {
		_, err = r.db.ExecContext(ctx, "SELECT setval(pg_get_serial_sequence(?, 'id'), 1, false)", r.table)
	} else {
		_, err = r.db.ExecContext(ctx, "SELECT setval(pg_get_serial_sequence(?, 'id'), ?)", r.table, next)
	}
	if err != nil {
		return mapRepositoryError(err, "reset sequence")
	}
	return nil
}

func mapRepositoryError(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("pages repository %s: %w", op, err)
}
