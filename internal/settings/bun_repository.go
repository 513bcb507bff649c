package settings

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// BunRepository stores settings in <prefix>settings through bun.
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

// CreateSchema creates the settings table.
func (r *BunRepository) CreateSchema(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().
		Model((*Record)(nil)).
		ModelTableExpr("?", bun.Ident(r.table)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("settings: create table %s: %w", r.table, err)
	}
	return nil
}

func (r *BunRepository) List(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := r.db.NewSelect().
		Model(&records).
		ModelTableExpr("? AS s", bun.Ident(r.table)).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("settings repository list: %w", err)
	}
	return records, nil
}

func (r *BunRepository) Insert(ctx context.Context, records ...Record) error {
	return insertRecords(ctx, r.db, r.table, records)
}

func (r *BunRepository) ReplaceAll(ctx context.Context, records []Record) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Record)(nil)).
			ModelTableExpr("? AS s", bun.Ident(r.table)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return fmt.Errorf("settings repository purge: %w", err)
		}
		return insertRecords(ctx, tx, r.table, records)
	})
}

func (r *BunRepository) UpdateAll(ctx context.Context, records []Record) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, record := range records {
			result, err := tx.NewUpdate().
				Model((*Record)(nil)).
				ModelTableExpr("? AS s", bun.Ident(r.table)).
				Set("value = ?", record.Value).
				Where("s.name = ?", record.Name).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("settings repository update %q: %w", record.Name, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("settings repository update %q: %w", record.Name, err)
			}
			if affected == 0 {
				return &MissingError{Name: record.Name}
			}
		}
		return nil
	})
}

func insertRecords(ctx context.Context, db bun.IDB, table string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	batch := append([]Record(nil), records...)
	if _, err := db.NewInsert().
		Model(&batch).
		ModelTableExpr("?", bun.Ident(table)).
		Exec(ctx); err != nil {
		return fmt.Errorf("settings repository insert: %w", err)
	}
	return nil
}
