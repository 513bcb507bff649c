package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// TableName is the unprefixed settings table name.
const TableName = "settings"

var ErrRepositoryRequired = errors.New("settings: repository is required")

// Record is one stored name/value pair.
type Record struct {
	bun.BaseModel `bun:"table:settings,alias:s"`

	Name  string `bun:"name,pk"`
	Value string `bun:"value,notnull"`
}

// Repository abstracts settings storage.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	Insert(ctx context.Context, records ...Record) error
	// ReplaceAll purges every row and inserts records in one transaction.
	ReplaceAll(ctx context.Context, records []Record) error
	// UpdateAll rewrites the value of every record in one transaction. A
	// record matching no row fails the whole batch with a *MissingError.
	UpdateAll(ctx context.Context, records []Record) error
}

// MissingError reports an update targeting a row that does not exist.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("settings: no row for %q", e.Name)
}
