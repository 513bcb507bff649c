package pages

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrRepositoryRequired = errors.New("pages: repository is required")
	ErrNoEffect           = errors.New("pages: update did not affect any page")
)

// Repository abstracts page storage.
type Repository interface {
	// List returns every page ordered by id.
	List(ctx context.Context) ([]*Page, error)
	// ListByLang returns the pages of one language ordered by id.
	ListByLang(ctx context.Context, lang string) ([]*Page, error)
	Count(ctx context.Context) (int, error)
	// FindByNameLang returns a *NotFoundError when no row matches.
	FindByNameLang(ctx context.Context, name, lang string) (*Page, error)
	// Insert stores records, keeping non zero ids and assigning the rest.
	Insert(ctx context.Context, records ...*Page) error
	// UpdateContent rewrites body, url and last_update and reports the number
	// of affected rows.
	UpdateContent(ctx context.Context, name, lang, body, url string, at time.Time) (int64, error)
	Purge(ctx context.Context) error
	// ResetSequence makes next the last id handed out by the store.
	ResetSequence(ctx context.Context, next int64) error
}

// NotFoundError reports a missing (name, lang) page.
type NotFoundError struct {
	Name string
	Lang string
}

func (e *NotFoundError) Error() string {
	if e.Lang == "" {
		return fmt.Sprintf("page %q not found", e.Name)
	}
	return fmt.Sprintf("page %q (%s) not found", e.Name, e.Lang)
}

// DuplicateError reports an insert colliding with an existing (name, lang).
type DuplicateError struct {
	Name string
	Lang string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("page %q (%s) already exists", e.Name, e.Lang)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
