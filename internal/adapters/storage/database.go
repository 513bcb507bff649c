package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const pingTimeout = 10 * time.Second

var (
	ErrDriverUnsupported = errors.New("storage: driver is not supported")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Config selects and tunes the database connection.
type Config struct {
	Driver       string `json:"driver" yaml:"driver"`
	DSN          string `json:"dsn" yaml:"dsn"`
	Debug        bool   `json:"debug" yaml:"debug"`
	MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns"`
}

// Validate reports configuration errors before any connection is opened.
func (c Config) Validate() error {
	switch normalizeDriver(c.Driver) {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrDriverUnsupported, c.Driver)
	}
	if strings.TrimSpace(c.DSN) == "" {
		return ErrDSNRequired
	}
	return nil
}

// Open connects to the configured database and pings it. Debug installs the
// bundebug query hook.
func Open(ctx context.Context, cfg Config, logger interfaces.Logger) (*bun.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logging.Ensure(logger)

	var db *bun.DB
	switch normalizeDriver(cfg.Driver) {
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb, err := sql.Open(DriverSQLite, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		// A single connection keeps in-memory databases shared.
		if cfg.MaxOpenConns == 0 {
			cfg.MaxOpenConns = 1
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("storage.close.failed", "error", closeErr)
		}
		return nil, fmt.Errorf("storage: ping %s: %w", cfg.Driver, err)
	}

	logger.Info("storage.connected", "driver", normalizeDriver(cfg.Driver), "debug", cfg.Debug)
	return db, nil
}

// SchemaCreator is implemented by bun repositories owning a table.
type SchemaCreator interface {
	CreateSchema(ctx context.Context) error
}

// Migrate creates every table that does not exist yet.
func Migrate(ctx context.Context, creators ...SchemaCreator) error {
	for _, creator := range creators {
		if creator == nil {
			continue
		}
		if err := creator.CreateSchema(ctx); err != nil {
			return err
		}
	}
	return nil
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3", "":
		return DriverSQLite
	case "postgres", "postgresql", "pg":
		return DriverPostgres
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}
