package data

import (
	"context"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"strings"

	"go-blog-cms/internal/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	// SQLite's LOWER only folds ASCII.
	sqlite.MustRegisterDeterministicScalarFunction("unicode_lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// driverName maps a configured driver to the database/sql driver name.
func driverName(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite", nil
	case config.DriverMySQL:
		return "mysql", nil
	case config.DriverPostgres:
		return "pgx", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// NewDB creates a new database connection pool.
func NewDB(cfg config.DBConfig) (*sqlx.DB, error) {
	name, err := driverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DSN
	if cfg.Driver == config.DriverSQLite && !strings.Contains(dsn, "foreign_keys") {
		// The post_categories cascade rules depend on it.
		dsn = appendQuery(dsn, "_pragma=foreign_keys(1)")
	}
	if cfg.Driver == config.DriverMySQL && !strings.Contains(dsn, "parseTime") {
		// DATETIME columns scan into time.Time only with parseTime.
		dsn = appendQuery(dsn, "parseTime=true")
	}

	// sqlx.Connect opens a connection and pings it to verify it's alive.
	db, err := sqlx.Connect(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.Driver == config.DriverSQLite && strings.Contains(dsn, ":memory:") {
		// Every new connection to :memory: would see its own empty database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func appendQuery(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

// ApplyMigrations runs all up migrations for the given driver against db.
// The migration files are embedded in the binary.
func ApplyMigrations(db *sqlx.DB, driver string) error {
	var (
		target database.Driver
		err    error
	)
	switch driver {
	case config.DriverSQLite:
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	case config.DriverMySQL:
		target, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case config.DriverPostgres:
		target, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// m.Close is deliberately not called: it would close db as well.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// withTx runs fn inside a transaction. Any error returned by fn rolls the
// transaction back; otherwise it is committed.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertID executes an INSERT and returns the generated id. PostgreSQL has no
// LastInsertId, so the statement is extended with RETURNING there.
func insertID(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	if q.DriverName() == "pgx" {
		var id int64
		err := sqlx.GetContext(ctx, q, &id, q.Rebind(query+" RETURNING id"), args...)
		return id, err
	}
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
