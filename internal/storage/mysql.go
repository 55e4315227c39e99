package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

func (c Config) DSN() string {
	dsn := mysql.NewConfig()
	dsn.User = c.User
	dsn.Passwd = c.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.Host, c.Port)
	dsn.DBName = c.DBName
	dsn.ParseTime = true
	dsn.MultiStatements = true
	// Report matched rather than changed rows so an UPDATE that writes
	// identical values is not mistaken for a missing row.
	dsn.ClientFoundRows = true
	dsn.Loc = time.UTC
	return dsn.FormatDSN()
}

func NewDB(config Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Connect opens the database, retrying with exponential backoff until
// maxWait elapses. MySQL often comes up after the API in compose setups.
func Connect(config Config, maxWait time.Duration, logger *zap.Logger) (*sql.DB, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 15 * time.Second
	bo.MaxElapsedTime = maxWait

	var db *sql.DB
	err := backoff.RetryNotify(func() error {
		var err error
		db, err = NewDB(config)
		return err
	}, bo, func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying",
			zap.String("host", config.Host),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureDatabase creates config.DBName on the server if it does not exist.
func EnsureDatabase(config Config) error {
	root := config
	root.DBName = ""
	db, err := NewDB(root)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS `" + strings.ReplaceAll(config.DBName, "`", "") + "`")
	if err != nil {
		return fmt.Errorf("error creating database: %w", err)
	}
	return nil
}

// RunMigrations applies every embedded *.up.sql file whose version is not
// yet recorded in schema_migrations, in version order.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            version INT PRIMARY KEY,
            applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return fmt.Errorf("error creating migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	migrations, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("error listing migrations: %w", err)
	}
	sort.Strings(migrations)

	for _, migration := range migrations {
		name := strings.TrimPrefix(migration, "migrations/")

		var version int
		if _, err := fmt.Sscanf(name, "%d", &version); err != nil {
			return fmt.Errorf("migration %s has no version prefix", name)
		}
		if applied[version] {
			continue
		}

		content, err := migrationFiles.ReadFile(migration)
		if err != nil {
			return fmt.Errorf("error reading migration file %s: %w", name, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("error starting transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("error executing migration %s: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("error recording migration %s: %w", name, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("error committing migration %s: %w", name, err)
		}

		logger.Info("applied migration", zap.String("file", name))
	}

	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("error reading applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
