// Package database manages the database/sql connection to SQL dataset sources.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"   // registers the "pgx" driver
	_ "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver
	_ "modernc.org/sqlite"               // registers the "sqlite" driver

	"github.com/puffinc/hercules/internal/config"
	"github.com/puffinc/hercules/internal/logger"
	"github.com/puffinc/hercules/internal/sqlutil"
)

// Manager owns the connection to the configured source.
type Manager struct {
	Source *sql.DB
	config *config.SourceConfig
	logger *logger.Logger

	maxRetries int
	backoff    time.Duration
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.SourceConfig, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Manager{
		config:     cfg,
		logger:     log,
		maxRetries: 3,
		backoff:    time.Second,
	}
}

// Connect opens and verifies the source connection.
func (m *Manager) Connect(ctx context.Context) error {
	var err error
	m.Source, err = m.connectWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to %s source: %w", m.config.Type, err)
	}
	return nil
}

// Dialect returns the quoting dialect of the configured source.
func (m *Manager) Dialect() sqlutil.Dialect {
	return DialectFor(m.config.Type)
}

// connectWithRetry attempts to connect with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context) (*sql.DB, error) {
	var db *sql.DB
	var err error

	backoff := m.backoff
	for i := 0; i < m.maxRetries; i++ {
		db, err = m.connect()
		if err == nil {
			pingErr := db.PingContext(ctx)
			if pingErr == nil {
				return db, nil
			}
			db.Close()
			err = pingErr
		}

		m.logger.Warnw("Source connection attempt failed",
			"type", m.config.Type,
			"attempt", i+1,
			"error", err,
		)

		if i < m.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", m.maxRetries, err)
}

// connect opens the pool for the configured driver.
func (m *Manager) connect() (*sql.DB, error) {
	driver, dsn, err := DriverDSN(m.config)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)
	return db, nil
}

// DriverDSN returns the database/sql driver name and DSN for a source.
func DriverDSN(cfg *config.SourceConfig) (string, string, error) {
	switch cfg.Type {
	case config.SourceMySQL:
		return "mysql", BuildMySQLDSN(cfg), nil
	case config.SourcePostgres:
		return "pgx", BuildPostgresDSN(cfg), nil
	case config.SourceSQLite:
		return "sqlite", BuildSQLiteDSN(cfg), nil
	case config.SourceMSSQL:
		return "sqlserver", BuildMSSQLDSN(cfg), nil
	default:
		return "", "", fmt.Errorf("source type %q is not a SQL source", cfg.Type)
	}
}

// DialectFor maps a source type to its quoting dialect.
func DialectFor(sourceType string) sqlutil.Dialect {
	switch sourceType {
	case config.SourceMySQL:
		return sqlutil.MySQL
	case config.SourcePostgres:
		return sqlutil.Postgres
	case config.SourceMSSQL:
		return sqlutil.MSSQL
	default:
		return sqlutil.SQLite
	}
}

// BuildMySQLDSN constructs a MySQL DSN from configuration.
func BuildMySQLDSN(cfg *config.SourceConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Database

	switch cfg.TLS {
	case "disable":
		mc.TLSConfig = "false"
	case "required":
		mc.TLSConfig = "true"
	default:
		mc.TLSConfig = "preferred"
	}

	return mc.FormatDSN()
}

// BuildPostgresDSN constructs a postgres:// URL understood by pgx.
func BuildPostgresDSN(cfg *config.SourceConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}

	q := url.Values{}
	switch cfg.TLS {
	case "disable":
		q.Set("sslmode", "disable")
	case "required":
		q.Set("sslmode", "require")
	default:
		q.Set("sslmode", "prefer")
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// BuildMSSQLDSN constructs a sqlserver:// URL for go-mssqldb.
func BuildMSSQLDSN(cfg *config.SourceConfig) string {
	q := url.Values{}
	q.Set("database", cfg.Database)
	switch cfg.TLS {
	case "disable":
		q.Set("encrypt", "disable")
	case "required":
		q.Set("encrypt", "true")
	default:
		q.Set("encrypt", "false")
	}

	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// BuildSQLiteDSN opens the database file read-only.
func BuildSQLiteDSN(cfg *config.SourceConfig) string {
	return "file:" + cfg.Path + "?mode=ro"
}

// Close closes the source connection.
func (m *Manager) Close() error {
	if m.Source != nil {
		if err := m.Source.Close(); err != nil {
			return fmt.Errorf("source close: %w", err)
		}
	}
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.Source != nil {
		if err := m.Source.PingContext(ctx); err != nil {
			return fmt.Errorf("source ping failed: %w", err)
		}
	}
	return nil
}
