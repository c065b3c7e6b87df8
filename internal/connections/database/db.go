package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chatcuisine/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed schema/*.sql
var schemas embed.FS

// DB is a connection pool together with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	Driver string
}

func dsn(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.Path
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslmode)
}

// ConnectDB opens the pool and retries the first ping until the database
// answers, the attempts run out or ctx is canceled.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var err error
	for i := 1; i <= maxRetries; i++ {
		var db *DB
		db, err = Open(cfg)
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = db.PingContext(pctx)
			cancel()
			if err == nil {
				return db, nil
			}
			_ = db.Close()
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}

// Open creates the pool without checking connectivity.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open(cfg.Driver, dsn(cfg))
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DriverSQLite {
		// one writer at a time; also keeps ":memory:" databases alive
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		maxConns := cfg.MaxConns
		if maxConns <= 0 {
			maxConns = 10
		}
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns / 2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	return &DB{DB: db, Driver: cfg.Driver}, nil
}

// Migrate creates the tables the services need when they are missing.
func (db *DB) Migrate(ctx context.Context) error {
	script, err := schemas.ReadFile("schema/" + db.Driver + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %q: %w", db.Driver, err)
	}
	for _, stmt := range strings.Split(string(script), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Rebind rewrites ? placeholders into the $n form PostgreSQL expects.
func (db *DB) Rebind(query string) string {
	if db.Driver != config.DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
