package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"prepmate/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	migrationsTable = "SCHEMA_MIGRATIONS"

	tableExistsQuery = `SELECT COUNT(*) FROM user_tables WHERE table_name = :1`
	createTableStmt  = `CREATE TABLE schema_migrations (version NUMBER(19) PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`
	appliedQuery     = `SELECT version FROM schema_migrations ORDER BY version`
	recordStmt       = `INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)`
	forgetStmt       = `DELETE FROM schema_migrations WHERE version = :1`
)

// Migrator applies the embedded SQL migrations. Oracle DDL commits implicitly,
// so each statement runs on its own and the version is recorded afterwards.
type Migrator struct {
	db  *sqlx.DB
	src source.Driver
}

// NewMigrator reads the migrations embedded in the binary.
func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	return newMigrator(db, migrationFS, "migrations")
}

func newMigrator(db *sqlx.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

func (m *Migrator) Close() error {
	return m.src.Close()
}

// Up applies every pending migration in version order and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}
	done := make(map[uint]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	count := 0
	version, err := m.src.First()
	for err == nil {
		if !done[version] {
			if err := m.apply(ctx, version, true); err != nil {
				return count, err
			}
			count++
		}
		version, err = m.src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return count, fmt.Errorf("failed to iterate migrations: %w", err)
	}
	return count, nil
}

// Down reverts up to steps of the most recently applied migrations.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := len(applied) - 1; i >= 0 && count < steps; i-- {
		if err := m.apply(ctx, applied[i], false); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (m *Migrator) apply(ctx context.Context, version uint, up bool) error {
	read, direction := m.src.ReadUp, "up"
	if !up {
		read, direction = m.src.ReadDown, "down"
	}

	r, name, err := read(version)
	if err != nil {
		return fmt.Errorf("failed to read %s migration %d: %w", direction, version, err)
	}
	body, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s migration %d: %w", direction, version, err)
	}

	for _, stmt := range SplitStatements(string(body)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d_%s (%s) failed: %w", version, name, direction, err)
		}
	}

	if up {
		_, err = m.db.ExecContext(ctx, recordStmt, int64(version), time.Now().UTC())
	} else {
		_, err = m.db.ExecContext(ctx, forgetStmt, int64(version))
	}
	if err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}

	logger.Get().Info("Executed migration",
		zap.Uint("version", version),
		zap.String("name", name),
		zap.String("direction", direction))
	return nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	var n int
	if err := m.db.GetContext(ctx, &n, tableExistsQuery, migrationsTable); err != nil {
		return fmt.Errorf("failed to check migrations table: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := m.db.ExecContext(ctx, createTableStmt); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) ([]uint, error) {
	var rows []int64
	if err := m.db.SelectContext(ctx, &rows, appliedQuery); err != nil {
		return nil, fmt.Errorf("failed to load applied migrations: %w", err)
	}
	versions := make([]uint, 0, len(rows))
	for _, v := range rows {
		versions = append(versions, uint(v))
	}
	return versions, nil
}

// SplitStatements splits a migration file on semicolons that end a line.
// The Oracle driver rejects trailing semicolons and multi-statement batches.
func SplitStatements(script string) []string {
	var stmts []string
	var current strings.Builder

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			current.WriteString(strings.TrimSuffix(strings.TrimRight(line, " \t\r"), ";"))
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				stmts = append(stmts, stmt)
			}
			current.Reset()
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		stmts = append(stmts, stmt)
	}
	return stmts
}
