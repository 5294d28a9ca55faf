// Package sqlitemigrate applies embedded SQL files to a SQLite database once each.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// Apply executes every *.sql file under root that has not been recorded yet,
// in lexical order, each inside its own transaction. It returns the names it
// applied during this call.
func Apply(ctx context.Context, db *sql.DB, migrations fs.FS, root string) ([]string, error) {
	if db == nil {
		return nil, errors.New("sql db is required")
	}
	if migrations == nil {
		return nil, errors.New("migration fs is required")
	}
	root = strings.Trim(strings.TrimSpace(root), "/")
	if root == "" {
		root = "."
	}

	files, err := listSQLFiles(migrations, root)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return nil, fmt.Errorf("ensure migration table: %w", err)
	}

	var applied []string
	for _, name := range files {
		key := name
		if root != "." {
			key = path.Join(root, name)
		}
		done, err := isApplied(ctx, db, key)
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if done {
			continue
		}
		content, err := fs.ReadFile(migrations, path.Join(root, name))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := applyOne(ctx, db, key, ExtractUpMigration(string(content))); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		applied = append(applied, key)
	}
	return applied, nil
}

// ExtractUpMigration returns the SQL in the "-- +migrate Up" section, or the
// whole file when the marker is absent.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(body, downMarker); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}

// IsAlreadyExistsError reports whether err is an idempotent DDL failure.
func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func listSQLFiles(migrations fs.FS, root string) ([]string, error) {
	entries, err := fs.ReadDir(migrations, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func applyOne(ctx context.Context, db *sql.DB, key, upSQL string) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if strings.TrimSpace(upSQL) != "" {
		if _, err = tx.ExecContext(ctx, upSQL); err != nil && !IsAlreadyExistsError(err) {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
		key, time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
