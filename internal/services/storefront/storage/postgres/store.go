// Package postgres provides the GORM/Postgres storefront event store,
// document store and checkpoint store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const uniqueViolation = "23505"

type eventRow struct {
	Position      uint64         `gorm:"primaryKey;autoIncrement"`
	EventID       string         `gorm:"not null;index"`
	StreamID      string         `gorm:"not null;uniqueIndex:idx_storefront_events_stream_version,priority:1"`
	StreamVersion uint64         `gorm:"not null;uniqueIndex:idx_storefront_events_stream_version,priority:2"`
	EventType     string         `gorm:"not null"`
	Data          datatypes.JSON `gorm:"type:jsonb;not null"`
	Metadata      datatypes.JSON `gorm:"type:jsonb;not null"`
	RecordedAt    time.Time      `gorm:"not null"`
}

func (eventRow) TableName() string { return "storefront_events" }

type documentRow struct {
	Collection string         `gorm:"primaryKey;index:idx_storefront_documents_customer,priority:1"`
	ID         string         `gorm:"primaryKey"`
	CustomerID string         `gorm:"not null;default:'';index:idx_storefront_documents_customer,priority:2"`
	Version    uint64         `gorm:"not null"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time      `gorm:"not null;autoUpdateTime:false;index:idx_storefront_documents_customer,priority:3"`
}

func (documentRow) TableName() string { return "storefront_documents" }

type checkpointRow struct {
	Name      string    `gorm:"primaryKey"`
	Position  uint64    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (checkpointRow) TableName() string { return "storefront_checkpoints" }

// Store persists storefront data in Postgres.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to dsn and creates the storefront tables when missing.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&eventRow{}, &documentRow{}, &checkpointRow{}); err != nil {
		return fmt.Errorf("migrate storefront tables: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "sqlstate "+uniqueViolation)
}
