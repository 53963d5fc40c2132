package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glowstock/backend/internal/domain/snapshot"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// snapshotSlotID is the primary key of the single row holding the state
const snapshotSlotID = 1

// SnapshotSlot is the GORM model for the single-slot snapshot table. The
// domain collections stay JSON; the database only gives us durable,
// transactional replacement of the one blob.
type SnapshotSlot struct {
	ID        uint   `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName sets the table name for SnapshotSlot
func (SnapshotSlot) TableName() string {
	return "snapshot_slots"
}

// GormStore persists the snapshot in a single-row SQLite table
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens (or creates) the SQLite database and migrates the
// slot table.
func NewGormStore(path string) (*GormStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&SnapshotSlot{}); err != nil {
		return nil, fmt.Errorf("migrate snapshot_slots: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Load reads and parses the slot row. A missing row yields an empty
// normalized snapshot.
func (s *GormStore) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	var slot SnapshotSlot
	err := s.db.WithContext(ctx).First(&slot, snapshotSlotID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return snapshot.New(), nil
		}
		return nil, fmt.Errorf("read snapshot slot: %w", err)
	}

	snap := &snapshot.Snapshot{}
	if err := json.Unmarshal(slot.Data, snap); err != nil {
		return nil, fmt.Errorf("parse snapshot slot: %w", err)
	}
	snap.Normalize()
	return snap, nil
}

// Save upserts the slot row
func (s *GormStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}
	slot := SnapshotSlot{ID: snapshotSlotID, Data: data}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&slot).Error
	if err != nil {
		return fmt.Errorf("write snapshot slot: %w", err)
	}
	return nil
}

// Close closes the underlying database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
