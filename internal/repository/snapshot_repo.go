package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-employee-console/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

type SnapshotRepository interface {
	Save(ctx context.Context, owner string, rows []model.FlatEmployee) error
	Find(ctx context.Context, owner string) ([]model.FlatEmployee, time.Time, error)
	Delete(ctx context.Context, owner string) error
}

type SnapshotRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSnapshotRepo(db *gorm.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db, now: time.Now}
}

// Migrate creates the snapshot table.
func (r *SnapshotRepo) Migrate() error {
	return r.db.AutoMigrate(&model.EmployeeSnapshot{})
}

// Save replaces the owner's snapshot.
func (r *SnapshotRepo) Save(ctx context.Context, owner string, rows []model.FlatEmployee) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	snap := model.EmployeeSnapshot{
		Owner:     owner,
		Payload:   string(payload),
		Count:     len(rows),
		UpdatedAt: r.now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "count", "updated_at"}),
	}).Create(&snap).Error
}

// Find returns the owner's snapshot and when it was saved.
func (r *SnapshotRepo) Find(ctx context.Context, owner string) ([]model.FlatEmployee, time.Time, error) {
	var snap model.EmployeeSnapshot
	if err := r.db.WithContext(ctx).First(&snap, "owner = ?", owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, time.Time{}, ErrSnapshotNotFound
		}
		return nil, time.Time{}, err
	}
	var rows []model.FlatEmployee
	if err := json.Unmarshal([]byte(snap.Payload), &rows); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return rows, snap.UpdatedAt, nil
}

func (r *SnapshotRepo) Delete(ctx context.Context, owner string) error {
	return r.db.WithContext(ctx).Delete(&model.EmployeeSnapshot{}, "owner = ?", owner).Error
}
