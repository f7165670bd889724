package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/domain"
)

type ChangelogRepository struct {
	db *gorm.DB
}

func NewChangelogRepository(db *gorm.DB) *ChangelogRepository {
	return &ChangelogRepository{db: db}
}

// Create appends a changelog entry. There is deliberately no update or
// single-row delete: the changelog is append-only.
func (r *ChangelogRepository) Create(ctx context.Context, entry *domain.ChangelogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByJobID returns a job's changelog, oldest first
func (r *ChangelogRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) ([]domain.ChangelogEntry, error) {
	var entries []domain.ChangelogEntry
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

// RecordTransition is a convenience method to append a stage-change entry
func (r *ChangelogRepository) RecordTransition(
	ctx context.Context,
	jobID uuid.UUID,
	fromStage domain.JobStage,
	toStage domain.JobStage,
	userID uuid.UUID,
	at time.Time,
) error {
	entry := &domain.ChangelogEntry{
		JobID:     jobID,
		FromStage: fromStage,
		ToStage:   toStage,
		UserID:    userID,
		Timestamp: at,
	}
	return r.Create(ctx, entry)
}

// CountByJobID returns the number of entries recorded for a job
func (r *ChangelogRepository) CountByJobID(ctx context.Context, jobID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ChangelogEntry{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	return int(count), err
}
