package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/domain"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create persists a new job aggregate including its child rows
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID loads a job with its full aggregate
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot ASC")
		}).
		Preload("Changelog", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC")
		}).
		Preload("Salesperson").
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Update replaces the whole aggregate: the job row is saved and the
// owned line item and payment rows are rewritten. Changelog rows are
// append-only and never touched here.
func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&domain.QuotationLineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&domain.PaymentRecord{}).Error; err != nil {
			return err
		}

		for i := range job.Quotation.LineItems {
			job.Quotation.LineItems[i].ID = uuid.Nil
			job.Quotation.LineItems[i].JobID = job.ID
		}
		for i := range job.Payments {
			job.Payments[i].ID = uuid.Nil
			job.Payments[i].JobID = job.ID
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(job).Error
	})
}

// Delete removes a job; child rows cascade
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&domain.QuotationLineItem{},
			&domain.PaymentRecord{},
			&domain.ChangelogEntry{},
		} {
			if err := tx.Where("job_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Job{}, "id = ?", id).Error
	})
}

// List returns a page of jobs with optional client search and stage filter
func (r *JobRepository) List(ctx context.Context, page, pageSize int, search string, stage domain.JobStage) ([]domain.Job, int64, error) {
	var jobs []domain.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Job{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(client_name) LIKE ? OR LOWER(job_description) LIKE ?", searchPattern, searchPattern)
	}
	if stage != "" {
		query = query.Where("stage = ?", stage)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("LineItems").
		Preload("Payments").
		Preload("Salesperson").
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&jobs).Error

	return jobs, total, err
}

// ListAll loads every job with payments, for the financial aggregations
func (r *JobRepository) ListAll(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Find(&jobs).Error
	return jobs, err
}

// ListForReport loads jobs with quotation inputs and payments
func (r *JobRepository) ListForReport(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Payments").
		Preload("Salesperson").
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// ListScheduledForInstallation returns non-completed jobs installing
// within the given date range, for the daily digest.
func (r *JobRepository) ListScheduledForInstallation(ctx context.Context, from, to time.Time) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Preload("Salesperson").
		Where("installation_date >= ? AND installation_date <= ?", from, to).
		Where("stage <> ?", domain.StageCompleted).
		Order("installation_date ASC").
		Find(&jobs).Error
	return jobs, err
}

// Count returns the total number of jobs
func (r *JobRepository) Count(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).Count(&count).Error
	return int(count), err
}

// CountBySalesperson reports whether a user is referenced by any job
func (r *JobRepository) CountBySalesperson(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("salesperson_id = ?", userID).
		Count(&count).Error
	return int(count), err
}
