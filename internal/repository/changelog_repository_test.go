package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/repository"
)

func TestChangelogRepository_OrdersOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	jobRepo := repository.NewJobRepository(db)
	repo := repository.NewChangelogRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "mover", domain.RoleAdmin)
	job := &domain.Job{ClientName: "Bakery", Stage: domain.StageDesign, SalespersonID: user.ID}
	require.NoError(t, jobRepo.Create(ctx, job))

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	// Insert out of order; reads must still come back chronological.
	require.NoError(t, repo.RecordTransition(ctx, job.ID, domain.StageQuotationApproved, domain.StageDesign, user.ID, base.Add(time.Hour)))
	require.NoError(t, repo.RecordTransition(ctx, job.ID, domain.StageQuotationSent, domain.StageQuotationApproved, user.ID, base))

	entries, err := repo.GetByJobID(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.StageQuotationSent, entries[0].FromStage)
	assert.Equal(t, domain.StageQuotationApproved, entries[1].FromStage)
	assert.True(t, entries[0].Timestamp.Before(entries[1].Timestamp))
}

func TestChangelogRepository_RecordTransitionFillsEntry(t *testing.T) {
	db := setupTestDB(t)
	jobRepo := repository.NewJobRepository(db)
	repo := repository.NewChangelogRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "mover", domain.RoleAdmin)
	job := &domain.Job{ClientName: "Bakery", Stage: domain.StageOnHold, SalespersonID: user.ID}
	require.NoError(t, jobRepo.Create(ctx, job))

	at := time.Date(2026, 6, 15, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.RecordTransition(ctx, job.ID, domain.StageFabrication, domain.StageOnHold, user.ID, at))

	entries, err := repo.GetByJobID(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.NotZero(t, entry.ID)
	assert.Equal(t, job.ID, entry.JobID)
	assert.Equal(t, user.ID, entry.UserID)
	assert.Equal(t, domain.StageFabrication, entry.FromStage)
	assert.Equal(t, domain.StageOnHold, entry.ToStage)
	assert.Equal(t, at, entry.Timestamp.UTC())

	count, err := repo.CountByJobID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
