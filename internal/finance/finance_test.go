package finance_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/finance"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func completedJob(installed *time.Time, payments ...float64) domain.Job {
	job := domain.Job{
		BaseModel:        domain.BaseModel{ID: uuid.New()},
		Stage:            domain.StageCompleted,
		InstallationDate: installed,
	}
	for i, amount := range payments {
		job.Payments = append(job.Payments, domain.PaymentRecord{Amount: amount, Slot: i})
	}
	return job
}

func TestMonthlyRevenue(t *testing.T) {
	jobs := []domain.Job{
		completedJob(datePtr(2026, time.August, 15), 600, 400),
		completedJob(datePtr(2026, time.July, 30), 250),
		{Stage: domain.StageDesign, InstallationDate: datePtr(2026, time.August, 10),
			Payments: []domain.PaymentRecord{{Amount: 9999}}},
		completedJob(nil, 500),
	}

	t.Run("sums payments of completed jobs installed in the month", func(t *testing.T) {
		assert.Equal(t, 1000.0, finance.MonthlyRevenue(jobs, time.August, 2026))
	})

	t.Run("ignores non-completed jobs and missing installation dates", func(t *testing.T) {
		assert.Equal(t, 250.0, finance.MonthlyRevenue(jobs, time.July, 2026))
		assert.Equal(t, 0.0, finance.MonthlyRevenue(jobs, time.June, 2026))
	})

	t.Run("buckets by installation date, not payment date", func(t *testing.T) {
		// Payment slots carry their own dates but they never affect bucketing.
		job := completedJob(datePtr(2026, time.March, 1))
		paid := time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC)
		job.Payments = []domain.PaymentRecord{{Amount: 800, Date: &paid}}

		assert.Equal(t, 800.0, finance.MonthlyRevenue([]domain.Job{job}, time.March, 2026))
		assert.Equal(t, 0.0, finance.MonthlyRevenue([]domain.Job{job}, time.May, 2026))
	})
}

func TestProgressPercentage(t *testing.T) {
	t.Run("caps at 100", func(t *testing.T) {
		assert.Equal(t, 100.0, finance.ProgressPercentage(5000, 1000))
	})

	t.Run("reports partial coverage", func(t *testing.T) {
		assert.Equal(t, 25.0, finance.ProgressPercentage(250, 1000))
	})

	t.Run("no fixed costs with revenue is 100", func(t *testing.T) {
		assert.Equal(t, 100.0, finance.ProgressPercentage(1000, 0))
	})

	t.Run("no fixed costs and no revenue is 0", func(t *testing.T) {
		assert.Equal(t, 0.0, finance.ProgressPercentage(0, 0))
	})
}

func TestPercentChange(t *testing.T) {
	t.Run("growth from zero base is 100 and positive", func(t *testing.T) {
		change, positive := finance.PercentChange(500, 0)
		assert.Equal(t, 100.0, change)
		assert.True(t, positive)
	})

	t.Run("regular growth", func(t *testing.T) {
		change, positive := finance.PercentChange(600, 400)
		assert.InDelta(t, 50.0, change, 1e-9)
		assert.True(t, positive)
	})

	t.Run("decline is negative", func(t *testing.T) {
		change, positive := finance.PercentChange(200, 400)
		assert.InDelta(t, -50.0, change, 1e-9)
		assert.False(t, positive)
	})

	t.Run("zero to zero is flat and counted positive", func(t *testing.T) {
		change, positive := finance.PercentChange(0, 0)
		assert.Equal(t, 0.0, change)
		assert.True(t, positive)
	})
}

func TestSummarizeMonth(t *testing.T) {
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	t.Run("single completed job with no overhead", func(t *testing.T) {
		jobs := []domain.Job{completedJob(datePtr(2026, time.August, 5), 1000)}

		s := finance.SummarizeMonth(jobs, nil, now)

		assert.Equal(t, 1000.0, s.Revenue)
		assert.Equal(t, 100.0, s.ProgressPercentage)
		assert.Equal(t, 1000.0, s.Profit)
		assert.Equal(t, 1, s.CompletedJobs)
	})

	t.Run("compares against the previous calendar month", func(t *testing.T) {
		jobs := []domain.Job{
			completedJob(datePtr(2026, time.August, 5), 500),
			completedJob(datePtr(2026, time.July, 28), 1000),
		}
		costs := []domain.FixedCostItem{{Name: "Rent", MonthlyAmount: 2000}}

		s := finance.SummarizeMonth(jobs, costs, now)

		assert.Equal(t, 500.0, s.Revenue)
		assert.Equal(t, 2000.0, s.FixedCosts)
		assert.Equal(t, -1500.0, s.Profit)
		assert.Equal(t, -1000.0, s.PreviousMonthProfit, "July revenue against the same overhead")
		assert.Equal(t, 25.0, s.ProgressPercentage)
		assert.InDelta(t, -50.0, s.PercentageChange, 1e-9)
		assert.False(t, s.IsPositiveChange)
	})

	t.Run("january compares against december of the prior year", func(t *testing.T) {
		jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
		jobs := []domain.Job{
			completedJob(datePtr(2026, time.January, 8), 300),
			completedJob(datePtr(2025, time.December, 22), 300),
		}

		s := finance.SummarizeMonth(jobs, nil, jan)

		assert.Equal(t, 0.0, s.PercentageChange)
		assert.True(t, s.IsPositiveChange)
	})
}

func TestTrailingYear(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("always yields twelve ordered months across year boundaries", func(t *testing.T) {
		points := finance.TrailingYear(nil, nil, now)

		require.Len(t, points, 12)
		assert.Equal(t, time.April, points[0].Month)
		assert.Equal(t, 2025, points[0].Year)
		assert.Equal(t, time.October, points[6].Month)
		assert.Equal(t, 2025, points[6].Year)
		assert.Equal(t, time.March, points[11].Month)
		assert.Equal(t, 2026, points[11].Year)
	})

	t.Run("each point carries that month's revenue and profit", func(t *testing.T) {
		jobs := []domain.Job{
			completedJob(datePtr(2025, time.October, 3), 700),
			completedJob(datePtr(2026, time.March, 1), 400),
		}
		costs := []domain.FixedCostItem{{Name: "Rent", MonthlyAmount: 300}}

		points := finance.TrailingYear(jobs, costs, now)

		require.Len(t, points, 12)
		assert.Equal(t, 700.0, points[6].Revenue)
		assert.Equal(t, 400.0, points[6].Profit)
		assert.Equal(t, 400.0, points[11].Revenue)
		assert.Equal(t, 100.0, points[11].Profit)
		assert.Equal(t, 0.0, points[0].Revenue)
		assert.Equal(t, -300.0, points[0].Profit)
	})
}
