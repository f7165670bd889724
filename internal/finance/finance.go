// Package finance derives the monthly financial figures from the job
// ledger. Revenue is bucketed by installation date, not payment date:
// a completed job's payments count toward the month the sign went up.
package finance

import (
	"time"

	"github.com/signgroup/workshop-api/internal/domain"
)

// Summary holds the derived figures for one calendar month. The
// previous month's P&L is measured against the same fixed cost total
// as the current one; the register holds no history.
type Summary struct {
	Month               time.Month
	Year                int
	Revenue             float64
	FixedCosts          float64
	Profit              float64
	PreviousMonthProfit float64
	ProgressPercentage  float64
	PercentageChange    float64
	IsPositiveChange    bool
	CompletedJobs       int
}

// TrendPoint is one month in the trailing-year series
type TrendPoint struct {
	Month   time.Month
	Year    int
	Revenue float64
	Profit  float64
}

// TrendMonths is the length of the trailing series
const TrendMonths = 12

// MonthlyRevenue sums all payments over jobs that are completed and
// whose installation date falls in the given calendar month. Jobs with
// no installation date never match.
func MonthlyRevenue(jobs []domain.Job, month time.Month, year int) float64 {
	var total float64
	for i := range jobs {
		if inMonth(&jobs[i], month, year) {
			total += jobs[i].PaymentsTotal()
		}
	}
	return total
}

// TotalFixedCosts sums the monthly overhead entries
func TotalFixedCosts(items []domain.FixedCostItem) float64 {
	var total float64
	for _, item := range items {
		total += item.MonthlyAmount
	}
	return total
}

// ProgressPercentage reports how far revenue covers fixed costs, capped
// at 100. With no fixed costs it is 100 when any revenue exists, else 0.
func ProgressPercentage(revenue, fixedCosts float64) float64 {
	if fixedCosts > 0 {
		pct := revenue / fixedCosts * 100
		if pct > 100 {
			return 100
		}
		return pct
	}
	if revenue > 0 {
		return 100
	}
	return 0
}

// PercentChange compares current revenue against the previous month.
// Growth from a zero base reports as a flat 100%. The boolean flags a
// non-negative change.
func PercentChange(current, previous float64) (float64, bool) {
	var change float64
	if previous > 0 {
		change = (current - previous) / previous * 100
	} else if current > 0 {
		change = 100
	}
	return change, change >= 0
}

// SummarizeMonth derives the full snapshot for the month containing now
func SummarizeMonth(jobs []domain.Job, fixedCosts []domain.FixedCostItem, now time.Time) Summary {
	month, year := now.Month(), now.Year()
	totalFixed := TotalFixedCosts(fixedCosts)

	revenue := MonthlyRevenue(jobs, month, year)

	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	prevRevenue := MonthlyRevenue(jobs, prev.Month(), prev.Year())

	change, positive := PercentChange(revenue, prevRevenue)

	var completed int
	for i := range jobs {
		if inMonth(&jobs[i], month, year) {
			completed++
		}
	}

	return Summary{
		Month:               month,
		Year:                year,
		Revenue:             revenue,
		FixedCosts:          totalFixed,
		Profit:              revenue - totalFixed,
		PreviousMonthProfit: prevRevenue - totalFixed,
		ProgressPercentage:  ProgressPercentage(revenue, totalFixed),
		PercentageChange:    change,
		IsPositiveChange:    positive,
		CompletedJobs:       completed,
	}
}

// TrailingYear returns exactly twelve points ending at the month
// containing now, oldest first. Month arithmetic rolls over year
// boundaries via the calendar, so the series is always twelve valid
// consecutive months.
func TrailingYear(jobs []domain.Job, fixedCosts []domain.FixedCostItem, now time.Time) []TrendPoint {
	totalFixed := TotalFixedCosts(fixedCosts)
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	points := make([]TrendPoint, 0, TrendMonths)
	for i := TrendMonths - 1; i >= 0; i-- {
		at := anchor.AddDate(0, -i, 0)
		revenue := MonthlyRevenue(jobs, at.Month(), at.Year())
		points = append(points, TrendPoint{
			Month:   at.Month(),
			Year:    at.Year(),
			Revenue: revenue,
			Profit:  revenue - totalFixed,
		})
	}
	return points
}

func inMonth(job *domain.Job, month time.Month, year int) bool {
	if job.Stage != domain.StageCompleted || job.InstallationDate == nil {
		return false
	}
	return job.InstallationDate.Month() == month && job.InstallationDate.Year() == year
}
