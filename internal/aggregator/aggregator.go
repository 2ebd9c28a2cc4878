// Package aggregator turns a batch of historical orders into the spending
// report shown on the dashboard.
//
// Processing is a pure function of its input: the orders are copied, sorted
// once by time, and every report section is derived from that sorted copy.
// An Aggregator holds no mutable state and is safe for concurrent use.
//
// All calendar fields (month and year buckets, weekday, hour of day, streak
// dates, the late-night window) are computed in a single time zone, UTC unless
// WithLocation says otherwise. Orders whose timestamp cannot be parsed still
// count towards totals and rankings but are left out of time-based sections.
package aggregator

import (
	"sort"
	"time"

	"github.com/chrisdamba/foodspend/internal/models"
)

type Aggregator struct {
	loc *time.Location
}

type Option func(*Aggregator)

// WithLocation sets the time zone for calendar computations.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

func New(opts ...Option) *Aggregator {
	a := &Aggregator{loc: time.UTC}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Location returns the time zone used for calendar computations.
func (a *Aggregator) Location() *time.Location { return a.loc }

// Process computes the report in UTC.
func Process(orders []models.Order) *models.DashboardData {
	return New().Process(orders)
}

// Process computes the full report for orders. The input slice is not
// modified. The returned Orders are the input orders, most recent first.
func (a *Aggregator) Process(orders []models.Order) *models.DashboardData {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)

	records := make([]record, len(sorted))
	for i := range sorted {
		records[i] = newRecord(&sorted[i], a.loc)
	}
	// undated records sort first, their zero time precedes every real one
	sort.SliceStable(records, func(i, j int) bool { return records[i].at.Before(records[j].at) })

	weekdays := buildWeekday(records)
	hours := buildHourly(records)

	return &models.DashboardData{
		Summary:             buildSummary(records),
		MonthlySpending:     buildMonthly(records),
		YearlySpending:      buildYearly(records),
		WeekdayDistribution: weekdays,
		HourlyDistribution:  hours,
		TopRestaurants:      buildRestaurants(records),
		CuisineBreakdown:    buildCuisines(records),
		TopItems:            buildItems(records),
		FunStats:            buildFunStats(records, weekdays, hours),
		Orders:              newestFirst(records),
	}
}

func newestFirst(records []record) []models.Order {
	out := make([]models.Order, len(records))
	for i := range records {
		out[len(records)-1-i] = *records[i].order
	}
	return out
}
