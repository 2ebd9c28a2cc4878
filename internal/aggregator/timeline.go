package aggregator

import (
	"fmt"
	"time"

	"github.com/chrisdamba/foodspend/internal/models"
)

const (
	lateNightStart = 22
	lateNightEnd   = 4
)

func monthKey(t time.Time) string { return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())) }

func yearKey(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) }

func hourLabel(h int) string { return fmt.Sprintf("%02d:00", h) }

func weekdayNames() []string {
	names := make([]string, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		names[d] = d.String()
	}
	return names
}

func hourLabels() []string {
	labels := make([]string, 24)
	for h := range labels {
		labels[h] = hourLabel(h)
	}
	return labels
}

func isLateNight(t time.Time) bool {
	h := t.Hour()
	return h >= lateNightStart || h < lateNightEnd
}

// bucketBy groups dated records under key(at). Seeded keys are always
// present, in seed order.
func bucketBy(records []record, key func(time.Time) string, seed ...string) *grouper[bucket] {
	g := newGrouper[bucket](seed...)
	for i := range records {
		r := &records[i]
		if !r.dated {
			continue
		}
		b := g.add(key(r.at))
		b.orders++
		b.amount += r.amount
	}
	return g
}

func byKey[R any](key func(R) string) func(a, b R) bool {
	return func(a, b R) bool { return key(a) < key(b) }
}

func buildMonthly(records []record) []models.MonthlyData {
	g := bucketBy(records, monthKey)
	return rank(g, func(k string, b *bucket) models.MonthlyData {
		return models.MonthlyData{Month: k, Amount: roundMoney(b.amount), Orders: b.orders}
	}, byKey(func(m models.MonthlyData) string { return m.Month }), 0)
}

func buildYearly(records []record) []models.YearlyData {
	g := bucketBy(records, yearKey)
	return rank(g, func(k string, b *bucket) models.YearlyData {
		return models.YearlyData{Year: k, Amount: roundMoney(b.amount), Orders: b.orders}
	}, byKey(func(y models.YearlyData) string { return y.Year }), 0)
}

func buildWeekday(records []record) []models.WeekdayData {
	g := bucketBy(records, func(t time.Time) string { return t.Weekday().String() }, weekdayNames()...)
	return rank(g, func(k string, b *bucket) models.WeekdayData {
		return models.WeekdayData{Day: k, Orders: b.orders, Amount: roundMoney(b.amount)}
	}, nil, 0)
}

func buildHourly(records []record) []models.HourlyData {
	g := bucketBy(records, func(t time.Time) string { return hourLabel(t.Hour()) }, hourLabels()...)
	return rank(g, func(k string, b *bucket) models.HourlyData {
		return models.HourlyData{Hour: k, Orders: b.orders, Amount: roundMoney(b.amount)}
	}, nil, 0)
}
