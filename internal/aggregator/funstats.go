package aggregator

import (
	"sort"
	"time"

	"github.com/chrisdamba/foodspend/internal/models"
)

func emptyFunStats() models.FunStats {
	return models.FunStats{
		FavoriteRestaurant: models.FavoriteRestaurant{Name: models.NotAvailable},
		FavoriteDay:        models.NotAvailable,
		PeakHour:           models.NotAvailable,
	}
}

// longestStreak returns the longest run of consecutive calendar days that
// each hold at least one dated record.
func longestStreak(records []record) int {
	seen := make(map[time.Time]struct{})
	var days []time.Time
	for i := range records {
		if !records[i].dated {
			continue
		}
		y, m, d := records[i].at.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if _, ok := seen[day]; !ok {
			seen[day] = struct{}{}
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			current++
			longest = max(longest, current)
		} else {
			current = 1
		}
	}
	return longest
}

// busiest returns the slot with the highest count. On equal counts the slot
// that saw an order first wins; firstSeen holds that position, -1 if never.
func busiest(counts, firstSeen []int) int {
	best := -1
	for i, c := range counts {
		if firstSeen[i] < 0 {
			continue
		}
		if best < 0 || c > counts[best] || (c == counts[best] && firstSeen[i] < firstSeen[best]) {
			best = i
		}
	}
	return best
}

func unseen(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = -1
	}
	return s
}

func buildFunStats(records []record, weekdays []models.WeekdayData, hours []models.HourlyData) models.FunStats {
	if len(records) == 0 {
		return emptyFunStats()
	}
	stats := emptyFunStats()

	var first *record
	var savings float64
	restaurants := newGrouper[int]()
	names := make(map[string]struct{})
	months := make(map[string]struct{})
	daySeen, hourSeen := unseen(len(weekdays)), unseen(len(hours))
	for i := range records {
		r := &records[i]
		savings += Discount(r.order)
		*restaurants.add(r.restaurant)++
		names[r.order.RestaurantName.String()] = struct{}{}
		if !r.dated {
			continue
		}
		if first == nil {
			first = r
		}
		if d := int(r.at.Weekday()); daySeen[d] < 0 {
			daySeen[d] = i
		}
		if h := r.at.Hour(); hourSeen[h] < 0 {
			hourSeen[h] = i
		}
		months[monthKey(r.at)] = struct{}{}
		if isLateNight(r.at) {
			stats.LateNightOrders++
		}
	}

	if first != nil {
		stats.FirstOrderDate = first.order.OrderTime.String()
	}
	stats.LongestStreak = longestStreak(records)
	stats.TotalSavings = roundMoney(savings)
	// raw names: a missing name and a literal "Unknown" are different places
	stats.UniqueRestaurants = len(names)

	for _, name := range restaurants.keys {
		if n := *restaurants.acc[name]; n > stats.FavoriteRestaurant.Count {
			stats.FavoriteRestaurant = models.FavoriteRestaurant{Name: name, Count: n}
		}
	}

	if first != nil {
		dayCounts := make([]int, len(weekdays))
		for i, d := range weekdays {
			dayCounts[i] = d.Orders
		}
		stats.FavoriteDay = weekdays[busiest(dayCounts, daySeen)].Day

		hourCounts := make([]int, len(hours))
		for i, h := range hours {
			hourCounts[i] = h.Orders
		}
		stats.PeakHour = hours[busiest(hourCounts, hourSeen)].Hour
	}

	if len(months) > 1 {
		stats.AvgOrdersPerMonth = int(roundMoney(float64(len(records)) / float64(len(months))))
	} else {
		stats.AvgOrdersPerMonth = len(records)
	}

	return stats
}
