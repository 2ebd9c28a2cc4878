package output

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/chrisdamba/foodspend/internal/aggregator"
	"github.com/chrisdamba/foodspend/internal/models"
)

// Flat rows for the tabular exports. The parquet tags drive both the parquet
// schema and the CSV header.

type SummaryRow struct {
	SnapshotID              string `parquet:"name=snapshot_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	CreatedAt               string `parquet:"name=created_at, type=BYTE_ARRAY, convertedtype=UTF8"`
	Source                  string `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalSpent              int64  `parquet:"name=total_spent, type=INT64"`
	TotalOrders             int64  `parquet:"name=total_orders, type=INT64"`
	AvgOrderValue           int64  `parquet:"name=avg_order_value, type=INT64"`
	TotalDeliveryFees       int64  `parquet:"name=total_delivery_fees, type=INT64"`
	TotalSavings            int64  `parquet:"name=total_savings, type=INT64"`
	MostExpensiveAmount     int64  `parquet:"name=most_expensive_amount, type=INT64"`
	MostExpensiveRestaurant string `parquet:"name=most_expensive_restaurant, type=BYTE_ARRAY, convertedtype=UTF8"`
	MostExpensiveDate       string `parquet:"name=most_expensive_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	CheapestAmount          int64  `parquet:"name=cheapest_amount, type=INT64"`
	CheapestRestaurant      string `parquet:"name=cheapest_restaurant, type=BYTE_ARRAY, convertedtype=UTF8"`
	CheapestDate            string `parquet:"name=cheapest_date, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// PeriodRow is one time bucket: a month, a year, a weekday or an hour.
type PeriodRow struct {
	SnapshotID string `parquet:"name=snapshot_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Period     string `parquet:"name=period, type=BYTE_ARRAY, convertedtype=UTF8"`
	Orders     int64  `parquet:"name=orders, type=INT64"`
	Amount     int64  `parquet:"name=amount, type=INT64"`
}

type RestaurantRow struct {
	SnapshotID    string `parquet:"name=snapshot_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Rank          int64  `parquet:"name=rank, type=INT64"`
	Name          string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Cuisine       string `parquet:"name=cuisine, type=BYTE_ARRAY, convertedtype=UTF8"`
	Orders        int64  `parquet:"name=orders, type=INT64"`
	TotalSpent    int64  `parquet:"name=total_spent, type=INT64"`
	AvgOrderValue int64  `parquet:"name=avg_order_value, type=INT64"`
	LastOrdered   string `parquet:"name=last_ordered, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type CuisineRow struct {
	SnapshotID string `parquet:"name=snapshot_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Rank       int64  `parquet:"name=rank, type=INT64"`
	Name       string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Orders     int64  `parquet:"name=orders, type=INT64"`
	Amount     int64  `parquet:"name=amount, type=INT64"`
}

type ItemRow struct {
	SnapshotID string `parquet:"name=snapshot_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Rank       int64  `parquet:"name=rank, type=INT64"`
	Name       string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Count      int64  `parquet:"name=count, type=INT64"`
	TotalSpent int64  `parquet:"name=total_spent, type=INT64"`
}

type FunStatsRow struct {
	SnapshotID               string `parquet:"name=snapshot_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	FirstOrderDate           string `parquet:"name=first_order_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	LongestStreak            int64  `parquet:"name=longest_streak, type=INT64"`
	TotalSavings             int64  `parquet:"name=total_savings, type=INT64"`
	FavoriteRestaurant       string `parquet:"name=favorite_restaurant, type=BYTE_ARRAY, convertedtype=UTF8"`
	FavoriteRestaurantOrders int64  `parquet:"name=favorite_restaurant_orders, type=INT64"`
	FavoriteDay              string `parquet:"name=favorite_day, type=BYTE_ARRAY, convertedtype=UTF8"`
	PeakHour                 string `parquet:"name=peak_hour, type=BYTE_ARRAY, convertedtype=UTF8"`
	LateNightOrders          int64  `parquet:"name=late_night_orders, type=INT64"`
	UniqueRestaurants        int64  `parquet:"name=unique_restaurants, type=INT64"`
	AvgOrdersPerMonth        int64  `parquet:"name=avg_orders_per_month, type=INT64"`
}

// OrderRow is one input order with its amounts resolved the way the
// aggregator reads them.
type OrderRow struct {
	SnapshotID  string  `parquet:"name=snapshot_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderID     string  `parquet:"name=order_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderTime   string  `parquet:"name=order_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	Restaurant  string  `parquet:"name=restaurant, type=BYTE_ARRAY, convertedtype=UTF8"`
	Cuisines    string  `parquet:"name=cuisines, type=BYTE_ARRAY, convertedtype=UTF8"`
	Amount      float64 `parquet:"name=amount, type=DOUBLE"`
	DeliveryFee float64 `parquet:"name=delivery_fee, type=DOUBLE"`
	Discount    float64 `parquet:"name=discount, type=DOUBLE"`
	Items       int64   `parquet:"name=items, type=INT64"`
}

// table is one section of a snapshot flattened into rows of a single type.
type table struct {
	name   string
	schema any // pointer to a zero row
	rows   []any
}

func tables(snap *models.Snapshot) []table {
	d := snap.Dashboard
	id := snap.ID
	s := d.Summary
	f := d.FunStats

	monthly := make([]any, len(d.MonthlySpending))
	for i, m := range d.MonthlySpending {
		monthly[i] = PeriodRow{id, m.Month, int64(m.Orders), m.Amount}
	}
	yearly := make([]any, len(d.YearlySpending))
	for i, y := range d.YearlySpending {
		yearly[i] = PeriodRow{id, y.Year, int64(y.Orders), y.Amount}
	}
	weekdays := make([]any, len(d.WeekdayDistribution))
	for i, w := range d.WeekdayDistribution {
		weekdays[i] = PeriodRow{id, w.Day, int64(w.Orders), w.Amount}
	}
	hours := make([]any, len(d.HourlyDistribution))
	for i, h := range d.HourlyDistribution {
		hours[i] = PeriodRow{id, h.Hour, int64(h.Orders), h.Amount}
	}
	restaurants := make([]any, len(d.TopRestaurants))
	for i, r := range d.TopRestaurants {
		restaurants[i] = RestaurantRow{id, int64(i + 1), r.Name, r.Cuisine, int64(r.Orders), r.TotalSpent, r.AvgOrderValue, r.LastOrdered}
	}
	cuisines := make([]any, len(d.CuisineBreakdown))
	for i, c := range d.CuisineBreakdown {
		cuisines[i] = CuisineRow{id, int64(i + 1), c.Name, int64(c.Orders), c.Amount}
	}
	items := make([]any, len(d.TopItems))
	for i, it := range d.TopItems {
		items[i] = ItemRow{id, int64(i + 1), it.Name, int64(it.Count), it.TotalSpent}
	}
	orders := make([]any, len(d.Orders))
	for i := range d.Orders {
		o := &d.Orders[i]
		orders[i] = OrderRow{
			SnapshotID:  id,
			OrderID:     o.ID.String(),
			OrderTime:   o.OrderTime.String(),
			Restaurant:  aggregator.RestaurantName(o),
			Cuisines:    strings.Join(aggregator.Cuisines(o), ", "),
			Amount:      aggregator.Amount(o),
			DeliveryFee: aggregator.DeliveryFee(o),
			Discount:    aggregator.Discount(o),
			Items:       int64(len(o.Items)),
		}
	}

	return []table{
		{"summary", new(SummaryRow), []any{SummaryRow{
			id, snap.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), snap.Source,
			s.TotalSpent, int64(s.TotalOrders), s.AvgOrderValue, s.TotalDeliveryFees, s.TotalSavings,
			s.MostExpensiveOrder.Amount, s.MostExpensiveOrder.Restaurant, s.MostExpensiveOrder.Date,
			s.CheapestOrder.Amount, s.CheapestOrder.Restaurant, s.CheapestOrder.Date,
		}}},
		{"monthly_spending", new(PeriodRow), monthly},
		{"yearly_spending", new(PeriodRow), yearly},
		{"weekday_distribution", new(PeriodRow), weekdays},
		{"hourly_distribution", new(PeriodRow), hours},
		{"top_restaurants", new(RestaurantRow), restaurants},
		{"cuisine_breakdown", new(CuisineRow), cuisines},
		{"top_items", new(ItemRow), items},
		{"fun_stats", new(FunStatsRow), []any{FunStatsRow{
			id, f.FirstOrderDate, int64(f.LongestStreak), f.TotalSavings,
			f.FavoriteRestaurant.Name, int64(f.FavoriteRestaurant.Count), f.FavoriteDay, f.PeakHour,
			int64(f.LateNightOrders), int64(f.UniqueRestaurants), int64(f.AvgOrdersPerMonth),
		}}},
		{"orders", new(OrderRow), orders},
	}
}

// columnNames reads the column names from the parquet tags of a row type.
func columnNames(schema any) []string {
	t := reflect.TypeOf(schema)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	names := make([]string, t.NumField())
	for i := range names {
		field := t.Field(i)
		names[i] = field.Name
		for _, part := range strings.Split(field.Tag.Get("parquet"), ",") {
			if k, v, ok := strings.Cut(strings.TrimSpace(part), "="); ok && k == "name" {
				names[i] = v
			}
		}
	}
	return names
}

// columnValues renders a row as strings, in column order.
func columnValues(row any) []string {
	v := reflect.ValueOf(row)
	values := make([]string, v.NumField())
	for i := range values {
		values[i] = fmt.Sprint(v.Field(i).Interface())
	}
	return values
}
