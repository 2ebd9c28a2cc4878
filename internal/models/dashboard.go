package models

// DashboardData is the complete spending report derived from one batch of
// orders. Monetary values are rounded to whole currency units.
type DashboardData struct {
	Summary             SummaryStats     `json:"summary"`
	MonthlySpending     []MonthlyData    `json:"monthlySpending"`
	YearlySpending      []YearlyData     `json:"yearlySpending"`
	WeekdayDistribution []WeekdayData    `json:"weekdayDistribution"`
	HourlyDistribution  []HourlyData     `json:"hourlyDistribution"`
	TopRestaurants      []RestaurantData `json:"topRestaurants"`
	CuisineBreakdown    []CuisineData    `json:"cuisineBreakdown"`
	TopItems            []ItemData       `json:"topItems"`
	FunStats            FunStats         `json:"funStats"`
	Orders              []Order          `json:"orders"` // most recent first
}

// TopRestaurantsN returns at most n restaurants from the spending ranking.
func (d *DashboardData) TopRestaurantsN(n int) []RestaurantData {
	if n < 0 || n >= len(d.TopRestaurants) {
		return d.TopRestaurants
	}
	return d.TopRestaurants[:n]
}

type SummaryStats struct {
	TotalSpent         int64          `json:"totalSpent"`
	TotalOrders        int            `json:"totalOrders"`
	AvgOrderValue      int64          `json:"avgOrderValue"`
	TotalDeliveryFees  int64          `json:"totalDeliveryFees"`
	TotalSavings       int64          `json:"totalSavings"`
	MostExpensiveOrder OrderHighlight `json:"mostExpensiveOrder"`
	CheapestOrder      OrderHighlight `json:"cheapestOrder"`
}

// OrderHighlight identifies a single notable order.
type OrderHighlight struct {
	Amount     int64  `json:"amount"`
	Restaurant string `json:"restaurant"`
	Date       string `json:"date"`
}

type MonthlyData struct {
	Month  string `json:"month"` // YYYY-MM
	Amount int64  `json:"amount"`
	Orders int    `json:"orders"`
}

type YearlyData struct {
	Year   string `json:"year"`
	Amount int64  `json:"amount"`
	Orders int    `json:"orders"`
}

type WeekdayData struct {
	Day    string `json:"day"`
	Orders int    `json:"orders"`
	Amount int64  `json:"amount"`
}

type HourlyData struct {
	Hour   string `json:"hour"` // HH:00
	Orders int    `json:"orders"`
	Amount int64  `json:"amount"`
}

type RestaurantData struct {
	Name          string `json:"name"`
	Cuisine       string `json:"cuisine"`
	Orders        int    `json:"orders"`
	TotalSpent    int64  `json:"totalSpent"`
	AvgOrderValue int64  `json:"avgOrderValue"`
	LastOrdered   string `json:"lastOrdered"`
}

type CuisineData struct {
	Name   string `json:"name"`
	Orders int    `json:"orders"`
	Amount int64  `json:"amount"`
}

type ItemData struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	TotalSpent int64  `json:"totalSpent"`
}

type FavoriteRestaurant struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type FunStats struct {
	FirstOrderDate     string             `json:"firstOrderDate"`
	LongestStreak      int                `json:"longestStreak"`
	TotalSavings       int64              `json:"totalSavings"`
	FavoriteRestaurant FavoriteRestaurant `json:"favoriteRestaurant"`
	FavoriteDay        string             `json:"favoriteDay"`
	PeakHour           string             `json:"peakHour"`
	LateNightOrders    int                `json:"lateNightOrders"`
	UniqueRestaurants  int                `json:"uniqueRestaurants"`
	AvgOrdersPerMonth  int                `json:"avgOrdersPerMonth"`
}
