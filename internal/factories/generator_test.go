package factories

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodspend/internal/aggregator"
	"github.com/chrisdamba/foodspend/internal/models"
)

func testConfig() models.GeneratorConfig {
	return models.GeneratorConfig{
		Seed:        7,
		Orders:      300,
		Restaurants: 12,
		StartDate:   time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, time.June, 30, 23, 59, 59, 0, time.UTC),
	}
}

func TestGenerator_Reproducible(t *testing.T) {
	a := NewGenerator(testConfig(), time.UTC).Generate()
	b := NewGenerator(testConfig(), time.UTC).Generate()
	assert.Equal(t, a, b)

	cfg := testConfig()
	cfg.Seed = 8
	assert.NotEqual(t, a, NewGenerator(cfg, time.UTC).Generate())
}

func TestGenerator_Orders(t *testing.T) {
	cfg := testConfig()
	orders := NewGenerator(cfg, time.UTC).Generate()
	require.Len(t, orders, cfg.Orders)

	var prev time.Time
	for i, o := range orders {
		at, ok := aggregator.ParseTime(o.OrderTime.String(), time.UTC)
		require.True(t, ok, o.OrderTime)
		assert.False(t, at.Before(cfg.StartDate), o.OrderTime)
		assert.False(t, at.After(cfg.EndDate), o.OrderTime)
		if i > 0 {
			assert.False(t, at.After(prev), "orders are most recent first")
		}
		prev = at

		assert.NotEmpty(t, o.ID)
		assert.NotEmpty(t, o.RestaurantName)
		assert.NotEmpty(t, o.Items)
		assert.NotEmpty(t, o.RestaurantCuisine.Tags())
		assert.GreaterOrEqual(t, o.OrderTotal.Float(), 0.0)
	}
}

func TestGenerator_FeedsAggregator(t *testing.T) {
	cfg := testConfig()
	orders := NewGenerator(cfg, time.UTC).Generate()

	// the generated history survives a JSON round trip unchanged
	raw, err := json.Marshal(orders)
	require.NoError(t, err)
	var decoded []models.Order
	require.NoError(t, json.Unmarshal(raw, &decoded))

	d := aggregator.Process(decoded)
	assert.Equal(t, cfg.Orders, d.Summary.TotalOrders)
	assert.LessOrEqual(t, d.FunStats.UniqueRestaurants, cfg.Restaurants)
	assert.Positive(t, d.Summary.TotalSpent)
	assert.Positive(t, d.Summary.TotalDeliveryFees)
	assert.NotEmpty(t, d.TopItems)
	assert.Equal(t, aggregator.Process(orders), d)
}

func TestGenerator_MenuDishes(t *testing.T) {
	cfg := testConfig()
	cfg.Orders = 20
	cfg.MenuDishes = []models.MenuDish{
		{Cuisine: "Tea", Name: "Masala Chai"},
		{Cuisine: "Tea", Name: "Ginger Chai"},
	}
	for _, o := range NewGenerator(cfg, time.UTC).Generate() {
		assert.Equal(t, []string{"Tea"}, o.RestaurantCuisine.Tags())
		for _, item := range o.Items {
			assert.Contains(t, []string{"Masala Chai", "Ginger Chai"}, item.Name.String())
		}
	}
}

func TestGenerator_NoOrders(t *testing.T) {
	cfg := testConfig()
	cfg.Orders = 0
	orders := NewGenerator(cfg, time.UTC).Generate()
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
