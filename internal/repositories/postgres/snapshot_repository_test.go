package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodspend/internal/models"
)

// testPool connects to the database named by FOODSPEND_TEST_DATABASE_URL and
// skips the test when it is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("FOODSPEND_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FOODSPEND_TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(context.Background()))
	return pool
}

func testSnapshot() *models.Snapshot {
	return models.NewSnapshot(&models.DashboardData{
		Summary: models.SummaryStats{TotalOrders: 3, TotalSpent: 650},
		MonthlySpending: []models.MonthlyData{
			{Month: "2024-01", Amount: 350, Orders: 2},
			{Month: "2024-02", Amount: 300, Orders: 1},
		},
		TopRestaurants: []models.RestaurantData{
			{Name: "Pizza Place", Cuisine: "Italian", Orders: 2, TotalSpent: 350, AvgOrderValue: 175, LastOrdered: "2024-01-06T23:30"},
			{Name: "Burger Joint", Cuisine: "American", Orders: 1, TotalSpent: 300, AvgOrderValue: 300, LastOrdered: "2024-02-01T08:00"},
		},
	}, "test")
}

func TestSnapshotRepository_Create(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewSnapshotRepository(pool)
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Migrate(ctx), "migrations are repeatable")

	snap := testSnapshot()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM dashboard_snapshots WHERE id = $1`, snap.ID)
	})
	require.NoError(t, repo.Create(ctx, snap))

	var totalSpent int64
	var source string
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT total_spent, source FROM dashboard_snapshots WHERE id = $1`, snap.ID).Scan(&totalSpent, &source))
	assert.Equal(t, int64(650), totalSpent)
	assert.Equal(t, "test", source)

	var months, restaurants int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM snapshot_monthly_spending WHERE snapshot_id = $1`, snap.ID).Scan(&months))
	assert.Equal(t, 2, months)

	var top string
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*), min(name) FILTER (WHERE rank = 1) FROM snapshot_restaurants WHERE snapshot_id = $1`,
		snap.ID).Scan(&restaurants, &top))
	assert.Equal(t, 2, restaurants)
	assert.Equal(t, "Pizza Place", top)
}

func TestSnapshotRepository_CreateRollsBackDuplicates(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewSnapshotRepository(pool)
	require.NoError(t, repo.Migrate(ctx))

	snap := testSnapshot()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM dashboard_snapshots WHERE id = $1`, snap.ID)
	})
	require.NoError(t, repo.Create(ctx, snap))
	assert.Error(t, repo.Create(ctx, snap))

	var months int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM snapshot_monthly_spending WHERE snapshot_id = $1`, snap.ID).Scan(&months))
	assert.Equal(t, 2, months)
}
