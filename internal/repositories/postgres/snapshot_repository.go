package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/foodspend/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS dashboard_snapshots (
    id            TEXT PRIMARY KEY,
    created_at    TIMESTAMPTZ NOT NULL,
    source        TEXT NOT NULL,
    total_orders  INTEGER NOT NULL,
    total_spent   BIGINT NOT NULL,
    dashboard     JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_monthly_spending (
    snapshot_id TEXT NOT NULL REFERENCES dashboard_snapshots (id) ON DELETE CASCADE,
    month       TEXT NOT NULL,
    amount      BIGINT NOT NULL,
    orders      INTEGER NOT NULL,
    PRIMARY KEY (snapshot_id, month)
);

CREATE TABLE IF NOT EXISTS snapshot_restaurants (
    snapshot_id     TEXT NOT NULL REFERENCES dashboard_snapshots (id) ON DELETE CASCADE,
    rank            INTEGER NOT NULL,
    name            TEXT NOT NULL,
    cuisine         TEXT NOT NULL,
    orders          INTEGER NOT NULL,
    total_spent     BIGINT NOT NULL,
    avg_order_value BIGINT NOT NULL,
    last_ordered    TEXT NOT NULL,
    PRIMARY KEY (snapshot_id, rank)
);
`

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create snapshot tables: %w", err)
	}
	return nil
}

// Create stores the snapshot, its monthly spending and its restaurant
// ranking in one transaction.
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *models.Snapshot) error {
	d := snapshot.Dashboard
	doc, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO dashboard_snapshots (id, created_at, source, total_orders, total_spent, dashboard)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		snapshot.ID,
		snapshot.CreatedAt,
		snapshot.Source,
		d.Summary.TotalOrders,
		d.Summary.TotalSpent,
		doc,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot %s: %w", snapshot.ID, err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"snapshot_monthly_spending"},
		[]string{"snapshot_id", "month", "amount", "orders"},
		pgx.CopyFromSlice(len(d.MonthlySpending), func(i int) ([]any, error) {
			m := d.MonthlySpending[i]
			return []any{snapshot.ID, m.Month, m.Amount, m.Orders}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy monthly spending: %w", err)
	}

	batch := &pgx.Batch{}
	for i, restaurant := range d.TopRestaurants {
		batch.Queue(`
            INSERT INTO snapshot_restaurants (
                snapshot_id, rank, name, cuisine, orders, total_spent, avg_order_value, last_ordered
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			snapshot.ID,
			i+1,
			restaurant.Name,
			restaurant.Cuisine,
			restaurant.Orders,
			restaurant.TotalSpent,
			restaurant.AvgOrderValue,
			restaurant.LastOrdered,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert restaurants: %w", err)
		}
	}

	return tx.Commit(ctx)
}
