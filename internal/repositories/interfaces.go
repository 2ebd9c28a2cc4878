package repositories

import (
	"context"

	"github.com/chrisdamba/foodspend/internal/models"
)

// SnapshotRepository stores exported dashboard snapshots. It is write-only:
// snapshots are published for downstream reporting and never read back.
type SnapshotRepository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, snapshot *models.Snapshot) error
}
