package output

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/foodspend/internal/models"
	"github.com/chrisdamba/foodspend/internal/repositories"
	"github.com/chrisdamba/foodspend/internal/repositories/postgres"
)

type PostgresOutput struct {
	repo repositories.SnapshotRepository
	pool *pgxpool.Pool
}

// NewPostgresOutput connects to the database and creates the snapshot
// tables when they are missing.
func NewPostgresOutput(ctx context.Context, config models.DatabaseConfig) (*PostgresOutput, error) {
	pool, err := pgxpool.New(ctx, config.URL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	repo := postgres.NewSnapshotRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresOutput{repo: repo, pool: pool}, nil
}

func NewPostgresOutputFromRepository(repo repositories.SnapshotRepository) *PostgresOutput {
	return &PostgresOutput{repo: repo}
}

func (p *PostgresOutput) Name() string { return "postgres" }

func (p *PostgresOutput) Write(ctx context.Context, snap *models.Snapshot) error {
	return p.repo.Create(ctx, snap)
}

func (p *PostgresOutput) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
