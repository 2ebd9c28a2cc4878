package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/chrisdamba/foodspend/internal/models"
)

// CSVOutput writes one CSV file per report section.
type CSVOutput struct {
	store *Store
}

func NewCSVOutput(store *Store) *CSVOutput {
	return &CSVOutput{store: store}
}

func (c *CSVOutput) Name() string { return "csv" }

func (c *CSVOutput) Write(ctx context.Context, snap *models.Snapshot) error {
	for _, t := range tables(snap) {
		key := c.store.Key(t.name, snap, ".csv")
		w, err := c.store.Create(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", key, err)
		}
		if err := writeCSV(w, t); err != nil {
			_ = w.Close()
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", key, err)
		}
	}
	return nil
}

func writeCSV(w io.Writer, t table) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(columnNames(t.schema)); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := csvWriter.Write(columnValues(row)); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func (c *CSVOutput) Close() error { return nil }
