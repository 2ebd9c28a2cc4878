package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chrisdamba/foodspend/internal/aggregator"
	"github.com/chrisdamba/foodspend/internal/models"
	"github.com/chrisdamba/foodspend/internal/swiggy"
)

func newClient() *swiggy.Client {
	return swiggy.NewClientFromConfig(cfg.Swiggy, logger)
}

func newAggregator() (*aggregator.Aggregator, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return aggregator.New(aggregator.WithLocation(loc)), nil
}

// readOrders reads orders saved by fetch or generate: a JSON array, or an
// object with an "orders" array as returned by the HTTP API. "-" is stdin.
func readOrders(path string) ([]models.Order, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var envelope struct {
			Orders []models.Order `json:"orders"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return envelope.Orders, nil
	}

	var orders []models.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return orders, nil
}

// writeJSON writes v indented to path, or to stdout when path is "-".
func writeJSON(path string, v any) error {
	if path == "-" {
		return encodeJSON(os.Stdout, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeJSON(f, v); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
