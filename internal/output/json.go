package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/chrisdamba/foodspend/internal/models"
)

// JSONOutput writes each snapshot as one indented JSON document, either to a
// store or to a stream.
type JSONOutput struct {
	store  *Store
	stream io.Writer
}

func NewJSONOutput(store *Store) *JSONOutput {
	return &JSONOutput{store: store}
}

func NewJSONStreamOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{stream: w}
}

func (j *JSONOutput) Name() string { return "json" }

func (j *JSONOutput) Write(ctx context.Context, snap *models.Snapshot) error {
	if j.stream != nil {
		return encodeJSON(j.stream, snap)
	}

	key := j.store.Key("dashboard", snap, ".json")
	w, err := j.store.Create(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	if err := encodeJSON(w, snap); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return w.Close()
}

func (j *JSONOutput) Close() error { return nil }

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
