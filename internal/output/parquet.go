package output

import (
	"context"
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/foodspend/internal/cloudwriter"
	"github.com/chrisdamba/foodspend/internal/models"
)

// ParquetOutput writes one Parquet file per non-empty report section.
type ParquetOutput struct {
	store *Store
}

func NewParquetOutput(store *Store) *ParquetOutput {
	return &ParquetOutput{store: store}
}

func (p *ParquetOutput) Name() string { return "parquet" }

func (p *ParquetOutput) Write(ctx context.Context, snap *models.Snapshot) error {
	for _, t := range tables(snap) {
		if len(t.rows) == 0 {
			continue
		}
		key := p.store.Key(t.name, snap, ".parquet")
		if err := p.writeTable(ctx, key, t); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return nil
}

func (p *ParquetOutput) createFile(ctx context.Context, key string) (source.ParquetFile, error) {
	if p.store.remote() {
		cw, err := p.store.factory.NewWriter(ctx, p.store.bucket, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return NewCloudParquetFile(cw), nil
	}
	full, err := p.store.localPath(key)
	if err != nil {
		return nil, err
	}
	fw, err := local.NewLocalFileWriter(full)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, nil
}

func (p *ParquetOutput) writeTable(ctx context.Context, key string, t table) error {
	fw, err := p.createFile(ctx, key)
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, t.schema, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range t.rows {
		if err := pw.Write(row); err != nil {
			_ = fw.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to finish file: %w", err)
	}
	return fw.Close()
}

func (p *ParquetOutput) Close() error { return nil }

// CloudParquetFile adapts a write-only CloudWriter to source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

// Open and Create return the file itself: the object is created by the
// first write.
func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
