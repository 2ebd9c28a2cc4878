// Package output publishes computed dashboards: to the console, as JSON, CSV
// or Parquet files on local disk or S3, to Kafka, and to Postgres.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/foodspend/internal/cloudwriter"
	"github.com/chrisdamba/foodspend/internal/models"
)

type Destination interface {
	Name() string
	Write(ctx context.Context, snap *models.Snapshot) error
	Close() error
}

// Store places export files under a local directory or in an object storage
// bucket. Keys are partitioned by the snapshot's creation date.
type Store struct {
	basePath string
	folder   string
	factory  cloudwriter.CloudWriterFactory
	bucket   string
}

func NewLocalStore(basePath, folder string) *Store {
	return &Store{basePath: basePath, folder: folder}
}

func NewCloudStore(factory cloudwriter.CloudWriterFactory, bucket, folder string) *Store {
	return &Store{factory: factory, bucket: bucket, folder: folder}
}

// NewStore builds the store named by the output_destination setting.
func NewStore(ctx context.Context, config *models.Config) (*Store, error) {
	switch config.OutputDestination {
	case models.OutputDestinationLocal, "":
		return NewLocalStore(config.OutputPath, config.OutputFolder), nil
	case models.OutputDestinationS3:
		var factory cloudwriter.CloudWriterFactory
		var err error
		switch config.CloudStorage.Provider {
		case "s3", "":
			factory, err = cloudwriter.NewS3WriterFactory(ctx, config.CloudStorage.Region)
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		return NewCloudStore(factory, config.CloudStorage.BucketName, config.OutputFolder), nil
	default:
		return nil, fmt.Errorf("unsupported output destination: %s", config.OutputDestination)
	}
}

func (s *Store) remote() bool { return s.factory != nil }

// Key returns the object key of one section of a snapshot.
func (s *Store) Key(section string, snap *models.Snapshot, ext string) string {
	t := snap.CreatedAt
	partition := fmt.Sprintf("year=%d/month=%02d/day=%02d", t.Year(), t.Month(), t.Day())
	return path.Join(s.folder, section, partition, snap.ID+ext)
}

// localPath returns the file path for key, creating its directory.
func (s *Store) localPath(key string) (string, error) {
	full := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", err
	}
	return full, nil
}

func (s *Store) Create(ctx context.Context, key string) (io.WriteCloser, error) {
	if s.remote() {
		return s.factory.NewWriter(ctx, s.bucket, key)
	}
	full, err := s.localPath(key)
	if err != nil {
		return nil, err
	}
	return os.Create(full)
}

// Fanout writes every snapshot to all of its destinations.
type Fanout struct {
	destinations []Destination
	logger       logrus.FieldLogger
}

func NewFanout(logger logrus.FieldLogger, destinations ...Destination) *Fanout {
	return &Fanout{destinations: destinations, logger: logger}
}

func (f *Fanout) Name() string { return "fanout" }

func (f *Fanout) Len() int { return len(f.destinations) }

// Write attempts every destination even when some fail and returns the
// joined errors.
func (f *Fanout) Write(ctx context.Context, snap *models.Snapshot) error {
	var errs []error
	for _, d := range f.destinations {
		entry := f.logger.WithFields(logrus.Fields{"destination": d.Name(), "snapshot": snap.ID})
		if err := d.Write(ctx, snap); err != nil {
			entry.WithError(err).Error("export failed")
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		entry.Info("snapshot exported")
	}
	return errors.Join(errs...)
}

func (f *Fanout) Close() error {
	var errs []error
	for _, d := range f.destinations {
		if err := d.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// DetermineOutputs builds the destinations selected by config: one for the
// output format, plus Kafka and Postgres when they are enabled. Console
// output goes to stdout.
func DetermineOutputs(ctx context.Context, config *models.Config, stdout io.Writer, logger logrus.FieldLogger) (*Fanout, error) {
	var destinations []Destination
	closeAll := func() {
		for _, d := range destinations {
			_ = d.Close()
		}
	}

	switch config.OutputFormat {
	case models.OutputFormatConsole, "":
		destinations = append(destinations, NewConsoleOutput(stdout))
	case models.OutputFormatJSON, models.OutputFormatCSV, models.OutputFormatParquet:
		store, err := NewStore(ctx, config)
		if err != nil {
			return nil, err
		}
		switch config.OutputFormat {
		case models.OutputFormatJSON:
			destinations = append(destinations, NewJSONOutput(store))
		case models.OutputFormatCSV:
			destinations = append(destinations, NewCSVOutput(store))
		default:
			destinations = append(destinations, NewParquetOutput(store))
		}
	default:
		return nil, fmt.Errorf("unsupported output format: %s", config.OutputFormat)
	}

	if config.Kafka.Enabled {
		k, err := NewKafkaOutput(config.Kafka, logger)
		if err != nil {
			closeAll()
			return nil, err
		}
		destinations = append(destinations, k)
	}

	if config.Database.Enabled {
		p, err := NewPostgresOutput(ctx, config.Database)
		if err != nil {
			closeAll()
			return nil, err
		}
		destinations = append(destinations, p)
	}

	return NewFanout(logger, destinations...), nil
}
