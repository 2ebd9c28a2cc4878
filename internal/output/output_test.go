package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/chrisdamba/foodspend/internal/aggregator"
	"github.com/chrisdamba/foodspend/internal/cloudwriter"
	"github.com/chrisdamba/foodspend/internal/logging"
	"github.com/chrisdamba/foodspend/internal/models"
)

func testSnapshot() *models.Snapshot {
	orders := []models.Order{
		{ID: "3", OrderTime: "2024-02-01T08:00", OrderTotal: models.NewAmount(300), RestaurantName: "Burger Joint", RestaurantCuisine: models.CuisineText("American")},
		{ID: "1", OrderTime: "2024-01-05T10:00", OrderTotal: models.NewAmount(200), RestaurantName: "Pizza Place", RestaurantCuisine: models.CuisineText("Italian"),
			Items: []models.OrderItem{{Name: "Margherita", Quantity: models.NewAmount(2), Total: models.NewAmount(180)}}},
		{ID: "2", OrderTime: "2024-01-06T23:30", OrderTotal: models.NewAmount(150), RestaurantName: "Pizza Place", RestaurantCuisine: models.CuisineList("Italian")},
	}
	snap := models.NewSnapshot(aggregator.Process(orders), "test")
	snap.ID = "snap1"
	snap.CreatedAt = time.Date(2024, time.March, 9, 18, 0, 0, 0, time.UTC)
	return snap
}

// memoryFactory keeps uploaded objects in memory.
type memoryFactory struct {
	objects map[string][]byte
}

type memoryWriter struct {
	f   *memoryFactory
	key string
	buf bytes.Buffer
}

func (f *memoryFactory) NewWriter(ctx context.Context, bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	return &memoryWriter{f: f, key: bucket + "/" + objectPath}, nil
}

func (w *memoryWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *memoryWriter) Close() error {
	w.f.objects[w.key] = w.buf.Bytes()
	return nil
}

func TestStore_Key(t *testing.T) {
	s := NewLocalStore("/tmp", "reports")
	assert.Equal(t, "reports/summary/year=2024/month=03/day=09/snap1.csv", s.Key("summary", testSnapshot(), ".csv"))
}

func TestJSONOutput_Local(t *testing.T) {
	dir := t.TempDir()
	snap := testSnapshot()
	out := NewJSONOutput(NewLocalStore(dir, "reports"))

	require.NoError(t, out.Write(context.Background(), snap))

	raw, err := os.ReadFile(filepath.Join(dir, "reports", "dashboard", "year=2024", "month=03", "day=09", "snap1.json"))
	require.NoError(t, err)
	var got models.Snapshot
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "snap1", got.ID)
	assert.Equal(t, int64(650), got.Dashboard.Summary.TotalSpent)
	assert.Len(t, got.Dashboard.Orders, 3)
}

func TestJSONOutput_Stream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONStreamOutput(&buf).Write(context.Background(), testSnapshot()))
	assert.Contains(t, buf.String(), `"totalSpent": 650`)
	assert.Contains(t, buf.String(), `"monthlySpending": [`)
}

func TestJSONOutput_Cloud(t *testing.T) {
	factory := &memoryFactory{objects: map[string][]byte{}}
	out := NewJSONOutput(NewCloudStore(factory, "bucket", "reports"))

	require.NoError(t, out.Write(context.Background(), testSnapshot()))
	assert.Contains(t, factory.objects, "bucket/reports/dashboard/year=2024/month=03/day=09/snap1.json")
}

func TestCSVOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewCSVOutput(NewLocalStore(dir, "out")).Write(context.Background(), testSnapshot()))

	read := func(section string) [][]string {
		f, err := os.Open(filepath.Join(dir, "out", section, "year=2024", "month=03", "day=09", "snap1.csv"))
		require.NoError(t, err)
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return records
	}

	assert.Equal(t, [][]string{
		{"snapshot_id", "period", "orders", "amount"},
		{"snap1", "2024-01", "2", "350"},
		{"snap1", "2024-02", "1", "300"},
	}, read("monthly_spending"))

	restaurants := read("top_restaurants")
	require.Len(t, restaurants, 3)
	assert.Equal(t, []string{"snap1", "1", "Pizza Place", "Italian", "2", "350", "175", "2024-01-06T23:30"}, restaurants[1])

	summary := read("summary")
	require.Len(t, summary, 2)
	assert.Equal(t, "total_spent", summary[0][3])
	assert.Equal(t, "650", summary[1][3])

	orders := read("orders")
	require.Len(t, orders, 4)
	assert.Equal(t, []string{"snap1", "3", "2024-02-01T08:00", "Burger Joint", "American", "300", "0", "0", "0"}, orders[1])

	assert.Len(t, read("hourly_distribution"), 25)
}

func TestParquetOutput_Local(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewParquetOutput(NewLocalStore(dir, "pq")).Write(context.Background(), testSnapshot()))

	fr, err := local.NewLocalFileReader(filepath.Join(dir, "pq", "monthly_spending", "year=2024", "month=03", "day=09", "snap1.parquet"))
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(PeriodRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	require.Equal(t, 2, n)
	rows := make([]PeriodRow, n)
	require.NoError(t, pr.Read(&rows))
	assert.Equal(t, []PeriodRow{
		{SnapshotID: "snap1", Period: "2024-01", Orders: 2, Amount: 350},
		{SnapshotID: "snap1", Period: "2024-02", Orders: 1, Amount: 300},
	}, rows)
}

func TestParquetOutput_SkipsEmptySections(t *testing.T) {
	dir := t.TempDir()
	snap := models.NewSnapshot(aggregator.Process(nil), "test")
	require.NoError(t, NewParquetOutput(NewLocalStore(dir, "pq")).Write(context.Background(), snap))

	_, err := os.Stat(filepath.Join(dir, "pq", "monthly_spending"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "pq", "summary"))
	assert.NoError(t, err)
}

func TestParquetOutput_Cloud(t *testing.T) {
	factory := &memoryFactory{objects: map[string][]byte{}}
	require.NoError(t, NewParquetOutput(NewCloudStore(factory, "b", "pq")).Write(context.Background(), testSnapshot()))

	obj, ok := factory.objects["b/pq/summary/year=2024/month=03/day=09/snap1.parquet"]
	require.True(t, ok)
	assert.True(t, bytes.HasPrefix(obj, []byte("PAR1")))
	assert.True(t, bytes.HasSuffix(obj, []byte("PAR1")))
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleOutput(&buf).Write(context.Background(), testSnapshot()))

	out := buf.String()
	assert.Contains(t, out, "₹650.00 over 3 orders")
	assert.Contains(t, out, "Pizza Place (2 orders)")
	assert.Contains(t, out, "Top restaurants")
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "₹350.00")
}

func TestKafkaOutput(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var snap models.Snapshot
		if err := json.Unmarshal(val, &snap); err != nil {
			return err
		}
		if snap.ID != "snap1" || snap.Dashboard.Summary.TotalOrders != 3 {
			return errors.New("unexpected snapshot")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	out := NewKafkaOutputFromProducer(producer, "dashboard_snapshots", logging.Discard())
	require.NoError(t, out.Write(context.Background(), testSnapshot()))
	assert.ErrorIs(t, out.Write(context.Background(), testSnapshot()), sarama.ErrOutOfBrokers)

	require.NoError(t, out.Close())
	assert.Error(t, out.Write(context.Background(), testSnapshot()))
}

type fakeRepository struct {
	created []*models.Snapshot
	err     error
}

func (r *fakeRepository) Migrate(ctx context.Context) error { return nil }

func (r *fakeRepository) Create(ctx context.Context, snapshot *models.Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, snapshot)
	return nil
}

func TestPostgresOutput(t *testing.T) {
	repo := &fakeRepository{}
	out := NewPostgresOutputFromRepository(repo)
	snap := testSnapshot()

	require.NoError(t, out.Write(context.Background(), snap))
	assert.Equal(t, []*models.Snapshot{snap}, repo.created)
	assert.NoError(t, out.Close())
}

func TestFanout_WritesEveryDestination(t *testing.T) {
	failing := NewPostgresOutputFromRepository(&fakeRepository{err: errors.New("db down")})
	var buf bytes.Buffer
	fan := NewFanout(logging.Discard(), failing, NewJSONStreamOutput(&buf))

	err := fan.Write(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: db down")
	assert.NotEmpty(t, buf.String(), "later destinations still run")
	assert.NoError(t, fan.Close())
}

func TestDetermineOutputs(t *testing.T) {
	t.Run("console by default", func(t *testing.T) {
		fan, err := DetermineOutputs(context.Background(), &models.Config{}, &bytes.Buffer{}, logging.Discard())
		require.NoError(t, err)
		assert.Equal(t, 1, fan.Len())
	})

	t.Run("csv to local disk", func(t *testing.T) {
		cfg := &models.Config{OutputFormat: models.OutputFormatCSV, OutputPath: t.TempDir(), OutputFolder: "r"}
		fan, err := DetermineOutputs(context.Background(), cfg, nil, logging.Discard())
		require.NoError(t, err)
		assert.Equal(t, 1, fan.Len())
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := DetermineOutputs(context.Background(), &models.Config{OutputFormat: "xml"}, nil, logging.Discard())
		assert.Error(t, err)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		cfg := &models.Config{
			OutputFormat:      models.OutputFormatJSON,
			OutputDestination: models.OutputDestinationS3,
			CloudStorage:      models.CloudStorageConfig{Provider: "azure"},
		}
		_, err := DetermineOutputs(context.Background(), cfg, nil, logging.Discard())
		assert.Error(t, err)
	})

	t.Run("kafka without brokers", func(t *testing.T) {
		cfg := &models.Config{Kafka: models.KafkaConfig{Enabled: true}}
		_, err := DetermineOutputs(context.Background(), cfg, &bytes.Buffer{}, logging.Discard())
		assert.Error(t, err)
	})
}
