package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := DecodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, OutputFormatConsole, cfg.OutputFormat)
	assert.Equal(t, 300, cfg.Swiggy.MaxPages)
	assert.Equal(t, 30*time.Second, cfg.Swiggy.Timeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.BrokerList)
	assert.Equal(t, 25, cfg.Generator.Restaurants)
	assert.True(t, cfg.Generator.StartDate.Before(cfg.Generator.EndDate))

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestDecodeConfig_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("kafka.broker_list", "a:9092,b:9092")
	v.Set("server.shutdown_timeout", "3s")
	v.Set("generator.start_date", "2023-01-01T00:00:00Z")

	cfg, err := DecodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.BrokerList)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Generator.StartDate.UTC())
}

func TestLocation(t *testing.T) {
	loc, err := (&Config{Timezone: "Asia/Kolkata"}).Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	_, err = (&Config{Timezone: "Mars/Olympus"}).Location()
	assert.Error(t, err)
}

func TestLoadMenuDishData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishes.csv")
	require.NoError(t, os.WriteFile(path, []byte("cuisine,name\nKerala, Appam \nChinese,Hakka Noodles\n"), 0o644))

	var cfg Config
	require.NoError(t, cfg.LoadMenuDishData(path))
	assert.Equal(t, []MenuDish{
		{Cuisine: "Kerala", Name: "Appam"},
		{Cuisine: "Chinese", Name: "Hakka Noodles"},
	}, cfg.Generator.MenuDishes)

	assert.Error(t, cfg.LoadMenuDishData(filepath.Join(t.TempDir(), "missing.csv")))
}
