package models

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type MenuDish struct {
	Name    string `mapstructure:"name"`
	Cuisine string `mapstructure:"cuisine"`
}

type SwiggyConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Token     string        `mapstructure:"token"`
	MaxPages  int           `mapstructure:"max_pages"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type KafkaConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	BrokerList []string `mapstructure:"broker_list"`
	Topic      string   `mapstructure:"topic"`
}

type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GeneratorConfig struct {
	Seed        int64      `mapstructure:"seed"`
	Orders      int        `mapstructure:"orders"`
	Restaurants int        `mapstructure:"restaurants"`
	StartDate   time.Time  `mapstructure:"start_date"`
	EndDate     time.Time  `mapstructure:"end_date"`
	DishesFile  string     `mapstructure:"dishes_file"`
	MenuDishes  []MenuDish `mapstructure:"menu_dishes"`
}

type Config struct {
	Timezone          string             `mapstructure:"timezone"`
	OutputFormat      string             `mapstructure:"output_format"`
	OutputDestination string             `mapstructure:"output_destination"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	Swiggy            SwiggyConfig       `mapstructure:"swiggy"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
	Kafka             KafkaConfig        `mapstructure:"kafka"`
	Database          DatabaseConfig     `mapstructure:"database"`
	Server            ServerConfig       `mapstructure:"server"`
	Log               LogConfig          `mapstructure:"log"`
	Generator         GeneratorConfig    `mapstructure:"generator"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "UTC")
	v.SetDefault("output_format", OutputFormatConsole)
	v.SetDefault("output_destination", OutputDestinationLocal)
	v.SetDefault("output_path", ".")
	v.SetDefault("output_folder", "reports")
	v.SetDefault("swiggy.base_url", "https://www.swiggy.com")
	v.SetDefault("swiggy.max_pages", 300)
	v.SetDefault("swiggy.timeout", "30s")
	v.SetDefault("kafka.broker_list", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "dashboard_snapshots")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("generator.seed", 42)
	v.SetDefault("generator.orders", 250)
	v.SetDefault("generator.restaurants", 25)
	v.SetDefault("generator.start_date", time.Now().AddDate(-2, 0, 0).Format(time.RFC3339))
	v.SetDefault("generator.end_date", time.Now().Format(time.RFC3339))
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// config file is not an error when cfgFile is empty.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("foodspend")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("foodspend")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return DecodeConfig(viper.GetViper())
}

// DecodeConfig decodes the settings held by v into a Config.
func DecodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if config.Generator.DishesFile != "" {
		if err := config.LoadMenuDishData(config.Generator.DishesFile); err != nil {
			return nil, fmt.Errorf("unable to load dishes file: %w", err)
		}
	}

	return &config, nil
}

// Location returns the time zone used for every calendar computation.
func (cfg *Config) Location() (*time.Location, error) {
	if cfg.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return loc, nil
}

// LoadMenuDishData appends dishes read from a CSV file with a header row and
// the columns cuisine,name.
func (cfg *Config) LoadMenuDishData(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2
	if _, err := reader.Read(); err != nil {
		return err
	}

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		cfg.Generator.MenuDishes = append(cfg.Generator.MenuDishes, MenuDish{
			Cuisine: strings.TrimSpace(fields[0]),
			Name:    strings.TrimSpace(fields[1]),
		})
	}

	return nil
}
