package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chrisdamba/foodspend/internal/logging"
	"github.com/chrisdamba/foodspend/internal/models"
)

// configKeyAnnotation marks a flag with the config key it overrides.
const configKeyAnnotation = "foodspend/config-key"

var (
	cfgFile string
	envFile string

	cfg    *models.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "foodspend",
	Short: "Turns your food delivery order history into a spending report",
	Long: `foodspend logs in to the delivery platform, downloads your order history and
aggregates it into a spending dashboard: monthly and yearly totals, weekday and
hour-of-day patterns, favourite restaurants, cuisines and dishes, and a few fun
statistics. Reports can be printed or exported as JSON, CSV or Parquet, to S3,
Kafka or Postgres, or served over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./foodspend.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text or json)")
	rootCmd.PersistentFlags().String("timezone", "UTC", "time zone for calendar buckets, e.g. Asia/Kolkata")

	bindFlag(rootCmd.PersistentFlags(), "log-level", "log.level")
	bindFlag(rootCmd.PersistentFlags(), "log-format", "log.format")
	bindFlag(rootCmd.PersistentFlags(), "timezone", "timezone")
}

// bindFlag records that flag overrides the config key. The binding is made
// only for the command being run, so commands may share keys.
func bindFlag(flags *pflag.FlagSet, flag, key string) {
	cobra.CheckErr(flags.SetAnnotation(flag, configKeyAnnotation, []string{key}))
}

func setup(cmd *cobra.Command) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", envFile, err)
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if keys, ok := f.Annotations[configKeyAnnotation]; ok && bindErr == nil {
			bindErr = viper.BindPFlag(keys[0], f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	var err error
	cfg, err = models.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger, err = logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.WithField("file", used).Debug("using config file")
	}
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
