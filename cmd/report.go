package cmd

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/foodspend/internal/models"
	"github.com/chrisdamba/foodspend/internal/output"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate an order history into a spending dashboard",
	Example: `  foodspend report --input orders.json
  foodspend report --token "$TOKEN" --format parquet --destination s3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")

		var (
			orders []models.Order
			source string
		)
		switch {
		case input != "":
			o, err := readOrders(input)
			if err != nil {
				return err
			}
			orders, source = o, "file"
		case cfg.Swiggy.Token != "":
			res, err := fetchOrders(cmd)
			if err != nil {
				return err
			}
			orders, source = res.Orders, "swiggy"
		default:
			return errors.New("either --input or --token is required")
		}

		agg, err := newAggregator()
		if err != nil {
			return err
		}
		snap := models.NewSnapshot(agg.Process(orders), source)

		outputs, err := output.DetermineOutputs(cmd.Context(), cfg, os.Stdout, logger)
		if err != nil {
			return err
		}
		writeErr := outputs.Write(cmd.Context(), snap)
		if err := outputs.Close(); err != nil {
			logger.WithError(err).Warn("failed to close outputs")
		}
		if writeErr != nil {
			return writeErr
		}

		logger.WithFields(logrus.Fields{
			"snapshot": snap.ID,
			"orders":   snap.Dashboard.Summary.TotalOrders,
			"outputs":  outputs.Len(),
		}).Info("report written")
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("input", "i", "", "orders JSON file written by fetch or generate, - for stdin")
	reportCmd.Flags().String("token", "", "fetch the history with this session token instead of reading a file")
	reportCmd.Flags().StringP("format", "f", models.OutputFormatConsole, "console, json, csv or parquet")
	reportCmd.Flags().String("output-path", ".", "directory for local exports")
	reportCmd.Flags().String("destination", models.OutputDestinationLocal, "local or s3")

	bindFlag(reportCmd.Flags(), "token", "swiggy.token")
	bindFlag(reportCmd.Flags(), "format", "output_format")
	bindFlag(reportCmd.Flags(), "output-path", "output_path")
	bindFlag(reportCmd.Flags(), "destination", "output_destination")
	rootCmd.AddCommand(reportCmd)
}
