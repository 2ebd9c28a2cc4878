package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/foodspend/internal/factories"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic order history for demos and tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		gen := factories.NewGenerator(cfg.Generator, loc)
		orders := gen.Generate()
		if err := writeJSON(out, orders); err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"orders":      len(orders),
			"restaurants": len(gen.Restaurants()),
			"seed":        cfg.Generator.Seed,
		}).Info("order history generated")
		return nil
	},
}

func init() {
	generateCmd.Flags().Int("orders", 250, "number of orders")
	generateCmd.Flags().Int64("seed", 42, "random seed")
	generateCmd.Flags().Int("restaurants", 25, "number of restaurants to order from")
	generateCmd.Flags().StringP("out", "o", "-", "output file, - for stdout")

	bindFlag(generateCmd.Flags(), "orders", "generator.orders")
	bindFlag(generateCmd.Flags(), "seed", "generator.seed")
	bindFlag(generateCmd.Flags(), "restaurants", "generator.restaurants")
	rootCmd.AddCommand(generateCmd)
}
