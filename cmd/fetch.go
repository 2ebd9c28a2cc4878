package cmd

import (
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/foodspend/internal/swiggy"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download your order history as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		res, err := fetchOrders(cmd)
		if err != nil {
			return err
		}
		if err := writeJSON(out, res.Orders); err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{"orders": len(res.Orders), "out": out}).Info("order history saved")
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("token", "", "session token or full cookie string")
	fetchCmd.Flags().StringP("out", "o", "orders.json", "output file, - for stdout")
	bindFlag(fetchCmd.Flags(), "token", "swiggy.token")
	rootCmd.AddCommand(fetchCmd)
}

// fetchOrders downloads the order history with a progress bar on stderr.
func fetchOrders(cmd *cobra.Command) (*swiggy.FetchResult, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("fetching orders"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	res, err := newClient().FetchOrders(cmd.Context(), cfg.Swiggy.Token, func(page, fetched, total int) {
		if total > 0 {
			bar.ChangeMax(total)
		}
		_ = bar.Set(fetched)
	})
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}

	if res.Partial {
		logger.WithError(res.StopReason).WithField("orders", len(res.Orders)).Warn("order history is incomplete")
	}
	switch {
	case res.Truncated && res.Total > 0:
		logger.WithFields(logrus.Fields{
			"pages":   res.Pages,
			"skipped": res.Total - len(res.Orders),
		}).Warn("page limit reached, older orders were skipped")
	case res.Truncated:
		logger.WithField("pages", res.Pages).Warn("page limit reached, older orders may have been skipped")
	}
	return res, nil
}
