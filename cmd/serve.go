package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chrisdamba/foodspend/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the login, orders and dashboard API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		agg, err := newAggregator()
		if err != nil {
			return err
		}
		srv := server.New(newClient(), agg, logger)
		return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr, cfg.Server.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	bindFlag(serveCmd.Flags(), "addr", "server.addr")
	rootCmd.AddCommand(serveCmd)
}
