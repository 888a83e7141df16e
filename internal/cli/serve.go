package cli

import (
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/yywc/internal/api"
	"github.com/MikeSquared-Agency/yywc/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a generated report locally",
		Long: `Serve the output directory over HTTP until interrupted.

  /                 report.html
  /share.svg        share card
  /api/v1/summary   summary.json
  /api/v1/runs      recorded runs (requires a database)
  /api/v1/runs/{id} one recorded run with its summary

Examples:
  yywc serve --out ./out --port 8760`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}
	cmd.Flags().StringP("out", "o", "out", "output directory to serve")
	cmd.Flags().IntP("port", "p", 8760, "port to listen on")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var runs api.RunReader
	if a.cfg.DatabaseURL != "" {
		db, err := store.New(ctx, a.cfg.DatabaseURL)
		if err != nil {
			a.logger.Warn("failed to connect to database, run history disabled", "error", err)
		} else {
			defer db.Close()
			runs = db
		}
	}

	srv := api.NewServer(a.cfg.Port, a.cfg.OutDir, runs, a.logger)
	return srv.Start(ctx)
}
