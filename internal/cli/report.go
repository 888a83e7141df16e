package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/yywc/internal/analyze"
	"github.com/MikeSquared-Agency/yywc/internal/archive"
	"github.com/MikeSquared-Agency/yywc/internal/export"
	"github.com/MikeSquared-Agency/yywc/internal/report"
)

var errExportRequired = errors.New("--export is required (set it or YYWC_EXPORT)")

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the year-in-review from an export",
		Long: `Generate report.html, summary.json and share.svg from a chat export.

Examples:
  yywc report --export ~/Downloads/chatgpt-export.zip
  yywc report --export ./claude-export --year 2024 --tz Europe/Berlin
  yywc report --export export.zip --role-scope user --redact --out ./review`,
		Args: cobra.NoArgs,
		RunE: a.runReport,
	}

	f := cmd.Flags()
	f.StringP("export", "e", "", "path to an export .zip or extracted folder")
	f.StringP("out", "o", "out", "output directory")
	f.String("extract-dir", "", "extract the .zip here instead of a temporary directory")
	f.Int("year", 0, "only include messages from this year (0 for all years)")
	f.String("role-scope", "user,assistant", "comma-separated roles to include")
	f.Bool("redact", false, "mask emails, URLs and phone numbers in excerpts")
	f.Int("max-excerpts", 12, "number of message excerpts to include")
	f.String("tz", "Local", "IANA timezone for local day and hour buckets")
	f.Bool("best-effort", false, "parse unrecognized exports as ChatGPT instead of failing")
	return cmd
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	if cfg.Export == "" {
		return errExportRequired
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger := a.logger.With("run_id", runID.String())

	ds, err := loadDataset(logger, cfg.Export, cfg.ExtractDir, export.Options{
		Year:       cfg.Year,
		Roles:      export.RoleSet(cfg.Roles()),
		BestEffort: cfg.BestEffort,
	})
	if err != nil {
		return err
	}

	s := analyze.Summarize(ds, analyze.Options{
		Year:        cfg.Year,
		Redact:      cfg.Redact,
		MaxExcerpts: cfg.MaxExcerpts,
		Location:    loc,
	})
	logger.Info("summary computed",
		"messages", s.TotalMessages,
		"conversations", s.TotalConversations,
		"active_days", s.ActiveDays,
		"timezone", s.Timezone,
	)

	paths, err := report.WriteAll(cfg.OutDir, s, cfg.YearLabel())
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", p)
	}

	a.recordRun(cmd.Context(), logger, runID, s)
	a.announceRun(cmd.Context(), logger, runID, s)
	return nil
}

// loadDataset opens the export, locates conversations.json and ingests it.
func loadDataset(logger *slog.Logger, path, extractDir string, opts export.Options) (*export.Dataset, error) {
	src, err := archive.Open(path, extractDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn("failed to clean up extracted export", "error", err)
		}
	}()

	convPath, err := src.ConversationsPath()
	if err != nil {
		return nil, err
	}
	logger.Debug("conversations located", "path", convPath)

	ds, err := export.NewReader(logger).ReadFile(convPath, opts)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", convPath, err)
	}
	return ds, nil
}
