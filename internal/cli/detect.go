package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/yywc/internal/archive"
	"github.com/MikeSquared-Agency/yywc/internal/export"
)

func newDetectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Report which export format a file uses",
		Long: `Detect the export format without generating a report.

Examples:
  yywc detect --export ~/Downloads/export.zip`,
		Args: cobra.NoArgs,
		RunE: a.runDetect,
	}
	cmd.Flags().StringP("export", "e", "", "path to an export .zip or extracted folder")
	cmd.Flags().String("extract-dir", "", "extract the .zip here instead of a temporary directory")
	return cmd
}

func (a *app) runDetect(cmd *cobra.Command, args []string) error {
	if a.cfg.Export == "" {
		return errExportRequired
	}
	src, err := archive.Open(a.cfg.Export, a.cfg.ExtractDir)
	if err != nil {
		return err
	}
	defer src.Close()

	path, err := src.ConversationsPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	format, n, err := export.DetectFormat(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Format: %s\n", format)
	fmt.Fprintf(out, "Conversations: %d\n", n)
	return nil
}
