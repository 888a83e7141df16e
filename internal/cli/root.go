// Package cli provides the command-line interface for yywc.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/MikeSquared-Agency/yywc/internal/config"
)

// Version is set at build time.
var Version = "0.1.0"

// flagKeys maps flag names to config keys where they differ beyond the
// hyphen to underscore rewrite.
var flagKeys = map[string]string{
	"tz": "timezone",
}

// unbound flags never reach the config.
var unbound = map[string]bool{
	"config":  true,
	"help":    true,
	"version": true,
}

// app holds the state shared by every command for one invocation.
type app struct {
	v        *viper.Viper
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
}

func newApp() *app {
	return &app{v: config.New()}
}

// newRootCmd builds a fresh command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "yywc",
		Short: "Your Year With Chat: a year-in-review for chat exports",
		Long: `yywc turns a ChatGPT or Claude data export into a year-in-review report.

It reads conversations.json from an export .zip or an extracted folder,
summarizes your activity (volume, rhythm, topics, models) and writes
report.html, summary.json and share.svg.

Settings come from built-in defaults, an optional YAML config file,
YYWC_* environment variables and flags, in increasing precedence.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "path to a YAML config file")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-file", "", "also write JSON logs to this file")

	root.AddCommand(newReportCmd(a))
	root.AddCommand(newDetectCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command tree with ctx, which is cancelled on interrupt.
func Execute(ctx context.Context) error {
	a := newApp()
	return a.execute(ctx, newRootCmd(a))
}

// execute runs root and then closes the log file. cobra skips post-run
// hooks when a command fails, so the close happens here.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = fmt.Errorf("close log file: %w", cerr)
	}
	return err
}

func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	closeLog := a.closeLog
	a.closeLog = nil
	return closeLog()
}

// setup binds the running command's flags, loads the config and sets up
// logging.
func (a *app) setup(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if unbound[f.Name] || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(configKey(f.Name), f)
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}

	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(a.v, file)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, a.closeLog = config.SetupLogger(cfg.LogFile, config.ParseLogLevel(cfg.LogLevel))
	a.logger.Debug("config loaded", "file", file, "command", cmd.Name())
	return nil
}

func configKey(flag string) string {
	if key, ok := flagKeys[flag]; ok {
		return key
	}
	return strings.ReplaceAll(flag, "-", "_")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "yywc %s\n", Version)
		},
	}
}
