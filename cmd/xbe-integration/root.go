package main

import (
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xbe-inc/xbe-integration/internal/config"
)

// envPrefix makes --base-url readable from XBE_BASE_URL, --token from XBE_TOKEN.
const envPrefix = "XBE"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "xbe-integration",
		Short: "Integration tests of the xbe CLI against the xbe REST API",
		Long: `xbe-integration runs one CRUD suite per xbe resource: create, show, list,
filter, update and delete, with cleanup of every record it creates.

Flags can be set through XBE_* environment variables (XBE_BASE_URL, XBE_TOKEN,
XBE_MODE, ...). Pre-existing records are passed as XBE_TEST_* variables, e.g.
XBE_TEST_BROKER_ID.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cobrautil.CommandStack(cobrautil.SyncViperPreRunE(envPrefix), setupLogging),
	}
	config.RegisterTargetFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCommand(),
		newSuitesCommand(),
		newHistoryCommand(),
		newSandboxCommand(),
		newVersionCommand(),
	)
	return root
}

// setupLogging replaces the global zap logger according to --log-format
// and --log-level. Logs go to stderr; test output goes to stdout.
func setupLogging(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString(config.FlagLogFormat)
	level, _ := cmd.Flags().GetString(config.FlagLogLevel)

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	zc := zap.NewDevelopmentConfig()
	if format == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zc.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
