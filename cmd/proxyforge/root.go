package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"proxyforge-hq/proxyforge/pkg/cli"
	"proxyforge-hq/proxyforge/pkg/telemetry/logging"
)

var (
	// Global flags
	envFile   string
	logLevel  string
	logFormat string
	format    string

	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "proxyforge",
	Short: "Generate an nginx reverse proxy stack from environment variables",
	Long: `proxyforge turns SERVICE_COUNT and SERVICE_<n>_* environment variables into
a ready-to-run reverse proxy:

  - nginx/nginx.conf               global tuning, logging and rate-limit zone
  - nginx/conf.d/default.conf      path routing with prefix stripping
  - nginx/conf.d/<domain>.conf     one virtual host per domain, TLS optional
  - docker-compose.yml             nginx plus certbot issuance and renewal

Values are read from the process environment layered over an optional
dotenv file. Running proxyforge without a subcommand is the same as
"proxyforge generate".`,
	Version:                    Version,
	SilenceErrors:              true,
	SilenceUsage:               true,
	PersistentPreRunE:          setup,
	RunE:                       runGenerate,
	SuggestionsMinimumDistance: 2,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.PrintError(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file layered under the process environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "output format: text, json")

	addGenerateFlags(rootCmd)
}

// setup validates global flags and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if _, err := cli.ParseFormat(format); err != nil {
		return err
	}

	l, err := logging.New(logging.Config{
		Level:  logLevel,
		Format: logFormat,
		Redact: true,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return cli.NewConfigError("log", err.Error())
	}
	logger = l
	slog.SetDefault(l)
	return nil
}

// outputFormat returns the validated --format value.
func outputFormat() cli.OutputFormat {
	f, _ := cli.ParseFormat(format)
	return f
}
