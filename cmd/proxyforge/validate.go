package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"proxyforge-hq/proxyforge/pkg/cli"
	"proxyforge-hq/proxyforge/pkg/config"
	"proxyforge-hq/proxyforge/pkg/generator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without writing anything",
	Long: `Validate loads the environment, checks every key and renders the bundle in
memory. Nothing is written and docker is not contacted.

The first problem found is reported with its class, for example:

  error [missing-configuration]: required key SERVICE_2_PORT is not set
  error [invalid-combination]: at most one service may bind the root path (SERVICE_1_PATH, SERVICE_3_PATH)

With --file-only the env file is checked on its own, ignoring the process
environment, which is useful before shipping a file to another host.

Examples:
  proxyforge validate
  proxyforge validate --env-file staging.env --format json
  proxyforge validate --env-file prod.env --file-only`,
	RunE: runValidate,
}

var validateFlags struct {
	fileOnly bool
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateFlags.fileOnly, "file-only", false, "validate the env file alone, ignoring the process environment")
}

// validateResult is the outcome of a successful validation.
type validateResult struct {
	Valid     bool     `json:"valid"`
	Services  int      `json:"services"`
	Skipped   []int    `json:"skipped,omitempty"`
	Documents []string `json:"documents"`
}

func (r validateResult) String() string {
	s := fmt.Sprintf("configuration OK: %d services, %d documents", r.Services, len(r.Documents))
	for _, n := range r.Skipped {
		s += fmt.Sprintf("\nskipped %s: no path or domain", config.ServiceKey(n, config.FieldName))
	}
	return s
}

func runValidate(cmd *cobra.Command, args []string) error {
	var (
		src config.MapSource
		err error
	)
	if validateFlags.fileOnly {
		if envFile == "" {
			return cli.NewConfigError("file-only", "requires --env-file")
		}
		src, err = config.LoadFile(envFile)
	} else {
		src, err = config.LoadEnvironment(envFile)
	}
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	res, err := generator.Synthesize(src)
	if err != nil {
		return err
	}

	result := validateResult{
		Valid:     true,
		Services:  len(res.Config.Services),
		Skipped:   res.Config.Skipped,
		Documents: res.Bundle.Paths(),
	}
	return cli.NewFormatter(outputFormat()).FormatTo(cmd.OutOrStdout(), result)
}
