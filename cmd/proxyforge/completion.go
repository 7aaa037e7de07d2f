package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for proxyforge.

To load completions:

Bash:
  $ source <(proxyforge completion bash)
  # To load permanently:
  $ proxyforge completion bash > /etc/bash_completion.d/proxyforge

Zsh:
  $ proxyforge completion zsh > "${fpath[1]}/_proxyforge"
  $ compinit

Fish:
  $ proxyforge completion fish | source

PowerShell:
  PS> proxyforge completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
