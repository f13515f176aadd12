package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
)

// completionCommand creates the command that prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for hexglobe.

Completions cover subcommands, grid output formats and label modes, and
cell resolutions.

  $ source <(hexglobe completion bash)
  $ hexglobe completion zsh > "${fpath[1]}/_hexglobe"
  $ hexglobe completion fish > ~/.config/fish/completions/hexglobe.fish
  PS> hexglobe completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// registerCompletions attaches value completions to flags with a fixed
// vocabulary. Commands or flags that are not present are skipped.
func registerCompletions(root *cobra.Command) {
	type completeFunc = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)
	fixed := func(values ...string) completeFunc {
		return cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp)
	}
	resolutions := make([]string, 0, grid.NumResolutions)
	for r := grid.MinResolution; r <= grid.MaxResolution; r++ {
		resolutions = append(resolutions, strconv.Itoa(r))
	}

	for path, flags := range map[string]map[string]completeFunc{
		"grid": {
			"format": fixed(gridFormats...),
			"labels": fixed("id", "coord", "none"),
		},
		"locate":        {"resolution": fixed(resolutions...)},
		"tile children": {"resolution": fixed(resolutions...)},
	} {
		cmd, _, err := root.Find(strings.Fields(path))
		if err != nil || cmd == root {
			continue
		}
		for name, fn := range flags {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, fn)
			}
		}
	}
}
