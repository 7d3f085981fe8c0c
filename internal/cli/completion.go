package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for recipeflow.

Bash:
  $ source <(recipeflow completion bash)

Zsh:
  $ recipeflow completion zsh > "${fpath[1]}/_recipeflow"

Fish:
  $ recipeflow completion fish > ~/.config/fish/completions/recipeflow.fish

PowerShell:
  PS> recipeflow completion powershell | Out-String | Invoke-Expression

Recipe arguments complete to IDs from the configured store as well as files.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeRecipes completes the first positional argument with recipe IDs
// from the configured source, falling back to file completion.
func (c *CLI) completeRecipes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if cfg, _, err := LoadConfig(c.configFile); err == nil {
		c.Config = cfg
	}

	ctx := cmd.Context()
	src, closeFn, err := c.openSource(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	defer closeFn()

	list, err := src.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var out []string
	for _, s := range list {
		if strings.HasPrefix(s.ID, toComplete) {
			out = append(out, s.ID+"\t"+s.Name)
		}
	}
	return out, cobra.ShellCompDirectiveDefault
}
