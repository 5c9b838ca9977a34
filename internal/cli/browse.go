package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the interactive tag-cloud browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse episodes through the interactive tag cloud",
		Long: `Browse opens the three-step discovery flow: pick a philosopher or
theme from the tag cloud, pick the question you care about, and get the five
episodes that fit best.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			model := NewCloudModel(c.newClient(cfg, noCache))
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	return cmd
}
