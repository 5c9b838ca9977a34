package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/soretetsu/tetsunavi/pkg/analytics"
	"github.com/soretetsu/tetsunavi/pkg/discovery"
	"github.com/soretetsu/tetsunavi/pkg/video"
)

// discoverCommand creates the one-shot search command.
func (c *CLI) discoverCommand() *cobra.Command {
	var (
		philosophers []string
		themes       []string
		query        string
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Search for episodes from the command line",
		Long: `Discover runs a single episode search against the API and prints the
result cards. At least one of --philosopher, --theme or --query is required.`,
		Example: `  tetsunavi discover --philosopher カント --query 生き方について
  tetsunavi discover --theme 倫理学`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(philosophers) == 0 && len(themes) == 0 && query == "" {
				return cmd.Help()
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			client := c.newClient(cfg, noCache)
			logger := loggerFromContext(cmd.Context())

			prog := newProgress(logger)
			result, err := client.Discover(cmd.Context(), discovery.Query{
				Philosophers: philosophers,
				Themes:       themes,
				SearchQuery:  query,
				TopK:         discovery.DefaultTopK,
			})
			if err != nil {
				printError("%s", err)
				return err
			}
			prog.done("search finished")

			analytics.Emit(context.Background(), "cli_discover", map[string]string{
				"results": strconv.Itoa(len(result.Results)),
			})
			printResults(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&philosophers, "philosopher", "p", nil, "philosopher to match (repeatable)")
	cmd.Flags().StringSliceVarP(&themes, "theme", "t", nil, "theme to match (repeatable)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text search query")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	return cmd
}

// printResults writes the episode cards to stdout.
func printResults(result *discovery.SearchResult) {
	if result.Message != "" {
		printWarning("%s", result.Message)
	}
	if len(result.Results) == 0 {
		printInfo("該当するエピソードが見つかりませんでした")
		return
	}

	for _, ep := range result.Results {
		printSuccess("%s", ep.Title)
		if ep.Summary != "" {
			printDetail("%s", ep.Summary)
		}
		if ep.Difficulty != "" {
			printDetail("難易度: %s", ep.Difficulty)
		}
		printDetail("%s", StyleLink.Render(ep.URL))
		if thumb := video.ThumbnailURL(ep.URL); thumb != video.PlaceholderThumbnail {
			printDetail("%s", thumb)
		}
	}
}
