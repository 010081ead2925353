package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/newsboard/internal/domain"
)

type articlesFlags struct {
	source    string
	sort      string
	direction int
	filter    string
	output    string
	limit     int
}

func newArticlesCommand(root *rootFlags) *cobra.Command {
	f := &articlesFlags{}
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Fetch articles once and print the ordered list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(f.output); err != nil {
				return err
			}
			a, err := setup(cmd, root)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.SortBy(f.sort, f.direction); err != nil {
				return err
			}
			a.store.FilterBy(f.filter)
			if !a.store.GetArticles(cmd.Context(), f.source) {
				return errors.New("no articles fetched (see log for details)")
			}

			view := a.store.View()
			if f.limit > 0 && len(view) > f.limit {
				view = view[:f.limit]
			}
			return writeArticles(cmd.OutOrStdout(), f.output, view)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.source, "source", "", "source key (default from config)")
	fl.StringVar(&f.sort, "sort", "votes", "sort key: time or votes")
	fl.IntVar(&f.direction, "direction", 1, "1 for descending, -1 for ascending")
	fl.StringVar(&f.filter, "filter", "", "case-insensitive title filter (regexp)")
	fl.StringVarP(&f.output, "output", "o", outputText, "output format: text, json or yaml")
	fl.IntVar(&f.limit, "limit", 0, "maximum number of articles to print (0 = all)")
	return cmd
}

func formatArticleLine(i int, a domain.Article) string {
	line := fmt.Sprintf("%3d. [%+d] %s", i+1, a.Votes, a.Title)
	if a.URL != "" {
		line += "\n     " + a.URL
	}
	if desc := strings.TrimSpace(a.Description); desc != "" {
		line += "\n     " + desc
	}
	return line
}
