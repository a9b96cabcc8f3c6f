package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacentio/aristotle/internal/vocabulary"
)

// VocabularyOptions holds flags for the vocabulary command.
type VocabularyOptions struct {
	*RootOptions
	Search string
}

// NewVocabularyCommand creates the vocabulary command. It never touches the table.
func NewVocabularyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VocabularyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:       "vocabulary [hamartiai|contexts]",
		Aliases:   []string{"vocab"},
		Short:     "Print the sample hamartiai and contexts",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"hamartiai", "contexts"},
		RunE: func(cmd *cobra.Command, args []string) error {
			lists := []string{"hamartiai", "contexts"}
			if len(args) == 1 {
				lists = args
			}

			data := make(map[string][]string, len(lists))
			var text strings.Builder
			for _, name := range lists {
				entries := vocabulary.Hamartiai()
				if name == "contexts" {
					entries = vocabulary.Contexts()
				}
				if opts.Search != "" {
					entries = vocabulary.Search(entries, opts.Search)
				}

				raw := make([]string, 0, len(entries))
				fmt.Fprintf(&text, "%s (%d):\n", name, len(entries))
				for _, e := range entries {
					raw = append(raw, e.Raw)
					fmt.Fprintf(&text, "  %s\n", e.Raw)
				}
				data[name] = raw
			}
			return opts.formatter(cmd.OutOrStdout()).Success(data, text.String())
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "only entries containing this text")

	return cmd
}
