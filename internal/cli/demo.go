package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jacentio/aristotle/character"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Write the sample characters, read one back and list the table",
		Long: `Write Hamlet and Macbeth, read Hamlet back and list every character.
A failed step is reported on stderr and the demo moves on to the next one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, rootOpts)
		},
	}
}

// demoResult is the JSON form of a demo run.
type demoResult struct {
	Added      []string              `json:"added"`
	Read       *character.Character  `json:"read,omitempty"`
	Characters []character.Character `json:"characters"`
	Failures   int                   `json:"failures"`
}

func runDemo(cmd *cobra.Command, opts *RootOptions) error {
	repo, ctx, cancel, err := opts.repository(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	text := opts.Format == "text"
	w := cmd.OutOrStdout()
	result := demoResult{Added: []string{}, Characters: []character.Character{}}

	// Each step reports its own failure and falls back to an empty result
	fail := func(err error) {
		result.Failures++
		report(cmd.ErrOrStderr(), !text, err)
	}

	if text {
		fmt.Fprintln(w, "Aristotle DynamoDB demo")
		fmt.Fprintln(w, "-----------------------")
	}

	samples := character.Samples()
	for _, c := range samples {
		if err := repo.Put(ctx, c); err != nil {
			fail(err)
			continue
		}
		result.Added = append(result.Added, c.ID)
		if text {
			fmt.Fprintf(w, "Added character: %s\n", c.DisplayName())
		}
	}

	first := samples[0]
	c, found, err := repo.Get(ctx, first.ID)
	switch {
	case err != nil:
		fail(err)
	case found:
		result.Read = &c
		if text {
			fmt.Fprintf(w, "%s's hamartia is %s\n", c.DisplayName(), c.Hamartia)
		}
	case text:
		fmt.Fprintf(w, "Character %s not found\n", first.ID)
	}

	characters, err := repo.List(ctx)
	if err != nil {
		fail(err)
	} else {
		result.Characters = characters
	}

	if text {
		printDemoList(w, result.Characters)
		return nil
	}
	return opts.formatter(w).Success(result, "")
}

func printDemoList(w io.Writer, characters []character.Character) {
	fmt.Fprintln(w)
	fmt.Fprint(w, formatCharacters(characters))
}
