package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacentio/aristotle/character"
	"github.com/jacentio/aristotle/store"
)

// PutOptions holds flags for the put command.
type PutOptions struct {
	*RootOptions
	Character  character.Character
	Phronesis  string
	Trajectory string
}

// NewPutCommand creates the put command.
func NewPutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Create or replace a character",
		Long: `Create or replace a character. An existing character with the same
ID is overwritten entirely.

Example:
  aristotle put --id hamlet --name Hamlet --hamartia indecision --phronesis medium`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Character.Phronesis = character.PhronesisLevel(opts.Phronesis)
			opts.Character.PhronesisTrajectory = character.Trajectory(opts.Trajectory)
			return runPut(cmd, opts)
		},
	}

	c := &opts.Character
	cmd.Flags().StringVar(&c.ID, "id", "", "character ID (required)")
	cmd.Flags().StringVar(&c.Name, "name", "", "display name")
	cmd.Flags().StringVar(&c.Hamartia, "hamartia", "", "tragic flaw")
	cmd.Flags().StringVar(&c.Context, "context", "", "situational context")
	cmd.Flags().StringVar(&opts.Phronesis, "phronesis", "", "practical wisdom (low|medium|high)")
	cmd.Flags().StringVar(&opts.Trajectory, "trajectory", "", "phronesis trajectory (increasing|decreasing|constant)")
	cmd.Flags().StringVar(&c.Telos, "telos", "", "the character's end or purpose")
	cmd.Flags().StringVar(&c.Universe, "universe", "", "fictional universe")
	cmd.Flags().StringVar(&c.Image, "image", "", "image URL")
	cmd.Flags().StringSliceVar(&c.Tags, "tag", nil, "tag (repeatable or comma separated)")
	cmd.Flags().StringVar(&c.GreatestWin, "greatest-win", "", "greatest win")
	cmd.Flags().StringVar(&c.GreatestDefeat, "greatest-defeat", "", "greatest defeat")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runPut(cmd *cobra.Command, opts *PutOptions) error {
	repo, ctx, cancel, err := opts.repository(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	c := opts.Character
	if err := repo.Put(ctx, c); err != nil {
		return err
	}
	return opts.formatter(cmd.OutOrStdout()).
		Success(c, fmt.Sprintf("Added character: %s\n", c.DisplayName()))
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one character",
		Long: `Show one character. A missing character is reported but is not an
error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, ctx, cancel, err := rootOpts.repository(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			out := rootOpts.formatter(cmd.OutOrStdout())
			c, found, err := repo.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				return out.Success(map[string]any{"character_id": args[0], "found": false},
					fmt.Sprintf("Character %s not found\n", args[0]))
			}
			return out.Success(c, formatCharacter(c))
		},
	}
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	SinglePage bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every character in the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, ctx, cancel, err := opts.repository(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			var characters []character.Character
			if opts.SinglePage {
				var next store.PK
				characters, next, err = repo.Page(ctx, nil)
				if err == nil && next != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "More characters exist; showing the first page only")
				}
			} else {
				characters, err = repo.List(ctx)
			}
			if err != nil {
				return err
			}
			return opts.formatter(cmd.OutOrStdout()).Success(characters, formatCharacters(characters))
		},
	}

	cmd.Flags().BoolVar(&opts.SinglePage, "single-page", false, "stop after the first scan page")

	return cmd
}

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Set []string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing character",
		Long: `Change fields of an existing character. Fields are named by their
stored attribute. "tags" takes a comma separated list.

Example:
  aristotle update hamlet --set phronesis=low --set tags=tragedy,danish`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseAssignments(opts.Set)
			if err != nil {
				return err
			}

			repo, ctx, cancel, err := opts.repository(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			out := opts.formatter(cmd.OutOrStdout())
			c, err := repo.Update(ctx, args[0], fields)
			if errors.Is(err, store.ErrNotFound) {
				return out.Success(map[string]any{"character_id": args[0], "found": false},
					fmt.Sprintf("Character %s not found\n", args[0]))
			}
			if err != nil {
				return err
			}
			return out.Success(c, formatCharacter(c))
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "field=value (repeatable)")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}

// parseAssignments turns field=value pairs into update fields.
func parseAssignments(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want field=value", pair)
		}
		if name == "tags" {
			var tags []string
			for _, tag := range strings.Split(value, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					tags = append(tags, tag)
				}
			}
			fields[name] = tags
			continue
		}
		fields[name] = value
	}
	return fields, nil
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, ctx, cancel, err := rootOpts.repository(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if err := repo.Delete(ctx, args[0]); err != nil {
				return err
			}
			return rootOpts.formatter(cmd.OutOrStdout()).
				Success(map[string]string{"deleted": args[0]}, fmt.Sprintf("Deleted character: %s\n", args[0]))
		},
	}
}

// FindOptions holds flags for the find command.
type FindOptions struct {
	*RootOptions
	Hamartia  string
	Phronesis string
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find characters by hamartia or phronesis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			byHamartia := cmd.Flags().Changed("hamartia")
			if err := opts.validate(byHamartia); err != nil {
				return err
			}

			repo, ctx, cancel, err := opts.repository(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			var characters []character.Character
			if byHamartia {
				characters, err = repo.FindByHamartia(ctx, opts.Hamartia)
			} else {
				characters, err = repo.FindByPhronesis(ctx, character.PhronesisLevel(opts.Phronesis))
			}
			if err != nil {
				return err
			}
			return opts.formatter(cmd.OutOrStdout()).Success(characters, formatCharacters(characters))
		},
	}

	cmd.Flags().StringVar(&opts.Hamartia, "hamartia", "", "match this hamartia")
	cmd.Flags().StringVar(&opts.Phronesis, "phronesis", "", "match this phronesis level")
	cmd.MarkFlagsOneRequired("hamartia", "phronesis")
	cmd.MarkFlagsMutuallyExclusive("hamartia", "phronesis")

	return cmd
}

// validate rejects empty search values and unknown phronesis levels.
func (o *FindOptions) validate(byHamartia bool) error {
	if byHamartia {
		if strings.TrimSpace(o.Hamartia) == "" {
			return errors.New("--hamartia must not be empty")
		}
		return nil
	}
	switch character.PhronesisLevel(o.Phronesis) {
	case character.PhronesisLow, character.PhronesisMedium, character.PhronesisHigh:
		return nil
	}
	return fmt.Errorf("invalid --phronesis %q: must be one of low, medium, high", o.Phronesis)
}
