package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacentio/aristotle/character"
	"github.com/jacentio/aristotle/store"
)

// ConnectFunc opens a store for the resolved configuration.
type ConnectFunc func(ctx context.Context, cfg store.Config) (*store.Store, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Timeout    time.Duration
	Store      store.Config

	connect ConnectFunc
	logger  *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the aristotle CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(store.Connect)
}

func newRootCommand(connect ConnectFunc) *cobra.Command {
	opts := &RootOptions{
		Store:   store.DefaultConfig(),
		connect: connect,
		logger:  slog.Default(),
	}

	cmd := &cobra.Command{
		Use:   "aristotle",
		Short: "Aristotle - a character store on DynamoDB",
		Long:  "Store, read and list Aristotelian characters (hamartia, context, phronesis) in a DynamoDB table.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.ConfigFile != "" {
				fc, err := loadFileConfig(opts.ConfigFile)
				if err != nil {
					return err
				}
				fc.apply(cmd.Flags(), &opts.Store)
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (flags take precedence)")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "overall timeout per command (0 = none)")
	flags.StringVar(&opts.Store.Region, "region", "", "AWS region (default from environment, then "+store.DefaultRegion+")")
	flags.StringVar(&opts.Store.TableName, "table", opts.Store.TableName, "DynamoDB table name")
	flags.StringVar(&opts.Store.KeyAttribute, "key", opts.Store.KeyAttribute, "partition key attribute of the table")
	flags.StringVar(&opts.Store.Endpoint, "endpoint", "", "DynamoDB endpoint override (e.g. DynamoDB Local)")
	flags.StringVar(&opts.Store.Profile, "profile", "", "shared config profile")
	flags.IntVar(&opts.Store.ScanSegments, "segments", opts.Store.ScanSegments, "parallel scan segments")
	flags.Int32Var(&opts.Store.PageSize, "page-size", 0, "items per scan request (0 = service default)")

	// Add subcommands
	cmd.AddCommand(NewPutCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewVocabularyCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Failures are reported once, with a remediation hint, on stderr. Store
// failures are handled outcomes and exit 0; usage errors exit 1.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, NewRootCommand(), args, stdout, stderr)
}

func execute(ctx context.Context, cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	f := cmd.PersistentFlags().Lookup("format")
	report(stderr, f != nil && f.Value.String() == "json", err)
	if isStoreFailure(err) {
		return ExitSuccess
	}
	return ExitFailure
}

// isStoreFailure reports whether err came from a table round trip rather than
// from the command line.
func isStoreFailure(err error) bool {
	var storeErr *store.Error
	return errors.As(err, &storeErr)
}

// repository connects to the table and returns a character repository plus a
// context bounded by --timeout. The caller must call cancel.
func (o *RootOptions) repository(cmd *cobra.Command) (*character.Repository, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(cmd.Context())
	if o.Timeout > 0 {
		cancel()
		ctx, cancel = context.WithTimeout(cmd.Context(), o.Timeout)
	}

	s, err := o.connect(ctx, o.Store)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	s.SetLogger(o.logger)

	o.logger.Debug("connected",
		"table", s.Config().TableName,
		"key", s.Config().KeyAttribute,
		"segments", s.Config().ScanSegments,
	)
	return character.NewRepository(s, o.logger), ctx, cancel, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
