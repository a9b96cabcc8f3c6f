package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/buger/goterm"

	"github.com/jacentio/aristotle/character"
	"github.com/jacentio/aristotle/store"
)

// Exit codes for CLI commands. Store failures are reported and still exit
// with ExitSuccess; ExitFailure is for usage and flag errors.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (o *RootOptions) formatter(w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: w}
}

// Success outputs data in JSON mode, or text in text mode.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	_, err := fmt.Fprint(f.Writer, text)
	return err
}

// Report writes a failure to w with a remediation hint for the known kinds.
func Report(w io.Writer, err error) {
	switch store.KindOf(err) {
	case store.KindMissingCredentials:
		fmt.Fprintln(w, "AWS credentials not found!")
		fmt.Fprintln(w, "To fix this:")
		fmt.Fprintln(w, "  1. Install the AWS CLI")
		fmt.Fprintln(w, "  2. Configure credentials: aws configure")
		fmt.Fprintln(w, "  3. Enter your Access Key ID and Secret Access Key")
	case store.KindTableNotFound:
		table := "characters"
		var serr *store.Error
		if errors.As(err, &serr) && serr.Table != "" {
			table = serr.Table
		}
		fmt.Fprintf(w, "Table %q doesn't exist\n", table)
		fmt.Fprintln(w, "Create it in the AWS Console or use a different table name (--table)")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// report writes a failure in the selected format.
func report(w io.Writer, asJSON bool, err error) {
	if asJSON {
		reportJSON(w, err)
		return
	}
	Report(w, err)
}

// reportJSON writes a failure as a CLIResponse.
func reportJSON(w io.Writer, err error) {
	_ = json.NewEncoder(w).Encode(CLIResponse{
		Status: "error",
		Error: &CLIError{
			Kind:    store.KindOf(err).String(),
			Message: err.Error(),
		},
	})
}

// formatCharacter renders one character as aligned "field: value" lines.
func formatCharacter(c character.Character) string {
	t := goterm.NewTable(0, 10, 2, ' ', 0)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(t, "%s:\t%s\n", label, value)
		}
	}
	row("ID", c.ID)
	row("Name", c.Name)
	row("Hamartia", c.Hamartia)
	row("Context", c.Context)
	row("Phronesis", string(c.Phronesis))
	row("Trajectory", string(c.PhronesisTrajectory))
	row("Telos", c.Telos)
	row("Universe", c.Universe)
	row("Image", c.Image)
	row("Tags", strings.Join(c.Tags, ", "))
	row("Greatest win", c.GreatestWin)
	row("Greatest defeat", c.GreatestDefeat)
	return t.String()
}

// formatCharacters renders a summary table, one character per row.
func formatCharacters(characters []character.Character) string {
	if len(characters) == 0 {
		return "No characters found\n"
	}
	t := goterm.NewTable(0, 10, 2, ' ', 0)
	fmt.Fprintln(t, "ID\tNAME\tHAMARTIA\tPHRONESIS")
	for _, c := range characters {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\n", c.ID, c.DisplayName(), c.Hamartia, c.Phronesis)
	}
	return fmt.Sprintf("Found %d characters:\n%s", len(characters), t.String())
}
