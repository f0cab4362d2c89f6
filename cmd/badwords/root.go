package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/badwords/internal/model"
)

// Process exit codes.
const (
	// exitClean means every scanned file was free of bad words.
	exitClean = 0
	// exitFound means a bad word was found.
	exitFound = 1
	// exitError means the scan could not be completed.
	exitError = 2
)

// badWordError is returned by the scan command when a bad word was found.
// Its message is the diagnostic printed on stderr, one line per match.
type badWordError struct {
	matches []model.Match
}

// Error returns the diagnostic lines of all matches.
func (e *badWordError) Error() string {
	lines := make([]string, 0, len(e.matches))
	for _, m := range e.matches {
		lines = append(lines, m.String())
	}
	return strings.Join(lines, "\n")
}

// NewRootCmd creates the root command for badwords.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "badwords",
		Short: "Find bad words in the files of a directory",
		Long: `badwords scans the files of a directory for words from a remote bad word list.

The list for the selected language is downloaded once per run, compiled into a
whole-word matcher and applied to every file that has an extension. The scan
stops at the first match.

Exit status: 0 when nothing was found, 1 when a bad word was found,
2 on any other error.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// exitCode maps the error returned by a command to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitClean
	}
	var found *badWordError
	if errors.As(err, &found) {
		return exitFound
	}
	return exitError
}

// Execute runs the root command and exits with the matching status.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
