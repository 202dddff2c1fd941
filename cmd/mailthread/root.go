// Package main is the mailthread CLI: add <path> ingests a message, show
// <query> iterates matching messages (spec §6). Configuration is a single
// --db flag, not a layered config file, because there is nothing resembling
// a layered config to merge for a one-shot CLI invocation.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jarrod-lowe/mailthread/internal/apperr"
	"github.com/jarrod-lowe/mailthread/internal/database"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "mailthread",
	Short: "A local email indexing and thread-reconstruction engine",
	Long: `mailthread indexes a local collection of mail messages and answers
full-text and structured queries over them, grouping related messages into
conversation threads.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", ".", "database directory")
	rootCmd.AddCommand(addCmd, showCmd)
}

// Execute runs the CLI. It is the only place that prints an error and sets
// the process exit code — every fallible operation below it returns an
// error (a *apperr.Error from the database and indexer layers) instead of
// printing or calling os.Exit directly.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("mailthread command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// openOrCreateDB opens the database at path, creating it (and its
// .notmuch subdirectory) on first use. Notmuch-alikes conventionally
// create the database lazily on the first ingest rather than requiring a
// separate init step.
func openOrCreateDB(path string) (*database.Handle, error) {
	h, err := database.Open(path)
	if err == nil {
		return h, nil
	}
	if apperr.Is(err, apperr.InputPathMissing) {
		return database.Create(path)
	}
	return nil, err
}
