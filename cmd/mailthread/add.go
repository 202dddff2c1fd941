package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jarrod-lowe/mailthread/internal/indexer"
	"github.com/jarrod-lowe/mailthread/internal/resolver"
	"github.com/jarrod-lowe/mailthread/internal/threadid"
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Ingest a message file into the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openOrCreateDB(dbPath)
		if err != nil {
			return err
		}
		defer h.Close()

		r := resolver.New(h.Index(), threadid.NewGenerator())
		if _, err := indexer.AddMessage(h.Index(), r, args[0]); err != nil {
			return err
		}

		logger.Info("message indexed", slog.String("file", args[0]))
		return nil
	},
}
