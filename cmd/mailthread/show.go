package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jarrod-lowe/mailthread/internal/database"
	"github.com/jarrod-lowe/mailthread/internal/query"
)

var showCmd = &cobra.Command{
	Use:   "show <query>",
	Short: "Iterate messages matching a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := database.Open(dbPath)
		if err != nil {
			return err
		}
		defer h.Close()

		q, err := query.Parse(args[0])
		if err != nil {
			return err
		}
		cur, err := q.Search(h.Index())
		if err != nil {
			return err
		}

		for cur.Advance() {
			msg, err := cur.Get()
			if err != nil {
				return err
			}
			printMessage(cmd, msg)
		}
		return nil
	},
}

func printMessage(cmd *cobra.Command, msg *query.Message) {
	messageID, _ := msg.MessageID()
	filename, _ := msg.Filename()
	date, _ := msg.Date()
	subject, _ := msg.Header("Subject")

	when := "unknown-date"
	if !date.IsZero() {
		when = date.Format(time.RFC3339)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n", when, messageID, subject, filename)
}
