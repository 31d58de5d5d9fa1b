package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/avaedu/ava/internal/transcript"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [mode]",
	Short: "Print conversation history",
	Long:  "Print stored conversation records. Mode is one of: free_talk, vocabulary, grammar, mistakes. Omit to print all modes.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		modes := transcript.AllModes
		if len(args) == 1 {
			mode := transcript.Mode(args[0])
			if !mode.Valid() {
				return fmt.Errorf("unknown mode %q", args[0])
			}
			modes = []transcript.Mode{mode}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := transcript.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = s.Close() }()

		ctx := context.Background()
		printed := 0
		for _, mode := range modes {
			records, err := s.ReadAll(ctx, mode)
			if err != nil {
				return fmt.Errorf("read %s history: %w", mode, err)
			}
			if len(records) == 0 {
				continue
			}
			if limit > 0 && len(records) > limit {
				records = records[len(records)-limit:]
			}

			fmt.Printf("%s\n%s\n", mode.Label(), strings.Repeat("─", 60))
			for _, rec := range records {
				who := "Ava"
				if rec.Sender == "user" {
					who = "You"
				}
				fmt.Printf("[%s] %s: %s\n",
					rec.CreatedAt.Local().Format("2006-01-02 15:04"), who, rec.Content)
			}
			fmt.Println()
			printed += len(records)
		}

		if printed == 0 {
			fmt.Println("No conversations recorded yet.")
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 0, "Only print the most recent N records per mode")
}
