package cmd

import (
	"context"
	"fmt"

	"github.com/avaedu/ava/internal/transcript"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <mode|all>",
	Short: "Delete conversation history",
	Long:  "Delete stored conversation records for one mode (free_talk, vocabulary, grammar, mistakes) or all of them.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this permanently deletes history; re-run with --yes to confirm")
		}

		modes := transcript.AllModes
		if args[0] != "all" {
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
		for _, mode := range modes {
			if err := s.Clear(ctx, mode); err != nil {
				return fmt.Errorf("clear %s: %w", mode, err)
			}
			fmt.Printf("Cleared %s history.\n", mode.Label())
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
