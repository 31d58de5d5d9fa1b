package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avaedu/ava/internal/llm"
	"github.com/avaedu/ava/internal/recap"
	"github.com/avaedu/ava/internal/transcript"
	"github.com/spf13/cobra"
)

var recapCmd = &cobra.Command{
	Use:   "recap",
	Short: "Summarize your recent grammar practice",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := transcript.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = s.Close() }()

		ctx := cmd.Context()
		provider, err := llm.NewProviderFromEnv(ctx, s)
		if err != nil {
			return fmt.Errorf("no LLM provider configured: %w", err)
		}

		svc := recap.NewService(provider, s, llm.ConfigFromEnv().Retry, recap.DefaultConfig())

		fmt.Println("Generating recap...")
		result, err := svc.Generate(ctx)
		if errors.Is(err, recap.ErrNoSession) {
			fmt.Println("No grammar practice recorded yet. Start a Grammar session first.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("\n%s\n%s\n\n", result.Topic, strings.Repeat("─", 60))
		fmt.Println(result.Summary)

		if len(result.Mistakes) > 0 {
			fmt.Println("\nWorth reviewing:")
			for _, m := range result.Mistakes {
				fmt.Printf("  ✗ %s\n  ✓ %s\n    %s\n", m.Original, m.Corrected, m.Tip)
			}
		}

		fmt.Printf("\n%s\n", result.Advice)
		return nil
	},
}
