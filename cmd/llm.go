package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/avaedu/ava/internal/llm"
	"github.com/avaedu/ava/internal/transcript"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Show LLM token usage and estimated cost",
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

		usage, err := s.LLMUsageByModel(context.Background())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by Model")
		fmt.Println(strings.Repeat("─", 88))
		fmt.Printf("%-32s  %6s  %6s  %10s  %10s  %10s\n",
			"Model", "Calls", "Fail", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 88))

		var totalCost float64
		var unknownModels []string
		for _, mu := range usage {
			cost := llm.LookupCost(mu.Model)
			if cost == nil {
				unknownModels = append(unknownModels, mu.Model)
				fmt.Printf("%-32s  %6d  %6d  %10d  %10d  %10s\n",
					truncate(mu.Model, 32), mu.Requests, mu.Failures,
					mu.InputTokens, mu.OutputTokens, "?")
				continue
			}
			c := cost.Cost(mu.InputTokens, mu.OutputTokens)
			totalCost += c
			fmt.Printf("%-32s  %6d  %6d  %10d  %10d  %10s\n",
				truncate(mu.Model, 32), mu.Requests, mu.Failures,
				mu.InputTokens, mu.OutputTokens, formatCost(c))
		}

		fmt.Println(strings.Repeat("─", 88))
		fmt.Printf("Estimated total: %s\n", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nNo pricing data for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func formatCost(c float64) string {
	if c > 0 && c < 0.01 {
		return "<$0.01"
	}
	return fmt.Sprintf("$%.2f", c)
}
