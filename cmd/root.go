package cmd

import (
	"github.com/avaedu/ava/internal/app"
	"github.com/avaedu/ava/internal/transcript"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ava",
	Short: "AI English coach in your terminal",
	Long:  "Ava — conversational English practice for Russian speakers, with grammar lessons, mistake correction, and voice output.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		return app.Run(version, dbPath)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides AVA_DB env var)")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(recapCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then AVA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, transcript.EnsureDir(p)
	}
	return transcript.DefaultDBPath()
}
