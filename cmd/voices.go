package cmd

import (
	"fmt"

	"github.com/avaedu/ava/internal/speech"
	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List available text-to-speech voices",
	Run: func(cmd *cobra.Command, args []string) {
		current := speech.LoadSettings().Voice

		for _, v := range speech.Voices {
			marker := "  "
			if v.ID == current {
				marker = "* "
			}
			fmt.Printf("%s%-24s %-8s %s\n", marker, v.ID, v.Gender, v.Description)
		}

		fmt.Println("\nSelect a voice from the Voice Settings screen in the app.")
		if speech.NewGoogleSynthesizer() == nil {
			fmt.Println("Note: AVA_GOOGLE_TTS_API_KEY is not set; the local fallback voice will be used.")
		}
	},
}
