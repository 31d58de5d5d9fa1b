package recap

import "github.com/avaedu/ava/internal/llm"

// RecapSchema defines the JSON schema for session recap generation.
var RecapSchema = &llm.Schema{
	Name:        "session-recap",
	Description: "A structured recap of an English grammar practice session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "The grammar topic the session focused on, e.g. 'Present Simple'",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "2-4 sentence summary of how the session went, addressed to the student",
			},
			"mistakes": map[string]any{
				"type":        "array",
				"description": "The most instructive mistakes from the session, at most five",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"original": map[string]any{
							"type":        "string",
							"description": "What the student said",
						},
						"corrected": map[string]any{
							"type":        "string",
							"description": "The corrected version",
						},
						"tip": map[string]any{
							"type":        "string",
							"description": "One short tip to avoid repeating this mistake",
						},
					},
					"required":             []any{"original", "corrected", "tip"},
					"additionalProperties": false,
				},
			},
			"advice": map[string]any{
				"type":        "string",
				"description": "1-2 sentences of concrete advice for the next session",
			},
		},
		"required":             []any{"topic", "summary", "mistakes", "advice"},
		"additionalProperties": false,
	},
}
