// Package ai - prompts.go
// Prompt construction for the narrator. The LLM only writes flavor text
// over outcomes the engine already decided; it never changes a number.
package ai

import (
	"fmt"
	"strings"
)

// NarratorSystemPrompt frames the LLM as a prose narrator for the
// simulation. Mechanical outcomes are fixed before the prompt is built.
const NarratorSystemPrompt = `You are the narrator of a serialized family drama set in an American city under an immigration enforcement surge.

Your job is to turn mechanical turn summaries into two or three sentences of grounded, human prose: what the family saw, heard, feared, and did.

RULES (absolute):
- You never invent outcomes. Every fact in your prose must come from the turn summary you are given.
- You never mention numbers, metrics, percentages, or game terms like "turn", "phase", "effect", or "pulse".
- You write in close third person on the family, present tense.
- Two or three sentences. No headings, no lists, no quotes around your text.
- Keep the register sober. No melodrama, no editorializing about politics.`

// BuildNarrationPrompt constructs the user message for one journal entry.
func BuildNarrationPrompt(cityName, neighborhoodName string, turn int, summary string, eventTitles []string) string {
	var sb strings.Builder

	sb.WriteString("SETTING\n")
	sb.WriteString(fmt.Sprintf("City: %s. Neighborhood: %s. Week %d of the surge.\n\n", cityName, neighborhoodName, turn))

	sb.WriteString("WHAT HAPPENED\n")
	sb.WriteString(summary)
	sb.WriteString("\n")

	if len(eventTitles) > 0 {
		sb.WriteString("\nEVENTS IN PLAY\n")
		for i, title := range eventTitles {
			if i >= 5 {
				sb.WriteString("- (further events omitted)\n")
				break
			}
			sb.WriteString(fmt.Sprintf("- %s\n", title))
		}
	}

	sb.WriteString("\nWrite the narration now.")
	return sb.String()
}
