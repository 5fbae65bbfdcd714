package llm

import (
	"encoding/json"
	"fmt"

	"helphive-gateway/pkg/types"
)

// understandSystemPrompt fixes the schema the upstream must reply
// with. The reply is expected to be exactly one JSON object; the
// parser still tolerates surrounding prose.
const understandSystemPrompt = `You are an AI assistant helping to parse and categorize help requests from elderly or differently-abled citizens.

Read the user's request and return a single JSON object with:
- title
- description
- category
- urgencyLevel
- peopleNeeded
- taskTypes

Title rules (VERY IMPORTANT):
- Make the title a short, precise label, NOT a full sentence.
- Use a noun phrase of about 2-5 words.
- Summarize the core need or situation, not the emotions.
- Do NOT copy the whole user message.
- Remove extra details like time and location unless they are essential.
- Examples:
  - "Can someone help me carry my groceries up the stairs?" -> title: "Carry groceries upstairs"
  - "I need someone to drive me to the clinic tomorrow" -> title: "Clinic ride" or "Medical transport"
  - "My internet is not working, I don't understand the router" -> title: "Wi-Fi troubleshooting"

Description:
- Write a clear, complete, polite paragraph that explains what help is needed, any key details (when, where, special constraints), and anything volunteers should know.
- You may expand and clean up the user's original text, but keep the meaning.

Category: choose one of "medical", "transportation", "shopping", "household", "companionship", "technology", "other".

Urgency level: choose one of "low", "medium", "high", "emergency".

People needed: return a number 1, 2, 3, or the string "multiple" (for 4+). Heavy lifting or moving furniture often needs 2 or "multiple"; simple visits or phone calls usually need 1.

Task types: return an array of short strings describing specific task types, e.g. ["grocery shopping", "carrying bags"] or ["heavy lifting", "moving furniture"].

Output format: return ONLY a JSON object with exactly these keys:
{
  "title": "...",
  "description": "...",
  "category": "...",
  "urgencyLevel": "...",
  "peopleNeeded": 1,
  "taskTypes": ["...", "..."]
}
AVOID including any extra text, explanations, or markdown - only the JSON object.`

// rankSystemPrompt instructs the upstream to reply with one JSON array
// of task ids in priority order.
const rankSystemPrompt = `You are an AI assistant that prioritizes help requests for elderly and differently-abled citizens.
Sort tasks by urgency, proximity, and user needs. Consider:
- Emergency situations first
- High urgency medical needs
- Time-sensitive requests
- Proximity to volunteers
- User history and needs

Return a JSON array of task IDs in priority order.`

func understandUserPrompt(kind types.Kind, input string) string {
	return fmt.Sprintf("Input type: %s\n\nUser request: %s\n\nParse this request and return the JSON object.", kind, input)
}

func rankUserPrompt(summaries []types.TaskSummary) (string, error) {
	body, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal task summaries: %w", err)
	}
	return fmt.Sprintf("Prioritize these tasks:\n\n%s", body), nil
}
