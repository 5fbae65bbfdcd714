// Package normalize is the deterministic, offline rule engine applied
// to every parsed draft, whether it came from the upstream service or
// from the local fallback path. It owns title conciseness, description
// paraphrasing, category folding, and the urgency / people-needed
// inference heuristics.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"helphive-gateway/internal/parse"
	"helphive-gateway/pkg/types"
)

// FallbackTitle is used when no usable title can be derived at all.
const FallbackTitle = "Help Request"

const maxTitleLen = 60

// Apply turns a parsed draft into the final normalized request. The
// original user input backs every field that the draft is missing.
func Apply(draft parse.Draft, originalInput string) types.NormalizedRequest {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = snippetTitle(originalInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		title = truncateRunes(title, maxTitleLen-3) + "..."
	}
	title = capitalize(title)
	title = ConciseTitle(title)

	description := strings.TrimSpace(draft.Description)
	if description == "" {
		description = originalInput
	}

	taskTypes := draft.TaskTypes
	if taskTypes == nil {
		taskTypes = []string{}
	}

	// Inference reads the raw (pre-paraphrase) description together
	// with the task type strings.
	inferText := description + " " + strings.Join(taskTypes, " ")

	return types.NormalizedRequest{
		Title:        title,
		Description:  ParaphraseDescription(description),
		Category:     types.FoldCategory(draft.Category),
		UrgencyLevel: InferUrgency(inferText, draft.UrgencyRaw),
		PeopleNeeded: InferPeople(inferText, draft.PeopleNeeded),
		TaskTypes:    taskTypes,
	}
}

// LocalDraft builds the minimal draft used when the upstream is
// skipped entirely: the raw input is the description, everything else
// is defaults.
func LocalDraft(input string) parse.Draft {
	draft := parse.DefaultDraft()
	draft.Description = input
	return draft
}

// snippetTitle derives a title from the first 60 characters of the
// original input.
func snippetTitle(input string) string {
	snippet := strings.Join(strings.Fields(input), " ")
	snippet = truncateRunes(snippet, maxTitleLen)
	return capitalize(strings.TrimSpace(snippet))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// capitalize upper-cases the first rune.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
