package normalize

import (
	"regexp"
	"strings"

	"helphive-gateway/pkg/types"
)

// Urgency inference patterns, in strict priority order. The first
// matching tier wins regardless of what the upstream claimed.
var (
	// Strong indicators of an urgent or emergency situation.
	emergencyRe = regexp.MustCompile(`\b(emergency|911|life[- ]threat|call 911|immediately|right away|right now|asap|as soon as possible|urgent|hurry|needs immediate|need help now)\b`)

	// Time-based urgency within hours or a day.
	nearTermRe = regexp.MustCompile(`\b(today|this morning|this afternoon|within 24|within 48 hours|tomorrow|by tomorrow|by end of day|soon|next few hours)\b`)

	// Clearly deferred phrasing.
	deferredRe = regexp.MustCompile(`\b(next week|in a week|in a few days|within a week|sometime|when you can|whenever)\b`)
)

// InferUrgency classifies the request text (description plus task type
// strings), falling back to the upstream's raw urgency value and then
// to Medium.
func InferUrgency(text, parsedRaw string) types.Urgency {
	t := strings.ToLower(text)

	if emergencyRe.MatchString(t) {
		return types.UrgencyUrgent
	}
	if nearTermRe.MatchString(t) {
		return types.UrgencyUrgent
	}
	if deferredRe.MatchString(t) {
		return types.UrgencyNonUrgent
	}

	raw := strings.ToLower(parsedRaw)
	switch {
	case strings.Contains(raw, "emergency"),
		strings.Contains(raw, "high"),
		strings.Contains(raw, "urgent"):
		return types.UrgencyUrgent
	case strings.Contains(raw, "low"),
		strings.Contains(raw, "non"):
		return types.UrgencyNonUrgent
	case strings.Contains(raw, "medium"):
		return types.UrgencyMedium
	}

	return types.UrgencyMedium
}
