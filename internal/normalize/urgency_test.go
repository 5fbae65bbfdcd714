package normalize

import (
	"testing"

	"helphive-gateway/pkg/types"
)

func TestInferUrgencyFromText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want types.Urgency
	}{
		{"I need help ASAP, please hurry", types.UrgencyUrgent},
		{"My mother fell, this is an emergency", types.UrgencyUrgent},
		{"Can someone come tomorrow within 24 hours?", types.UrgencyUrgent},
		{"Need this done by end of day", types.UrgencyUrgent},
		{"Whenever you have time next week is fine", types.UrgencyNonUrgent},
		{"Sometime in a few days would work", types.UrgencyNonUrgent},
		{"Looking for help with my garden", types.UrgencyMedium},
	}

	for _, tc := range cases {
		if got := InferUrgency(tc.text, ""); got != tc.want {
			t.Fatalf("InferUrgency(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestInferUrgencyTextBeatsParsedValue(t *testing.T) {
	t.Parallel()

	// Text signals override whatever the upstream claimed.
	if got := InferUrgency("please hurry, right now", "low"); got != types.UrgencyUrgent {
		t.Fatalf("text should win over parsed low, got %s", got)
	}
	if got := InferUrgency("whenever you can", "high"); got != types.UrgencyNonUrgent {
		t.Fatalf("deferred text should win over parsed high, got %s", got)
	}
}

func TestInferUrgencyParsedFallback(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want types.Urgency
	}{
		{"high", types.UrgencyUrgent},
		{"emergency", types.UrgencyUrgent},
		{"urgent", types.UrgencyUrgent},
		{"low", types.UrgencyNonUrgent},
		{"non-urgent", types.UrgencyNonUrgent},
		{"medium", types.UrgencyMedium},
		{"", types.UrgencyMedium},
		{"whatever", types.UrgencyMedium},
	}

	neutral := "requesting assistance with an errand"
	for _, tc := range cases {
		if got := InferUrgency(neutral, tc.raw); got != tc.want {
			t.Fatalf("InferUrgency(raw=%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}
