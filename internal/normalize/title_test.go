package normalize

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

func TestConciseTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Can someone help me move my sofa tomorrow?", "Moving my sofa tomorrow"},
		{"Please pick up my prescription from the pharmacy", "Pick up my prescription from the pharmacy"},
		{"I need help with my groceries this week, if possible", "With my groceries this week"},
		{"need someone to walk my dog", "Walk my dog"},
		{"", FallbackTitle},
		{"   ", FallbackTitle},
	}

	for _, tc := range cases {
		if got := ConciseTitle(tc.in); got != tc.want {
			t.Fatalf("ConciseTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConciseTitleKeepsFirstClause(t *testing.T) {
	t.Parallel()

	got := ConciseTitle("Fix my leaking faucet. It has been dripping for days and I cannot sleep.")
	if got != "Fix my leaking faucet" {
		t.Fatalf("expected first clause only, got %q", got)
	}
}

func TestConciseTitleLengthAndCase(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("need a hand with boxes ", 10)
	got := ConciseTitle(long)

	if utf8.RuneCountInString(got) > 60 {
		t.Fatalf("title too long (%d runes): %q", utf8.RuneCountInString(got), got)
	}
	first, _ := utf8.DecodeRuneInString(got)
	if !unicode.IsUpper(first) {
		t.Fatalf("title not capitalized: %q", got)
	}
}

func TestConciseTitleStripsToNothing(t *testing.T) {
	t.Parallel()

	// Text that erodes away entirely becomes the fallback.
	if got := ConciseTitle("need help with"); got != FallbackTitle {
		t.Fatalf("expected fallback title, got %q", got)
	}
}
