package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	politeLeadRe = regexp.MustCompile(`(?i)^(please\s+|can someone\s+|could someone\s+|i need help\s+|help me\s+)`)
	gerundRe     = regexp.MustCompile(`(?i)\b(help (me|us)\s+)?(to\s+)?(move|carry|lift|transport)\b`)
	needPhraseRe = regexp.MustCompile(`(?i)\b(need someone to|need help to|need help with)\b`)
	clauseEndRe  = regexp.MustCompile(`[.!\n?,]`)
)

// ConciseTitle rewrites free text into a short label: polite lead-ins
// are stripped, the first move/carry/lift/transport phrase becomes
// "moving", filler "need ..." phrases drop out, and only the first
// clause survives, capped at 60 characters and capitalized. Text that
// strips away entirely becomes the fallback title.
func ConciseTitle(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return FallbackTitle
	}

	t := politeLeadRe.ReplaceAllString(s, "")
	t = replaceFirst(gerundRe, t, "moving")
	t = replaceFirst(needPhraseRe, t, "")

	// Keep the first clause only.
	if loc := clauseEndRe.FindStringIndex(t); loc != nil {
		t = t[:loc[0]]
	}
	t = strings.TrimSpace(t)

	title := strings.TrimSpace(truncateRunes(t, maxTitleLen))
	if utf8.RuneCountInString(title) == 0 {
		return FallbackTitle
	}
	return capitalize(title)
}

// replaceFirst substitutes only the first match, like a non-global
// JavaScript replace.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
