package normalize

import (
	"regexp"
	"strings"
)

var (
	sentenceStartRe = regexp.MustCompile(`(^|[.!?]\s+)([a-z])`)
	terminalRe      = regexp.MustCompile(`[.!?]$`)
)

// abbreviations expanded during paraphrasing, matched case-insensitively
// as whole words. The table is deliberately tiny: paraphrasing must not
// alter meaning-bearing words.
var abbreviations = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bASAP\b`), "as soon as possible"},
	{regexp.MustCompile(`(?i)\bappt\b`), "appointment"},
	{regexp.MustCompile(`(?i)\bthx\b`), "thanks"},
}

// ParaphraseDescription cleans the description into a readable
// paragraph: whitespace collapsed, sentence starts capitalized,
// terminal punctuation ensured, shorthand expanded.
func ParaphraseDescription(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}

	t := strings.Join(strings.Fields(s), " ")

	// The letter is always the final byte of the match.
	t = sentenceStartRe.ReplaceAllStringFunc(t, func(m string) string {
		return m[:len(m)-1] + strings.ToUpper(m[len(m)-1:])
	})

	if !terminalRe.MatchString(t) {
		t += "."
	}

	for _, abbr := range abbreviations {
		t = abbr.re.ReplaceAllString(t, abbr.replacement)
	}

	return strings.TrimSpace(t)
}
