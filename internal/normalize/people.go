package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"helphive-gateway/pkg/types"
)

var (
	// Explicit counts: "2 people", "three volunteers".
	explicitCountRe = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\b\s+(people|volunteers|helpers|persons|men|women)\b`)

	// Small-group language.
	groupSizeRe = regexp.MustCompile(`\b(several|a few|a lot|lots of|lots|many|multiple|a couple)\b`)

	// Tasks that commonly need two or more helpers.
	heavyTaskRe = regexp.MustCompile(`\b(heavy|lift|lifting|move|moving|furniture|sofa|mattress|couch|appliance|fridge|refrigerator|piano|bed|boxes|bulk)\b`)

	// Intensity words that bump a heavy task to "multiple".
	intensityRe = regexp.MustCompile(`\b(lots|a lot|many|several)\b`)

	// Assistance phrasing that implies a second pair of hands.
	helpCarryRe = regexp.MustCompile(`\b(help me carry|help me move|assist me carry|assist me move|need someone to carry)\b`)
)

var wordToNum = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// InferPeople estimates how many helpers a request needs from the
// request text, in strict priority order. A parsed value other than
// the default single helper is kept as-is.
func InferPeople(text string, parsed types.PeopleCount) types.PeopleCount {
	if !parsed.IsDefault() {
		return parsed
	}

	t := strings.ToLower(text)

	if m := explicitCountRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return types.People(n)
		}
		if n, ok := wordToNum[m[1]]; ok {
			return types.People(n)
		}
	}

	if groupSizeRe.MatchString(t) {
		return types.PeopleMultiple
	}

	if heavyTaskRe.MatchString(t) {
		if intensityRe.MatchString(t) {
			return types.PeopleMultiple
		}
		return types.People(2)
	}

	if helpCarryRe.MatchString(t) {
		return types.People(2)
	}

	return types.People(1)
}
