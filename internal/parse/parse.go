// Package parse extracts a structured request draft from the
// upstream's free-text reply. Parsing is best-effort and never fails:
// a well-formed JSON object is taken directly, otherwise individual
// fields are recovered by regex, otherwise defaults apply. The caller
// learns which tier succeeded through the tagged Result.
package parse

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"helphive-gateway/pkg/types"
)

// Status tags which recovery tier produced the draft.
type Status int

const (
	// WellFormed: the reply contained a parseable JSON object.
	WellFormed Status = iota
	// PartiallyRecovered: at least one field was recovered by regex.
	PartiallyRecovered
	// Unrecoverable: nothing usable was found; the draft is defaults.
	Unrecoverable
)

func (s Status) String() string {
	switch s {
	case WellFormed:
		return "well_formed"
	case PartiallyRecovered:
		return "partially_recovered"
	default:
		return "unrecoverable"
	}
}

// Draft holds the raw parsed fields before normalization. UrgencyRaw
// and Category stay verbatim; the normalization engine owns folding
// and inference.
type Draft struct {
	Title        string
	Description  string
	Category     string
	UrgencyRaw   string
	PeopleNeeded types.PeopleCount
	TaskTypes    []string
}

// DefaultDraft returns the absolute-fallback field values.
func DefaultDraft() Draft {
	return Draft{
		Category:     "general",
		UrgencyRaw:   "medium",
		PeopleNeeded: types.People(1),
		TaskTypes:    []string{},
	}
}

// Result is the parser output.
type Result struct {
	Status  Status
	Draft   Draft
	Missing []string
}

// wireDraft mirrors the upstream schema with pointer fields so absent
// keys are distinguishable from empty ones.
type wireDraft struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	Category     *string            `json:"category"`
	UrgencyLevel *flexString        `json:"urgencyLevel"`
	PeopleNeeded *types.PeopleCount `json:"peopleNeeded"`
	TaskTypes    *flexStringList    `json:"taskTypes"`
}

// flexString tolerates non-string scalars where a string is expected.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.Trim(string(data), `"`))
	return nil
}

// flexStringList tolerates mixed-type arrays, keeping only elements
// representable as strings.
type flexStringList []string

func (f *flexStringList) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		}
	}
	*f = out
	return nil
}

// Per-field recovery patterns, tolerant of quoting and prose around
// key-value-ish substrings.
var (
	titleRe    = regexp.MustCompile(`(?i)title["\s:]+([^",\n]+)`)
	categoryRe = regexp.MustCompile(`(?i)category["\s:]+([^",\n]+)`)
	urgencyRe  = regexp.MustCompile(`(?i)urgencyLevel["\s:]+([^",\n]+)`)
	peopleRe   = regexp.MustCompile(`(?i)peopleNeeded["\s:]+([^",\n\]]+)`)
	taskRe     = regexp.MustCompile(`(?i)taskTypes["\s:]+\[([^\]]+)\]`)
	quotedRe   = regexp.MustCompile(`"([^"]+)"`)
)

// ParseRequest extracts a draft from the upstream reply, trying each
// tier in order: greedy-brace JSON, per-field regex, defaults.
func ParseRequest(reply string) Result {
	if draft, ok := parseJSONObject(reply); ok {
		return Result{Status: WellFormed, Draft: draft}
	}

	draft := DefaultDraft()
	var missing []string
	recovered := 0

	if m := titleRe.FindStringSubmatch(reply); m != nil {
		draft.Title = strings.TrimSpace(m[1])
		recovered++
	} else {
		missing = append(missing, "title")
	}

	if m := categoryRe.FindStringSubmatch(reply); m != nil {
		draft.Category = strings.ToLower(strings.TrimSpace(m[1]))
		recovered++
	} else {
		missing = append(missing, "category")
	}

	if m := urgencyRe.FindStringSubmatch(reply); m != nil {
		draft.UrgencyRaw = strings.ToLower(strings.TrimSpace(m[1]))
		recovered++
	} else {
		missing = append(missing, "urgencyLevel")
	}

	if m := peopleRe.FindStringSubmatch(reply); m != nil {
		draft.PeopleNeeded = parsePeopleValue(m[1])
		recovered++
	} else {
		missing = append(missing, "peopleNeeded")
	}

	if m := taskRe.FindStringSubmatch(reply); m != nil {
		draft.TaskTypes = parseTaskTypesValue(m[1])
		recovered++
	} else {
		missing = append(missing, "taskTypes")
	}

	if recovered == 0 {
		return Result{Status: Unrecoverable, Draft: DefaultDraft()}
	}
	return Result{Status: PartiallyRecovered, Draft: draft, Missing: missing}
}

// parseJSONObject applies the greedy brace match: first '{' through
// last '}', strict JSON parse. Fields present overlay the defaults.
func parseJSONObject(reply string) (Draft, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end == -1 || end <= start {
		return Draft{}, false
	}

	var wire wireDraft
	if err := json.Unmarshal([]byte(reply[start:end+1]), &wire); err != nil {
		return Draft{}, false
	}

	draft := DefaultDraft()
	if wire.Title != nil {
		draft.Title = strings.TrimSpace(*wire.Title)
	}
	if wire.Description != nil {
		draft.Description = strings.TrimSpace(*wire.Description)
	}
	if wire.Category != nil {
		draft.Category = *wire.Category
	}
	if wire.UrgencyLevel != nil {
		draft.UrgencyRaw = string(*wire.UrgencyLevel)
	}
	if wire.PeopleNeeded != nil {
		draft.PeopleNeeded = *wire.PeopleNeeded
	}
	if wire.TaskTypes != nil {
		draft.TaskTypes = []string(*wire.TaskTypes)
	}
	return draft, true
}

// parsePeopleValue handles the regex-recovered peopleNeeded value:
// the literal "multiple" (possibly quoted), else an integer, else 1.
func parsePeopleValue(raw string) types.PeopleCount {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.Trim(v, `"`)
	if v == "multiple" {
		return types.PeopleMultiple
	}
	if n, err := strconv.Atoi(v); err == nil {
		return types.People(n)
	}
	return types.People(1)
}

// parseTaskTypesValue handles the regex-recovered bracketed list: try
// a JSON array first, else collect the double-quoted substrings.
func parseTaskTypesValue(inner string) []string {
	var arr []string
	if err := json.Unmarshal([]byte("["+inner+"]"), &arr); err == nil {
		return arr
	}

	var out []string
	for _, m := range quotedRe.FindAllStringSubmatch(inner, -1) {
		out = append(out, m[1])
	}
	if out == nil {
		return []string{}
	}
	return out
}
