package parse

import (
	"encoding/json"
	"strings"
)

// ParseRankIDs locates the first JSON array in the reply (greedy: the
// first '[' through the last ']') and returns the ids in order.
// ok=false is the explicit "use original order" signal: the caller
// must keep the input untouched rather than treat this as an error.
func ParseRankIDs(reply string) (ids []string, ok bool) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(reply[start : end+1]))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case json.Number:
			out = append(out, t.String())
		default:
			// Non-scalar elements mean the array is not an id list.
			return nil, false
		}
	}
	return out, true
}
