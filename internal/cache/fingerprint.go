package cache

import (
	"encoding/json"

	"helphive-gateway/pkg/types"
)

// RequestKey builds the fingerprint for a normalization request. The
// raw input is embedded verbatim: two inputs differing only by case or
// whitespace are distinct entries on purpose.
func RequestKey(kind types.Kind, input string) string {
	return string(kind) + "::" + input
}

// RankKey builds the fingerprint for a prioritization request from the
// canonical JSON serialization of the task summaries. Any change to
// the summarized list, including distance drift, produces a miss.
func RankKey(summaries []types.TaskSummary) (string, error) {
	body, err := json.Marshal(summaries)
	if err != nil {
		return "", err
	}
	return "prioritize::" + string(body), nil
}
