// Package llm is the client for the upstream text-understanding
// service: an Anthropic-style messages API that turns free-form help
// requests into structured drafts and produces priority orderings.
package llm

import (
	"context"

	"helphive-gateway/pkg/types"
)

// Client is the call surface the pipeline depends on. Both operations
// return the raw reply text; parsing is the caller's concern.
type Client interface {
	// Understand asks the upstream to convert raw request text into a
	// single JSON object with the request schema fields.
	Understand(ctx context.Context, kind types.Kind, input string) (string, error)

	// RankTasks asks the upstream for a JSON array of task ids in
	// priority order.
	RankTasks(ctx context.Context, summaries []types.TaskSummary) (string, error)
}
