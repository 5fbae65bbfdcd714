package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"helphive-gateway/internal/cache"
	"helphive-gateway/internal/parse"
	"helphive-gateway/pkg/logging/logging"
	"helphive-gateway/pkg/types"

	"go.uber.org/zap"
)

// Rank orders open tasks by priority using the upstream service.
// Order preservation is itself the fallback policy: with no tasks, no
// credential, an exhausted quota, or any upstream or parse failure,
// the input slice is returned unchanged. Ids the upstream returns that
// no longer resolve to a task are dropped silently.
func (p *Pipeline) Rank(ctx context.Context, tasks []types.Task) []types.Task {
	if len(tasks) == 0 || p.client == nil {
		return tasks
	}
	if p.quota.Exceeded(ctx) {
		return tasks
	}

	start := time.Now()
	logger := logging.L(ctx)

	summaries := types.Summarize(tasks)

	key, err := cache.RankKey(summaries)
	if err != nil {
		logger.Warn("rank_fingerprint_error", zap.Error(err))
		return tasks
	}

	if raw, hit := p.cache.Get(ctx, key); hit {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err == nil {
			ordered := resolveTasks(tasks, ids)
			logger.Info("tasks_ranked",
				zap.String("path", "cache"),
				zap.Int("input_count", len(tasks)),
				zap.Int("output_count", len(ordered)),
				zap.Duration("total_latency", time.Since(start)),
			)
			return ordered
		}
		logger.Warn("cached_ranking_unmarshal_error, treating as miss", zap.Error(err))
	}

	reply, err := p.client.RankTasks(ctx, summaries)
	if err != nil {
		logger.Warn("upstream_rank_failed", zap.Error(err))
		return tasks
	}

	p.quota.Record(ctx)

	ids, ok := parse.ParseRankIDs(reply)
	if !ok {
		logger.Warn("rank_reply_unparseable, keeping original order",
			zap.Int("reply_len", len(reply)),
		)
		return tasks
	}

	ordered := resolveTasks(tasks, ids)

	if encoded, err := json.Marshal(ids); err == nil {
		p.cache.Put(ctx, key, encoded)
	}

	logger.Info("tasks_ranked",
		zap.String("path", "upstream"),
		zap.Int("input_count", len(tasks)),
		zap.Int("output_count", len(ordered)),
		zap.Duration("total_latency", time.Since(start)),
	)

	return ordered
}

// resolveTasks maps ranked ids back to task objects in the given
// order. Unknown ids are dropped; repeated ids resolve once, so the
// result is a filtered permutation of the input.
func resolveTasks(tasks []types.Task, ids []string) []types.Task {
	byID := make(map[string]types.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	out := make([]types.Task, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
