// Package pipeline orchestrates a single request through quota check,
// cache lookup, upstream call, parsing and normalization. Its public
// operations never surface upstream, quota or parse failures: every
// path degrades to the locally normalized draft, so callers always
// receive a usable value.
package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"helphive-gateway/internal/cache"
	"helphive-gateway/internal/llm"
	"helphive-gateway/internal/metrics"
	"helphive-gateway/internal/normalize"
	"helphive-gateway/internal/parse"
	"helphive-gateway/internal/quota"
	"helphive-gateway/pkg/logging/logging"
	"helphive-gateway/pkg/types"

	"go.uber.org/zap"
)

// Fallback reasons, used in logs and metrics labels.
const (
	reasonNoCredential  = "no_credential"
	reasonQuota         = "quota"
	reasonUpstreamError = "upstream_error"
)

// Pipeline normalizes help requests. A nil client means local-only
// mode: no credential is configured and every request takes the
// offline path.
type Pipeline struct {
	client llm.Client
	quota  *quota.Tracker
	cache  *cache.ResponseCache
}

func New(client llm.Client, tracker *quota.Tracker, responseCache *cache.ResponseCache) *Pipeline {
	return &Pipeline{
		client: client,
		quota:  tracker,
		cache:  responseCache,
	}
}

// Process turns free-form input into a normalized request. The only
// error it returns is types.ErrEmptyInput; everything else degrades
// to the local fallback.
func (p *Pipeline) Process(ctx context.Context, input string, kind types.Kind) (types.NormalizedRequest, error) {
	if strings.TrimSpace(input) == "" {
		return types.NormalizedRequest{}, types.ErrEmptyInput
	}

	start := time.Now()
	logger := logging.L(ctx)

	// Guaranteed-available path: no credential, or budget exhausted.
	if p.client == nil {
		return p.localFallback(ctx, input, reasonNoCredential), nil
	}
	if p.quota.Exceeded(ctx) {
		return p.localFallback(ctx, input, reasonQuota), nil
	}

	key := cache.RequestKey(kind, input)

	if raw, hit := p.cache.Get(ctx, key); hit {
		var cached types.NormalizedRequest
		if err := json.Unmarshal(raw, &cached); err == nil {
			logger.Info("request_normalized",
				zap.String("path", "cache"),
				zap.String("kind", string(kind)),
				zap.Duration("total_latency", time.Since(start)),
			)
			return cached, nil
		} else {
			logger.Warn("cached_value_unmarshal_error, treating as miss", zap.Error(err))
		}
	}

	reply, err := p.client.Understand(ctx, kind, input)
	if err != nil {
		logger.Warn("upstream_understand_failed", zap.Error(err))
		return p.localFallback(ctx, input, reasonUpstreamError), nil
	}

	// The network round trip succeeded: this is the one place usage
	// is recorded. Cache hits and fallbacks never count.
	p.quota.Record(ctx)

	result := parse.ParseRequest(reply)
	normalized := normalize.Apply(result.Draft, input)

	if encoded, err := json.Marshal(normalized); err == nil {
		p.cache.Put(ctx, key, encoded)
	} else {
		logger.Warn("normalized_marshal_error", zap.Error(err))
	}

	logger.Info("request_normalized",
		zap.String("path", "upstream"),
		zap.String("kind", string(kind)),
		zap.String("parse_status", result.Status.String()),
		zap.Strings("missing_fields", result.Missing),
		zap.Duration("total_latency", time.Since(start)),
	)

	return normalized, nil
}

// localFallback normalizes a minimal draft built from the raw input,
// without touching the network, the cache, or the quota counters.
func (p *Pipeline) localFallback(ctx context.Context, input, reason string) types.NormalizedRequest {
	metrics.LocalFallbacksTotal.WithLabelValues(reason).Inc()
	logging.L(ctx).Info("request_normalized",
		zap.String("path", "local"),
		zap.String("fallback_reason", reason),
	)
	return normalize.Apply(normalize.LocalDraft(input), input)
}
