package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/praxisllmlab/dongchaLLM/internal/cache"
	"github.com/praxisllmlab/dongchaLLM/internal/metrics"
	"github.com/praxisllmlab/dongchaLLM/internal/model"
	"github.com/praxisllmlab/dongchaLLM/internal/provider"
	"github.com/praxisllmlab/dongchaLLM/internal/quality"
	"github.com/praxisllmlab/dongchaLLM/internal/ratelimit"
)

// Attempt is one provider in the fallback chain with its per-attempt
// timeout. The chain order is fixed at startup; health information is
// exported for monitoring but never consulted mid-request.
type Attempt struct {
	Provider provider.Provider
	Timeout  time.Duration
}

// Orchestrator composes admission control, the response cache, the
// provider fallback chain and quality validation. Safe for concurrent
// use by many callers.
type Orchestrator struct {
	limiter   ratelimit.Limiter
	cache     cache.Store
	validator *quality.Validator
	collector *metrics.Collector
	attempts  []Attempt
}

// New creates an Orchestrator. limiter and cache may be nil, in which
// case the corresponding step is skipped.
func New(limiter ratelimit.Limiter, store cache.Store, validator *quality.Validator, collector *metrics.Collector, attempts []Attempt) *Orchestrator {
	return &Orchestrator{
		limiter:   limiter,
		cache:     store,
		validator: validator,
		collector: collector,
		attempts:  attempts,
	}
}

// Result is the terminal outcome of a single request.
type Result struct {
	Response    *model.AnalysisResponse
	CacheHit    bool
	RateLimited bool
	Decision    ratelimit.Decision
	// Exhausted is set when every provider failed and Response is the
	// canned fallback.
	Exhausted bool
}

// attemptOutcome tags the classification of one provider attempt so
// the fallback loop is a plain switch rather than nested error checks.
type attemptOutcome int

const (
	attemptAccepted attemptOutcome = iota
	attemptTimeout
	attemptUpstreamError
	attemptEmpty
	attemptRejected
)

// Analyze runs the full request pipeline. The returned error is
// non-nil only for caller cancellation; every upstream failure mode is
// absorbed into the fallback chain and the terminal Result.
func (o *Orchestrator) Analyze(ctx context.Context, req *model.AnalysisRequest) (*Result, error) {
	if o.limiter != nil {
		decision, err := o.limiter.Allow(ctx, req.CallerID)
		if err != nil {
			log.Printf("warn: rate limiter backend error: %v", err)
		}
		if !decision.Allowed {
			return &Result{RateLimited: true, Decision: decision}, nil
		}
	}

	key := cache.Key(req.Text)
	if o.cache != nil {
		if data, ok := o.cache.Get(ctx, key); ok {
			var cached model.AnalysisResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				return &Result{Response: &cached, CacheHit: true}, nil
			}
			// Unreadable entry: drop it and treat as a miss.
			_ = o.cache.Delete(ctx, key)
		}
	}

	for _, at := range o.attempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		outcome, resp := o.tryProvider(ctx, at, req)
		elapsed := time.Since(start)

		switch outcome {
		case attemptAccepted:
			o.record(at, metrics.OutcomeSuccess, elapsed)
			o.store(ctx, key, resp)
			return &Result{Response: resp}, nil
		case attemptTimeout:
			o.record(at, metrics.OutcomeTimeout, elapsed)
		case attemptRejected:
			o.record(at, metrics.OutcomeRejected, elapsed)
		default:
			o.record(at, metrics.OutcomeError, elapsed)
		}

		// Caller disconnected mid-attempt: stop the chain instead of
		// charging the remaining providers with doomed attempts.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return &Result{Response: FallbackResponse(), Exhausted: true}, nil
}

// tryProvider runs one provider under its per-attempt timeout and
// classifies the outcome. An accepted response may be the repaired
// variant rather than the provider's original.
func (o *Orchestrator) tryProvider(ctx context.Context, at Attempt, req *model.AnalysisRequest) (attemptOutcome, *model.AnalysisResponse) {
	attemptCtx := ctx
	if at.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, at.Timeout)
		defer cancel()
	}

	resp, err := at.Provider.Analyze(attemptCtx, req)
	if err != nil {
		if errors.Is(err, model.ErrTimeout) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			log.Printf("provider %s: timeout: %v", at.Provider.Name(), err)
			return attemptTimeout, nil
		}
		log.Printf("provider %s: upstream error: %v", at.Provider.Name(), err)
		return attemptUpstreamError, nil
	}

	if resp.Summary == "" && len(resp.ImpactPoints) == 0 {
		log.Printf("provider %s: empty response", at.Provider.Name())
		return attemptEmpty, nil
	}

	score := o.validator.Validate(resp)
	if score.Valid {
		return attemptAccepted, resp
	}

	if fixed := o.validator.Fix(resp); fixed != nil {
		if rescore := o.validator.Validate(fixed); rescore.Valid {
			log.Printf("provider %s: accepted after repair (score %.0f -> %.0f)",
				at.Provider.Name(), score.Score, rescore.Score)
			return attemptAccepted, fixed
		}
	}

	log.Printf("provider %s: rejected (score %.0f, issues %v)",
		at.Provider.Name(), score.Score, score.Issues)
	return attemptRejected, nil
}

func (o *Orchestrator) record(at Attempt, outcome metrics.Outcome, elapsed time.Duration) {
	if o.collector != nil {
		o.collector.Record(at.Provider.Name(), outcome, elapsed)
	}
}

func (o *Orchestrator) store(ctx context.Context, key string, resp *model.AnalysisResponse) {
	if o.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := o.cache.Set(ctx, key, data); err != nil {
		log.Printf("warn: cache store failed: %v", err)
	}
}

// FallbackResponse is the deterministic canned result returned when
// every provider is exhausted. Callers always receive a usable
// response, never nil.
func FallbackResponse() *model.AnalysisResponse {
	return &model.AnalysisResponse{
		ID:      "insight-fallback",
		Summary: "Analysis is temporarily unavailable; no provider produced an acceptable result.",
		ImpactPoints: []string{
			"Upstream analysis services did not return a usable answer.",
			"Retry the request in a few moments.",
		},
		Sentiment:  model.SentimentNeutral,
		Confidence: 0,
		Provider:   "fallback",
	}
}
