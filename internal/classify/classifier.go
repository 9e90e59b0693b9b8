package classify

import (
	"context"
	"sync/atomic"

	"github.com/homeserve-ai/supportbot/internal/cache"
	"github.com/homeserve-ai/supportbot/internal/observability"
)

// Result carries the outcome of a single rule evaluation.
type Result struct {
	Intent     Intent
	Confidence float64
	Matched    []string
}

// Metrics tracks classifier activity. Counters are atomic so concurrent
// classification goroutines can update them without coordination.
type Metrics struct {
	Evaluations atomic.Int64
	CacheHits   atomic.Int64
}

// Classifier assigns an intent label to a user query by counting rule
// matches per topic family. Results are memoized in an intent cache keyed
// by the query fingerprint.
type Classifier struct {
	rules    *RuleSet
	cache    *cache.IntentCache
	logger   *observability.Logger
	tieBreak float64
	metrics  Metrics
}

// NewClassifier constructs a classifier. The cache may be nil, in which
// case every call evaluates the rules. tieBreak is the confidence assigned
// when the two families score equally.
func NewClassifier(rules *RuleSet, intentCache *cache.IntentCache, logger *observability.Logger, tieBreak float64) *Classifier {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	if logger == nil {
		logger = observability.Nop()
	}
	if tieBreak <= 0 {
		tieBreak = 0.6
	}
	return &Classifier{
		rules:    rules,
		cache:    intentCache,
		logger:   logger,
		tieBreak: tieBreak,
	}
}

// Metrics exposes the classifier counters.
func (c *Classifier) Metrics() *Metrics { return &c.metrics }

// Classify returns the intent for a query, consulting the intent cache
// before evaluating the rules. Cached entries are keyed by the fingerprint
// of the normalized query, so formatting variants share one entry.
func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	fp := Fingerprint(query)

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, fp); ok {
			c.metrics.CacheHits.Add(1)
			c.logger.Debug().
				Str("fingerprint", fp).
				Str("intent", cached).
				Msg("Intent cache hit")
			return Intent(cached)
		}
	}

	res := c.Evaluate(query)
	intent := res.Intent
	if intent == IntentAppRelated {
		intent = c.rules.Refine(Normalize(query), intent)
	}

	if c.cache != nil {
		c.cache.Set(ctx, fp, string(intent))
	}

	c.logger.Info().
		Str("intent", string(intent)).
		Float64("confidence", res.Confidence).
		Strs("matched", res.Matched).
		Msg("Query classified")
	return intent
}

// Evaluate scores the normalized query against both pattern families and
// returns the winning coarse intent. Ties go to app_related at the
// configured tie-break confidence so borderline queries stay in-domain.
func (c *Classifier) Evaluate(query string) Result {
	c.metrics.Evaluations.Add(1)
	normalized := Normalize(query)

	var appScore, generalScore int
	var matched []string
	for _, p := range c.rules.appRelated {
		if p.Matches(normalized) {
			appScore++
			matched = append(matched, p.ID())
		}
	}
	for _, p := range c.rules.general {
		if p.Matches(normalized) {
			generalScore++
			matched = append(matched, p.ID())
		}
	}

	switch {
	case appScore > generalScore:
		return Result{
			Intent:     IntentAppRelated,
			Confidence: confidence(appScore, len(c.rules.appRelated)),
			Matched:    matched,
		}
	case generalScore > appScore:
		return Result{
			Intent:     IntentGeneral,
			Confidence: confidence(generalScore, len(c.rules.general)),
			Matched:    matched,
		}
	default:
		return Result{Intent: IntentAppRelated, Confidence: c.tieBreak, Matched: matched}
	}
}

// confidence scales a match count against a tenth of the family size,
// capped at 1.0, so a handful of matches saturates confidence even in a
// large family.
func confidence(score, familySize int) float64 {
	denom := float64(familySize) * 0.1
	if denom < 1 {
		denom = 1
	}
	conf := float64(score) / denom
	if conf > 1 {
		conf = 1
	}
	return conf
}
