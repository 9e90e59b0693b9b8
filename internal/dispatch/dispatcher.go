// Package dispatch routes user queries to the right answer path: fixed
// service quotes, knowledge-base retrieval, or general LLM answers, with a
// reply cache in front of all of them.
package dispatch

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/homeserve-ai/supportbot/internal/cache"
	"github.com/homeserve-ai/supportbot/internal/classify"
	"github.com/homeserve-ai/supportbot/internal/config"
	"github.com/homeserve-ai/supportbot/internal/contentfilter"
	"github.com/homeserve-ai/supportbot/internal/langdetect"
	"github.com/homeserve-ai/supportbot/internal/llm"
	"github.com/homeserve-ai/supportbot/internal/observability"
	"github.com/homeserve-ai/supportbot/internal/pricing"
	"github.com/homeserve-ai/supportbot/internal/searching"
)

var (
	cleaningKeywordRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])(?:clean|cleaning|dọn dẹp|dọn nhà|vệ sinh)(?:$|[^\p{L}\p{N}_])`)

	// Preamble patterns the LLM sometimes emits despite instructions.
	preambleRe     = regexp.MustCompile(`(?i)^here is .*?:\s*`)
	echoQuestionRe = regexp.MustCompile(`(?i)(câu hỏi|question).*?\n`)
	answerLabelRe  = regexp.MustCompile(`(?i)^(trả lời|answer):\s*`)
)

// Dispatcher is the query processing pipeline. It is safe for concurrent
// use; all mutable state lives in the caches.
type Dispatcher struct {
	classifier *classify.Classifier
	intents    *cache.IntentCache
	replies    *cache.ReplyCache
	searcher   searching.Searcher
	generator  llm.Generator
	language   *langdetect.Policy
	logger     *observability.Logger
	cfg        config.DispatcherConfig
	topK       int
}

// Options collects the dispatcher's collaborators.
type Options struct {
	Classifier *classify.Classifier
	Intents    *cache.IntentCache
	Replies    *cache.ReplyCache
	Searcher   searching.Searcher
	Generator  llm.Generator
	Language   *langdetect.Policy
	Logger     *observability.Logger
	Config     config.DispatcherConfig
	TopK       int
}

// New constructs a Dispatcher.
func New(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = observability.Nop()
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Dispatcher{
		classifier: opts.Classifier,
		intents:    opts.Intents,
		replies:    opts.Replies,
		searcher:   opts.Searcher,
		generator:  opts.Generator,
		language:   opts.Language,
		logger:     logger.WithComponent("dispatch"),
		cfg:        opts.Config,
		topK:       topK,
	}
}

// ProcessQuery answers a user query. Every query gets a reply; internal
// failures surface as a generic error message rather than an error value,
// so the conversation never dead-ends.
func (d *Dispatcher) ProcessQuery(ctx context.Context, query string) string {
	fingerprint := classify.Fingerprint(query)

	if reply, ok := d.replies.Get(ctx, fingerprint); ok {
		d.logger.Debug().Str("fingerprint", fingerprint).Msg("Reply cache hit")
		return reply
	}

	reply, cacheable := d.dispatch(ctx, query)
	if cacheable {
		d.replies.Set(ctx, fingerprint, reply)
	}
	return reply
}

// dispatch runs the pipeline for a cache miss and reports whether the
// reply may be cached. Refusals and the unsupported-language reply are
// never cached so a later rephrasing is evaluated fresh.
func (d *Dispatcher) dispatch(ctx context.Context, query string) (reply string, cacheable bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Msg("Recovered during query dispatch")
			reply, cacheable = replyGenericError, d.cfg.CacheFailures
		}
	}()

	intent := d.classifier.Classify(ctx, query)
	inappropriate, terms := contentfilter.IsInappropriate(query)
	lang := d.language.Resolve(classify.Normalize(query))

	d.logger.Info().
		Str("intent", string(intent)).
		Str("language", lang).
		Bool("inappropriate", inappropriate).
		Msg("Query dispatched")

	if lang == "other" {
		return replyUnsupportedLanguage, false
	}
	if inappropriate || intent == classify.IntentInappropriate {
		d.logger.Warn().Strs("terms", terms).Msg("Query refused by content filter")
		return replyInappropriate, false
	}

	var err error
	switch {
	case intent.IsServiceQuote():
		reply, err = d.handleServiceQuote(ctx, query)
	case intent.IsRetrieval():
		reply, err = d.handleKnowledge(ctx, query)
	default:
		reply, err = d.handleGeneral(ctx, query)
	}
	if err != nil {
		d.logger.Error().Err(err).Str("intent", string(intent)).Str("query", query).Msg("Query handler failed")
		return replyGenericError, d.cfg.CacheFailures
	}
	return reply, true
}

// handleServiceQuote assembles fixed-price quote lines for every service
// the query mentions. Queries classified as a service but carrying none of
// the quote parameters fall through to the knowledge handler.
func (d *Dispatcher) handleServiceQuote(ctx context.Context, query string) (string, error) {
	normalized := classify.Normalize(query)
	params := pricing.ExtractParams(normalized)

	var parts []string

	if params.HasArea && cleaningKeywordRe.MatchString(normalized) {
		parts = append(parts, "Dọn dẹp nhà: "+pricing.CleaningQuote(params.Area))
	}

	if params.HasPeople && params.HasDishes && params.HasHours {
		quote, err := pricing.CookingQuote(params.People, params.Dishes, params.Hours)
		if err != nil {
			parts = append(parts, replyCookingCapacity(d.cfg.Hotline))
		} else {
			parts = append(parts, "Nấu ăn: "+quote)
		}
	}

	if params.HasUnitType && params.HasHP {
		parts = append(parts, "Sửa điều hòa: "+pricing.RepairQuote(params.UnitType, params.HP))
	}

	if len(parts) == 0 {
		return d.handleKnowledge(ctx, query)
	}
	return strings.Join(parts, "\n"), nil
}

// handleKnowledge answers from the knowledge base: retrieve context, then
// generate a grounded answer.
func (d *Dispatcher) handleKnowledge(ctx context.Context, query string) (string, error) {
	normalized := classify.Normalize(query)
	for _, service := range d.cfg.UpgradingServices {
		if strings.Contains(normalized, service) {
			return replyUpgradingService(d.cfg.Hotline), nil
		}
	}

	docs, err := d.searcher.Search(ctx, query, d.topK)
	if err != nil {
		return "", fmt.Errorf("search knowledge base: %w", err)
	}
	if len(docs) == 0 {
		return replyNoInformation(d.cfg.Hotline), nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	context := strings.Join(texts, "\n")

	answer, err := d.generator.Generate(ctx, knowledgePrompt(context, query, d.cfg.Hotline))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return cleanAnswer(answer), nil
}

func (d *Dispatcher) handleGeneral(ctx context.Context, query string) (string, error) {
	answer, err := d.generator.Generate(ctx, generalPrompt(query))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// cleanAnswer strips preambles and question echoes from a generated answer.
func cleanAnswer(answer string) string {
	answer = preambleRe.ReplaceAllString(answer, "")
	answer = echoQuestionRe.ReplaceAllString(answer, "")
	answer = answerLabelRe.ReplaceAllString(answer, "")
	return strings.TrimSpace(answer)
}

// ClearCaches empties both the intent and reply caches.
func (d *Dispatcher) ClearCaches(ctx context.Context) error {
	if err := d.intents.Clear(ctx); err != nil {
		return fmt.Errorf("clear intent cache: %w", err)
	}
	if err := d.replies.Clear(ctx); err != nil {
		return fmt.Errorf("clear reply cache: %w", err)
	}
	d.logger.Info().Msg("Caches cleared")
	return nil
}
