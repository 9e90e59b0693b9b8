package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeserve-ai/supportbot/internal/cache"
	"github.com/homeserve-ai/supportbot/internal/classify"
	"github.com/homeserve-ai/supportbot/internal/config"
	"github.com/homeserve-ai/supportbot/internal/langdetect"
	"github.com/homeserve-ai/supportbot/internal/llm"
	"github.com/homeserve-ai/supportbot/internal/observability"
	"github.com/homeserve-ai/supportbot/internal/searching"
)

type fixedLangDetector struct{ lang string }

func (f fixedLangDetector) Detect(string) (string, error) { return f.lang, nil }

type testHarness struct {
	dispatcher *Dispatcher
	store      *cache.MemoryStore
	generator  *llm.MockGenerator
}

func newHarness(t *testing.T, mutate func(*Options)) *testHarness {
	t.Helper()

	store := cache.NewMemoryStore()
	intents := cache.NewIntentCache(store)
	generator := &llm.MockGenerator{Response: "câu trả lời từ mô hình"}
	cfg := config.DefaultConfig()

	opts := Options{
		Classifier: classify.NewClassifier(classify.DefaultRuleSet(), intents, observability.Nop(), cfg.Classifier.TieBreakConfidence),
		Intents:    intents,
		Replies:    cache.NewReplyCache(store),
		Searcher: &searching.StaticSearcher{Documents: []searching.Document{
			{Text: "Chính sách hoàn tiền trong vòng 7 ngày.", Score: 0.9},
		}},
		Generator: generator,
		Language:  langdetect.NewPolicy(fixedLangDetector{lang: "vi"}, cfg.Languages.FillerWords),
		Logger:    observability.Nop(),
		Config:    cfg.Dispatcher,
		TopK:      cfg.Retrieval.TopK,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return &testHarness{
		dispatcher: New(opts),
		store:      store,
		generator:  generator,
	}
}

func TestProcessQueryCleaningQuote(t *testing.T) {
	h := newHarness(t, nil)

	reply := h.dispatcher.ProcessQuery(context.Background(), "giá dọn nhà 60m²")
	assert.Equal(t, "Dọn dẹp nhà: Diện tích dưới ≤ 85 m² được tính với giá 120.000 VNĐ", reply)
	// Quotes are computed locally without touching the LLM.
	assert.Empty(t, h.generator.Prompts)
}

func TestProcessQueryCombinedQuote(t *testing.T) {
	h := newHarness(t, nil)

	reply := h.dispatcher.ProcessQuery(context.Background(),
		"dọn nhà 60m² và nấu ăn cho 4 người 3 món trong 2 giờ giá bao nhiêu")
	assert.Contains(t, reply, "Dọn dẹp nhà: ")
	assert.Contains(t, reply, "Nấu ăn: 145.000 VNĐ (gói 2 giờ cho 4 người) + 20.000 VNĐ phụ thu (3 món) = 165.000 VNĐ")
}

func TestProcessQueryCookingCapacityExceeded(t *testing.T) {
	h := newHarness(t, nil)

	reply := h.dispatcher.ProcessQuery(context.Background(),
		"nấu ăn cho 9 người 3 món trong 2 giờ giá bao nhiêu")
	assert.Contains(t, reply, "tối đa 8 người")
	assert.Contains(t, reply, "0347596789")
}

func TestProcessQueryRepliesFromCache(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	first := h.dispatcher.ProcessQuery(ctx, "chính sách hoàn tiền như thế nào")
	require.NotEmpty(t, h.generator.Prompts)
	callsAfterFirst := len(h.generator.Prompts)

	second := h.dispatcher.ProcessQuery(ctx, "Chính sách hoàn tiền như thế nào???")
	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, len(h.generator.Prompts), "cached reply must not call the LLM again")
}

func TestProcessQueryRefusalNotCached(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	reply := h.dispatcher.ProcessQuery(ctx, "d*m cái app này")
	assert.Equal(t, replyInappropriate, reply)

	// Only the intent entry may be present; no reply was stored.
	before := h.store.Len()
	h.dispatcher.ProcessQuery(ctx, "d*m cái app này")
	assert.Equal(t, before, h.store.Len())
	assert.LessOrEqual(t, h.store.Len(), 1)
}

func TestProcessQueryUnsupportedLanguage(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.Language = langdetect.NewPolicy(fixedLangDetector{lang: "other"}, nil)
	})

	reply := h.dispatcher.ProcessQuery(context.Background(), "je voudrais réserver un service de ménage")
	assert.Equal(t, replyUnsupportedLanguage, reply)
}

func TestProcessQueryUpgradingService(t *testing.T) {
	h := newHarness(t, nil)

	reply := h.dispatcher.ProcessQuery(context.Background(), "giá sửa tivi bao nhiêu")
	assert.Contains(t, reply, "đang được nâng cấp")
	assert.Empty(t, h.generator.Prompts)
}

func TestProcessQueryKnowledgeAnswerCleaned(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.Generator = &llm.MockGenerator{Response: "Answer: Hoàn tiền trong vòng 7 ngày."}
	})

	reply := h.dispatcher.ProcessQuery(context.Background(), "chính sách hoàn tiền như thế nào")
	assert.Equal(t, "Hoàn tiền trong vòng 7 ngày.", reply)
}

func TestProcessQueryEmptyRetrievalFallsBack(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.Searcher = &searching.StaticSearcher{}
	})

	reply := h.dispatcher.ProcessQuery(context.Background(), "chính sách hoàn tiền như thế nào")
	assert.Contains(t, reply, "không tìm thấy thông tin cụ thể")
	assert.Empty(t, h.generator.Prompts)
}

func TestProcessQueryGeneratorFailureCached(t *testing.T) {
	failing := &llm.MockGenerator{Err: errors.New("upstream down")}
	h := newHarness(t, func(o *Options) {
		o.Generator = failing
	})
	ctx := context.Background()

	reply := h.dispatcher.ProcessQuery(ctx, "thời tiết hôm nay thế nào")
	assert.Equal(t, replyGenericError, reply)

	// The default policy caches the error reply, so the retry never reaches
	// the generator.
	calls := len(failing.Prompts)
	assert.Equal(t, replyGenericError, h.dispatcher.ProcessQuery(ctx, "thời tiết hôm nay thế nào"))
	assert.Equal(t, calls, len(failing.Prompts))
}

func TestProcessQueryGeneratorFailureNotCachedWhenDisabled(t *testing.T) {
	failing := &llm.MockGenerator{Err: errors.New("upstream down")}
	h := newHarness(t, func(o *Options) {
		o.Generator = failing
		o.Config.CacheFailures = false
	})
	ctx := context.Background()

	assert.Equal(t, replyGenericError, h.dispatcher.ProcessQuery(ctx, "thời tiết hôm nay thế nào"))
	calls := len(failing.Prompts)
	assert.Equal(t, replyGenericError, h.dispatcher.ProcessQuery(ctx, "thời tiết hôm nay thế nào"))
	assert.Equal(t, calls+1, len(failing.Prompts), "disabled failure caching must retry upstream")
}

func TestClearCachesForcesReevaluation(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.dispatcher.ProcessQuery(ctx, "giá dọn nhà 60m²")
	require.Greater(t, h.store.Len(), 0)

	require.NoError(t, h.dispatcher.ClearCaches(ctx))
	assert.Equal(t, 0, h.store.Len())

	// Same query works again from scratch.
	reply := h.dispatcher.ProcessQuery(ctx, "giá dọn nhà 60m²")
	assert.Contains(t, reply, "Dọn dẹp nhà: ")
}
