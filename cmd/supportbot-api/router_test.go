package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeserve-ai/supportbot/internal/cache"
	"github.com/homeserve-ai/supportbot/internal/classify"
	"github.com/homeserve-ai/supportbot/internal/config"
	"github.com/homeserve-ai/supportbot/internal/dispatch"
	"github.com/homeserve-ai/supportbot/internal/langdetect"
	"github.com/homeserve-ai/supportbot/internal/llm"
	"github.com/homeserve-ai/supportbot/internal/observability"
	"github.com/homeserve-ai/supportbot/internal/searching"
)

type viDetector struct{}

func (viDetector) Detect(string) (string, error) { return "vi", nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.DefaultConfig()
	store := cache.NewMemoryStore()
	intents := cache.NewIntentCache(store)
	dispatcher := dispatch.New(dispatch.Options{
		Classifier: classify.NewClassifier(classify.DefaultRuleSet(), intents, observability.Nop(), cfg.Classifier.TieBreakConfidence),
		Intents:    intents,
		Replies:    cache.NewReplyCache(store),
		Searcher:   &searching.StaticSearcher{},
		Generator:  &llm.MockGenerator{Response: "ok"},
		Language:   langdetect.NewPolicy(viDetector{}, cfg.Languages.FillerWords),
		Logger:     observability.Nop(),
		Config:     cfg.Dispatcher,
		TopK:       cfg.Retrieval.TopK,
	})
	return newRouter(dispatcher, observability.Nop())
}

func TestChatEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"message":"giá dọn nhà 60m²"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Contains(t, resp.Reply, "Dọn dẹp nhà: ")
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"   "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpointRejectsBadJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthzEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheClearEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/cache/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
