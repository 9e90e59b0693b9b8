package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeserve-ai/supportbot/internal/cache"
	"github.com/homeserve-ai/supportbot/internal/observability"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	store := cache.NewMemoryStore()
	return NewClassifier(DefaultRuleSet(), cache.NewIntentCache(store), observability.Nop(), 0.6)
}

func TestClassifyServiceQueries(t *testing.T) {
	tests := []struct {
		query    string
		expected Intent
	}{
		{"giá dọn nhà 60m²", IntentCleaning},
		{"tổng vệ sinh nhà bao nhiêu tiền", IntentCleaning},
		{"dịch vụ nấu ăn cho 4 người 3 món", IntentCooking},
		{"giá dịch vụ nấu ăn", IntentCooking},
		{"sửa điều hòa split 2 hp giá bao nhiêu", IntentRepair},
		{"AC repair price", IntentRepair},
		{"sửa tivi bao nhiêu tiền", IntentRepair},
		{"chính sách hủy đơn như thế nào", IntentPolicy},
		{"hoàn tiền như thế nào", IntentPolicy},
		{"tôi quên mật khẩu đăng nhập", IntentAccount},
		{"how to book an appointment", IntentAppRelated},
		{"thời tiết hôm nay thế nào", IntentGeneral},
		{"gợi ý phim hay cuối tuần này", IntentGeneral},
	}

	c := newTestClassifier(t)
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(ctx, tt.query))
		})
	}
}

func TestEvaluateTieBreaksToAppRelated(t *testing.T) {
	c := newTestClassifier(t)

	// Zero matches on both sides is a tie.
	res := c.Evaluate("xin chào")
	assert.Equal(t, IntentAppRelated, res.Intent)
	assert.InDelta(t, 0.6, res.Confidence, 1e-9)
	assert.Empty(t, res.Matched)
}

func TestEvaluateConfidenceScaling(t *testing.T) {
	c := newTestClassifier(t)

	res := c.Evaluate("giá dọn nhà")
	require.Equal(t, IntentAppRelated, res.Intent)
	assert.Greater(t, res.Confidence, 0.0)
	assert.LessOrEqual(t, res.Confidence, 1.0)
	assert.NotEmpty(t, res.Matched)
}

func TestClassifyUsesCache(t *testing.T) {
	c := newTestClassifier(t)
	ctx := context.Background()

	first := c.Classify(ctx, "giá dọn nhà 60m²")
	evals := c.Metrics().Evaluations.Load()

	// A formatting variant of the same query hits the cached entry.
	second := c.Classify(ctx, "  Giá dọn nhà 60m²???  ")
	assert.Equal(t, first, second)
	assert.Equal(t, evals, c.Metrics().Evaluations.Load())
	assert.Equal(t, int64(1), c.Metrics().CacheHits.Load())
}

func TestClassifyDeterministic(t *testing.T) {
	ctx := context.Background()
	query := "sửa điều hòa portable"

	for i := 0; i < 3; i++ {
		c := NewClassifier(DefaultRuleSet(), nil, observability.Nop(), 0.6)
		assert.Equal(t, IntentRepair, c.Classify(ctx, query))
	}
}

func TestPatternVietnameseBoundaries(t *testing.T) {
	p := single(`dọn nhà|điều hòa`)

	assert.True(t, p.Matches("giá dọn nhà 60m²"))
	assert.True(t, p.Matches("điều hòa hỏng"))
	assert.False(t, p.Matches("dọn nhàn"), "partial word must not match")
}

func TestPatternOrderedCoOccurrence(t *testing.T) {
	p := ordered(`điều hòa`, `giá|sửa`)

	assert.True(t, p.Matches("điều hòa này sửa hết bao nhiêu"))
	assert.False(t, p.Matches("sửa cái điều hòa"), "terms in reverse order must not match")
	assert.False(t, p.Matches("giá bao nhiêu"), "first term required")
}
