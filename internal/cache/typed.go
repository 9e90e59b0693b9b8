package cache

import "context"

// IntentCache memoizes query-fingerprint to intent-label mappings.
type IntentCache struct {
	store Store
}

// NewIntentCache creates an intent cache over the given store.
func NewIntentCache(store Store) *IntentCache {
	return &IntentCache{store: store}
}

// Get returns the cached intent label for a fingerprint.
func (c *IntentCache) Get(ctx context.Context, fingerprint string) (string, bool) {
	val, err := c.store.Get(ctx, "intent:"+fingerprint)
	if err != nil {
		return "", false
	}
	return string(val), true
}

// Set stores the intent label for a fingerprint.
func (c *IntentCache) Set(ctx context.Context, fingerprint, label string) {
	// Best effort: a failed cache write only costs a recomputation.
	_ = c.store.Set(ctx, "intent:"+fingerprint, []byte(label))
}

// Clear removes all entries from the underlying store.
func (c *IntentCache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// ReplyCache memoizes query-fingerprint to final reply-text mappings.
type ReplyCache struct {
	store Store
}

// NewReplyCache creates a reply cache over the given store.
func NewReplyCache(store Store) *ReplyCache {
	return &ReplyCache{store: store}
}

// Get returns the cached reply for a fingerprint.
func (c *ReplyCache) Get(ctx context.Context, fingerprint string) (string, bool) {
	val, err := c.store.Get(ctx, "reply:"+fingerprint)
	if err != nil {
		return "", false
	}
	return string(val), true
}

// Set stores the reply for a fingerprint.
func (c *ReplyCache) Set(ctx context.Context, fingerprint, reply string) {
	_ = c.store.Set(ctx, "reply:"+fingerprint, []byte(reply))
}

// Clear removes all entries from the underlying store.
func (c *ReplyCache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}
