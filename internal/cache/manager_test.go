package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, assert.AnError
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error { return assert.AnError }
func (failingStore) Delete(context.Context, ...string) error                  { return assert.AnError }
func (failingStore) Clear(context.Context) error                              { return assert.AnError }

func TestManagerRoundTrip(t *testing.T) {
	m := NewManager(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	m.Set(ctx, "k", map[string]int{"total": 7}, time.Minute)

	var out map[string]int
	assert.True(t, m.Get(ctx, "k", &out))
	assert.Equal(t, 7, out["total"])
}

func TestManagerSwallowsStoreErrors(t *testing.T) {
	m := NewManager(failingStore{}, zap.NewNop())
	ctx := context.Background()

	m.Set(ctx, "k", 1, time.Minute)
	var out int
	assert.False(t, m.Get(ctx, "k", &out))
	m.Delete(ctx, "k")
	m.InvalidateAlerts(ctx)
}

func TestManagerInvalidateAlertsWithoutPatternSupport(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, zap.NewNop())
	ctx := context.Background()

	m.Set(ctx, AlertsKey(nil, map[string]any{"page": 1}), "a", time.Minute)
	m.Set(ctx, ShockTypesKey(false), "b", time.Minute)

	// The memory store cannot delete by prefix, so scoped invalidation
	// flushes everything.
	m.InvalidateAlerts(ctx)
	assert.Equal(t, 0, store.Len())
}
