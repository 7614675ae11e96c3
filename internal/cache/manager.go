package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

// Manager wraps a Store with JSON encoding and family-scoped invalidation.
// Every store failure is logged and swallowed: a broken cache degrades to
// misses, it never fails the caller.
type Manager struct {
	store Store
	log   *zap.Logger
}

func NewManager(store Store, log *zap.Logger) *Manager {
	return &Manager{store: store, log: log.Named("cache")}
}

// Get unmarshals the cached value for key into out. Returns false on miss,
// decode failure or store error.
func (m *Manager) Get(ctx context.Context, key string, out any) bool {
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		m.log.Warn("cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (m *Manager) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		m.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := m.store.Set(ctx, key, raw, ttl); err != nil {
		m.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (m *Manager) Delete(ctx context.Context, keys ...string) {
	if err := m.store.Delete(ctx, keys...); err != nil {
		m.log.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// InvalidateAlerts drops every alert-derived family: lists, details, public
// and per-user views, and stats. Called after any alert write.
func (m *Manager) InvalidateAlerts(ctx context.Context) {
	m.deleteByPrefix(ctx, AlertsPrefix, UserAlertsPrefix, PublicAlertsPrefix, StatsPrefix)
}

// InvalidateUser drops the alert views and stats scoped to one user.
func (m *Manager) InvalidateUser(ctx context.Context, userID snowflake.ID) {
	m.Delete(ctx, StatsKey(&userID))
	m.deleteByPrefix(ctx, fmt.Sprintf("%s:%s", UserAlertsPrefix, userID.String()))
}

func (m *Manager) InvalidateShockTypes(ctx context.Context) {
	m.deleteByPrefix(ctx, ShockTypesPrefix)
}

func (m *Manager) InvalidateTemplates(ctx context.Context) {
	m.deleteByPrefix(ctx, TemplatesPrefix)
}

// Clear flushes the whole cache.
func (m *Manager) Clear(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn("cache clear failed", zap.Error(err))
	}
}

func (m *Manager) deleteByPrefix(ctx context.Context, prefixes ...string) {
	pd, ok := m.store.(PatternDeleter)
	if !ok {
		// Scoped invalidation is unavailable, over-invalidate instead.
		m.Clear(ctx)
		return
	}
	for _, prefix := range prefixes {
		if err := pd.DeleteByPrefix(ctx, prefix); err != nil {
			m.log.Warn("cache prefix delete failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}
