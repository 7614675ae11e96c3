package cache

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyKwargOrderIndependent(t *testing.T) {
	a := Key("alerts:list", nil, map[string]any{"severity": 3, "shock_type": "flood"})
	b := Key("alerts:list", nil, map[string]any{"shock_type": "flood", "severity": 3})
	assert.Equal(t, a, b)
}

func TestKeyValueSensitive(t *testing.T) {
	a := Key("alerts:list", nil, map[string]any{"severity": 3})
	b := Key("alerts:list", nil, map[string]any{"severity": 4})
	assert.NotEqual(t, a, b)
}

func TestKeyArgsSensitive(t *testing.T) {
	a := Key("alerts:templates", []any{"daily_digest"}, nil)
	b := Key("alerts:templates", []any{"weekly_digest"}, nil)
	assert.NotEqual(t, a, b)
}

func TestStatsKeyAnonymousVsUser(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	id := node.Generate()

	assert.NotEqual(t, StatsKey(nil), StatsKey(&id))
}

func TestAlertsKeyUserScopedPrefix(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	id := node.Generate()

	key := AlertsKey(&id, map[string]any{"page": 1})
	assert.Contains(t, key, id.String())

	anon := AlertsKey(nil, map[string]any{"page": 1})
	assert.NotEqual(t, key, anon)
}
