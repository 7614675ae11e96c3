package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Cache TTLs per aggregate family.
const (
	StatsTTL      = 5 * time.Minute
	ShockTypesTTL = 30 * time.Minute
	AlertsTTL     = 3 * time.Minute
	TemplatesTTL  = 30 * time.Minute
)

// Key prefixes per aggregate family.
const (
	StatsPrefix        = "alerts:stats"
	ShockTypesPrefix   = "alerts:shock_types"
	AlertsPrefix       = "alerts:list"
	AlertDetailPrefix  = "alerts:list:detail"
	UserAlertsPrefix   = "alerts:user"
	PublicAlertsPrefix = "alerts:public"
	TemplatesPrefix    = "alerts:templates"
)

type kv struct {
	K string `json:"k"`
	V any    `json:"v"`
}

type keyData struct {
	Args   []any `json:"args"`
	Kwargs []kv  `json:"kwargs"`
}

// Key derives a deterministic cache key from a prefix plus positional and
// keyword arguments. Keyword ordering does not affect the result; any change
// to a value does.
func Key(prefix string, args []any, kwargs map[string]any) string {
	pairs := make([]kv, 0, len(kwargs))
	for k, v := range kwargs {
		pairs = append(pairs, kv{K: k, V: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].K < pairs[j].K })

	payload, err := json.Marshal(keyData{Args: args, Kwargs: pairs})
	if err != nil {
		// Unmarshalable arguments degrade to a non-colliding literal key.
		payload = []byte(fmt.Sprintf("%s|%v|%v", prefix, args, kwargs))
	}
	sum := md5.Sum(payload)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// StatsKey keys the aggregate stats family. Anonymous and per-user stats
// never collide because the user id participates in the hash.
func StatsKey(userID *snowflake.ID) string {
	return Key(StatsPrefix, nil, map[string]any{"user_id": idOrNil(userID)})
}

func ShockTypesKey(includeStats bool) string {
	return Key(ShockTypesPrefix, nil, map[string]any{"include_stats": includeStats})
}

// AlertsKey keys alert list results. User-scoped keys carry the user id as a
// literal segment so per-user invalidation can match on it.
func AlertsKey(userID *snowflake.ID, filters map[string]any) string {
	if userID != nil {
		return Key(fmt.Sprintf("%s:%s", UserAlertsPrefix, userID.String()), nil, filters)
	}
	return Key(PublicAlertsPrefix, nil, filters)
}

func AlertDetailKey(alertID snowflake.ID, userID *snowflake.ID) string {
	return Key(AlertDetailPrefix, nil, map[string]any{
		"alert_id": alertID.String(),
		"user_id":  idOrNil(userID),
	})
}

func TemplateKey(name string) string {
	return Key(TemplatesPrefix, []any{name}, nil)
}

func idOrNil(id *snowflake.ID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
