package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"boostwatch/pkg/odds"
)

// Identity is the triple used to decide duplicate vs. new boost. A nil odds
// field means that side was not detected; nil equals nil for comparison.
type Identity struct {
	Percentage float64     `json:"percentage"`
	WasOdds    *odds.Value `json:"was_odds,omitempty"`
	NowOdds    *odds.Value `json:"now_odds,omitempty"`
}

// Equal is exact value equality across all three fields. Any single-field
// change is a new boost: two different lines can boost by the same
// percentage, so percentage-only comparison is not enough.
func (id Identity) Equal(other Identity) bool {
	return id.Percentage == other.Percentage &&
		oddsEqual(id.WasOdds, other.WasOdds) &&
		oddsEqual(id.NowOdds, other.NowOdds)
}

func oddsEqual(a, b *odds.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Observation is one successful capture-and-parse cycle, immutable once
// created. Raw text and file paths ride along as alert artifacts.
type Observation struct {
	Percentage float64
	WasOdds    *odds.Value
	NowOdds    *odds.Value
	ObservedAt time.Time

	RawBoostText string
	RawOddsText  string
	FramePath    string
	Calc         *odds.Calculation
}

func (o Observation) identity() Identity {
	return Identity{Percentage: o.Percentage, WasOdds: o.WasOdds, NowOdds: o.NowOdds}
}

// IdentityStore persists the current boost identity so a restart does not
// re-alert the boost already on screen.
type IdentityStore interface {
	Load(ctx context.Context) (*Identity, error)
	Save(ctx context.Context, id Identity) error
}

// MemoryStore is the fallback when no Redis is configured.
type MemoryStore struct {
	id *Identity
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(ctx context.Context) (*Identity, error) {
	return m.id, nil
}

func (m *MemoryStore) Save(ctx context.Context, id Identity) error {
	m.id = &id
	return nil
}

const redisIdentityTTL = 24 * time.Hour

// RedisStore keeps the identity under a single key with a TTL; a boost older
// than a day is stale enough to re-alert after a restart anyway.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "boostwatch:identity"
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (*Identity, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *RedisStore) Save(ctx context.Context, id Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key, raw, redisIdentityTTL).Err()
}
