package layout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkstone-labs/storygraph/internal/model"
)

// Cache memoizes computed layouts in redis, keyed by a content hash of
// the graph plus the strategy name. Layout is the most expensive step of
// a reload and the same graph recurs whenever a reload brings back
// unchanged data. Cache errors are swallowed; a cache miss just recomputes.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(addr string, ttl time.Duration) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// CacheKey hashes the layout inputs. Node order matters: the strategies
// are only deterministic for identical input ordering, so two orderings
// are two cache entries.
func CacheKey(strategy string, nodes []model.GraphNode, edges []model.GraphEdge) string {
	type keyNode struct {
		ID     string `json:"id"`
		Degree int    `json:"degree"`
	}
	type keyEdge struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}

	kn := make([]keyNode, len(nodes))
	for i, n := range nodes {
		kn[i] = keyNode{ID: n.ID, Degree: n.Degree}
	}
	ke := make([]keyEdge, len(edges))
	for i, e := range edges {
		ke[i] = keyEdge{Source: e.Source, Target: e.Target}
	}

	data, _ := json.Marshal(struct {
		Strategy string    `json:"strategy"`
		Nodes    []keyNode `json:"nodes"`
		Edges    []keyEdge `json:"edges"`
	}{strategy, kn, ke})

	sum := sha256.Sum256(data)
	return "layout:" + hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, key string) (map[string]model.Position, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var positions map[string]model.Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, false
	}
	return positions, true
}

func (c *Cache) Set(ctx context.Context, key string, positions map[string]model.Position) {
	if c == nil {
		return
	}
	data, err := json.Marshal(positions)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, data, c.ttl)
}
