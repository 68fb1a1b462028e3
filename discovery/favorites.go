package discovery

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FavoritesKey is the redis list holding this week's curated store ids,
// best first. A separate curation job owns writes; this backend only reads.
const FavoritesKey = "discovery:favorites:weekly"

// RedisFavorites reads the weekly curation from redis.
type RedisFavorites struct {
	client *redis.Client
}

func NewRedisFavorites(client *redis.Client) *RedisFavorites {
	return &RedisFavorites{client: client}
}

// TopStoreIDs returns the curated ids in list order. Entries that do not
// parse as uuids are skipped; a missing key is an empty curation, not an
// error.
func (r *RedisFavorites) TopStoreIDs(ctx context.Context) ([]uuid.UUID, error) {
	values, err := r.client.LRange(ctx, FavoritesKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
