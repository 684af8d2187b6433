package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pgpathfinder/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "pgpathfinder:"

type CacheService interface {
	// Visible listing set used by browse. Every invalidation bumps the
	// listing generation. A miss returns nil listings and the current
	// generation, which the caller passes back to SetVisibleListings.
	GetVisibleListings(ctx context.Context) ([]*models.Listing, int64, error)
	// SetVisibleListings stores the set only while the generation is still
	// current and reports whether it did.
	SetVisibleListings(ctx context.Context, listings []*models.Listing, generation int64, ttl time.Duration) (bool, error)
	ListingsGeneration(ctx context.Context) (int64, error)
	InvalidateListings(ctx context.Context) error

	// Refresh tokens map to the user that owns them and are single use
	SetRefreshToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	ConsumeRefreshToken(ctx context.Context, token string) (uuid.UUID, bool, error)
	DeleteRefreshToken(ctx context.Context, token string) error

	// Access token denylist keyed by jti
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)

	// Password reset tokens are single use
	SetResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, bool, error)

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisCacheService(addr, password string, db int, log *zap.Logger) CacheService {
	if log == nil {
		log = zap.NewNop()
	}

	// accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn("Redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(pingErr))
	} else {
		log.Info("Redis connection established", zap.String("addr", parsedAddr))
	}

	return &redisCacheService{client: client, log: log}
}

func visibleListingsKey() string {
	return keyPrefix + "listings:visible"
}

func listingsGenerationKey() string {
	return keyPrefix + "listings:generation"
}

func refreshKey(token string) string {
	return fmt.Sprintf("%srefresh:%s", keyPrefix, token)
}

func denylistKey(jti string) string {
	return fmt.Sprintf("%sdenylist:%s", keyPrefix, jti)
}

func resetKey(token string) string {
	return fmt.Sprintf("%sreset:%s", keyPrefix, token)
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("%sratelimit:%s", keyPrefix, key)
}

func (r *redisCacheService) GetVisibleListings(ctx context.Context) ([]*models.Listing, int64, error) {
	vals, err := r.client.MGet(ctx, listingsGenerationKey(), visibleListingsKey()).Result()
	if err != nil {
		return nil, 0, err
	}
	generation, err := parseGeneration(vals[0])
	if err != nil {
		return nil, 0, err
	}

	data, ok := vals[1].(string)
	if !ok {
		return nil, generation, nil // cache miss
	}
	cachedGen, listings, err := decodeListings([]byte(data))
	if err != nil {
		r.log.Warn("discarding unreadable listing cache", zap.Error(err))
		return nil, generation, nil
	}
	if cachedGen != generation {
		return nil, generation, nil
	}
	return listings, generation, nil
}

func (r *redisCacheService) SetVisibleListings(ctx context.Context, listings []*models.Listing, generation int64, ttl time.Duration) (bool, error) {
	data, err := encodeListings(generation, listings)
	if err != nil {
		return false, err
	}

	stored := false
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.generation(ctx, tx.Get(ctx, listingsGenerationKey()))
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, visibleListingsKey(), data, ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, listingsGenerationKey())
	if errors.Is(err, redis.TxFailedErr) {
		// invalidated between the check and the write
		return false, nil
	}
	return stored, err
}

func (r *redisCacheService) ListingsGeneration(ctx context.Context) (int64, error) {
	return r.generation(ctx, r.client.Get(ctx, listingsGenerationKey()))
}

func (r *redisCacheService) generation(_ context.Context, cmd *redis.StringCmd) (int64, error) {
	val, err := cmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return parseGeneration(val)
}

func (r *redisCacheService) InvalidateListings(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, listingsGenerationKey())
		pipe.Del(ctx, visibleListingsKey())
		return nil
	})
	return err
}

func parseGeneration(v interface{}) (int64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("corrupt listing generation: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("unexpected listing generation type %T", v)
}

func (r *redisCacheService) SetRefreshToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return r.client.Set(ctx, refreshKey(token), userID.String(), ttl).Err()
}

// ConsumeRefreshToken reads and deletes the token in one step, so a token
// can be exchanged at most once.
func (r *redisCacheService) ConsumeRefreshToken(ctx context.Context, token string) (uuid.UUID, bool, error) {
	return r.getUserID(ctx, r.client.GetDel(ctx, refreshKey(token)))
}

func (r *redisCacheService) DeleteRefreshToken(ctx context.Context, token string) error {
	return r.client.Del(ctx, refreshKey(token)).Err()
}

func (r *redisCacheService) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return r.client.Set(ctx, denylistKey(jti), "1", ttl).Err()
}

func (r *redisCacheService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, denylistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisCacheService) SetResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return r.client.Set(ctx, resetKey(token), userID.String(), ttl).Err()
}

func (r *redisCacheService) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, bool, error) {
	return r.getUserID(ctx, r.client.GetDel(ctx, resetKey(token)))
}

func (r *redisCacheService) getUserID(_ context.Context, cmd *redis.StringCmd) (uuid.UUID, bool, error) {
	val, err := cmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt cached user id: %w", err)
	}
	return id, true, nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := rateLimitKey(key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first request
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			r.log.Warn("failed to set rate limit expiry", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// The cached set keeps the object keys that the public JSON form omits.
type cachedListing struct {
	*models.Listing
	ImageKeys []string `json:"image_keys,omitempty"`
}

type cachedSet struct {
	Generation int64           `json:"generation"`
	Listings   []cachedListing `json:"listings"`
}

func encodeListings(generation int64, listings []*models.Listing) ([]byte, error) {
	cached := make([]cachedListing, len(listings))
	for i, l := range listings {
		cached[i] = cachedListing{Listing: l}
		for _, img := range l.Images {
			cached[i].ImageKeys = append(cached[i].ImageKeys, img.ObjectKey)
		}
	}
	return json.Marshal(cachedSet{Generation: generation, Listings: cached})
}

func decodeListings(data []byte) (int64, []*models.Listing, error) {
	var set cachedSet
	if err := json.Unmarshal(data, &set); err != nil {
		return 0, nil, err
	}
	listings := make([]*models.Listing, 0, len(set.Listings))
	for _, c := range set.Listings {
		if c.Listing == nil {
			continue
		}
		for i := range c.Listing.Images {
			if i < len(c.ImageKeys) {
				c.Listing.Images[i].ObjectKey = c.ImageKeys[i]
			}
		}
		listings = append(listings, c.Listing)
	}
	return set.Generation, listings, nil
}
