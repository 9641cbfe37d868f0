package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "revoked:"

// RedisBlacklistStore keeps revoked tokens in Redis so revocation survives
// restarts and is shared between instances. Entries expire with the token.
type RedisBlacklistStore struct {
	Client *redis.Client
}

// NewRedisBlacklistStore constructs a store backed by the given Redis address.
func NewRedisBlacklistStore(addr, password string, db int) *RedisBlacklistStore {
	return &RedisBlacklistStore{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// IsBlacklisted checks if the given token is blacklisted.
func (s *RedisBlacklistStore) IsBlacklisted(token string) (bool, error) {
	n, err := s.Client.Exists(context.Background(), blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddToBlacklist adds the given token to the blacklist with an expiration time.
func (s *RedisBlacklistStore) AddToBlacklist(token string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		// Already expired, nothing to revoke.
		return nil
	}
	return s.Client.Set(context.Background(), blacklistKeyPrefix+token, "1", ttl).Err()
}
