package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"devlink/internal/observability"
)

const (
	ProfileKeyPrefix = "profile:user:%d"
	PostKeyPrefix    = "post:%d"
	PostsListKey     = "posts:list"
	ProfilesListKey  = "profiles:list"
	JTIBlacklistFmt  = "jwt:blacklist:%s"
)

const (
	ProfileTTL = 10 * time.Minute
	PostTTL    = 5 * time.Minute
	ListTTL    = 1 * time.Minute
)

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func JTIBlacklistKey(jti string) string {
	return fmt.Sprintf(JTIBlacklistFmt, jti)
}

// Aside implements the cache-aside pattern: look the key up in Redis and
// unmarshal into dest on a hit; on a miss call fetch (which must populate
// dest), then write dest back to the cache. A nil Redis client or any cache
// error degrades to calling fetch directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	_, span := observability.TraceRedisOperation(ctx, "get")
	raw, err := client.Get(ctx, key).Result()
	span.End()
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), dest); jsonErr == nil {
			return nil
		}
		// Unparseable entry, drop it and fall through to fetch.
		client.Del(ctx, key)
	}

	if err := fetch(); err != nil {
		return err
	}

	if data, jsonErr := json.Marshal(dest); jsonErr == nil {
		client.Set(ctx, key, data, ttl)
	}
	return nil
}

// Invalidate removes a single key from the cache.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateProfile removes a user's cached profile and the profiles list.
func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
	Invalidate(ctx, ProfilesListKey)
}

// InvalidatePost removes a cached post and the posts list.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostsListKey)
}

// InvalidatePostsList removes the cached posts listing.
func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}

// BlacklistJTI marks a token ID as revoked until its natural expiry.
func BlacklistJTI(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return client.Set(ctx, JTIBlacklistKey(jti), "revoked", ttl).Err()
}

// IsJTIBlacklisted reports whether a token ID has been revoked. Degrades
// open (returns false) when Redis is unavailable.
func IsJTIBlacklisted(ctx context.Context, jti string) bool {
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, JTIBlacklistKey(jti)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
