package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RevokedTokenKey returns the cache key marking a JWT (by its JTI) as logged out
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// EventsChannel returns the Redis PubSub channel carrying ticket lifecycle events
func (r *CacheKeyStruct) EventsChannel() string {
	return "helpdesk:events"
}

var CacheKey = NewCacheKeyStruct()
