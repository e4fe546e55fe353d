package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding a live JWT session, keyed by its JTI.
func (r *CacheKeyStruct) UserSessionKey(userID int, jti string) string {
	return fmt.Sprintf("user:%d:session:%s", userID, jti)
}

// ExamResultsChannel returns the Redis PubSub channel for an exam's finalized results.
func (r *CacheKeyStruct) ExamResultsChannel(examID int) string {
	return fmt.Sprintf("exam:%d:results", examID)
}

var CacheKey = NewCacheKeyStruct()
