// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(client), server
}

func TestRedisLimiter_AllowsWithinBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	for attempt := 0; attempt < 5; attempt++ {
		assert.True(t, limiter.Allow(context.Background(), "login:10.0.0.1", 5, time.Minute))
	}
}

func TestRedisLimiter_BlocksWhenExhausted(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	for attempt := 0; attempt < 3; attempt++ {
		require.True(t, limiter.Allow(context.Background(), "login:10.0.0.2", 3, time.Minute))
	}

	assert.False(t, limiter.Allow(context.Background(), "login:10.0.0.2", 3, time.Minute))
}

func TestRedisLimiter_WindowResets(t *testing.T) {
	limiter, server := newTestLimiter(t)

	require.True(t, limiter.Allow(context.Background(), "login:10.0.0.3", 1, time.Minute))
	require.False(t, limiter.Allow(context.Background(), "login:10.0.0.3", 1, time.Minute))

	server.FastForward(61 * time.Second)

	assert.True(t, limiter.Allow(context.Background(), "login:10.0.0.3", 1, time.Minute))
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	require.True(t, limiter.Allow(context.Background(), "login:10.0.0.4", 1, time.Minute))
	require.False(t, limiter.Allow(context.Background(), "login:10.0.0.4", 1, time.Minute))

	assert.True(t, limiter.Allow(context.Background(), "forgot:10.0.0.4", 1, time.Minute))
}

func TestRedisLimiter_NilLimiterAllowsEverything(t *testing.T) {
	var limiter *RedisLimiter

	assert.True(t, limiter.Allow(context.Background(), "login:10.0.0.5", 1, time.Minute))
}

func TestRedisLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	limiter, server := newTestLimiter(t)
	server.Close()

	assert.True(t, limiter.Allow(context.Background(), "login:10.0.0.6", 1, time.Minute))
}

func TestThrottleAuth_Returns429AfterBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	handler := ThrottleAuth(limiter, "login")(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	var lastCode int
	for attempt := 0; attempt < 11; attempt++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/login", nil)
		request.RemoteAddr = "10.0.0.7:54321"
		handler.ServeHTTP(recorder, request)
		lastCode = recorder.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestThrottleAuth_NilLimiterPassesThrough(t *testing.T) {
	handler := ThrottleAuth(nil, "login")(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}
