package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateCacheKey(t *testing.T) {
	cache := NewStateCache(New("localhost:6379", "", ""), "boreas")
	assert.Equal(t, "boreas:ventilation:ventilation", cache.key("ventilation"))
	assert.Equal(t, "site2:ventilation:extract", NewStateCache(nil, "site2").key("extract"))
}

func TestPingUnreachable(t *testing.T) {
	client := New("127.0.0.1:1", "", "")
	defer client.Close()

	err := Ping(context.Background(), client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
