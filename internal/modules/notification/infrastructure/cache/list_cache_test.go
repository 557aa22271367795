package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedisListCache_SkipsWhenDisconnected(t *testing.T) {
	c := NewRedisListCache(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "u1", []byte(`[]`))
	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
	c.Invalidate(ctx, "u1")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "notifications_list:u1", Key("u1"))
}
