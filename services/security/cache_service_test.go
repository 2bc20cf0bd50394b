package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheTokenExpires(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetToken(ctx, "paypal:token:abc", "tok", 20*time.Millisecond))

	token, ok := c.GetToken(ctx, "paypal:token:abc")
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.GetToken(ctx, "paypal:token:abc")
	assert.False(t, ok)
}

func TestCacheInsertAndGet(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)

	c.Insert("k", 42)
	v, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	require.NoError(t, c.Stop())
	_, err = c.Get("k")
	assert.Error(t, err)

	_, ok := c.GetToken(context.Background(), "k")
	assert.False(t, ok)
}
