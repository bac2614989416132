package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type payload struct {
	IDs []string `json:"ids"`
}

func TestJSONRoundTripWithTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewJSON(client, "session:", time.Minute)
	ctx := context.Background()

	var out payload
	found, err := c.GetJSON(ctx, "a", &out)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, c.SetJSON(ctx, "a", payload{IDs: []string{"sewing"}}))
	require.True(t, mr.Exists("session:a"))
	require.Equal(t, time.Minute, mr.TTL("session:a"))

	found, err = c.GetJSON(ctx, "a", &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"sewing"}, out.IDs)

	mr.FastForward(2 * time.Minute)
	found, err = c.GetJSON(ctx, "a", &out)
	require.NoError(t, err)
	require.False(t, found)
}

func TestJSONDelete(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewJSON(client, "k:", 0)
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, "x", payload{}))
	deleted, err := c.Delete(ctx, "x")
	require.NoError(t, err)
	require.True(t, deleted)
	deleted, err = c.Delete(ctx, "x")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestJSONNilClientIsNoop(t *testing.T) {
	var c *JSON
	found, err := c.GetJSON(context.Background(), "a", &payload{})
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, c.SetJSON(context.Background(), "a", payload{}))
}
