package timeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSubscribeWithoutRelays(t *testing.T) {
	pool := NewPool(context.Background())
	defer pool.Close()

	kind := KindForHashtags([]string{"general"})
	require.NoError(t, pool.Subscribe(kind), "no connected relays is not an error for a live feed")
	assert.NoError(t, pool.Unsubscribe(kind))
	assert.Empty(t, pool.Relays())
}

func TestPoolCloseIsIdempotentEnough(t *testing.T) {
	pool := NewPool(context.Background())
	pool.SetRelays(nil)
	pool.Close()
	assert.Empty(t, pool.Relays())
}
