package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()

	for _, c := range []*Cache{nil, New(nil, time.Minute)} {
		var dest map[string]int
		hit, err := c.Get(ctx, 1, "performance", &dest)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Nil(t, dest)

		assert.NoError(t, c.Set(ctx, 1, "performance", map[string]int{"a": 1}))
		assert.NoError(t, c.InvalidateUser(ctx, 1))
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "studydesk:dashboard:42:performance", userKey(42, "performance"))
	assert.Equal(t, "studydesk:dashboard:42:keys", userSet(42))
}
