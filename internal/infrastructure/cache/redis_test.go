package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// unreachableStore points at a closed port so every command fails fast.
func unreachableStore(t *testing.T) *RedisRunStore {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisRunStoreFromClient(client, time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisRunStore_Unavailable(t *testing.T) {
	store := unreachableStore(t)
	ctx := context.Background()

	err := store.Save(ctx, entities.NewAnalysisRun(entities.NewTextInput("hello", "")))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrorCode_STORE_FAILED))

	_, err = store.Get(ctx, "run-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrorCode_STORE_FAILED))

	assert.Error(t, store.Ping(ctx))
}

func TestRunKey(t *testing.T) {
	assert.Equal(t, "meeting_analysis:run:abc", runKey("abc"))
}
