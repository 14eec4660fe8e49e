package redisclient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitIsFirstWriterWins(t *testing.T) {
	t.Skip("Integration test - requires Redis")

	client, err := NewClient("localhost:6379", "", 1)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	record := &models.FulfilledSession{
		SessionID:   "cs_test_redis_1",
		OrderNumber: "ORD-edis_1",
		Total:       211.00,
		ItemCount:   3,
		FulfilledAt: time.Now(),
	}

	ok, err := client.Commit(ctx, record)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second commit for the same session loses.
	ok, err = client.Commit(ctx, record)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := client.Lookup(ctx, record.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 211.00, got.Total, 1e-9)
}

func TestLookupUnseenSession(t *testing.T) {
	t.Skip("Integration test - requires Redis")

	client, err := NewClient("localhost:6379", "", 1)
	require.NoError(t, err)
	defer client.Close()

	got, err := client.Lookup(context.Background(), "cs_test_never_seen")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTrimKeepsMostRecent(t *testing.T) {
	t.Skip("Integration test - requires Redis")

	client, err := NewClient("localhost:6379", "", 1)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := client.Commit(ctx, &models.FulfilledSession{
			SessionID:   fmt.Sprintf("cs_test_trim_%03d", i),
			FulfilledAt: time.Now().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	require.NoError(t, client.Trim(ctx, 5))

	oldest, err := client.Lookup(ctx, "cs_test_trim_000")
	require.NoError(t, err)
	assert.Nil(t, oldest)

	newest, err := client.Lookup(ctx, "cs_test_trim_009")
	require.NoError(t, err)
	assert.NotNil(t, newest)
}
