package dedupe_test

import (
	"testing"
	"time"

	"github.com/openbiblio/pubmed-pipeline/internal/dedupe"
	"github.com/stretchr/testify/require"
)

func TestKeyIncludesRevision(t *testing.T) {
	require.Equal(t, "00001234@2020-02-20", dedupe.Key("00001234", "2020-02-20"))
	require.NotEqual(t,
		dedupe.Key("00001234", "2020-02-20"),
		dedupe.Key("00001234", "2021-01-01"),
	)
}

func TestCacheSeenDuplicate(t *testing.T) {
	cache := dedupe.NewCache(10, time.Minute)
	key := dedupe.Key("00001234", "2020-02-20")
	require.False(t, cache.IsSeen(key))
	cache.MarkSeen(key)
	require.True(t, cache.IsSeen(key))
}

func TestCacheTTLExpiry(t *testing.T) {
	cache := dedupe.NewCache(10, 20*time.Millisecond)
	require.False(t, cache.IsSeen("beta"))
	cache.MarkSeen("beta")
	time.Sleep(25 * time.Millisecond)
	require.False(t, cache.IsSeen("beta"))
}

func TestCacheCapacityEvictsOldest(t *testing.T) {
	cache := dedupe.NewCache(1, time.Minute)
	require.False(t, cache.IsSeen("first"))
	cache.MarkSeen("first")

	require.False(t, cache.IsSeen("second"))
	cache.MarkSeen("second")

	require.False(t, cache.IsSeen("first"))
	require.True(t, cache.IsSeen("second"))
}
