package challenges

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/reroute-fukuoka/reroute/pkg/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshotStore(t *testing.T) *RedisSnapshotStore {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisSnapshotStore(client, 0)
}

func TestRedisSnapshotStore(t *testing.T) {
	store := newSnapshotStore(t)

	_, err := store.Load(t.Context())
	assert.Error(t, err)

	require.NoError(t, store.Save(t.Context(), Fallback()))

	plans, err := store.Load(t.Context())
	require.NoError(t, err)
	require.Len(t, plans, len(Fallback()))
	assert.Equal(t, Fallback()[0].ID, plans[0].ID)
	assert.Equal(t, Fallback()[0].Legs, plans[0].Legs)
}

func TestServiceServesSnapshotWhenSourceFails(t *testing.T) {
	store := newSnapshotStore(t)
	options := Options{
		Challenges: []planner.Challenge{planner.ChallengeLongestDuration},
		Snapshots:  store,
	}

	_, err := NewService(newFakeSource(), options).Plans(t.Context())
	require.NoError(t, err)

	broken := newFakeSource()
	broken.err = errSourceDown

	plans, err := NewService(broken, options).Plans(t.Context())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "longest-duration", plans[0].ID)
	assert.Equal(t, 200, plans[0].TotalRideMinutes)
}
