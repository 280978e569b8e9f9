package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Snapshot(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest("GET", "/projects/", 200, 100*time.Millisecond)
	c.ObserveRequest("GET", "/projects/", 200, 300*time.Millisecond)
	c.ObserveRequest("POST", "/auth/login", 401, 50*time.Millisecond)
	c.ObserveRequest("GET", "/auth/me", 0, time.Second)

	stats, err := c.Snapshot()
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "POST", stats[0].Method)
	assert.Equal(t, "/auth/login", stats[0].Route)
	assert.Equal(t, "401", stats[0].Status)
	assert.Equal(t, uint64(1), stats[0].Count)
	assert.InDelta(t, 0.05, stats[0].Total.Seconds(), 1e-6)
	assert.Equal(t, "/auth/me", stats[1].Route)
	assert.Equal(t, "error", stats[1].Status)
	assert.Equal(t, "/projects/", stats[2].Route)
	assert.Equal(t, uint64(2), stats[2].Count)
	assert.InDelta(t, (400 * time.Millisecond).Seconds(), stats[2].Total.Seconds(), 1e-6)
}

func TestCollector_SessionEnded(t *testing.T) {
	c := NewCollector()
	c.SessionEnded()
	c.SessionEnded()
	assert.Equal(t, 2.0, testutil.ToFloat64(c.sessionsEnded))
}

func TestCollector_SeparateRegistries(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.ObserveRequest("GET", "/projects/", 200, time.Millisecond)

	stats, err := b.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, stats)
	assert.Equal(t, 1, testutil.CollectAndCount(a.requestDuration))
}
