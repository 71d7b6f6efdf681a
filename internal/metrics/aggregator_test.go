package metrics_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-intel-server/internal/metrics"
)

const testKey = "POST:/api/v1/translations/translate"

func TestAggregator_CountersAndRatios(t *testing.T) {
	agg := metrics.New()

	agg.RecordRequest(testKey, true, 10)
	agg.RecordRequest(testKey, true, 20)
	agg.RecordRequest(testKey, false, 30)

	snap, ok := agg.CalculateEndpointMetrics(testKey)
	require.True(t, ok)
	assert.Equal(t, int64(3), snap.RequestCount)
	assert.Equal(t, int64(2), snap.SuccessCount)
	assert.Equal(t, int64(1), snap.FailureCount)
	assert.Equal(t, snap.SuccessCount+snap.FailureCount, snap.RequestCount)
	assert.InDelta(t, 2.0/3.0, snap.SuccessRatio, 1e-9)
	assert.InDelta(t, 1.0/3.0, snap.FailureRatio, 1e-9)
	assert.InDelta(t, 20.0, snap.AvgTimeMs, 1e-9)
	assert.NotNil(t, snap.LastUsedTs)

	global := agg.CalculateGlobalMetrics()
	assert.Equal(t, int64(3), global.RequestCount)
	assert.Nil(t, global.LastUsedTs)
}

func TestAggregator_ZeroDenominatorRatios(t *testing.T) {
	agg := metrics.New()

	global := agg.CalculateGlobalMetrics()
	assert.Zero(t, global.SuccessRatio)
	assert.Zero(t, global.FailureRatio)
	assert.Zero(t, global.CacheSuccessRatio)
	assert.Zero(t, global.AvgTimeMs)
}

func TestAggregator_UnknownKeyNotFound(t *testing.T) {
	agg := metrics.New()
	agg.RecordRequest(testKey, true, 5)

	_, ok := agg.CalculateEndpointMetrics("GET:/api/v1/never-seen")
	assert.False(t, ok, "a never-recorded key is not-found, not an all-zero snapshot")

	snap, ok := agg.CalculateEndpointMetrics(testKey)
	assert.True(t, ok)
	assert.Equal(t, int64(1), snap.RequestCount)
}

func TestAggregator_CacheCountersIndependent(t *testing.T) {
	agg := metrics.New()

	agg.RecordCache(testKey, true)
	agg.RecordCache(testKey, true)
	agg.RecordCache(testKey, false)

	snap, ok := agg.CalculateEndpointMetrics(testKey)
	require.True(t, ok)
	assert.Equal(t, int64(3), snap.CacheRequestCount)
	assert.Equal(t, int64(2), snap.CacheSuccessCount)
	assert.Equal(t, snap.CacheSuccessCount+snap.CacheFailureCount, snap.CacheRequestCount)
	assert.InDelta(t, 2.0/3.0, snap.CacheSuccessRatio, 1e-9)
	assert.Equal(t, int64(0), snap.RequestCount, "cache records must not touch request counters")
	assert.Equal(t, 0, snap.WindowSize, "cache records must not touch the latency window")
}

func TestAggregator_RollingWindowBounds(t *testing.T) {
	agg := metrics.New()

	for i := 0; i < metrics.GlobalWindowCapacity+200; i++ {
		agg.RecordRequest(testKey, true, float64(i))
	}

	global := agg.CalculateGlobalMetrics()
	assert.Equal(t, metrics.GlobalWindowCapacity, global.WindowSize)
	assert.Len(t, global.TimesMs, metrics.GlobalWindowCapacity)
	// Oldest samples were evicted: the window starts at sample 200.
	assert.Equal(t, float64(200), global.TimesMs[0])
	assert.Equal(t, float64(metrics.GlobalWindowCapacity+199), global.TimesMs[len(global.TimesMs)-1])

	snap, ok := agg.CalculateEndpointMetrics(testKey)
	require.True(t, ok)
	assert.Equal(t, metrics.EndpointWindowCapacity, snap.WindowSize)
	// Counters keep growing past the window bound.
	assert.Equal(t, int64(metrics.GlobalWindowCapacity+200), snap.RequestCount)
}

func TestAggregator_Reset(t *testing.T) {
	agg := metrics.New()
	agg.RecordRequest(testKey, true, 5)
	agg.RecordCache(testKey, true)

	agg.Reset()

	global := agg.CalculateGlobalMetrics()
	assert.Zero(t, global.RequestCount)
	assert.Zero(t, global.CacheRequestCount)
	assert.Zero(t, global.WindowSize)

	_, ok := agg.CalculateEndpointMetrics(testKey)
	assert.False(t, ok, "reset drops per-endpoint entries entirely")
	assert.Empty(t, agg.CalculateEndpointsMetrics())
}

func TestAggregator_ConcurrentRecording(t *testing.T) {
	agg := metrics.New()
	const workers = 8
	const perWorker = 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				agg.RecordRequest(testKey, i%2 == 0, 1)
				agg.RecordCache(testKey, i%2 == 0)
			}
		}(w)
	}
	wg.Wait()

	global := agg.CalculateGlobalMetrics()
	assert.Equal(t, int64(workers*perWorker), global.RequestCount)
	assert.Equal(t, global.SuccessCount+global.FailureCount, global.RequestCount)
	assert.Equal(t, int64(workers*perWorker), global.CacheRequestCount)
}
