package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	cache "github.com/adapticai/marketcache"
)

func TestPrometheusRecorderCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := cache.NewPrometheusRecorder(reg, "marketdata")

	cfg := cache.Config{
		MaxSize:    10,
		DefaultTTL: time.Second,
		MinJitter:  1,
		MaxJitter:  1,
	}
	c, err := cache.New[string](cfg, nil, rec)
	require.NoError(t, err)

	loader := &countingLoader{}
	ctx := context.Background()

	_, err = c.Get(ctx, "k", loader.load)
	require.NoError(t, err)
	_, err = c.Get(ctx, "k", loader.load)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			counts[mf.GetName()] += m.GetCounter().GetValue()
		}
	}
	require.Equal(t, float64(1), counts["marketdata_cache_hits_total"])
	require.Equal(t, float64(1), counts["marketdata_cache_misses_total"])
}
