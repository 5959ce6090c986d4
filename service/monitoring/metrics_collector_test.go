package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealth(t *testing.T) {
	c := NewMetricsCollector(50 * time.Millisecond)

	status := c.CheckHealth(context.Background())
	assert.Equal(t, StatusHealthy, status.Overall)
	assert.Empty(t, status.Dependencies)
	assert.Positive(t, status.System.GoroutineCount)

	c.RegisterProbe("redis", func(ctx context.Context) error { return nil })
	c.RegisterProbe("cache", func(ctx context.Context) error { return errors.New("连接被拒绝") })
	c.RegisterProbe("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status = c.CheckHealth(context.Background())
	assert.Equal(t, StatusDegraded, status.Overall)
	require.Len(t, status.Dependencies, 3)

	byName := make(map[string]*DependencyHealth)
	for _, d := range status.Dependencies {
		byName[d.Name] = d
	}
	assert.True(t, byName["redis"].Available)
	assert.Equal(t, "连接被拒绝", byName["cache"].ErrorMessage)
	assert.Equal(t, StatusCritical, byName["slow"].Status, "超时视为不可用")
}

func TestRecordDatasetLoad(t *testing.T) {
	before := testutil.ToFloat64(DatasetLoads.WithLabelValues("test", "success"))
	RecordDatasetLoad("test", 42, nil)
	RecordDatasetLoad("test", 0, errors.New("bad"))

	assert.Equal(t, before+1, testutil.ToFloat64(DatasetLoads.WithLabelValues("test", "success")))
	assert.Equal(t, 42.0, testutil.ToFloat64(DatasetRecords.WithLabelValues("test")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(DatasetLoads.WithLabelValues("test", "error")), 1.0)
}
