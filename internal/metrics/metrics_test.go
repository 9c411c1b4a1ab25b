package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRun(ResultSent, time.Now())
	m.EventRendered("OPPOSITION")
	m.SetHeadlineWeight(5)
	m.PublishFailed("discord")

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestCollectors(t *testing.T) {
	m := New()
	m.ObserveRun(ResultSent, time.Now())
	m.ObserveRun(ResultFailed, time.Now())
	m.EventRendered("OPPOSITION")
	m.EventRendered("OPPOSITION")
	m.EventRendered("PERIGEE")
	m.SetHeadlineWeight(10)
	m.PublishFailed("discord")

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)

	byName := make(map[string]int)
	for _, f := range families {
		byName[f.GetName()] = len(f.GetMetric())
		switch f.GetName() {
		case "astro_feed_headline_weight":
			assert.Equal(t, 10.0, f.GetMetric()[0].GetGauge().GetValue())
		case "astro_feed_last_success_timestamp_seconds":
			assert.Greater(t, f.GetMetric()[0].GetGauge().GetValue(), 0.0)
		case "astro_feed_publish_failures_total":
			assert.Equal(t, 1.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}

	assert.Equal(t, 2, byName["astro_feed_runs_total"])
	assert.Equal(t, 2, byName["astro_feed_events_rendered_total"])
	assert.Equal(t, 1, byName["astro_feed_run_duration_seconds"])
}
