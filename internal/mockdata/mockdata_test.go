package mockdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_MetricsRanges(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < 200; i++ {
		m := g.Metrics()
		assert.GreaterOrEqual(t, m.TrustScore, 92)
		assert.LessOrEqual(t, m.TrustScore, 99)
		assert.GreaterOrEqual(t, m.ActiveAlerts, 2)
		assert.LessOrEqual(t, m.ActiveAlerts, 9)
		assert.GreaterOrEqual(t, m.OnChainVerifications, 1500)
		assert.LessOrEqual(t, m.OnChainVerifications, 1650)
	}
}

func TestGenerator_Activity(t *testing.T) {
	points := NewGenerator().Activity()
	require.Len(t, points, 24)
	assert.Equal(t, "00:00", points[0].Hour)
	assert.Equal(t, "23:00", points[23].Hour)
}

func TestGenerator_ThreatsRelativeToClock(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	threats := NewSeeded(1, func() time.Time { return now }).Threats()
	require.NotEmpty(t, threats)
	assert.Equal(t, "THR-2041", threats[0].ID)
	assert.Equal(t, "2 min ago", threats[0].Time)
	assert.Equal(t, now.Add(-2*time.Minute), threats[0].CreatedAt)
}

func TestGenerator_ReturnsCopies(t *testing.T) {
	g := NewGenerator()
	d := g.Detectors()
	d[0].Name = "mutated"
	assert.NotEqual(t, "mutated", g.Detectors()[0].Name)

	in := g.Insights()
	in[0].AffectedSystems[0] = "mutated"
	assert.NotEqual(t, "mutated", g.Insights()[0].AffectedSystems[0])
}

func TestSeeded_Deterministic(t *testing.T) {
	clock := func() time.Time { return time.Unix(0, 0) }
	assert.Equal(t, NewSeeded(42, clock).Metrics(), NewSeeded(42, clock).Metrics())
}
