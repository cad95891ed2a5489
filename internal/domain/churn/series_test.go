package churn

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayCountsSumRange(t *testing.T) {
	d := make(DayCounts)
	d.Add(date(2025, time.June, 5), 2)
	d.Add(date(2025, time.June, 5), 1)
	d.Add(date(2025, time.June, 10), 4)

	assert.Equal(t, int64(3), d.Get(date(2025, time.June, 5)))
	assert.Equal(t, int64(0), d.Get(date(2025, time.June, 6)))
	assert.Equal(t, int64(7), d.SumRange(date(2025, time.June, 1), date(2025, time.June, 30)))
	assert.Equal(t, int64(3), d.SumRange(date(2025, time.June, 1), date(2025, time.June, 9)))
	assert.Equal(t, int64(0), d.SumRange(date(2025, time.June, 11), date(2025, time.June, 10)))
}

// The series has to survive a trip through a string keyed cache, so its
// date keyed maps round-trip through JSON.
func TestDailySeriesJSONRoundTrip(t *testing.T) {
	original := metricsFixture()

	payload, err := json.Marshal(original)
	assert.NoError(t, err)

	var decoded DailySeries
	assert.NoError(t, json.Unmarshal(payload, &decoded))

	assert.True(t, decoded.Since.Equal(original.Since))
	assert.True(t, decoded.To.Equal(original.To))
	assert.Equal(t, original.BaseActiveAtSince, decoded.BaseActiveAtSince)
	assert.Equal(t, original.NewByDay, decoded.NewByDay)
	assert.Equal(t, original.ChurnedByDay, decoded.ChurnedByDay)
	assert.Equal(t, original.ChurnedMRRByDay, decoded.ChurnedMRRByDay)
	assert.Equal(t, original.ActiveByDay, decoded.ActiveByDay)

	// the decoded series answers queries identically
	day := date(2025, time.June, 30)
	assert.Equal(t, original.RollingChurnRate(day), decoded.RollingChurnRate(day))
	assert.Equal(t, original.ActiveAtStartOf(day), decoded.ActiveAtStartOf(day))
}
