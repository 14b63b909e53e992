package route

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

func beijingWaypoints() []types.Waypoint {
	return []types.Waypoint{
		{ID: uuid.New(), Name: "故宫博物院", Latitude: 39.9163, Longitude: 116.3972, Source: types.SourceLocalDB},
		{ID: uuid.New(), Name: "颐和园", Latitude: 39.9990, Longitude: 116.2754, Source: types.SourceLocalDB},
		{ID: uuid.New(), Name: "天坛公园", Latitude: 39.8822, Longitude: 116.4066, Source: types.SourceLocalDB},
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Palace Museum to the Summer Palace is just under 14 km straight-line.
	d := Haversine(39.9163, 116.3972, 39.9990, 116.2754)
	assert.InDelta(t, 13.9, d, 0.3)

	assert.Zero(t, Haversine(39.9163, 116.3972, 39.9163, 116.3972))
}

func TestBuildAssignsSeqAndLegDistances(t *testing.T) {
	wps := beijingWaypoints()
	r := Build(wps)

	require.Len(t, r.Waypoints, 3)
	for i, wp := range r.Waypoints {
		assert.Equal(t, i+1, wp.Seq)
	}
	require.NotNil(t, r.Waypoints[0].DistanceToNext)
	require.NotNil(t, r.Waypoints[1].DistanceToNext)
	assert.Nil(t, r.Waypoints[2].DistanceToNext, "last waypoint has no outgoing leg")

	sum := *r.Waypoints[0].DistanceToNext + *r.Waypoints[1].DistanceToNext
	assert.InDelta(t, sum, r.TotalDistanceKm, 0.05, "total tracks the sum of the legs")
	assert.Greater(t, r.TotalDistanceKm, 0.0)
}

func TestBuildDerivesTravelTime(t *testing.T) {
	r := Build(beijingWaypoints())

	// At 30 km/h the minute estimate is distance * 2.
	assert.InDelta(t, r.TotalDistanceKm*2, float64(r.TotalTimeMinutes), 1)
	assert.NotEmpty(t, r.TravelTimeLabel)
}

func TestBuildIdempotent(t *testing.T) {
	first := Build(beijingWaypoints())
	second := Build(first.Waypoints)

	assert.Equal(t, first, second)
}

func TestBuildDoesNotModifyInput(t *testing.T) {
	wps := beijingWaypoints()
	Build(wps)

	for _, wp := range wps {
		assert.Zero(t, wp.Seq)
		assert.Nil(t, wp.DistanceToNext)
	}
}

func TestBuildDegenerateInputs(t *testing.T) {
	r := Build(nil)
	assert.Empty(t, r.Waypoints)
	assert.Zero(t, r.TotalDistanceKm)
	assert.Zero(t, r.TotalTimeMinutes)
	assert.Equal(t, "0分钟", r.TravelTimeLabel)

	r = Build(beijingWaypoints()[:1])
	require.Len(t, r.Waypoints, 1)
	assert.Equal(t, 1, r.Waypoints[0].Seq)
	assert.Nil(t, r.Waypoints[0].DistanceToNext)
	assert.Zero(t, r.TotalDistanceKm)
}

func TestFormatTravelTime(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0分钟"},
		{45, "45分钟"},
		{59, "59分钟"},
		{60, "1小时"},
		{90, "1小时30分钟"},
		{135, "2小时15分钟"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatTravelTime(tc.minutes))
	}
}
