package route

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

// Four points on a meridian, deliberately listed out of geographic order.
func lineWaypoints() []types.Waypoint {
	return []types.Waypoint{
		{ID: uuid.New(), Name: "起点", Latitude: 30.00, Longitude: 120.00},
		{ID: uuid.New(), Name: "最远", Latitude: 30.30, Longitude: 120.00},
		{ID: uuid.New(), Name: "最近", Latitude: 30.05, Longitude: 120.00},
		{ID: uuid.New(), Name: "居中", Latitude: 30.15, Longitude: 120.00},
	}
}

func TestOptimizeNearestNeighborOrder(t *testing.T) {
	got := Optimize(lineWaypoints())

	names := make([]string, len(got))
	for i, wp := range got {
		names[i] = wp.Name
	}
	assert.Equal(t, []string{"起点", "最近", "居中", "最远"}, names)
}

func TestOptimizeKeepsAnchorAndInput(t *testing.T) {
	in := lineWaypoints()
	got := Optimize(in)

	require.NotEmpty(t, got)
	assert.Equal(t, in[0].ID, got[0].ID, "first waypoint is the anchor")
	assert.Equal(t, "最远", in[1].Name, "input order must be untouched")
	assert.Equal(t, "最近", in[2].Name)
}

func TestOptimizePreservesWaypointSet(t *testing.T) {
	in := lineWaypoints()
	got := Optimize(in)

	require.Len(t, got, len(in))
	seen := make(map[uuid.UUID]bool, len(got))
	for _, wp := range got {
		seen[wp.ID] = true
	}
	for _, wp := range in {
		assert.True(t, seen[wp.ID], "waypoint %s lost in reordering", wp.Name)
	}
}

func TestOptimizeSmallInputsUnchanged(t *testing.T) {
	assert.Empty(t, Optimize(nil))

	two := lineWaypoints()[:2]
	got := Optimize(two)
	require.Len(t, got, 2)
	assert.Equal(t, two[0].ID, got[0].ID)
	assert.Equal(t, two[1].ID, got[1].ID)
}

func TestOptimizeShortensCrossingRoute(t *testing.T) {
	// Visiting far-near-middle forces backtracking; the optimized walk
	// must not be longer than the original order.
	in := lineWaypoints()
	before := Build(in).TotalDistanceKm
	after := Build(Optimize(in)).TotalDistanceKm
	assert.LessOrEqual(t, after, before)
}
