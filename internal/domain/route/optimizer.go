package route

import (
	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

// Optimize reorders waypoints with a nearest-neighbor walk anchored at the
// first waypoint, which stays where it is: itinerary text usually opens at
// the traveler's actual starting point. The input slice is not modified.
// Fewer than three waypoints have nothing to reorder and come back as a
// plain copy.
func Optimize(waypoints []types.Waypoint) []types.Waypoint {
	out := make([]types.Waypoint, 0, len(waypoints))
	if len(waypoints) < 3 {
		return append(out, waypoints...)
	}

	remaining := make([]types.Waypoint, len(waypoints))
	copy(remaining, waypoints)

	current := remaining[0]
	out = append(out, current)
	remaining = remaining[1:]

	for len(remaining) > 0 {
		nearest := 0
		nearestDist := Haversine(current.Latitude, current.Longitude, remaining[0].Latitude, remaining[0].Longitude)
		for i := 1; i < len(remaining); i++ {
			d := Haversine(current.Latitude, current.Longitude, remaining[i].Latitude, remaining[i].Longitude)
			if d < nearestDist {
				nearest = i
				nearestDist = d
			}
		}
		current = remaining[nearest]
		out = append(out, current)
		remaining = append(remaining[:nearest], remaining[nearest+1:]...)
	}
	return out
}
