package route

import (
	"fmt"
	"math"

	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

// averageSpeedKmh is the assumed door-to-door travel speed used to turn
// straight-line distance into an estimated travel time. Thirty km/h sits
// between urban transit and taxi speeds.
const averageSpeedKmh = 30.0

// Haversine returns the great-circle distance in kilometers between two
// coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Build derives a complete route from an ordered waypoint list: 1-based
// sequence numbers, per-leg distances, and the distance/time aggregates.
// The input slice is not modified and Build is idempotent over its own
// output.
func Build(waypoints []types.Waypoint) types.Route {
	wps := make([]types.Waypoint, len(waypoints))
	copy(wps, waypoints)

	var total float64
	for i := range wps {
		wps[i].Seq = i + 1
		wps[i].DistanceToNext = nil
		if i == len(wps)-1 {
			continue
		}
		d := roundTo(Haversine(wps[i].Latitude, wps[i].Longitude, wps[i+1].Latitude, wps[i+1].Longitude), 2)
		wps[i].DistanceToNext = &d
		total += d
	}

	totalKm := roundTo(total, 1)
	minutes := int(math.Round(totalKm / averageSpeedKmh * 60))
	return types.Route{
		Waypoints:        wps,
		TotalDistanceKm:  totalKm,
		TotalTimeMinutes: minutes,
		TravelTimeLabel:  FormatTravelTime(minutes),
	}
}

// FormatTravelTime renders minutes as a human-readable Chinese duration,
// e.g. 45 -> "45分钟", 90 -> "1小时30分钟", 120 -> "2小时".
func FormatTravelTime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d分钟", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%d小时", h)
	}
	return fmt.Sprintf("%d小时%d分钟", h, m)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
