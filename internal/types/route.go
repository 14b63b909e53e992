package types

import (
	"github.com/google/uuid"
)

// WaypointSource records which resolution tier produced a waypoint.
type WaypointSource string

const (
	SourceLocalDB   WaypointSource = "local_db"
	SourceAPISearch WaypointSource = "api_search"
	SourceGeocoding WaypointSource = "geocoding"
	SourceManual    WaypointSource = "manual"
)

// GazetteerEntry is one curated attraction in the local dataset. Names are
// unique keys and double as the canonical spelling for fuzzy matches.
type GazetteerEntry struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Waypoint is a resolved, coordinate-bearing stop in a route. ID is a stable
// identity assigned at resolution time; Seq is the 1-based position in the
// current route order and is reassigned by the route builder on every
// structural change. A waypoint never carries unresolved coordinates;
// resolution failure drops the candidate instead.
type Waypoint struct {
	ID             uuid.UUID      `json:"id"`
	Seq            int            `json:"seq"`
	Name           string         `json:"name"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	Address        string         `json:"address"`
	Source         WaypointSource `json:"source"`
	DistanceToNext *float64       `json:"distance_to_next_km,omitempty"`
}

// Route is an ordered sequence of waypoints plus derived aggregates.
// TotalDistanceKm always equals the sum of the non-nil DistanceToNext values.
type Route struct {
	Waypoints        []Waypoint `json:"waypoints"`
	TotalDistanceKm  float64    `json:"total_distance_km"`
	TotalTimeMinutes int        `json:"total_time_minutes"`
	TravelTimeLabel  string     `json:"travel_time_label"`
}
