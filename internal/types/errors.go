package types

import "errors"

// Pipeline-level errors. Only the first two are terminal for a planning
// session; everything else leaves session state untouched.
var (
	// ErrNoAttractionsFound means extraction produced zero valid candidates.
	ErrNoAttractionsFound = errors.New("no attractions found in itinerary text")
	// ErrNoAttractionsLocated means candidates were extracted but every one
	// of them failed resolution. Deliberately distinct from
	// ErrNoAttractionsFound so the caller knows names were present.
	ErrNoAttractionsLocated = errors.New("attractions could not be located")
	// ErrTooFewWaypoints is the optimization precondition failure.
	ErrTooFewWaypoints = errors.New("at least 3 waypoints are required to optimize")
	// ErrNameNotLocated is the manual-add failure: no tier could resolve the
	// supplied name.
	ErrNameNotLocated = errors.New("name could not be located")

	ErrSessionNotFound      = errors.New("planning session not found")
	ErrWaypointNotFound     = errors.New("waypoint not found in current route")
	ErrInvalidMoveDirection = errors.New("move direction must be \"up\" or \"down\"")
)
