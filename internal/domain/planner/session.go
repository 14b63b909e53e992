package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

// SessionStatus tracks whether the current waypoint order came straight
// from the text or was reordered. Any structural edit drops the session
// back to active.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusOptimized SessionStatus = "optimized"
)

// Session is one planning conversation: the original itinerary text, the
// city it was parsed against, the current route, and the resolution
// bookkeeping from the last pipeline run.
type Session struct {
	ID           uuid.UUID     `json:"id"`
	City         string        `json:"city"`
	Text         string        `json:"text"`
	Status       SessionStatus `json:"status"`
	Route        types.Route   `json:"route"`
	SuccessCount int           `json:"success_count"`
	FailedCount  int           `json:"failed_count"`
	Dropped      []string      `json:"dropped,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// clone returns a copy safe to hand outside the service's lock.
func (s *Session) clone() *Session {
	out := *s
	out.Route.Waypoints = append([]types.Waypoint(nil), s.Route.Waypoints...)
	out.Dropped = append([]string(nil), s.Dropped...)
	return &out
}
