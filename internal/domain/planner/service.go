package planner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/545426946/travel-planning2.0-sub000/internal/domain/extract"
	"github.com/545426946/travel-planning2.0-sub000/internal/domain/resolve"
	"github.com/545426946/travel-planning2.0-sub000/internal/domain/route"
	"github.com/545426946/travel-planning2.0-sub000/internal/types"
	"github.com/545426946/travel-planning2.0-sub000/pkg/observability"
)

// Service orchestrates the extract-resolve-build pipeline and owns the
// planning sessions it produces.
type Service interface {
	CreateItinerary(ctx context.Context, text, city string) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	AddWaypoint(ctx context.Context, id uuid.UUID, name string) (*Session, error)
	RemoveWaypoint(ctx context.Context, id, waypointID uuid.UUID) (*Session, error)
	MoveWaypoint(ctx context.Context, id, waypointID uuid.UUID, direction string) (*Session, error)
	Optimize(ctx context.Context, id uuid.UUID) (*Session, error)
	Reparse(ctx context.Context, id uuid.UUID) (*Session, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	extractor *extract.Extractor
	resolver  resolve.Resolver
	limiter   *rate.Limiter
	sessions  *cache.Cache
	mu        sync.Mutex
}

var _ Service = (*ServiceImpl)(nil)

// NewService wires the pipeline stages together. resolveInterval spaces out
// upstream lookups; the free AMap tier enforces per-second quotas, so the
// limiter is shared across all sessions.
func NewService(extractor *extract.Extractor, resolver resolve.Resolver, resolveInterval time.Duration, sessionTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	if resolveInterval <= 0 {
		resolveInterval = 150 * time.Millisecond
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &ServiceImpl{
		logger:    logger,
		extractor: extractor,
		resolver:  resolver,
		limiter:   rate.NewLimiter(rate.Every(resolveInterval), 1),
		sessions:  cache.New(sessionTTL, time.Hour),
	}
}

// CreateItinerary runs the full pipeline over free-form itinerary text and
// stores the resulting session. Terminal pipeline failures create nothing.
func (s *ServiceImpl) CreateItinerary(ctx context.Context, text, city string) (*Session, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "CreateItinerary", trace.WithAttributes(
		attribute.String("city", city),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateItinerary"), slog.String("city", city))

	result, err := s.runPipeline(ctx, text, city)
	if err != nil {
		l.WarnContext(ctx, "pipeline produced no route", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:           uuid.New(),
		City:         city,
		Text:         text,
		Status:       StatusActive,
		Route:        route.Build(result.waypoints),
		SuccessCount: result.success,
		FailedCount:  result.failed,
		Dropped:      result.dropped,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.mu.Lock()
	s.sessions.Set(session.ID.String(), session, cache.DefaultExpiration)
	s.mu.Unlock()

	l.InfoContext(ctx, "itinerary session created",
		slog.String("session_id", session.ID.String()),
		slog.Int("waypoints", len(session.Route.Waypoints)),
		slog.Int("failed", session.FailedCount))
	span.SetStatus(codes.Ok, "session created")
	return session.clone(), nil
}

func (s *ServiceImpl) GetSession(_ context.Context, id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return session.clone(), nil
}

// AddWaypoint resolves name through the same tiers as the pipeline and
// appends it to the route. The waypoint is tagged as manual regardless of
// which tier located it, because that is what matters for provenance.
func (s *ServiceImpl) AddWaypoint(ctx context.Context, id uuid.UUID, name string) (*Session, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "AddWaypoint")
	defer span.End()
	l := s.logger.With(slog.String("method", "AddWaypoint"), slog.String("session_id", id.String()))

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	wp := s.resolver.Resolve(ctx, name, session.City)
	if wp == nil {
		l.WarnContext(ctx, "manual waypoint could not be located", slog.String("name", name))
		return nil, fmt.Errorf("%q: %w", name, types.ErrNameNotLocated)
	}
	wp.Source = types.SourceManual

	session.Route = route.Build(append(session.Route.Waypoints, *wp))
	s.touch(session)

	l.InfoContext(ctx, "manual waypoint added", slog.String("name", wp.Name))
	return session.clone(), nil
}

func (s *ServiceImpl) RemoveWaypoint(ctx context.Context, id, waypointID uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	idx := indexOf(session.Route.Waypoints, waypointID)
	if idx < 0 {
		return nil, types.ErrWaypointNotFound
	}

	wps := append([]types.Waypoint(nil), session.Route.Waypoints...)
	wps = append(wps[:idx], wps[idx+1:]...)
	session.Route = route.Build(wps)
	s.touch(session)

	s.logger.InfoContext(ctx, "waypoint removed",
		slog.String("method", "RemoveWaypoint"),
		slog.String("session_id", id.String()),
		slog.String("waypoint_id", waypointID.String()))
	return session.clone(), nil
}

// MoveWaypoint swaps a waypoint with its neighbor in the given direction.
// A move at the edge of the route is a no-op, not an error.
func (s *ServiceImpl) MoveWaypoint(ctx context.Context, id, waypointID uuid.UUID, direction string) (*Session, error) {
	if direction != "up" && direction != "down" {
		return nil, types.ErrInvalidMoveDirection
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	idx := indexOf(session.Route.Waypoints, waypointID)
	if idx < 0 {
		return nil, types.ErrWaypointNotFound
	}

	target := idx - 1
	if direction == "down" {
		target = idx + 1
	}
	if target < 0 || target >= len(session.Route.Waypoints) {
		return session.clone(), nil
	}

	wps := append([]types.Waypoint(nil), session.Route.Waypoints...)
	wps[idx], wps[target] = wps[target], wps[idx]
	session.Route = route.Build(wps)
	s.touch(session)

	s.logger.InfoContext(ctx, "waypoint moved",
		slog.String("method", "MoveWaypoint"),
		slog.String("session_id", id.String()),
		slog.String("direction", direction))
	return session.clone(), nil
}

// Optimize reorders the route with the nearest-neighbor heuristic. Below
// three waypoints there is nothing to optimize and the precondition error
// is returned instead.
func (s *ServiceImpl) Optimize(ctx context.Context, id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	if len(session.Route.Waypoints) < 3 {
		return nil, types.ErrTooFewWaypoints
	}

	before := session.Route.TotalDistanceKm
	session.Route = route.Build(route.Optimize(session.Route.Waypoints))
	s.touch(session)
	session.Status = StatusOptimized

	s.logger.InfoContext(ctx, "route optimized",
		slog.String("method", "Optimize"),
		slog.String("session_id", id.String()),
		slog.Float64("km_before", before),
		slog.Float64("km_after", session.Route.TotalDistanceKm))
	return session.clone(), nil
}

// Reparse re-runs the pipeline over the session's original text, replacing
// the route and counters. Manual edits are discarded; a terminal pipeline
// failure leaves the session exactly as it was.
func (s *ServiceImpl) Reparse(ctx context.Context, id uuid.UUID) (*Session, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Reparse")
	defer span.End()

	s.mu.Lock()
	session, err := s.lookup(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	text, city := session.Text, session.City
	s.mu.Unlock()

	// The pipeline waits on the rate limiter, so it runs outside the lock.
	result, err := s.runPipeline(ctx, text, city)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reparse failed")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, err = s.lookup(id)
	if err != nil {
		return nil, err
	}
	session.Route = route.Build(result.waypoints)
	session.SuccessCount = result.success
	session.FailedCount = result.failed
	session.Dropped = result.dropped
	s.touch(session)

	s.logger.InfoContext(ctx, "session reparsed",
		slog.String("method", "Reparse"),
		slog.String("session_id", id.String()),
		slog.Int("waypoints", len(session.Route.Waypoints)))
	span.SetStatus(codes.Ok, "reparsed")
	return session.clone(), nil
}

type pipelineResult struct {
	waypoints []types.Waypoint
	success   int
	failed    int
	dropped   []string
}

// runPipeline is the shared extract-then-resolve core. Resolution is
// sequential and paced by the limiter; failed names are dropped, not fatal,
// unless every single one fails.
func (s *ServiceImpl) runPipeline(ctx context.Context, text, city string) (*pipelineResult, error) {
	start := time.Now()
	defer func() { observability.ObservePipelineDuration(time.Since(start)) }()

	candidates := s.extractor.Extract(ctx, text, city)
	observability.RecordExtraction(len(candidates))
	if len(candidates) == 0 {
		return nil, types.ErrNoAttractionsFound
	}

	result := &pipelineResult{}
	for _, name := range candidates {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("resolution interrupted: %w", err)
		}
		wp := s.resolver.Resolve(ctx, name, city)
		if wp == nil {
			observability.RecordResolution(false, "")
			result.failed++
			result.dropped = append(result.dropped, name)
			continue
		}
		observability.RecordResolution(true, string(wp.Source))
		result.success++
		result.waypoints = append(result.waypoints, *wp)
	}

	if result.success == 0 {
		return nil, types.ErrNoAttractionsLocated
	}
	return result, nil
}

// lookup must be called with the lock held.
func (s *ServiceImpl) lookup(id uuid.UUID) (*Session, error) {
	v, found := s.sessions.Get(id.String())
	if !found {
		return nil, types.ErrSessionNotFound
	}
	return v.(*Session), nil
}

// touch resets derived state after any structural change.
func (s *ServiceImpl) touch(session *Session) {
	session.Status = StatusActive
	session.UpdatedAt = time.Now()
	s.sessions.Set(session.ID.String(), session, cache.DefaultExpiration)
}

func indexOf(wps []types.Waypoint, id uuid.UUID) int {
	for i := range wps {
		if wps[i].ID == id {
			return i
		}
	}
	return -1
}
