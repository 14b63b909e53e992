package resolve

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/545426946/travel-planning2.0-sub000/internal/domain/gazetteer"
	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

// Resolver turns an attraction name into a geo-located waypoint, or nil
// when the name cannot be located anywhere.
type Resolver interface {
	Resolve(ctx context.Context, name, city string) *types.Waypoint
}

// ResolverImpl resolves through progressively more expensive tiers: the
// local gazetteer (exact then fuzzy), keyword POI search, and finally
// forward geocoding. It never returns an error; a name that fails every
// tier resolves to nil and the caller decides what a partial result means.
type ResolverImpl struct {
	logger *slog.Logger
	gaz    *gazetteer.Gazetteer
	amap   *AMapClient
	cache  *cache.Cache
	group  singleflight.Group
}

var _ Resolver = (*ResolverImpl)(nil)

// resolvedPlace is the cache entry. Waypoints are not cached directly so
// that every Resolve call hands out a fresh identity.
type resolvedPlace struct {
	name      string
	latitude  float64
	longitude float64
	address   string
	source    types.WaypointSource
}

func NewResolver(gaz *gazetteer.Gazetteer, amap *AMapClient, logger *slog.Logger) *ResolverImpl {
	return &ResolverImpl{
		logger: logger,
		gaz:    gaz,
		amap:   amap,
		cache:  cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Resolve locates name within city. Concurrent calls for the same name
// collapse into one upstream lookup.
func (r *ResolverImpl) Resolve(ctx context.Context, name, city string) *types.Waypoint {
	ctx, span := otel.Tracer("Resolver").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("name", name),
		attribute.String("city", city),
	))
	defer span.End()

	key := name + "|" + city
	if cached, found := r.cache.Get(key); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return r.toWaypoint(cached.(*resolvedPlace))
	}

	v, _, _ := r.group.Do(key, func() (any, error) {
		place := r.resolveTiers(ctx, name, city)
		if place != nil {
			r.cache.Set(key, place, cache.DefaultExpiration)
		}
		return place, nil
	})

	place := v.(*resolvedPlace)
	if place == nil {
		r.logger.WarnContext(ctx, "name failed every resolution tier",
			slog.String("name", name),
			slog.String("city", city))
		return nil
	}
	span.SetAttributes(attribute.String("source", string(place.source)))
	return r.toWaypoint(place)
}

func (r *ResolverImpl) resolveTiers(ctx context.Context, name, city string) *resolvedPlace {
	l := r.logger.With(slog.String("name", name), slog.String("city", city))

	if entry, ok := r.gaz.Lookup(name); ok {
		return fromEntry(entry, types.SourceLocalDB)
	}
	if entry, ok := r.gaz.LookupFuzzy(name); ok {
		l.DebugContext(ctx, "resolved via gazetteer fuzzy match",
			slog.String("matched", entry.Name))
		return fromEntry(entry, types.SourceLocalDB)
	}

	if place := r.searchTier(ctx, l, name, city); place != nil {
		return place
	}
	return r.geocodeTier(ctx, l, name, city)
}

func (r *ResolverImpl) searchTier(ctx context.Context, l *slog.Logger, name, city string) *resolvedPlace {
	results, err := r.amap.SearchPlaces(ctx, name, city)
	if err != nil {
		l.ErrorContext(ctx, "place search failed", slog.Any("error", err))
		return nil
	}
	best := pickBestResult(results, name)
	if best == nil {
		return nil
	}
	l.InfoContext(ctx, "resolved via place search", slog.String("matched", best.Name))
	return &resolvedPlace{
		name:      best.Name,
		latitude:  best.Latitude,
		longitude: best.Longitude,
		address:   best.Address,
		source:    types.SourceAPISearch,
	}
}

func (r *ResolverImpl) geocodeTier(ctx context.Context, l *slog.Logger, name, city string) *resolvedPlace {
	result, err := r.amap.Geocode(ctx, city+name, city)
	if err != nil {
		l.ErrorContext(ctx, "geocoding failed", slog.Any("error", err))
		return nil
	}
	l.InfoContext(ctx, "resolved via geocoding")
	return &resolvedPlace{
		name:      name,
		latitude:  result.Latitude,
		longitude: result.Longitude,
		address:   result.Address,
		source:    types.SourceGeocoding,
	}
}

// pickBestResult ranks search results against the queried name: an exact
// name match beats containment in either direction, which beats the
// service's own first result. Results arrive pre-filtered for coordinate
// validity.
func pickBestResult(results []PlaceResult, name string) *PlaceResult {
	if len(results) == 0 {
		return nil
	}
	best := &results[0]
	bestRank := rankResult(results[0].Name, name)
	for i := 1; i < len(results); i++ {
		if rank := rankResult(results[i].Name, name); rank < bestRank {
			best = &results[i]
			bestRank = rank
		}
	}
	return best
}

func rankResult(resultName, query string) int {
	switch {
	case resultName == query:
		return 0
	case strings.Contains(resultName, query) || strings.Contains(query, resultName):
		return 1
	default:
		return 2
	}
}

func fromEntry(entry types.GazetteerEntry, source types.WaypointSource) *resolvedPlace {
	return &resolvedPlace{
		name:      entry.Name,
		latitude:  entry.Latitude,
		longitude: entry.Longitude,
		address:   entry.Address,
		source:    source,
	}
}

func (r *ResolverImpl) toWaypoint(place *resolvedPlace) *types.Waypoint {
	return &types.Waypoint{
		ID:        uuid.New(),
		Name:      place.name,
		Latitude:  place.latitude,
		Longitude: place.longitude,
		Address:   place.address,
		Source:    place.source,
	}
}
