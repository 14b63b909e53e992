package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/545426946/travel-planning2.0-sub000/internal/domain/extract"
	"github.com/545426946/travel-planning2.0-sub000/internal/domain/gazetteer"
	"github.com/545426946/travel-planning2.0-sub000/internal/domain/planner"
	"github.com/545426946/travel-planning2.0-sub000/internal/domain/resolve"
	"github.com/545426946/travel-planning2.0-sub000/pkg/config"
	"github.com/545426946/travel-planning2.0-sub000/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	Pool *pgxpool.Pool

	Gazetteer *gazetteer.Gazetteer
	Extractor *extract.Extractor
	Resolver  resolve.Resolver

	PlannerService planner.Service
	PlannerHandler *planner.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initGazetteer(ctx); err != nil {
		return nil, fmt.Errorf("failed to init gazetteer: %w", err)
	}
	deps.initPipeline()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initGazetteer loads the attraction dataset: from Postgres when a database
// is configured, otherwise from the embedded copy.
func (d *Dependencies) initGazetteer(ctx context.Context) error {
	if !d.Config.Database.Enabled() {
		g, err := gazetteer.NewFromEmbedded(d.Logger)
		if err != nil {
			return err
		}
		d.Gazetteer = g
		d.Logger.Info("gazetteer loaded from embedded dataset", slog.Int("entries", g.Len()))
		return nil
	}

	if err := db.RunMigrations(d.Config.Database.URL, d.Logger); err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, d.Config.Database.URL, d.Logger)
	if err != nil {
		return err
	}
	d.Pool = pool

	repo := gazetteer.NewRepository(pool, d.Logger)
	entries, err := repo.GetAllAttractions(ctx)
	if err != nil {
		return err
	}
	g, err := gazetteer.New(entries, d.Logger)
	if err != nil {
		return err
	}
	d.Gazetteer = g
	d.Logger.Info("gazetteer loaded from database", slog.Int("entries", g.Len()))
	return nil
}

func (d *Dependencies) initPipeline() {
	amap := resolve.NewAMapClient(resolve.AMapConfig{
		Key:            d.Config.AMap.Key,
		BaseURL:        d.Config.AMap.BaseURL,
		SearchTimeout:  d.Config.AMap.SearchTimeout,
		GeocodeTimeout: d.Config.AMap.GeocodeTimeout,
	}, d.Logger)

	d.Extractor = extract.NewExtractor(d.Gazetteer, d.Logger)
	d.Resolver = resolve.NewResolver(d.Gazetteer, amap, d.Logger)
	d.PlannerService = planner.NewService(
		d.Extractor,
		d.Resolver,
		d.Config.Pipeline.ResolveInterval,
		d.Config.Pipeline.SessionTTL,
		d.Logger,
	)
	d.PlannerHandler = planner.NewHandler(d.PlannerService, d.Logger)
}

// Cleanup releases held resources
func (d *Dependencies) Cleanup() {
	if d.Pool != nil {
		d.Pool.Close()
	}
}
