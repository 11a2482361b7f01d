package app

import (
	"fmt"

	"github.com/eventnexus/eventnexus/internal/config"
	"github.com/eventnexus/eventnexus/internal/event_bus"
	"github.com/eventnexus/eventnexus/internal/metrics"
	"github.com/eventnexus/eventnexus/internal/utils"
	"github.com/eventnexus/eventnexus/pkg/city"
	"github.com/eventnexus/eventnexus/pkg/event"
	"github.com/eventnexus/eventnexus/pkg/taxonomy"
	"github.com/eventnexus/eventnexus/pkg/ui"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Metrics  *metrics.Metrics
	Clock    utils.Clock

	CityRepo    city.Repository
	CityService *city.ServiceImpl
	CityHandler *city.Handler

	EventRepo    event.Repository
	EventService *event.ServiceImpl
	EventHandler *event.Handler

	TaxonomyHandler *taxonomy.Handler

	UI *ui.Controller
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	return buildDependencies(event.NewRepository(db), city.NewRepository(db), cfg)
}

func buildDependencies(eventRepo event.Repository, cityRepo city.Repository, cfg config.Application) (*Dependencies, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = utils.SystemClock{Location: loc}
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
		deps.Metrics.Subscribe(deps.EventBus)
	}

	deps.CityRepo = cityRepo
	deps.CityService = city.NewService(deps.CityRepo, deps.EventBus)
	deps.CityHandler = city.NewHandler(deps.CityService)

	deps.EventRepo = eventRepo
	deps.EventService = event.NewService(deps.EventRepo, deps.CityService, deps.EventBus)
	deps.EventHandler = event.NewHandler(deps.EventService, deps.Clock)

	deps.TaxonomyHandler = taxonomy.NewHandler()

	if cfg.Frontend.Enabled {
		deps.UI, err = ui.NewController(deps.EventService, deps.CityService, deps.Clock)
		if err != nil {
			return nil, fmt.Errorf("failed to build ui: %w", err)
		}
	}

	return deps, nil
}
