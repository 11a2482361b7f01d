package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/eventnexus/eventnexus/internal/utils"
	"github.com/eventnexus/eventnexus/pkg/city"
	"github.com/eventnexus/eventnexus/pkg/event"
	"github.com/eventnexus/eventnexus/pkg/store"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Controller owns the event store and renders it through the filter engine.
type Controller struct {
	store     *store.Store
	engine    *event.Engine
	events    event.Service
	cities    city.Service
	clock     utils.Clock
	templates *template.Template
}

func NewController(events event.Service, cities city.Service, clock utils.Clock) (*Controller, error) {
	templates, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Controller{
		store:     store.New(),
		engine:    event.NewEngine(clock),
		events:    events,
		cities:    cities,
		clock:     clock,
		templates: templates,
	}, nil
}

// Start runs the initial load in the background.
func (c *Controller) Start(ctx context.Context) {
	go c.Load(context.WithoutCancel(ctx))
}

// Load fetches every event into the store, replacing what it held.
func (c *Controller) Load(ctx context.Context) {
	c.store.Dispatch(store.LoadStarted{})
	events, err := c.events.ListEvents(ctx)
	if err != nil {
		log.Errorf("Error loading events: %v", err)
		c.store.Dispatch(store.LoadFailed{Err: err})
		return
	}
	log.Infof("Loaded %d events", len(events))
	c.store.Dispatch(store.LoadSucceeded{Events: events})
}

func (c *Controller) Snapshot() store.State {
	return c.store.Snapshot()
}
