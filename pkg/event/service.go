package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventnexus/eventnexus/internal/event_bus"
	"github.com/eventnexus/eventnexus/pkg/city"
	"github.com/eventnexus/eventnexus/pkg/taxonomy"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	CreateEvent(ctx context.Context, input CreateInput) (Event, error)
	UpdateEvent(ctx context.Context, id string, patch Patch) (Event, error)
	DeleteEvent(ctx context.Context, id string) (Event, error)
}

// CityResolver finds a city by name, creating it when it does not exist yet.
type CityResolver interface {
	Resolve(ctx context.Context, name string) (city.City, error)
}

type ServiceImpl struct {
	repo     Repository
	cities   CityResolver
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, cities CityResolver, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		cities:   cities,
		eventBus: eventBus,
	}
}

func (s *ServiceImpl) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.repo.ListEvents(ctx)
	if err != nil {
		s.gatewayFailed(ctx, "list_events", err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return NormalizeAll(rows), nil
}

func (s *ServiceImpl) GetEvent(ctx context.Context, id string) (Event, error) {
	row, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	return Normalize(row), nil
}

// CreateEvent stores the event and links it to its city and vibe. Only a
// failed insert fails the call; a missing city or vibe link leaves a
// degraded but stored event.
func (s *ServiceImpl) CreateEvent(ctx context.Context, input CreateInput) (Event, error) {
	degraded := false

	cityId := s.resolveCity(ctx, input.Location)
	if cityId == nil {
		degraded = true
	}

	stop := input.Date.Add(DefaultDuration)
	row := Row{
		EventTitle:  input.Title,
		Start:       input.Date,
		Stop:        &stop,
		Description: &input.Description,
		Image:       &input.Image,
		CityId:      cityId,
		Location:    &input.Location,
	}

	created, err := s.repo.InsertEvent(ctx, row)
	if err != nil {
		s.gatewayFailed(ctx, "create_event", err)
		return Event{}, fmt.Errorf("failed to create event: %w", err)
	}
	log.Infof("Created event %s (%q)", created.Id, created.EventTitle)

	vibeId, err := s.repo.FindVibeId(ctx, input.Category)
	if err != nil {
		log.Warnf("event %s stored without category, vibe %q not resolved: %v", created.Id, input.Category, err)
		degraded = true
	} else if err := s.repo.LinkVibe(ctx, created.Id, vibeId); err != nil {
		log.Warnf("event %s stored without category link: %v", created.Id, err)
		degraded = true
	}

	created.LinkedCategories = []CategoryLink{{CategoryName: input.Category}}
	created.LinkedCity = nil
	result := Normalize(created)
	result.Location = input.Location

	s.publish(ctx, event_bus.TopicEventCreated, event_bus.EventCreated{
		Id:       result.Id,
		Title:    result.Title,
		Category: result.Category,
		Start:    result.Start,
		Location: result.Location,
		Degraded: degraded,
	})
	return result, nil
}

// resolveCity returns nil when the city could not be found or created.
func (s *ServiceImpl) resolveCity(ctx context.Context, name string) *int64 {
	if s.cities == nil {
		return nil
	}
	c, err := s.cities.Resolve(ctx, name)
	if err != nil {
		log.Warnf("could not resolve city %q, storing event without city: %v", name, err)
		return nil
	}
	return &c.Id
}

func (s *ServiceImpl) UpdateEvent(ctx context.Context, id string, patch Patch) (Event, error) {
	if patch.Category != nil && patch.Image == nil {
		icon := taxonomy.IconFor(*patch.Category)
		patch.Image = &icon
	}
	if patch.Start != nil && patch.Stop == nil {
		stop := patch.Start.Add(DefaultDuration)
		patch.Stop = &stop
	}

	var cityId *int64
	if patch.Location != nil {
		cityId = s.resolveCity(ctx, *patch.Location)
	}

	var updated Row
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		if err := repo.UpdateEvent(ctx, id, cityId, patch); err != nil {
			return err
		}
		if patch.Category != nil {
			vibeId, err := repo.FindVibeId(ctx, *patch.Category)
			if err != nil {
				return fmt.Errorf("unknown category %q: %w", *patch.Category, err)
			}
			if err := repo.ReplaceVibes(ctx, id, vibeId); err != nil {
				return err
			}
		}
		row, err := repo.GetEvent(ctx, id)
		if err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return Event{}, err
		}
		return Event{}, fmt.Errorf("failed to update event %s: %w", id, err)
	}

	result := Normalize(updated)
	s.publish(ctx, event_bus.TopicEventUpdated, event_bus.EventUpdated{Id: result.Id, Title: result.Title})
	return result, nil
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, id string) (Event, error) {
	row, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return Event{}, err
		}
		return Event{}, fmt.Errorf("failed to delete event %s: %w", id, err)
	}

	s.publish(ctx, event_bus.TopicEventDeleted, event_bus.EventDeleted{Id: id})
	return Normalize(row), nil
}

func (s *ServiceImpl) publish(ctx context.Context, topic event_bus.Topic, payload any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewMessage(ctx, topic, payload)); err != nil {
		log.Warnf("failed to publish %s: %v", topic, err)
	}
}

func (s *ServiceImpl) gatewayFailed(ctx context.Context, operation string, err error) {
	s.publish(ctx, event_bus.TopicGatewayFailed, event_bus.GatewayFailed{Operation: operation, Err: err})
}
