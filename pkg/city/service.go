package city

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventnexus/eventnexus/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	ListCities(ctx context.Context) ([]City, error)
	// Resolve returns the city named name, creating it when unknown.
	Resolve(ctx context.Context, name string) (City, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) ListCities(ctx context.Context) ([]City, error) {
	cities, err := s.repo.ListCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

func (s *ServiceImpl) Resolve(ctx context.Context, name string) (City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return City{}, errors.New("city name is empty")
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCityNotFound) {
		return City{}, fmt.Errorf("failed to look up city: %w", err)
	}

	created, err := s.repo.CreateCity(ctx, name)
	if err != nil {
		return City{}, fmt.Errorf("failed to create city: %w", err)
	}
	log.Infof("Created city %q (id %d)", created.Name, created.Id)

	if s.eventBus != nil {
		err = s.eventBus.Publish(event_bus.NewMessage(ctx, event_bus.TopicCityCreated, event_bus.CityCreated{
			Id:   created.Id,
			Name: created.Name,
		}))
		if err != nil {
			log.Warnf("failed to publish city creation: %v", err)
		}
	}
	return created, nil
}
