package event

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RepositoryStub keeps rows in memory. The *Err fields make the matching
// operation fail, for exercising degraded paths.
type RepositoryStub struct {
	mu     sync.RWMutex
	rows   map[string]Row
	order  []string
	vibes  map[string]int64 // lowercase category -> id
	links  map[string][]int64
	cities map[int64]string

	ListErr   error
	InsertErr error
	VibeErr   error
	LinkErr   error
}

func NewRepositoryStub() *RepositoryStub {
	s := &RepositoryStub{}
	s.Cleanup()
	return s
}

// Cleanup resets the stub, seeding the same vibes the migrations do.
func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = make(map[string]Row)
	s.order = nil
	s.links = make(map[string][]int64)
	s.cities = make(map[int64]string)
	s.vibes = map[string]int64{}
	for i, c := range []string{"party", "music", "festival", "food", "artsy", "comedy", "expo", "sports"} {
		s.vibes[c] = int64(i + 1)
	}
	s.ListErr, s.InsertErr, s.VibeErr, s.LinkErr = nil, nil, nil, nil
}

// SetCity makes the stub join cityId to name, like the cities table would.
func (s *RepositoryStub) SetCity(cityId int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cities[cityId] = name
}

func (s *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	return fn(s)
}

func (s *RepositoryStub) ListEvents(ctx context.Context) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	result := make([]Row, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.joined(s.rows[id]))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	return result, nil
}

func (s *RepositoryStub) GetEvent(ctx context.Context, id string) (Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok {
		return Row{}, ErrEventNotFound
	}
	return s.joined(row), nil
}

func (s *RepositoryStub) joined(row Row) Row {
	row.LinkedCategories = nil
	for _, vibeId := range s.links[row.Id] {
		for name, id := range s.vibes {
			if id == vibeId {
				row.LinkedCategories = append(row.LinkedCategories, CategoryLink{CategoryName: name})
			}
		}
	}
	row.LinkedCity = nil
	if row.CityId != nil {
		if name, ok := s.cities[*row.CityId]; ok {
			row.LinkedCity = &CityLink{CityName: name}
		}
	}
	return row
}

func (s *RepositoryStub) InsertEvent(ctx context.Context, row Row) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertErr != nil {
		return Row{}, s.InsertErr
	}
	row.Id = uuid.NewString()
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	s.rows[row.Id] = row
	s.order = append(s.order, row.Id)
	return row, nil
}

func (s *RepositoryStub) UpdateEvent(ctx context.Context, id string, cityId *int64, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return ErrEventNotFound
	}
	if patch.Title != nil {
		row.EventTitle = *patch.Title
	}
	if patch.Start != nil {
		row.Start = *patch.Start
	}
	if patch.Stop != nil {
		row.Stop = patch.Stop
	}
	if patch.Location != nil {
		row.Location = patch.Location
		row.CityId = cityId
	}
	if patch.Description != nil {
		row.Description = patch.Description
	}
	if patch.Image != nil {
		row.Image = patch.Image
	}
	row.UpdatedAt = time.Now()
	s.rows[id] = row
	return nil
}

func (s *RepositoryStub) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrEventNotFound
	}
	delete(s.rows, id)
	delete(s.links, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *RepositoryStub) FindVibeId(ctx context.Context, category string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.VibeErr != nil {
		return 0, s.VibeErr
	}
	id, ok := s.vibes[strings.ToLower(category)]
	if !ok {
		return 0, ErrVibeNotFound
	}
	return id, nil
}

func (s *RepositoryStub) LinkVibe(ctx context.Context, eventId string, vibeId int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LinkErr != nil {
		return s.LinkErr
	}
	if _, ok := s.rows[eventId]; !ok {
		return fmt.Errorf("no event with id %s", eventId)
	}
	s.links[eventId] = append(s.links[eventId], vibeId)
	return nil
}

func (s *RepositoryStub) ReplaceVibes(ctx context.Context, eventId string, vibeId int64) error {
	s.mu.Lock()
	delete(s.links, eventId)
	s.mu.Unlock()
	return s.LinkVibe(ctx, eventId, vibeId)
}
