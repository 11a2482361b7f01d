package city

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type RepositoryStub struct {
	mu     sync.RWMutex
	nextId int64
	cities []City

	ListErr   error
	CreateErr error
}

func NewRepositoryStub(names ...string) *RepositoryStub {
	s := &RepositoryStub{}
	for _, name := range names {
		s.nextId++
		s.cities = append(s.cities, City{Id: s.nextId, Name: name})
	}
	return s
}

func (s *RepositoryStub) ListCities(ctx context.Context) ([]City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	result := make([]City, len(s.cities))
	copy(result, s.cities)
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *RepositoryStub) FindByName(ctx context.Context, name string) (City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cities {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return City{}, ErrCityNotFound
}

func (s *RepositoryStub) CreateCity(ctx context.Context, name string) (City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return City{}, s.CreateErr
	}
	s.nextId++
	c := City{Id: s.nextId, Name: name}
	s.cities = append(s.cities, c)
	return c, nil
}

func (s *RepositoryStub) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cities)
}
