package city

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrCityNotFound = errors.New("city not found")

type Repository interface {
	ListCities(ctx context.Context) ([]City, error)
	// FindByName matches the whole name, ignoring case.
	FindByName(ctx context.Context, name string) (City, error)
	CreateCity(ctx context.Context, name string) (City, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ListCities(ctx context.Context) ([]City, error) {
	rows, err := r.db.Query(ctx, `SELECT id, city_name FROM cities ORDER BY city_name`)
	if err != nil {
		err := fmt.Errorf("could not query cities: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	cities := make([]City, 0, 16)
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.Id, &c.Name); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return cities, nil
}

func (r *RepositoryImpl) FindByName(ctx context.Context, name string) (City, error) {
	query := `SELECT id, city_name FROM cities WHERE lower(city_name) = lower($1) LIMIT 1`
	var c City
	err := r.db.QueryRow(ctx, query, name).Scan(&c.Id, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return City{}, ErrCityNotFound
		}
		err := fmt.Errorf("could not find city %q: %w", name, err)
		log.Error(err)
		return City{}, err
	}
	return c, nil
}

func (r *RepositoryImpl) CreateCity(ctx context.Context, name string) (City, error) {
	query := `INSERT INTO cities (city_name) VALUES ($1)
			  ON CONFLICT (lower(city_name)) DO NOTHING
			  RETURNING id, city_name`
	var c City
	err := r.db.QueryRow(ctx, query, name).Scan(&c.Id, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// created concurrently under another spelling
			log.Debugf("city %q already exists, looking it up", name)
			return r.FindByName(ctx, name)
		}
		err := fmt.Errorf("could not create city %q: %w", name, err)
		log.Error(err)
		return City{}, err
	}
	return c, nil
}
