package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	ListEvents(ctx context.Context) ([]Row, error)
	GetEvent(ctx context.Context, id string) (Row, error)
	InsertEvent(ctx context.Context, row Row) (Row, error)
	UpdateEvent(ctx context.Context, id string, cityId *int64, patch Patch) error
	DeleteEvent(ctx context.Context, id string) error
	FindVibeId(ctx context.Context, category string) (int64, error)
	LinkVibe(ctx context.Context, eventId string, vibeId int64) error
	// ReplaceVibes drops every vibe link of the event and links vibeId instead.
	ReplaceVibes(ctx context.Context, eventId string, vibeId int64) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

type queryer interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// getQueryer returns the transaction when one is open, the pool otherwise.
func (r *RepositoryImpl) getQueryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// no-op once committed
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	if err := fn(&RepositoryImpl{db: r.db, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const selectEvents = `SELECT
    			e.id::text,
    			e.event_title,
    			e.start,
    			e.stop,
    			e.description,
    			e.image,
    			e.created_at,
    			e.updated_at,
    			e.city_id,
    			e.location,
    			c.city_name,
    			COALESCE(array_agg(v.category ORDER BY ev.id) FILTER (WHERE v.id IS NOT NULL), '{}') AS categories
			  FROM events e
			  LEFT JOIN cities c ON c.id = e.city_id
			  LEFT JOIN event_vibes ev ON ev.event_id = e.id
			  LEFT JOIN vibes v ON v.id = ev.vibe_id`

func (r *RepositoryImpl) ListEvents(ctx context.Context) ([]Row, error) {
	query := selectEvents + ` GROUP BY e.id, c.city_name ORDER BY e.start`

	rows, err := r.getQueryer().Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	result := make([]Row, 0, 16)
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return result, nil
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, id string) (Row, error) {
	query := selectEvents + ` WHERE e.id = $1::uuid GROUP BY e.id, c.city_name`

	row, err := scanRow(r.getQueryer().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Row{}, ErrEventNotFound
		}
		err := fmt.Errorf("could not get event %s: %w", id, err)
		log.Error(err)
		return Row{}, err
	}
	return row, nil
}

func scanRow(row pgx.Row) (Row, error) {
	var (
		r          Row
		cityName   *string
		categories []string
	)
	err := row.Scan(
		&r.Id,
		&r.EventTitle,
		&r.Start,
		&r.Stop,
		&r.Description,
		&r.Image,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.CityId,
		&r.Location,
		&cityName,
		&categories,
	)
	if err != nil {
		return Row{}, err
	}
	if cityName != nil {
		r.LinkedCity = &CityLink{CityName: *cityName}
	}
	for _, c := range categories {
		r.LinkedCategories = append(r.LinkedCategories, CategoryLink{CategoryName: c})
	}
	return r, nil
}

func (r *RepositoryImpl) InsertEvent(ctx context.Context, row Row) (Row, error) {
	query := `INSERT INTO events (
                    event_title,
                    city_id,
                    start,
                    stop,
                    location,
                    description,
                    image
				) VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id::text, created_at, updated_at`

	err := r.getQueryer().QueryRow(ctx, query,
		row.EventTitle,
		row.CityId,
		row.Start,
		row.Stop,
		row.Location,
		row.Description,
		row.Image,
	).Scan(&row.Id, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert event: %w", err)
		log.Error(err)
		return Row{}, err
	}
	return row, nil
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, id string, cityId *int64, patch Patch) error {
	query := `UPDATE events SET
                  event_title = COALESCE($2, event_title),
                  start = COALESCE($3, start),
                  stop = COALESCE($4, stop),
                  location = COALESCE($5, location),
                  description = COALESCE($6, description),
                  image = COALESCE($7, image),
                  city_id = CASE WHEN $5::text IS NULL THEN city_id ELSE $8 END,
                  updated_at = $9
              WHERE id = $1::uuid`

	tag, err := r.getQueryer().Exec(ctx, query,
		id,
		patch.Title,
		patch.Start,
		patch.Stop,
		patch.Location,
		patch.Description,
		patch.Image,
		cityId,
		time.Now(),
	)
	if err != nil {
		err := fmt.Errorf("could not update event %s: %w", id, err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, id string) error {
	tag, err := r.getQueryer().Exec(ctx, `DELETE FROM events WHERE id = $1::uuid`, id)
	if err != nil {
		err := fmt.Errorf("could not delete event %s: %w", id, err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *RepositoryImpl) FindVibeId(ctx context.Context, category string) (int64, error) {
	query := `SELECT id FROM vibes WHERE lower(category) = lower($1) ORDER BY id LIMIT 1`
	var id int64
	err := r.getQueryer().QueryRow(ctx, query, category).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrVibeNotFound
		}
		err := fmt.Errorf("could not find vibe %q: %w", category, err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) LinkVibe(ctx context.Context, eventId string, vibeId int64) error {
	query := `INSERT INTO event_vibes (event_id, vibe_id) VALUES ($1::uuid, $2)`
	if _, err := r.getQueryer().Exec(ctx, query, eventId, vibeId); err != nil {
		err := fmt.Errorf("could not link event %s to vibe %d: %w", eventId, vibeId, err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) ReplaceVibes(ctx context.Context, eventId string, vibeId int64) error {
	if _, err := r.getQueryer().Exec(ctx, `DELETE FROM event_vibes WHERE event_id = $1::uuid`, eventId); err != nil {
		err := fmt.Errorf("could not unlink vibes of event %s: %w", eventId, err)
		log.Error(err)
		return err
	}
	return r.LinkVibe(ctx, eventId, vibeId)
}
