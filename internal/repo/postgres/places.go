package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/placeshare/internal/domain/place"
	"github.com/geocoder89/placeshare/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlacesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPlacesRepo(pool *pgxpool.Pool, prom *observability.Prom) *PlacesRepo {
	return &PlacesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *PlacesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// BeginTx opens the transaction scope the handlers commit exactly once;
// callers are expected to defer a rollback.
func (r *PlacesRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.BeginTx(ctx, pgx.TxOptions{})
}

func (r *PlacesRepo) GetByID(ctx context.Context, id string) (place.Place, error) {
	var p place.Place

	err := r.observe("places.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, description, address, lat, lng, image, creator
			 FROM places
			 WHERE id = $1`,
			id,
		).Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Location.Lat, &p.Location.Lng, &p.Image, &p.Creator)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return place.Place{}, place.ErrNotFound
		}

		return place.Place{}, err
	}

	return p, nil
}

// ListByIDs resolves a user's owned places from its place-id list, keeping
// a stable order for the response.
func (r *PlacesRepo) ListByIDs(ctx context.Context, ids []string) (places []place.Place, err error) {
	var rows pgx.Rows

	err = r.observe("places.list_by_ids", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, title, description, address, lat, lng, image, creator
			 FROM places
			 WHERE id = ANY($1)
			 ORDER BY id ASC`,
			ids,
		)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	places = make([]place.Place, 0, len(ids))

	for rows.Next() {
		var p place.Place

		e := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Location.Lat, &p.Location.Lng, &p.Image, &p.Creator)

		if e != nil {
			return nil, e
		}
		places = append(places, p)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return places, nil
}

func (r *PlacesRepo) CreateTx(ctx context.Context, tx pgx.Tx, p place.Place) error {
	return r.observe("places.create_tx", func() error {
		_, e := tx.Exec(ctx,
			`INSERT INTO places (id, title, description, address, lat, lng, image, creator)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			p.ID, p.Title, p.Description, p.Address, p.Location.Lat, p.Location.Lng, p.Image, p.Creator,
		)
		return e
	})
}

func (r *PlacesRepo) Update(ctx context.Context, id string, req place.UpdatePlaceRequest) (place.Place, error) {
	var p place.Place

	err := r.observe("places.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE places
				SET title = $2,
						description = $3
			WHERE id = $1
			RETURNING id, title, description, address, lat, lng, image, creator`,
			id,
			req.Title,
			req.Description,
		).Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Location.Lat, &p.Location.Lng, &p.Image, &p.Creator)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return place.Place{}, place.ErrNotFound
		}

		return place.Place{}, err
	}

	return p, nil
}

func (r *PlacesRepo) DeleteTx(ctx context.Context, tx pgx.Tx, id string) error {
	return r.observe("places.delete_tx", func() error {
		tag, e := tx.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)

		if e != nil {
			return e
		}

		if tag.RowsAffected() == 0 {
			return place.ErrNotFound
		}

		return nil
	})
}
