package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"

	"floodalert/internal/modules/watch/types"
)

//go:embed sql/list-places.sql
var listPlacesSQL string

//go:embed sql/insert-place.sql
var insertPlaceSQL string

type PlacesRepository interface {
	ListPlaces(ctx context.Context) ([]types.Place, error)
	UpsertPlace(ctx context.Context, p types.Place) (int64, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) PlacesRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) ListPlaces(ctx context.Context) ([]types.Place, error) {
	rows, err := r.db.QueryContext(ctx, listPlacesSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close places rows", "error", err)
		}
	}()
	out := []types.Place{}
	for rows.Next() {
		var p types.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Coordinate.Latitude, &p.Coordinate.Longitude); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertPlace inserts p or moves the existing place with the same name.
func (r *repositoryImpl) UpsertPlace(ctx context.Context, p types.Place) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, insertPlaceSQL, p.Name, p.Coordinate.Latitude, p.Coordinate.Longitude).Scan(&id)
	return id, err
}
