package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"

	"floodalert/internal/modules/zones/types"
)

//go:embed sql/list-flood-zones.sql
var listFloodZonesSQL string

//go:embed sql/list-safe-zones.sql
var listSafeZonesSQL string

type ZonesRepository interface {
	ListFloodZones(ctx context.Context) ([]types.FloodZone, error)
	ListSafeZones(ctx context.Context) ([]types.SafeZone, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ZonesRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) ListFloodZones(ctx context.Context) ([]types.FloodZone, error) {
	rows, err := r.db.QueryContext(ctx, listFloodZonesSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close flood zone rows", "error", err)
		}
	}()
	out := []types.FloodZone{}
	for rows.Next() {
		var z types.FloodZone
		if err := rows.Scan(&z.ID, &z.Name, &z.North, &z.East, &z.South, &z.West); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) ListSafeZones(ctx context.Context) ([]types.SafeZone, error) {
	rows, err := r.db.QueryContext(ctx, listSafeZonesSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close safe zone rows", "error", err)
		}
	}()
	out := []types.SafeZone{}
	for rows.Next() {
		var z types.SafeZone
		if err := rows.Scan(&z.ID, &z.Name, &z.Coordinate.Latitude, &z.Coordinate.Longitude); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
