package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"

	"floodalert/internal/modules/contacts/types"
)

//go:embed sql/list-contacts.sql
var listContactsSQL string

type ContactsRepository interface {
	ListContacts(ctx context.Context) ([]types.Contact, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ContactsRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) ListContacts(ctx context.Context) ([]types.Contact, error) {
	rows, err := r.db.QueryContext(ctx, listContactsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close contacts rows", "error", err)
		}
	}()
	out := []types.Contact{}
	for rows.Next() {
		var c types.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Number, &c.Icon, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
