package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"floodalert/internal/db"
	"floodalert/internal/migrate"
	"floodalert/internal/modules/contacts/repository"
	"floodalert/internal/modules/contacts/service"
	"floodalert/internal/modules/contacts/types"
)

// openDB opens the local database with the schema applied.
func (c *cli) openDB() (*sql.DB, error) {
	conn, err := db.Open(c.dbConfig())
	if err != nil {
		return nil, err
	}
	if err := migrate.Run(conn); err != nil {
		_ = db.Close(conn)
		return nil, err
	}
	return conn, nil
}

func (c *cli) newContactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "List emergency phone numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := c.openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(conn) }()

			svc := service.NewService(repository.NewRepository(conn))
			for st := range svc.Fetch(cmd.Context()) {
				switch st := st.(type) {
				case types.Loading:
					fmt.Fprintln(cmd.ErrOrStderr(), st.Message)
				case types.Failure:
					return errors.New(st.Message)
				case types.Success:
					if c.asJSON {
						return writeJSON(cmd.OutOrStdout(), st.Contacts)
					}
					for _, ct := range st.Contacts {
						fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", ct.Name, ct.Number)
					}
				}
			}
			return nil
		},
	}
}
