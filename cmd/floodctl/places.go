package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"floodalert/internal/db"
	"floodalert/internal/modules/watch/repository"
	"floodalert/internal/modules/watch/service"
	"floodalert/internal/modules/watch/types"
)

func (c *cli) newPlacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Manage and check the watch list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List watched places",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := c.openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(conn) }()

			places, err := repository.NewRepository(conn).ListPlaces(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), places)
			}
			for _, p := range places {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-20s %s\n", p.ID, p.Name, p.Coordinate)
			}
			return nil
		},
	})

	var name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add or move a watched place (uses --lat and --lon)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			p, err := c.provider()
			if err != nil {
				return err
			}
			coord, err := p.Locate(cmd.Context())
			if err != nil {
				return fmt.Errorf("--lat and --lon are required: %w", err)
			}
			conn, err := c.openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(conn) }()

			id, err := repository.NewRepository(conn).UpsertPlace(cmd.Context(), types.Place{Name: name, Coordinate: coord})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "place %d: %s at %s\n", id, name, coord)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "place name")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Run the watch list once and print every result",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := c.openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(conn) }()

			out := cmd.OutOrStdout()
			watcher := service.NewWatcher(repository.NewRepository(conn), c.riskService(), service.NotifierFunc(func(_ context.Context, ch types.Change) {
				fmt.Fprintf(out, "%-20s %s\n", ch.Place.Name, ch.Current.Summary)
			}))
			return watcher.RunOnce(cmd.Context())
		},
	})
	return cmd
}

