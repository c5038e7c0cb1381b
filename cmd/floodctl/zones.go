package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"floodalert/internal/db"
	"floodalert/internal/modules/zones/repository"
	"floodalert/internal/modules/zones/routing"
	"floodalert/internal/modules/zones/service"
)

func (c *cli) newZonesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Flood zones and evacuation routes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Check a position against the flood zones and route to safety",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.provider()
			if err != nil {
				return err
			}
			conn, err := c.openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(conn) }()

			svc := service.NewService(repository.NewRepository(conn), routing.NewOSRMClient(c.v.GetString("routing_api_url"), c.getter()))
			st, err := svc.Status(cmd.Context(), p)
			if err != nil {
				return err
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, st.Title)
			fmt.Fprintln(out, st.Description)
			if st.NearestSafeZone != nil {
				fmt.Fprintf(out, "Nearest safe zone: %s (%.1f km)\n", st.NearestSafeZone.Name, st.NearestSafeZone.DistanceMeters/1000)
			}
			if st.Route != nil {
				fmt.Fprintf(out, "Route: %.1f km, about %.0f min\n", st.Route.DistanceMeters/1000, st.Route.DurationSeconds/60)
			}
			return nil
		},
	})
	return cmd
}
