package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"floodalert/internal/db"
	"floodalert/internal/migrate"
)

func (c *cli) newMigrateCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := db.Open(c.dbConfig())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(conn) }()

			pending, err := migrate.Pending(conn)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "database is up to date")
				return nil
			}
			for _, m := range pending {
				fmt.Fprintf(out, "pending %s_%s\n", m.Version, m.Name)
			}
			if dryRun {
				return nil
			}
			if err := migrate.Run(conn); err != nil {
				return err
			}
			fmt.Fprintf(out, "applied %d migration(s)\n", len(pending))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list pending migrations without applying them")
	return cmd
}
