package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"floodalert/internal/modules/tips"
)

func (c *cli) newTipsCmd() *cobra.Command {
	var phase string
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Show flood safety tips",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := tips.All()
			if phase != "" {
				g, ok := tips.ForPhase(tips.Phase(phase))
				if !ok {
					return fmt.Errorf("invalid phase %q (allowed: before, during, after)", phase)
				}
				groups = []tips.Group{g}
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), groups)
			}
			fmt.Fprint(cmd.OutOrStdout(), tips.Text(groups))
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "", "only show tips for before, during or after")
	return cmd
}
