package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newEvacuationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evacuation",
		Short: "Check whether a sharp river rise calls for evacuation",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.provider()
			if err != nil {
				return err
			}
			e := c.riskService().Evacuation(cmd.Context(), p)
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), e)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, e.Title)
			fmt.Fprintln(out, e.Message)
			if e.MapsURL != "" {
				fmt.Fprintln(out, e.MapsURL)
			}
			return nil
		},
	}
}
