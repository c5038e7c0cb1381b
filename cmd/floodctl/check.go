package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	riskservice "floodalert/internal/modules/risk/service"
	"floodalert/internal/modules/risk/types"
	"floodalert/internal/tui"
)

func (c *cli) newCheckCmd() *cobra.Command {
	var useTUI bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Assess flood risk at a position",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.provider()
			if err != nil {
				return err
			}
			svc := c.riskService()

			if useTUI {
				checker := riskservice.NewChecker(svc, "tui")
				defer checker.Close()
				return tui.Run(checker, p)
			}

			a := svc.AssessLocation(cmd.Context(), p)
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), a)
			}
			printAssessment(cmd.OutOrStdout(), a)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useTUI, "tui", false, "show an animated gauge in the terminal")
	return cmd
}

func printAssessment(w io.Writer, a types.RiskAssessment) {
	fmt.Fprintln(w, a.Summary)
	if !a.LocationAvailable {
		return
	}
	fmt.Fprintf(w, "  position: %s\n", a.Coordinate)
	for _, s := range a.Sources {
		if s.Level < 0 {
			fmt.Fprintf(w, "  %-6s unavailable (%s)\n", s.Source, s.Error)
			continue
		}
		fmt.Fprintf(w, "  %-6s %.1f ft\n", s.Source, s.Level)
	}
	if a.InDanger {
		fmt.Fprintln(w, "  River discharge is forecast to rise sharply. Run 'floodctl evacuation' for shelter guidance.")
	}
}
