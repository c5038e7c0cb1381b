package telegram

import (
	"fmt"
	"strings"

	contacttypes "floodalert/internal/modules/contacts/types"
	riskservice "floodalert/internal/modules/risk/service"
	risktypes "floodalert/internal/modules/risk/types"
	watchtypes "floodalert/internal/modules/watch/types"
)

func FormatAssessment(a risktypes.RiskAssessment) string {
	var sb strings.Builder
	sb.WriteString(a.Summary)
	if a.LocationAvailable {
		fmt.Fprintf(&sb, "\n\nRiver: %s\nRain: %s", formatLevel(a.RiverLevel), formatLevel(a.RainLevel))
	}
	if a.InDanger {
		fmt.Fprintf(&sb, "\n\nRiver discharge is forecast to rise sharply. Find the nearest shelter: %s", riskservice.MapsSearchURL())
	}
	return sb.String()
}

func formatLevel(l float64) string {
	if l < 0 {
		return "unavailable"
	}
	return fmt.Sprintf("%.1f ft", l)
}

func FormatEvacuation(e risktypes.EvacuationStatus) string {
	text := e.Title + "\n" + e.Message
	if e.MapsURL != "" {
		text += "\n\n" + e.MapsURL
	}
	return text
}

func FormatContacts(st contacttypes.State) string {
	switch st := st.(type) {
	case contacttypes.Success:
		if len(st.Contacts) == 0 {
			return "No emergency contacts configured."
		}
		var sb strings.Builder
		sb.WriteString("Emergency contacts:\n")
		for _, c := range st.Contacts {
			fmt.Fprintf(&sb, "\n%s: %s", c.Name, c.Number)
		}
		return sb.String()
	case contacttypes.Failure:
		return st.Message
	default:
		return "Failed to load contacts."
	}
}

func FormatChange(c watchtypes.Change) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Flood watch: %s\n%s", c.Place.Name, c.Current.Summary)
	if c.Previous != nil {
		fmt.Fprintf(&sb, "\nPreviously: %s", c.Previous.Summary)
	}
	if c.Current.InDanger {
		sb.WriteString("\nRiver discharge is forecast to rise sharply.")
	}
	return sb.String()
}
