// Package tips serves the static flood safety advice shown next to the gauge.
package tips

import (
	"fmt"
	"net/http"
	"strings"

	"floodalert/internal/utils"
)

type Phase string

const (
	Before Phase = "before"
	During Phase = "during"
	After  Phase = "after"
)

type Group struct {
	Phase Phase    `json:"phase"`
	Title string   `json:"title"`
	Tips  []string `json:"tips"`
}

var groups = []Group{
	{
		Phase: Before,
		Title: "Before a Flood",
		Tips: []string{
			"Know your area's flood risk and the nearest high ground.",
			"Keep an emergency kit with water, food, medicines, a torch and a power bank.",
			"Store important documents in a waterproof bag.",
			"Move valuables and electrical appliances to higher floors.",
			"Save emergency numbers and agree on a family meeting point.",
		},
	},
	{
		Phase: During,
		Title: "During a Flood",
		Tips: []string{
			"Move to higher ground immediately if told to evacuate.",
			"Do not walk, swim or drive through flood water.",
			"Switch off electricity and gas at the mains if it is safe to do so.",
			"Stay away from drains, culverts and fallen power lines.",
			"Keep listening to official alerts on radio or phone.",
		},
	},
	{
		Phase: After,
		Title: "After a Flood",
		Tips: []string{
			"Return home only when authorities say it is safe.",
			"Avoid flood water; it may be contaminated or electrically charged.",
			"Photograph damage for insurance before cleaning up.",
			"Throw away food and drinking water that touched flood water.",
			"Have electrical systems checked before switching power back on.",
		},
	},
}

// All returns every tip group in before, during, after order.
func All() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Phase: g.Phase, Title: g.Title, Tips: append([]string(nil), g.Tips...)}
	}
	return out
}

// ForPhase returns the group for p.
func ForPhase(p Phase) (Group, bool) {
	for _, g := range All() {
		if g.Phase == p {
			return g, true
		}
	}
	return Group{}, false
}

// Text renders groups as plain text for chat and terminal surfaces.
func Text(gs []Group) string {
	var b strings.Builder
	for i, g := range gs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(g.Title + "\n")
		for _, t := range g.Tips {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	return b.String()
}

func handleTips(w http.ResponseWriter, r *http.Request) {
	phase := r.URL.Query().Get("phase")
	if phase == "" {
		utils.WriteJSON(w, http.StatusOK, All())
		return
	}
	g, ok := ForPhase(Phase(phase))
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "invalid 'phase' (expected before, during or after)")
		return
	}
	utils.WriteJSON(w, http.StatusOK, []Group{g})
}

func RegisterFeature(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/tips", handleTips)
}
