package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"

	"floodalert/internal/modules/risk/scorer"
	"floodalert/internal/modules/risk/types"
	"floodalert/internal/modules/tips"
)

//go:embed templates
var viewsFS embed.FS

var pageTmpl *template.Template

var errNotLoaded = errors.New("template not loaded: call views.LoadTemplates during startup")

func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pageTmpl, err = template.ParseFS(sub, "*.html", "partials/*.html")
	return err
}

// LoadTemplates parses the embedded pages. Call once at startup; the server
// must not start if it fails.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

type DashboardItem struct {
	ID          string
	Title       string
	Description string
	Href        string
}

type DashboardData struct {
	Items []DashboardItem
}

func RenderDashboard(w io.Writer, data DashboardData) error {
	if pageTmpl == nil {
		return errNotLoaded
	}
	return pageTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

type GaugeMark struct {
	Feet    int
	Percent int
}

// Gauge is the water-column view of a risk level.
type Gauge struct {
	Level   float64
	Percent float64
	Marks   []GaugeMark
}

// NewGauge clamps level to 0-5 ft and lays out the 1-4 ft scale marks.
func NewGauge(level float64) Gauge {
	level = scorer.Clamp(level)
	g := Gauge{Level: level, Percent: level / types.MaxLevel * 100}
	for ft := 1; ft <= 4; ft++ {
		g.Marks = append(g.Marks, GaugeMark{Feet: ft, Percent: ft * 100 / int(types.MaxLevel)})
	}
	return g
}

type RiskPageData struct {
	Assessment types.RiskAssessment
	Gauge      Gauge
	Tips       []tips.Group
	Lat        string
	Lon        string
}

func RenderRiskPage(w io.Writer, data RiskPageData) error {
	if pageTmpl == nil {
		return errNotLoaded
	}
	return pageTmpl.ExecuteTemplate(w, "risk.html", data)
}
