package export

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
)

// RobotCrumb is one crumb of a fitted trail, outermost first.
type RobotCrumb struct {
	Label    string `json:"label"`
	Title    string `json:"title,omitempty"`
	Text     string `json:"text"`
	Tier     string `json:"tier"`
	Width    int    `json:"width"`
	Dimmed   bool   `json:"dimmed,omitempty"`
	Selected bool   `json:"selected,omitempty"`
	Start    bool   `json:"start,omitempty"`
	End      bool   `json:"end,omitempty"`
}

// RobotFit is the machine-readable outcome of fitting one trail.
type RobotFit struct {
	Source   string       `json:"source"`
	Selected string       `json:"selected,omitempty"`
	Width    int          `json:"width"`
	Padding  int          `json:"padding"`
	Measured int          `json:"measured"`
	Fits     bool         `json:"fits"`
	Skipped  bool         `json:"skipped,omitempty"`
	Phase    string       `json:"phase"`
	Steps    int          `json:"steps"`
	Path     string       `json:"path"`
	Crumbs   []RobotCrumb `json:"crumbs"`
	Error    string       `json:"error,omitempty"`
}

// RobotOutput wraps every fitted trail of one invocation.
type RobotOutput struct {
	GeneratedAt string     `json:"generated_at"`
	Version     string     `json:"version"`
	Trails      []RobotFit `json:"trails"`
}

// NewRobotFit describes t after a fit pass. measured is the width the
// measurer reports for the fitted trail.
func NewRobotFit(source string, t *breadcrumb.Trail, width, padding, measured int, res breadcrumb.Result, compactWidth int) RobotFit {
	out := RobotFit{
		Source:   source,
		Width:    width,
		Padding:  padding,
		Measured: measured,
		Fits:     res.Fits,
		Skipped:  res.Skipped,
		Phase:    res.Phase.String(),
		Steps:    res.Steps,
		Path:     t.Path("/"),
		Crumbs:   make([]RobotCrumb, 0, t.Len()),
	}
	crumbs := t.Crumbs()
	for i := len(crumbs) - 1; i >= 0; i-- {
		c := crumbs[i]
		if c.Selected {
			out.Selected = c.Title
		}
		out.Crumbs = append(out.Crumbs, RobotCrumb{
			Label:    c.Label,
			Title:    c.Title,
			Text:     c.Text(compactWidth),
			Tier:     c.Tier.String(),
			Width:    c.Width(),
			Dimmed:   c.Dimmed,
			Selected: c.Selected,
			Start:    c.Start,
			End:      c.End,
		})
	}
	return out
}

// WriteRobotJSON writes out as indented JSON.
func WriteRobotJSON(w io.Writer, out RobotOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
