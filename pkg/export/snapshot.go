// Package export writes fitted trails out of the terminal: as SVG or PNG
// snapshots and as JSON for scripts.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
	"github.com/vanderheijden86/crumbbar/pkg/metrics"
)

// ErrEmptyTrail is returned when there is nothing to draw.
var ErrEmptyTrail = errors.New("trail has no crumbs")

// SnapshotOptions controls snapshot export.
type SnapshotOptions struct {
	Path         string // Output path; format inferred from extension when Format empty
	Format       string // "svg" or "png" (case-insensitive)
	Title        string // Optional heading, defaults to the trail path
	Preset       string // "compact" (default) or "roomy"
	Trail        *breadcrumb.Trail
	Result       breadcrumb.Result
	Width        int // container width in cells the trail was fitted to
	CompactWidth int
	Separator    string
}

// SaveSnapshot draws the visible crumbs of an already fitted trail as chips,
// outermost first, with a marker at the container edge.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.SnapshotExport)()

	if opts.Trail.Len() == 0 {
		return ErrEmptyTrail
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(opts)

	switch format {
	case "svg":
		return renderSVG(opts.Path, layout)
	default:
		return renderPNG(opts.Path, layout)
	}
}

// --- layout computation ----------------------------------------------------

type chip struct {
	Text     string
	X, W     float64
	Tier     breadcrumb.Tier
	Dimmed   bool
	Selected bool
	Start    bool
	End      bool
}

type layoutResult struct {
	Chips    []chip
	SepText  string
	SepXs    []float64
	Width    int
	Height   int
	ChipY    float64
	ChipH    float64
	LimitX   float64
	Title    string
	Subtitle string
}

// Glyph cells are drawn with basicfont.Face7x13, so one cell is 7px wide.
const cellPx = 7.0

func buildLayout(opts SnapshotOptions) layoutResult {
	const (
		chipHCompact = 24.0
		chipHRoomy   = 32.0
		padCompact   = 8.0
		padRoomy     = 14.0
		margin       = 24.0
		headerHeight = 64.0
	)
	chipH, pad := chipHCompact, padCompact
	if strings.EqualFold(opts.Preset, "roomy") {
		chipH, pad = chipHRoomy, padRoomy
	}

	sep := opts.Separator
	if sep == "" {
		sep = " › "
	}
	sepW := float64(textCells(sep)) * cellPx

	l := layoutResult{
		SepText: strings.TrimSpace(sep),
		ChipY:   headerHeight,
		ChipH:   chipH,
		Title:   opts.Title,
	}
	if l.Title == "" {
		l.Title = opts.Trail.Path("/")
	}
	l.Subtitle = fmt.Sprintf("width: %d  phase: %s  fits: %t  steps: %d",
		opts.Width, opts.Result.Phase, opts.Result.Fits, opts.Result.Steps)

	x := margin
	crumbs := opts.Trail.Crumbs()
	first := true
	for i := len(crumbs) - 1; i >= 0; i-- {
		c := crumbs[i]
		if c.Tier == breadcrumb.TierHidden {
			continue
		}
		if !first {
			l.SepXs = append(l.SepXs, x+sepW/2)
			x += sepW
		}
		first = false
		text := c.Text(opts.CompactWidth)
		w := float64(textCells(text))*cellPx + 2*pad
		l.Chips = append(l.Chips, chip{
			Text:     text,
			X:        x,
			W:        w,
			Tier:     c.Tier,
			Dimmed:   c.Dimmed,
			Selected: c.Selected,
			Start:    c.Start,
			End:      c.End,
		})
		x += w
	}

	l.LimitX = margin + float64(opts.Width)*cellPx
	right := max(x, l.LimitX, margin+float64(textCells(l.Title))*cellPx)
	l.Width = int(right + margin)
	l.Height = int(headerHeight + chipH + margin)
	return l
}

// textCells counts runes; basicfont has no wide glyphs.
func textCells(s string) int {
	return len([]rune(s))
}

// --- rendering -------------------------------------------------------------

var (
	colorNormal    = color.RGBA{0xe3, 0xf2, 0xfd, 0xff}
	colorSelected  = color.RGBA{0xbd, 0x93, 0xf9, 0xff}
	colorDimmed    = color.RGBA{0xec, 0xef, 0xf1, 0xff}
	colorCollapsed = color.RGBA{0xcf, 0xd8, 0xdc, 0xff}
	colorStroke    = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorText      = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle    = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorLimit     = color.RGBA{0xff, 0x55, 0x55, 0xff}
	colorBackdrop  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
)

func chipFill(c chip) color.RGBA {
	switch {
	case c.Selected:
		return colorSelected
	case c.Tier == breadcrumb.TierCollapsed:
		return colorCollapsed
	case c.Dimmed:
		return colorDimmed
	default:
		return colorNormal
	}
}

func chipTextColor(c chip) color.RGBA {
	if c.Dimmed && !c.Selected {
		return colorSubtle
	}
	return colorText
}

// chipRadius rounds the outer ends of the trail more than inner chips.
func chipRadius(c chip, h float64) float64 {
	if c.Start || c.End {
		return h / 2
	}
	return 4
}

func renderPNG(path string, l layoutResult) error {
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(l.Title, 24, 22, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(l.Subtitle, 24, 42, 0, 0.5)

	for _, sx := range l.SepXs {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(l.SepText, sx, l.ChipY+l.ChipH/2, 0.5, 0.5)
	}

	for _, c := range l.Chips {
		r := chipRadius(c, l.ChipH)
		dc.SetColor(chipFill(c))
		dc.DrawRoundedRectangle(c.X, l.ChipY, c.W, l.ChipH, r)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1)
		if c.Tier == breadcrumb.TierCompact {
			dc.SetDash(3, 2)
		}
		dc.DrawRoundedRectangle(c.X, l.ChipY, c.W, l.ChipH, r)
		dc.Stroke()
		dc.SetDash()

		dc.SetColor(chipTextColor(c))
		dc.DrawStringAnchored(c.Text, c.X+c.W/2, l.ChipY+l.ChipH/2, 0.5, 0.5)
	}

	dc.SetColor(colorLimit)
	dc.SetDash(4, 3)
	dc.DrawLine(l.LimitX, l.ChipY-8, l.LimitX, l.ChipY+l.ChipH+8)
	dc.Stroke()
	dc.SetDash()

	return dc.SavePNG(path)
}

func renderSVG(path string, l layoutResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, l)
}

func renderSVGToWriter(w io.Writer, l layoutResult) error {
	canvas := svg.New(w)
	canvas.Start(l.Width, l.Height)
	canvas.Rect(0, 0, l.Width, l.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Text(24, 26, l.Title, fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(24, 46, l.Subtitle, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))

	y := int(l.ChipY)
	h := int(l.ChipH)
	for _, sx := range l.SepXs {
		canvas.Text(int(sx), y+h/2+4, l.SepText,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
	}

	for _, c := range l.Chips {
		r := int(chipRadius(c, l.ChipH))
		stroke := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(chipFill(c)), css(colorStroke))
		if c.Tier == breadcrumb.TierCompact {
			stroke += ";stroke-dasharray:3,2"
		}
		class := "crumb " + c.Tier.String()
		if c.Selected {
			class += " selected"
		}
		if c.Dimmed {
			class += " dimmed"
		}
		canvas.Group(fmt.Sprintf(`class="%s"`, class))
		canvas.Roundrect(int(c.X), y, int(c.W), h, r, r, stroke)
		weight := "normal"
		if c.Selected {
			weight = "bold"
		}
		canvas.Text(int(c.X+c.W/2), y+h/2+4, c.Text,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:middle;font-weight:%s", css(chipTextColor(c)), weight))
		canvas.Gend()
	}

	lx := int(l.LimitX)
	canvas.Line(lx, y-8, lx, y+h+8, fmt.Sprintf("stroke:%s;stroke-width:1;stroke-dasharray:4,3", css(colorLimit)))

	canvas.End()
	return nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
