package certrender

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/eventforge/hackathon-api/internal/domain"
)

type faceKey struct {
	size float64
	bold bool
}

// page is the drawing state of a single render. Faces are per render because
// opentype faces are not safe for concurrent use.
type page struct {
	dc    *gg.Context
	scale float64
	faces map[faceKey]font.Face
	r     *Renderer
}

func (p *page) close() {
	for _, f := range p.faces {
		_ = f.Close()
	}
}

func (p *page) setFont(size float64, bold bool) error {
	key := faceKey{size: size, bold: bold}
	face, ok := p.faces[key]
	if !ok {
		f := p.r.regular
		if bold {
			f = p.r.bold
		}

		var err error
		face, err = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size * p.scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return fmt.Errorf("opentype.NewFace -> %w", err)
		}
		p.faces[key] = face
	}

	p.dc.SetFontFace(face)

	return nil
}

func (p *page) drawBackground(bg image.Image) {
	fitted := imaging.Resize(bg, p.dc.Width(), p.dc.Height(), imaging.Lanczos)
	p.dc.DrawImage(fitted, 0, 0)
}

// drawElement draws one element with its top-left corner at (x, y) in points.
func (p *page) drawElement(el domain.Element, vars Variables) error {
	if err := p.setFont(el.FontSize, false); err != nil {
		return err
	}
	p.dc.SetColor(parseColor(el.Color))

	text := vars.Substitute(el.Content)
	x, y := el.X*p.scale, el.Y*p.scale

	switch el.Align {
	case domain.AlignCenter:
		p.dc.DrawStringWrapped(text, x, y, 0, 0, alignedWidth*p.scale, 1, gg.AlignCenter)
	case domain.AlignRight:
		p.dc.DrawStringWrapped(text, x, y, 0, 0, alignedWidth*p.scale, 1, gg.AlignRight)
	default:
		width := (PageWidth - el.X) * p.scale
		if width <= 0 {
			width = PageWidth * p.scale
		}
		p.dc.DrawStringWrapped(text, x, y, 0, 0, width, 1, gg.AlignLeft)
	}

	return nil
}

type fallbackLine struct {
	text string
	size float64
	bold bool
}

// drawFallback draws the built-in participation layout, centered across the page.
func (p *page) drawFallback(vars Variables) error {
	lines := []fallbackLine{
		{text: "Certificate of Participation", size: 30, bold: true},
		{text: "This certificate is proudly presented to", size: 18},
		{text: vars.RecipientName, size: 28, bold: true},
		{text: "for participating in " + vars.EventTitle, size: 18},
	}

	p.dc.SetColor(color.Black)
	y := 150.0
	for _, l := range lines {
		if err := p.setFont(l.size, l.bold); err != nil {
			return err
		}
		p.dc.DrawStringWrapped(l.text, 0, y*p.scale, 0, 0, PageWidth*p.scale, 1, gg.AlignCenter)
		// one line for the text and one blank line after it
		y += 2 * lineHeight(l.size)
	}

	return nil
}

func lineHeight(size float64) float64 {
	return size * 1.2
}

// parseColor accepts #rgb, #rrggbb, #rrggbbaa and SVG color names. Anything else is black.
func parseColor(s string) color.Color {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.Black
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.Black
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}
