// Package certrender draws certificate documents from an event's template.
//
// A page is A4 landscape (841.89 x 595.28 pt). The page is rasterised with gg and,
// for the pdf format, placed full-page into a single-page PDF. Drawing order is fixed:
// white page, background image, then template elements in order.
package certrender

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/eventforge/hackathon-api/internal/domain"
)

const (
	PageWidth  = 841.89
	PageHeight = 595.28

	// alignedWidth is the text box width used for centered and right-aligned elements.
	alignedWidth = 400.0

	defaultScale = 2.0
)

type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

const (
	TokenRecipientName = "{{RECIPIENT_NAME}}"
	TokenEventTitle    = "{{EVENT_TITLE}}"
	TokenRole          = "{{ROLE}}"
	TokenDate          = "{{DATE}}"
)

// Variables are substituted into element content at render time.
type Variables struct {
	RecipientName string
	EventTitle    string
	Role          string
	Date          string
}

// Substitute replaces every occurrence of the four placeholder tokens.
func (v Variables) Substitute(s string) string {
	return strings.NewReplacer(
		TokenRecipientName, v.RecipientName,
		TokenEventTitle, v.EventTitle,
		TokenRole, v.Role,
		TokenDate, v.Date,
	).Replace(s)
}

type Options struct {
	Format Format
	// Scale is raster pixels per PDF point.
	Scale float64
	// Assets resolves local background references. Nil disables local backgrounds.
	Assets     afero.Fs
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Renderer struct {
	format  Format
	scale   float64
	assets  afero.Fs
	client  *http.Client
	logger  *zap.Logger
	regular *opentype.Font
	bold    *opentype.Font
}

func New(opts Options) (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("opentype.Parse regular -> %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("opentype.Parse bold -> %w", err)
	}

	r := &Renderer{
		format:  opts.Format,
		scale:   opts.Scale,
		assets:  opts.Assets,
		client:  opts.HTTPClient,
		logger:  opts.Logger,
		regular: regular,
		bold:    bold,
	}
	if r.format == "" {
		r.format = FormatPDF
	}
	if r.format != FormatPDF && r.format != FormatPNG {
		return nil, fmt.Errorf("unsupported certificate format %q", r.format)
	}
	if r.scale <= 0 {
		r.scale = defaultScale
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: 10 * time.Second}
	}
	if r.logger == nil {
		r.logger = zap.L()
	}

	return r, nil
}

// Extension is the file extension of rendered documents, without the dot.
func (r *Renderer) Extension() string {
	return string(r.format)
}

// Render draws one certificate. A nil template, or one without elements, falls back
// to the built-in participation layout.
func (r *Renderer) Render(ctx context.Context, tmpl *domain.CertificateTemplate, vars Variables) ([]byte, error) {
	w := int(math.Round(PageWidth * r.scale))
	h := int(math.Round(PageHeight * r.scale))

	p := &page{
		dc:    gg.NewContext(w, h),
		scale: r.scale,
		faces: make(map[faceKey]font.Face),
		r:     r,
	}
	defer p.close()

	p.dc.SetRGB(1, 1, 1)
	p.dc.Clear()

	if tmpl != nil && tmpl.BackgroundURL != "" {
		if bg := r.loadBackground(ctx, *tmpl); bg != nil {
			p.drawBackground(bg)
		}
	}

	if tmpl != nil && len(tmpl.Elements) > 0 {
		for _, el := range tmpl.Elements {
			if err := p.drawElement(el.WithDefaults(), vars); err != nil {
				return nil, err
			}
		}
	} else if err := p.drawFallback(vars); err != nil {
		return nil, err
	}

	return r.encode(p.dc)
}

func (r *Renderer) encode(dc *gg.Context) ([]byte, error) {
	var raster bytes.Buffer
	if err := dc.EncodePNG(&raster); err != nil {
		return nil, fmt.Errorf("dc.EncodePNG -> %w", err)
	}
	if r.format == FormatPNG {
		return raster.Bytes(), nil
	}

	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("certificate", opt, &raster)
	pdf.ImageOptions("certificate", 0, 0, PageWidth, PageHeight, false, opt, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("pdf.Output -> %w", err)
	}

	return out.Bytes(), nil
}
