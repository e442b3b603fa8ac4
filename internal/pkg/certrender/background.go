package certrender

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"net/http"
	"path"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/eventforge/hackathon-api/internal/domain"
)

const maxBackgroundBytes = 20 << 20

// loadBackground resolves the template background. Remote failures are logged and a
// missing local file is skipped; neither fails the render.
func (r *Renderer) loadBackground(ctx context.Context, tmpl domain.CertificateTemplate) image.Image {
	if tmpl.HasRemoteBackground() {
		img, err := r.fetchBackground(ctx, tmpl.BackgroundURL)
		if err != nil {
			r.logger.Warn("failed to fetch certificate background",
				zap.String("url", tmpl.BackgroundURL), zap.Error(err))
			return nil
		}
		return img
	}

	if r.assets == nil {
		return nil
	}

	// Clean as an absolute path so references cannot climb out of the asset root.
	name := path.Clean("/" + tmpl.BackgroundURL)
	ok, err := afero.Exists(r.assets, name)
	if err != nil || !ok {
		return nil
	}

	f, err := r.assets.Open(name)
	if err != nil {
		r.logger.Warn("failed to open certificate background", zap.String("path", name), zap.Error(err))
		return nil
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		r.logger.Warn("failed to decode certificate background", zap.String("path", name), zap.Error(err))
		return nil
	}

	return img
}

func (r *Renderer) fetchBackground(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("r.client.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxBackgroundBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imaging.Decode -> %w", err)
	}

	return img, nil
}
