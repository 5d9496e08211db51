// AngelaMos | 2026
// media.go

package media

import (
	"context"
	"fmt"
	"io"

	"github.com/carterperez-dev/dating-api/internal/config"
)

// ResultOK is the delete outcome that lets a photo row be removed.
const ResultOK = "ok"

type Asset struct {
	URL      string
	PublicID string
}

// Store is the remote media store holding photo bytes.
type Store interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*Asset, error)
	Delete(ctx context.Context, publicID string) (string, error)
}

func New(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	switch cfg.Provider {
	case config.MediaProviderCloudinary:
		return NewCloudinary(cfg.Cloudinary)
	case config.MediaProviderS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Provider)
	}
}
