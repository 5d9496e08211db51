// AngelaMos | 2026
// cloudinary.go

package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/carterperez-dev/dating-api/internal/config"
)

// faceCrop fills a 500x500 square centred on the detected face.
const faceCrop = "c_fill,g_face,h_500,w_500"

// assetAPI is the slice of the Cloudinary upload API the store calls.
type assetAPI interface {
	Upload(ctx context.Context, file any, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type Cloudinary struct {
	api    assetAPI
	folder string
}

func NewCloudinary(cfg config.CloudinaryConfig) (*Cloudinary, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}

	return &Cloudinary{api: &client.Upload, folder: cfg.Folder}, nil
}

func (c *Cloudinary) Upload(
	ctx context.Context,
	_ string,
	body io.Reader,
) (*Asset, error) {
	result, err := c.api.Upload(ctx, body, uploader.UploadParams{
		Folder:         c.folder,
		Transformation: faceCrop,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %w", errors.New(result.Error.Message))
	}

	return &Asset{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Delete returns Cloudinary's own result string, "ok" on success and
// "not found" when the asset is already gone.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) (string, error) {
	result, err := c.api.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary destroy: %w", err)
	}
	if result.Error.Message != "" {
		return result.Result, fmt.Errorf("cloudinary destroy: %w", errors.New(result.Error.Message))
	}

	return result.Result, nil
}
