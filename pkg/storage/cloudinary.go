package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/Payphone-Digital/contacts-api/pkg/circuit"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrNotConfigured is returned when Cloudinary credentials are missing.
var ErrNotConfigured = errors.New("avatar storage is not configured")

const avatarTransformation = "c_fill,h_250,w_250"

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (c Config) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// AvatarParams are the upload parameters for a user's avatar. Each user has
// a single image that is overwritten on change.
func AvatarParams(folder, username string) uploader.UploadParams {
	return uploader.UploadParams{
		PublicID:       path.Join(folder, username),
		Overwrite:      api.Bool(true),
		Transformation: avatarTransformation,
		ResourceType:   "image",
	}
}

type CloudinaryUploader struct {
	cld     *cloudinary.Cloudinary
	folder  string
	breaker *circuit.Breaker
}

// NewCloudinaryUploader connects to Cloudinary. breaker may be nil.
func NewCloudinaryUploader(cfg Config, breaker *circuit.Breaker) (*CloudinaryUploader, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryUploader{cld: cld, folder: cfg.Folder, breaker: breaker}, nil
}

// UploadAvatar stores the image under the user's public id and returns its
// HTTPS URL.
func (u *CloudinaryUploader) UploadAvatar(ctx context.Context, file io.Reader, username string) (string, error) {
	var url string
	err := u.breaker.Do(ctx, func(ctx context.Context) error {
		result, err := u.cld.Upload.Upload(ctx, file, AvatarParams(u.folder, username))
		if err != nil {
			return fmt.Errorf("failed to upload to Cloudinary: %w", err)
		}
		if result.Error.Message != "" {
			return fmt.Errorf("cloudinary: %s", result.Error.Message)
		}
		url = result.SecureURL
		return nil
	})
	return url, err
}
