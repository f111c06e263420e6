package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/shopkeeper/internal/api"
	"github.com/dmitrijs2005/shopkeeper/internal/client/client"
	"github.com/dmitrijs2005/shopkeeper/internal/netx"
)

// BrandingService uploads store assets ahead of provisioning.
type BrandingService interface {
	// UploadLogo sends the file at path to a presigned slot and returns the
	// public URL to put into the tenant branding.
	UploadLogo(ctx context.Context, path string) (string, error)
}

type brandingService struct {
	client client.Uploads
}

func NewBrandingService(c client.Uploads) BrandingService {
	return &brandingService{client: c}
}

const maxLogoSize = 2 << 20

func (s *brandingService) UploadLogo(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read logo: %w", err)
	}
	if len(data) > maxLogoSize {
		return "", fmt.Errorf("logo is %d bytes, limit is %d", len(data), maxLogoSize)
	}

	contentType := http.DetectContentType(data)
	slot, err := s.client.CreateLogoUpload(ctx, api.LogoUploadRequest{
		FileName:    filepath.Base(path),
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("request upload slot: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, slot.UploadURL, contentType, data); err != nil {
		return "", err
	}
	return slot.PublicURL, nil
}
