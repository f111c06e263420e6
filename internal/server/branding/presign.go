// Package branding hands out upload slots for store logos. A slot is a
// presigned S3 PUT URL (MinIO in development) plus the public URL the logo
// will be served from once uploaded.
package branding

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/shopkeeper/internal/api"
	sc "github.com/dmitrijs2005/shopkeeper/internal/server/config"
	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported logo content type")

const slotValidity = 15 * time.Minute

// Content types accepted for logos, as sniffed by net/http.
var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

type Service struct {
	config *sc.Config
	now    func() time.Time
}

func NewService(cfg *sc.Config) *Service {
	return &Service{config: cfg, now: time.Now}
}

// storageKey places the file under a dated prefix, keeping only the base name
// of whatever the client sent.
func (s *Service) storageKey(fileName string) string {
	d := s.now().UTC()
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "logo"
	}
	return fmt.Sprintf("logos/%04d/%02d/%02d/%s-%s", d.Year(), d.Month(), d.Day(), uuid.New(), name)
}

func (s *Service) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// LogoUploadSlot presigns a PUT for a new logo object.
func (s *Service) LogoUploadSlot(ctx context.Context, req api.LogoUploadRequest) (*api.LogoUploadResponse, error) {
	mediaType, _, err := mime.ParseMediaType(req.ContentType)
	if err != nil || !allowedTypes[mediaType] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, req.ContentType)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := s.storageKey(req.FileName)

	signed, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(req.ContentType),
	}, s3.WithPresignExpires(slotValidity))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	return &api.LogoUploadResponse{
		Key:       key,
		UploadURL: signed.URL,
		PublicURL: strings.TrimSuffix(s.config.S3PublicBaseURL, "/") + "/" + key,
	}, nil
}
