package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	appconfig "couple-journal-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLExpiry = 5 * time.Minute

// Media kinds accepted for upload.
const (
	MediaDiary  = "diary"
	MediaPlace  = "place"
	MediaBucket = "bucket"
	MediaAvatar = "avatar"
)

var allowedContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/heic":      ".heic",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
}

// Presigner signs object uploads
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// MediaService hands out presigned upload URLs for photos and videos
type MediaService struct {
	presigner Presigner
	guard     CoupleGuard
	bucket    string
	publicURL string
}

// NewMediaService creates a new media service
func NewMediaService(presigner Presigner, guard CoupleGuard, bucket, publicURL string) *MediaService {
	return &MediaService{
		presigner: presigner,
		guard:     guard,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// NewS3Presigner builds a presign client from configuration. Static keys and a
// custom endpoint are optional; without them the default AWS chain is used.
func NewS3Presigner(ctx context.Context, cfg appconfig.AWSConfig) (*s3.PresignClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

// UploadRequest represents a request for a presigned upload URL
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Kind        string `json:"kind"`
}

// UploadResponse carries the presigned URL and where the object will live
type UploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
	ExpiresIn int    `json:"expiresIn"`
}

// PresignUpload returns a URL the client can PUT the file to. Objects are keyed
// {coupleId}/{kind}/{uuid}{ext} so each couple's media stays together.
func (s *MediaService) PresignUpload(ctx context.Context, userID string, req UploadRequest) (*UploadResponse, error) {
	if s.presigner == nil {
		return nil, newError(ErrValidation, "Uploads are not configured")
	}
	kind := strings.TrimSpace(req.Kind)
	switch kind {
	case MediaDiary, MediaPlace, MediaBucket, MediaAvatar:
	case "":
		kind = MediaDiary
	default:
		return nil, validationError("Unsupported upload kind %q", kind)
	}
	ext, ok := allowedContentTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, validationError("Unsupported content type %q", req.ContentType)
	}
	if fileExt := strings.ToLower(path.Ext(req.Filename)); fileExt != "" && len(fileExt) <= 5 {
		ext = fileExt
	}

	// avatars belong to the user, everything else to the couple
	owner := userID
	if kind != MediaAvatar {
		couple, err := s.guard.Require(ctx, userID)
		if err != nil {
			return nil, err
		}
		owner = couple.ID
	}

	key := fmt.Sprintf("%s/%s/%s%s", owner, kind, uuid.New().String(), ext)
	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		Key:       key,
		PublicURL: s.objectURL(key),
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}

func (s *MediaService) objectURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
