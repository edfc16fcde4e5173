package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wellfit-labs/wellfit/pkg/adapters"
	"github.com/wellfit-labs/wellfit/pkg/models/domain"
	"github.com/wellfit-labs/wellfit/pkg/store/catalog"
)

// Service manages the workout video library: objects live in S3, the
// metadata lives in the catalog store.
type Service interface {
	Upload(ctx context.Context, title, contentType string, body io.Reader, size int64) (domain.Video, error)
	List(ctx context.Context) ([]domain.Video, error)
	Delete(ctx context.Context, id string) error
	SignedURL(ctx context.Context, id string) (string, error)
}

type objectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignClient interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Settings struct {
	Bucket    string
	URLExpiry time.Duration
}

type service struct {
	objects objectClient
	presign presignClient
	catalog catalog.Store
	bucket  string
	expiry  time.Duration
	newID   func() string
	now     func() time.Time
}

func NewService(cfg aws.Config, store catalog.Store, settings Settings) (Service, error) {
	client := s3.NewFromConfig(cfg)
	return newService(client, s3.NewPresignClient(client), store, settings)
}

func newService(objects objectClient, presign presignClient, store catalog.Store, settings Settings) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if settings.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	expiry := settings.URLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &service{
		objects: objects,
		presign: presign,
		catalog: store,
		bucket:  settings.Bucket,
		expiry:  expiry,
		newID:   func() string { return uuid.NewString() },
		now:     time.Now,
	}, nil
}

func (s *service) Upload(ctx context.Context, title, contentType string, body io.Reader, size int64) (domain.Video, error) {
	if title == "" {
		return domain.Video{}, fmt.Errorf("title is required")
	}

	id := s.newID()
	key := fmt.Sprintf("videos/%s", id)

	_, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return domain.Video{}, fmt.Errorf("failed to upload video object: %w", err)
	}

	video := domain.Video{
		ID:          id,
		Title:       title,
		ObjectKey:   key,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  s.now().UTC(),
	}

	if err := s.catalog.Add(ctx, adapters.MapVideoDomainToStoreRecord(video)); err != nil {
		// The object is already durable; the caller can retry the
		// catalog write, so the orphan is logged rather than deleted.
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("object_key", key).
			Msg("uploaded object has no catalog record")
		return domain.Video{}, fmt.Errorf("failed to record video metadata: %w", err)
	}

	return video, nil
}

func (s *service) List(ctx context.Context) ([]domain.Video, error) {
	records, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	videos := make([]domain.Video, 0, len(records))
	for _, record := range records {
		videos = append(videos, adapters.MapVideoRecordStoreToDomain(record))
	}
	return videos, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	record, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up video %q: %w", id, err)
	}
	if record == nil {
		return fmt.Errorf("video %q not found", id)
	}

	_, err = s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(record.ObjectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete video object: %w", err)
	}

	if err := s.catalog.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove video record: %w", err)
	}
	return nil
}

func (s *service) SignedURL(ctx context.Context, id string) (string, error) {
	record, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to look up video %q: %w", id, err)
	}
	if record == nil {
		return "", fmt.Errorf("video %q not found", id)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(record.ObjectKey),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign video URL: %w", err)
	}
	return req.URL, nil
}
