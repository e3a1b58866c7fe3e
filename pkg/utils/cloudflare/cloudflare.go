package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	appconfig "intake_backend/pkg/config"
	"intake_backend/pkg/intake"
)

// ObjectPutter is the slice of the S3 client the archive uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func newS3Client(ctx context.Context, cfg appconfig.R2Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

// QuickIntakeArchive writes each accepted quick intake to R2 as a JSON object.
type QuickIntakeArchive struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

type archivedQuickIntake struct {
	ReceivedAt time.Time                 `json:"receivedAt"`
	Payload    intake.QuickIntakePayload `json:"payload"`
}

func NewQuickIntakeArchive(ctx context.Context, cfg appconfig.R2Config) (*QuickIntakeArchive, error) {
	if !cfg.Enabled() {
		return nil, errors.New("r2 archive is not configured")
	}
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewQuickIntakeArchiveWithClient(client, cfg.BucketName, time.Now), nil
}

func NewQuickIntakeArchiveWithClient(client ObjectPutter, bucket string, now func() time.Time) *QuickIntakeArchive {
	if now == nil {
		now = time.Now
	}
	return &QuickIntakeArchive{client: client, bucket: bucket, now: now}
}

// objectKey: quick-intakes/YYYY/MM/DD/<unix>-<name slug>-<uuid>.json
func objectKey(at time.Time, fullName string) string {
	name := slug.Make(fullName)
	if name == "" {
		name = "lead"
	}
	file := fmt.Sprintf("%d-%s-%s.json", at.Unix(), name, uuid.New().String())
	return path.Join("quick-intakes", at.Format("2006/01/02"), file)
}

// ArchiveQuickIntake stores the payload and returns the object key.
func (a *QuickIntakeArchive) ArchiveQuickIntake(ctx context.Context, p *intake.QuickIntakePayload) (string, error) {
	at := a.now().UTC()
	body, err := json.Marshal(archivedQuickIntake{ReceivedAt: at, Payload: p.Normalized()})
	if err != nil {
		return "", fmt.Errorf("could not encode quick intake: %w", err)
	}

	key := objectKey(at, p.FullName)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload quick intake to R2: %w", err)
	}
	return key, nil
}
