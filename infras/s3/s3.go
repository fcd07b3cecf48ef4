package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"context"
	"excursions/config"
	"excursions/infras/otel"
	"excursions/shared/constant"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
	defaultRegion     = "auto"
)

// S3 turns stored media object keys into URLs a browser or mail client can fetch.
type S3 interface {
	ObjectURL(ctx context.Context, objectKey string) (url string, err error)
}

type s3Impl struct {
	presigner *s3.PresignClient
	Config    *config.Config
	otel      otel.Otel
}

// ObjectURL prefers the public bucket domain and falls back to a presigned GET.
func (svc *s3Impl) ObjectURL(ctx context.Context, objectKey string) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".ObjectURL")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	s3Config := svc.Config.External.S3
	objectKey = strings.TrimPrefix(objectKey, "/")

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    s3Config.BucketName,
	})

	if s3Config.PublicDomain != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(s3Config.PublicDomain, "/"), objectKey), nil
	}

	if svc.presigner == nil {
		return constant.Empty, fmt.Errorf("no public domain or credentials configured for %q", objectKey)
	}

	req, err := svc.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s3Config.BucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(time.Duration(s3Config.PresignTTLSeconds)*time.Second))
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to presign S3 object")

		return constant.Empty, fmt.Errorf("failed to presign object: %w", err)
	}

	return req.URL, nil
}

func New(config *config.Config, otel otel.Otel) S3 {
	s3Config := config.External.S3

	svc := &s3Impl{
		Config: config,
		otel:   otel,
	}

	if s3Config.AccessKeyID == "" || s3Config.APIEndpoint == "" {
		log.Warn().Msg("S3 credentials are not configured, media keys resolve through the public domain only")

		return svc
	}

	staticProvider := credentials.NewStaticCredentialsProvider(
		s3Config.AccessKeyID,
		s3Config.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(defaultRegion),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")

		return svc
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s3Config.APIEndpoint)
		o.UsePathStyle = true
	})

	svc.presigner = s3.NewPresignClient(client)

	return svc
}
