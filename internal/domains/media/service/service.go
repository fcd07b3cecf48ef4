package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"excursions/config"
	"excursions/infras/otel"
	"excursions/infras/s3"
	"excursions/shared/constant"
	"strings"

	"github.com/rs/zerolog/log"
)

// Media resolves stored image references into URLs.
type Media interface {
	ResolveURL(ctx context.Context, ref string) string
}

type serviceImpl struct {
	cfg  *config.Config
	s3   s3.S3
	otel otel.Otel
}

func New(cfg *config.Config, s3 s3.S3, otel otel.Otel) Media {
	return &serviceImpl{
		cfg:  cfg,
		s3:   s3,
		otel: otel,
	}
}

// ResolveURL returns ref untouched when it is already absolute, joins site-relative
// paths onto the public URL and asks object storage for everything else.
// An empty string means the reference could not be resolved.
func (s *serviceImpl) ResolveURL(ctx context.Context, ref string) string {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolveURL")
	defer scope.End()

	ref = strings.TrimSpace(ref)

	switch {
	case ref == constant.Empty:
		return constant.Empty
	case strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "http://"):
		return ref
	case strings.HasPrefix(ref, "/"):
		return strings.TrimSuffix(s.cfg.App.PublicURL, "/") + ref
	}

	url, err := s.s3.ObjectURL(ctx, ref)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("ref", ref).Msg("failed to resolve media reference")

		return constant.Empty
	}

	return url
}
