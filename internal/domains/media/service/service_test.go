package service_test

import (
	"context"
	"errors"
	"excursions/config"
	"excursions/infras/otel/mocks"
	s3Mocks "excursions/infras/s3/mocks"
	"excursions/internal/domains/media/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestResolveURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.PublicURL = "https://tours.example.com/"

	tests := []struct {
		name  string
		ref   string
		setup func(s3 *s3Mocks.MockS3)
		want  string
	}{
		{name: "empty", ref: "", want: ""},
		{name: "absolute https", ref: "https://cdn.example.com/a.jpg", want: "https://cdn.example.com/a.jpg"},
		{name: "absolute http", ref: "http://cdn.example.com/a.jpg", want: "http://cdn.example.com/a.jpg"},
		{name: "site relative", ref: "/images/placeholder-excursion.jpg", want: "https://tours.example.com/images/placeholder-excursion.jpg"},
		{
			name: "object key",
			ref:  "excursions/saona.jpg",
			setup: func(s3 *s3Mocks.MockS3) {
				s3.EXPECT().ObjectURL(gomock.Any(), "excursions/saona.jpg").Return("https://media.example.com/excursions/saona.jpg", nil)
			},
			want: "https://media.example.com/excursions/saona.jpg",
		},
		{
			name: "storage failure",
			ref:  "excursions/missing.jpg",
			setup: func(s3 *s3Mocks.MockS3) {
				s3.EXPECT().ObjectURL(gomock.Any(), "excursions/missing.jpg").Return("", errors.New("no credentials"))
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s3 := s3Mocks.NewMockS3(ctrl)
			if tt.setup != nil {
				tt.setup(s3)
			}

			svc := service.New(cfg, s3, mocks.NewOtel())

			assert.Equal(t, tt.want, svc.ResolveURL(context.Background(), tt.ref))
		})
	}
}
