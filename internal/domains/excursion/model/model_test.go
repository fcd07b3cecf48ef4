package model_test

import (
	"excursions/internal/domains/excursion/model"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExcursion_Validate(t *testing.T) {
	valid := model.Excursion{ID: 1, Title: "Saona Island", Price: decimal.RequireFromString("85.00")}

	tests := []struct {
		name    string
		mutate  func(e *model.Excursion)
		wantErr error
	}{
		{name: "valid", mutate: func(_ *model.Excursion) {}},
		{name: "free is fine", mutate: func(e *model.Excursion) { e.Price = decimal.Zero }},
		{name: "zero id", mutate: func(e *model.Excursion) { e.ID = 0 }, wantErr: model.ErrInvalidID},
		{name: "blank title", mutate: func(e *model.Excursion) { e.Title = "  " }, wantErr: model.ErrMissingTitle},
		{name: "negative price", mutate: func(e *model.Excursion) { e.Price = decimal.NewFromInt(-1) }, wantErr: model.ErrNegativePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			excursion := valid
			tt.mutate(&excursion)

			err := excursion.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
