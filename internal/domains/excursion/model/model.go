package model

import (
	"errors"
	"excursions/shared/model"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "excursions"
	EntityName = "excursion"

	FieldID        = "id"
	FieldTitle     = "title"
	FieldLocation  = "location"
	FieldPrice     = "price"
	FieldDuration  = "duration"
	FieldImage     = "image"
	FieldActive    = "active"
	FieldCreatedAt = "created_at"
)

var (
	ErrInvalidID     = errors.New("excursion id must be positive")
	ErrMissingTitle  = errors.New("excursion title is empty")
	ErrNegativePrice = errors.New("excursion price is negative")
)

// SortableFields are the columns list endpoints may order by.
var SortableFields = []string{FieldTitle, FieldPrice, FieldLocation, FieldCreatedAt}

type Excursion struct {
	ID       int64           `db:"id"`
	Title    string          `db:"title"`
	Location string          `db:"location"`
	Price    decimal.Decimal `db:"price"`
	Duration string          `db:"duration"`
	Image    string          `db:"image"`
	Gallery  pq.StringArray  `db:"gallery"`
	Active   bool            `db:"active"`
	model.Metadata
}

// Validate checks a row read from storage before anything else trusts it.
func (e Excursion) Validate() error {
	var errs []error

	if e.ID <= 0 {
		errs = append(errs, ErrInvalidID)
	}

	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, ErrMissingTitle)
	}

	if e.Price.IsNegative() {
		errs = append(errs, ErrNegativePrice)
	}

	return errors.Join(errs...)
}
