package model

import (
	"database/sql"
	"errors"
	"excursions/shared/model"
	"slices"
	"strings"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldExcursionID    = "excursion_id"
	FieldFullName       = "full_name"
	FieldEmail          = "email"
	FieldArrivalDate    = "arrival_date"
	FieldStatus         = "status"
	FieldIdempotencyKey = "idempotency_key"
	FieldCreatedAt      = "created_at"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

var (
	ErrMissingID        = errors.New("booking id is empty")
	ErrInvalidExcursion = errors.New("booking excursion id must be positive")
	ErrMissingContact   = errors.New("booking contact details are incomplete")
	ErrNoAdults         = errors.New("booking needs at least one adult")
	ErrUnknownStatus    = errors.New("booking status is unknown")
)

// SortableFields are the columns admin listings may order by.
var SortableFields = []string{FieldCreatedAt, FieldArrivalDate, FieldStatus, FieldFullName}

// transitions lists the statuses each status may move to. Cancelled is terminal.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

type Booking struct {
	ID             string         `db:"id"`
	ExcursionID    int64          `db:"excursion_id"`
	FullName       string         `db:"full_name"`
	Email          string         `db:"email"`
	Phone          string         `db:"phone"`
	Adults         int            `db:"adults"`
	Children       int            `db:"children"`
	ArrivalDate    time.Time      `db:"arrival_date"`
	ArrivalTime    string         `db:"arrival_time"`
	Message        string         `db:"message"`
	Status         string         `db:"status"`
	Locale         string         `db:"locale"`
	IdempotencyKey sql.NullString `db:"idempotency_key"`
	model.Metadata
}

func IsValidStatus(status string) bool {
	_, ok := transitions[status]

	return ok
}

// CanTransition reports whether a booking in status from may move to status to.
func CanTransition(from, to string) bool {
	return slices.Contains(transitions[from], to)
}

// Validate checks a row read from storage before anything else trusts it.
func (b Booking) Validate() error {
	var errs []error

	if b.ID == "" {
		errs = append(errs, ErrMissingID)
	}

	if b.ExcursionID <= 0 {
		errs = append(errs, ErrInvalidExcursion)
	}

	if strings.TrimSpace(b.FullName) == "" || b.Email == "" || b.Phone == "" {
		errs = append(errs, ErrMissingContact)
	}

	if b.Adults < 1 {
		errs = append(errs, ErrNoAdults)
	}

	if !IsValidStatus(b.Status) {
		errs = append(errs, ErrUnknownStatus)
	}

	return errors.Join(errs...)
}
