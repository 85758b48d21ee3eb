package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pestdesk/pkg/db"
)

type CreateRecordRequest struct {
	Name          string
	Phone         string
	Address       string
	Service       string
	VisitDate     Date
	Amount        decimal.Decimal
	Paid          bool
	PaymentMethod string
	Status        string
}

type UpdateRecordRequest struct {
	ID     int64
	Status string
	Paid   bool
}

type ListRecordRequest struct {
	Status  string
	Payment string
	Service string
	Limit   int
}

// ListRecordResponse carries the page plus two counts: Total matches the
// filter, All is every record in the store.
type ListRecordResponse struct {
	Records []ServiceRecord `json:"records"`
	Shown   int             `json:"shown"`
	Total   int64           `json:"total"`
	All     int64           `json:"all"`
}

type Service interface {
	Create(context.Context, CreateRecordRequest) (ServiceRecord, error)
	Update(context.Context, UpdateRecordRequest) (ServiceRecord, error)
	GetByID(context.Context, int64) (ServiceRecord, error)
	LoadAll(context.Context) ([]ServiceRecord, error)
	List(context.Context, ListRecordRequest) (ListRecordResponse, error)
	Count(context.Context) (int64, error)
	// Version increases by one after every successful create or update.
	Version() uint64
}

var (
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidPhone         = errors.New("invalid_phone")
	ErrInvalidAddress       = errors.New("invalid_address")
	ErrInvalidService       = errors.New("invalid_service")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	ErrInvalidStatus        = errors.New("invalid_service_status")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidVisitDate     = errors.New("invalid_visit_date")
	ErrInvalidPaymentFilter = errors.New("invalid_payment")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
	ErrStorageUnavailable   = db.ErrUnavailable
)
