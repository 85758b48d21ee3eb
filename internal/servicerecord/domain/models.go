package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceRecord struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Service       ServiceType     `json:"service"`
	VisitDate     Date            `gorm:"column:visit_date" json:"visit_date"`
	Amount        decimal.Decimal `json:"amount"`
	Paid          bool            `json:"paid"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        Status          `gorm:"column:service_status" json:"service_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (ServiceRecord) TableName() string {
	return "customers"
}

// Active reports whether the visit still counts toward the active workload.
func (r ServiceRecord) Active() bool {
	return r.Status != StatusCancelled
}

func (r ServiceRecord) Completed() bool {
	return r.Status == StatusCompleted
}

// PaymentFilter narrows a listing by payment state.
type PaymentFilter string

const (
	PaymentFilterAll    PaymentFilter = "all"
	PaymentFilterPaid   PaymentFilter = "paid"
	PaymentFilterUnpaid PaymentFilter = "unpaid"
)

type ListRecordFilter struct {
	Status  Status
	Paid    *bool
	Service ServiceType
	Limit   int
}
