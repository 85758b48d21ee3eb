package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Initialize(ctx context.Context, db *gorm.DB) error
	Insert(ctx context.Context, db *gorm.DB, record *ServiceRecord) error
	UpdateStatusAndPaid(ctx context.Context, db *gorm.DB, id int64, status Status, paid bool) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*ServiceRecord, error)
	List(ctx context.Context, db *gorm.DB, filter ListRecordFilter) ([]ServiceRecord, error)
	Count(ctx context.Context, db *gorm.DB, filter ListRecordFilter) (int64, error)
}
