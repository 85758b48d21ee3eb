package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/pestdesk/internal/migration"
	"github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"gorm.io/gorm"
)

const recordColumns = `id, name, phone, address, service, visit_date, amount, paid, payment_method, service_status, created_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Initialize applies schema migrations and rewrites legacy status tokens in
// place. Running it again on an initialized store changes nothing.
func (r *repo) Initialize(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := migration.RunMigrations(sqlDB); err != nil {
		return err
	}

	for token, status := range domain.LegacyStatuses() {
		err := db.WithContext(ctx).Exec(
			`UPDATE customers SET service_status = ? WHERE service_status = ?`,
			string(status),
			token,
		).Error
		if err != nil {
			return fmt.Errorf("normalize status %q: %w", token, err)
		}
	}
	return nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.ServiceRecord) error {
	var id int64
	err := db.WithContext(ctx).Raw(
		`INSERT INTO customers (name, phone, address, service, visit_date, amount, paid, payment_method, service_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		record.Name,
		record.Phone,
		record.Address,
		string(record.Service),
		record.VisitDate,
		record.Amount,
		record.Paid,
		string(record.PaymentMethod),
		record.Status,
		record.CreatedAt,
	).Scan(&id).Error
	if err != nil {
		return err
	}
	if id == 0 {
		return fmt.Errorf("insert customers: no id returned")
	}
	record.ID = id
	return nil
}

func (r *repo) UpdateStatusAndPaid(ctx context.Context, db *gorm.DB, id int64, status domain.Status, paid bool) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE customers SET service_status = ?, paid = ? WHERE id = ?`,
		status,
		paid,
		id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.ServiceRecord, error) {
	var record domain.ServiceRecord
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM customers WHERE id = ?`,
		id,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRecordFilter) ([]domain.ServiceRecord, error) {
	records := []domain.ServiceRecord{}
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.ServiceRecord{}), filter)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, filter domain.ListRecordFilter) (int64, error) {
	var total int64
	err := applyFilter(db.WithContext(ctx).Model(&domain.ServiceRecord{}), filter).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListRecordFilter) *gorm.DB {
	if filter.Status != "" {
		stmt = stmt.Where("service_status = ?", filter.Status)
	}
	if filter.Paid != nil {
		stmt = stmt.Where("paid = ?", *filter.Paid)
	}
	if filter.Service != "" {
		stmt = stmt.Where("service = ?", string(filter.Service))
	}
	return stmt
}
