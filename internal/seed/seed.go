package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"gorm.io/gorm"
)

const demoRecordCount = 25

var demoAddresses = []string{
	"Andheri, Mumbai",
	"Bandra, Mumbai",
	"Thane",
	"Pune",
	"Nashik",
	"Aurangabad",
}

// DemoRecords builds the deterministic sample dataset relative to now:
// customer i visited 25-i days ago, so the newest visit is today.
func DemoRecords(now time.Time) []domain.ServiceRecord {
	now = now.UTC()
	catalog := domain.Services[:5]
	records := make([]domain.ServiceRecord, 0, demoRecordCount)

	for i := 1; i <= demoRecordCount; i++ {
		visited := now.AddDate(0, 0, -(demoRecordCount - i))

		method := domain.PaymentCash
		if i%2 == 0 {
			method = domain.PaymentUPI
		}
		status := domain.StatusOngoing
		if i%4 == 0 {
			status = domain.StatusCompleted
		}

		records = append(records, domain.ServiceRecord{
			Name:          fmt.Sprintf("Customer %d", i),
			Phone:         fmt.Sprintf("+91 98765 %d", 43210+i),
			Address:       fmt.Sprintf("Plot %d, %s", i, demoAddresses[i%len(demoAddresses)]),
			Service:       catalog[i%len(catalog)],
			VisitDate:     domain.NewDate(visited),
			Amount:        decimal.NewFromInt(int64(500 + i*200)),
			Paid:          i%3 != 0,
			PaymentMethod: method,
			Status:        status,
			CreatedAt:     visited.Truncate(time.Second),
		})
	}
	return records
}

// EnsureDemoData inserts the sample dataset when the customers table is
// empty. It returns the number of rows inserted.
func EnsureDemoData(ctx context.Context, db *gorm.DB, repo domain.Repository, now time.Time) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}

	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repo.Count(ctx, tx, domain.ListRecordFilter{})
		if err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		for _, record := range DemoRecords(now) {
			if err := repo.Insert(ctx, tx, &record); err != nil {
				return fmt.Errorf("insert %s: %w", record.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
