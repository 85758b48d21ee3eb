package rollup

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
)

type ServiceCount struct {
	Service domain.ServiceType `json:"service"`
	Count   int                `json:"count"`
}

type Summary struct {
	TotalCount     int             `json:"total_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	PaidCount      int             `json:"paid_count"`
	CompletedCount int             `json:"completed_count"`
	ActiveCount    int             `json:"active_count"`
	CompletionRate float64         `json:"completion_rate"`
	ServiceCounts  []ServiceCount  `json:"per_service_counts"`
}

// Summarize partitions every record into paid or pending, so
// PaidAmount + PendingAmount always equals TotalAmount.
func Summarize(records []domain.ServiceRecord) Summary {
	summary := Summary{
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		PendingAmount: decimal.Zero,
		ServiceCounts: []ServiceCount{},
	}

	perService := map[domain.ServiceType]int{}
	for _, record := range records {
		summary.TotalCount++
		summary.TotalAmount = summary.TotalAmount.Add(record.Amount)
		if record.Paid {
			summary.PaidCount++
			summary.PaidAmount = summary.PaidAmount.Add(record.Amount)
		} else {
			summary.PendingAmount = summary.PendingAmount.Add(record.Amount)
		}
		if record.Completed() {
			summary.CompletedCount++
		}
		if record.Active() {
			summary.ActiveCount++
		}
		perService[record.Service]++
	}

	for service, count := range perService {
		summary.ServiceCounts = append(summary.ServiceCounts, ServiceCount{Service: service, Count: count})
	}
	sort.Slice(summary.ServiceCounts, func(i, j int) bool {
		a, b := summary.ServiceCounts[i], summary.ServiceCounts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Service < b.Service
	})

	summary.CompletionRate = CompletionRate(summary.CompletedCount, summary.TotalCount)
	return summary
}

// CompletionRate is completed/total as a percentage; 0 when total is 0.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

type DayBucket struct {
	Date           domain.Date     `json:"date"`
	Count          int             `json:"count"`
	Amount         decimal.Decimal `json:"amount"`
	RollingAverage float64         `json:"rolling_average"`
}

type Window struct {
	Days    int         `json:"days"`
	Cutoff  time.Time   `json:"cutoff"`
	Buckets []DayBucket `json:"buckets"`
	// Empty signals that no record fell inside the window.
	Empty bool `json:"empty"`
}

// TrailingWindow groups records visited at or after now-days by calendar
// date, ascending. Only dates that have visits get a bucket; the rolling
// average runs over those buckets in order.
func TrailingWindow(records []domain.ServiceRecord, now time.Time, days, rolling int) Window {
	cutoff := now.UTC().Add(-time.Duration(days) * 24 * time.Hour)
	window := Window{Days: days, Cutoff: cutoff, Buckets: []DayBucket{}}

	byDate := map[string]*DayBucket{}
	for _, record := range records {
		if record.VisitDate.IsZero() || record.VisitDate.Before(cutoff) {
			continue
		}
		key := record.VisitDate.String()
		bucket, ok := byDate[key]
		if !ok {
			bucket = &DayBucket{Date: record.VisitDate, Amount: decimal.Zero}
			byDate[key] = bucket
		}
		bucket.Count++
		bucket.Amount = bucket.Amount.Add(record.Amount)
	}

	for _, bucket := range byDate {
		window.Buckets = append(window.Buckets, *bucket)
	}
	sort.Slice(window.Buckets, func(i, j int) bool {
		return window.Buckets[i].Date.Before(window.Buckets[j].Date.Time)
	})

	counts := make([]int, len(window.Buckets))
	for i, bucket := range window.Buckets {
		counts[i] = bucket.Count
	}
	for i, avg := range RollingAverage(counts, rolling) {
		window.Buckets[i].RollingAverage = avg
	}

	window.Empty = len(window.Buckets) == 0
	return window
}

// RollingAverage is a simple moving average over the trailing `window`
// values, accepting as few as one sample at the start of the series.
func RollingAverage(counts []int, window int) []float64 {
	if window <= 0 {
		window = 1
	}
	out := make([]float64, len(counts))
	sum := 0
	for i, count := range counts {
		sum += count
		if i >= window {
			sum -= counts[i-window]
		}
		n := min(i+1, window)
		out[i] = float64(sum) / float64(n)
	}
	return out
}

// RecentCount counts records visited at or after now-days.
func RecentCount(records []domain.ServiceRecord, now time.Time, days int) int {
	cutoff := now.UTC().Add(-time.Duration(days) * 24 * time.Hour)
	count := 0
	for _, record := range records {
		if !record.VisitDate.IsZero() && !record.VisitDate.Before(cutoff) {
			count++
		}
	}
	return count
}

// TopUnpaid returns up to limit unpaid records, largest amount first.
func TopUnpaid(records []domain.ServiceRecord, limit int) []domain.ServiceRecord {
	unpaid := []domain.ServiceRecord{}
	for _, record := range records {
		if !record.Paid {
			unpaid = append(unpaid, record)
		}
	}
	sort.SliceStable(unpaid, func(i, j int) bool {
		return unpaid[i].Amount.GreaterThan(unpaid[j].Amount)
	})
	if limit >= 0 && len(unpaid) > limit {
		unpaid = unpaid[:limit]
	}
	return unpaid
}
