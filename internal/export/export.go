package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("invalid_format")

// Columns is the header row shared by every export format.
var Columns = []string{
	"id",
	"name",
	"phone",
	"address",
	"service",
	"visit_date",
	"amount",
	"paid",
	"payment_method",
	"service_status",
	"created_at",
}

const createdAtLayout = "2006-01-02 15:04:05"

func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename names an export taken on the given day, e.g.
// pest_control_data_20240901.csv.
func Filename(now time.Time, f Format) string {
	return fmt.Sprintf("pest_control_data_%s.%s", now.UTC().Format("20060102"), f)
}

func Write(w io.Writer, f Format, records []domain.ServiceRecord) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return ErrUnsupportedFormat
	}
}
