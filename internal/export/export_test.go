package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []domain.ServiceRecord {
	created := time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC)
	return []domain.ServiceRecord{
		{
			ID:            2,
			Name:          `Rao, "Asha"`,
			Phone:         "98765",
			Address:       "Plot 4,\nAndheri",
			Service:       domain.ServiceTermiteTreatment,
			VisitDate:     domain.NewDate(created),
			Amount:        decimal.RequireFromString("1200.50"),
			Paid:          true,
			PaymentMethod: domain.PaymentUPI,
			Status:        domain.StatusCompleted,
			CreatedAt:     created,
		},
		{
			ID:            1,
			Name:          "Vikram",
			Service:       domain.ServiceAntControl,
			VisitDate:     domain.NewDate(created.AddDate(0, 0, -1)),
			Amount:        decimal.NewFromInt(800),
			PaymentMethod: domain.PaymentCash,
			Status:        domain.StatusOngoing,
			CreatedAt:     created.Add(-time.Hour),
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatCSV, "csv": FormatCSV, " XLSX ": FormatXLSX}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 9, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "pest_control_data_20240901.csv", Filename(now, FormatCSV))
	assert.Equal(t, "pest_control_data_20240901.xlsx", Filename(now, FormatXLSX))
}

func TestWriteCSVQuotesAndRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{
		"2", `Rao, "Asha"`, "98765", "Plot 4,\nAndheri", "Termite Treatment",
		"2024-09-01", "1200.5", "true", "UPI", "Completed", "2024-09-01 10:30:00",
	}, rows[1])
	assert.Equal(t, "Vikram", rows[2][1])
	assert.Equal(t, "false", rows[2][7])
}

func TestWriteCSVEmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id,name,phone,address,service,visit_date,amount,paid,payment_method,service_status,created_at\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleRecords()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, `Rao, "Asha"`, rows[1][1])
	assert.Equal(t, "Completed", rows[1][9])
	assert.Equal(t, "Vikram", rows[2][1])
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	assert.ErrorIs(t, Write(&bytes.Buffer{}, Format("pdf"), nil), ErrUnsupportedFormat)
}
