package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
)

func WriteCSV(w io.Writer, records []domain.ServiceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, record := range records {
		if err := cw.Write(csvRow(record)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(r domain.ServiceRecord) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Name,
		r.Phone,
		r.Address,
		string(r.Service),
		r.VisitDate.String(),
		r.Amount.String(),
		strconv.FormatBool(r.Paid),
		string(r.PaymentMethod),
		string(r.Status.Canonical()),
		r.CreatedAt.UTC().Format(createdAtLayout),
	}
}
