package export

import (
	"io"

	"github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Records"

// WriteXLSX streams the records into a single-sheet workbook.
func WriteXLSX(w io.Writer, records []domain.ServiceRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(Columns))
	for i, col := range Columns {
		header[i] = excelize.Cell{StyleID: bold, Value: col}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.ID,
			r.Name,
			r.Phone,
			r.Address,
			string(r.Service),
			r.VisitDate.String(),
			r.Amount.InexactFloat64(),
			r.Paid,
			string(r.PaymentMethod),
			string(r.Status.Canonical()),
			r.CreatedAt.UTC().Format(createdAtLayout),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}
