package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportAdherenceXLSX renders the report as a workbook: the status grid with
// centers down and days across, followed by the aggregates.
func ExportAdherenceXLSX(report AdherenceReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Adherence"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheet, "A1", "Center"); err != nil {
		return nil, err
	}
	for i, day := range report.Days {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, day); err != nil {
			return nil, err
		}
	}

	for r, center := range report.Centers {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, center); err != nil {
			return nil, err
		}
		for c, day := range report.Days {
			cell, err := excelize.CoordinatesToCellName(c+2, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, string(report.Statuses[center][day])); err != nil {
				return nil, err
			}
		}
	}

	summaryRow := len(report.Centers) + 3
	summary := [][]interface{}{
		{"Adherence Rate", fmt.Sprintf("%.1f%%", report.AdherenceRate*100)},
		{"Compliant", report.CompliantCount},
		{"Missing", report.MissingCount},
		{"Patients Seen", report.Totals.PatientsSeen},
		{"Reviews Collected", report.Totals.ReviewsCollected},
		{"Cash Collected", report.Totals.CashCollected.String()},
	}
	for i, pair := range summary {
		keyCell, err := excelize.CoordinatesToCellName(1, summaryRow+i)
		if err != nil {
			return nil, err
		}
		valCell, err := excelize.CoordinatesToCellName(2, summaryRow+i)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, keyCell, pair[0]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, valCell, pair[1]); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
