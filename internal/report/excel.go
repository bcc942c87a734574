package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// Раскладка ведомости: медикаменты идут колонками начиная с D,
// строка 3 — названия, строка 5 — единицы, пациенты — со строки 7.
const (
	medColStart   = 4
	rowMedNames   = 3
	rowMedUnits   = 5
	rowFirstEntry = 7
)

var ukrMonths = []string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

func formatDateUkrainian(d time.Time) string {
	return fmt.Sprintf("%d %s %d", d.Day(), ukrMonths[d.Month()-1], d.Year())
}

// RenderDaily собирает xlsx одной группы дневной ведомости.
func RenderDaily(b Batch, target time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	title := fmt.Sprintf("Відомість видачі медикаментів № %s від %s",
		b.Number, formatDateUkrainian(target))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	// уникальные медикаменты группы в порядке появления
	type medKey struct{ name, unit string }
	var meds []medKey
	seen := map[medKey]int{}
	for _, row := range b.Rows {
		for _, d := range row.Doses {
			k := medKey{d.ShortName, d.Unit}
			if _, ok := seen[k]; !ok {
				seen[k] = len(meds)
				meds = append(meds, k)
			}
		}
	}

	for i, m := range meds {
		nameCell, err := excelize.CoordinatesToCellName(medColStart+i, rowMedNames)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, nameCell, m.name); err != nil {
			return nil, err
		}
		unitCell, err := excelize.CoordinatesToCellName(medColStart+i, rowMedUnits)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, unitCell, m.unit); err != nil {
			return nil, err
		}
	}

	for i, row := range b.Rows {
		r := rowFirstEntry + i
		head := []interface{}{
			i + 1,
			fmt.Sprintf("е-амб № %d", row.PatientID),
			row.PatientLabel,
		}
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &head); err != nil {
			return nil, err
		}
		for _, d := range row.Doses {
			col := medColStart + seen[medKey{d.ShortName, d.Unit}]
			doseCell, err := excelize.CoordinatesToCellName(col, r)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, doseCell, d.Amount); err != nil {
				return nil, err
			}
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DailyFileName — имя файла группы ведомости.
func DailyFileName(b Batch) string {
	return fmt.Sprintf("daily_report_%s.xlsx", b.Number)
}
