package report_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/clinic-backend/internal/domain/medications"
	"github.com/Spok95/clinic-backend/internal/report"
)

func openSheet(t *testing.T, data []byte) (*excelize.File, string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f, f.GetSheetName(f.GetActiveSheetIndex())
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestRenderDaily(t *testing.T) {
	b := report.Batch{
		Number: "0_20241215",
		Rows: []report.Row{
			{
				VisitID:      1,
				PatientID:    1,
				PatientLabel: "Сидоров А. І.",
				Doses: []report.Dose{
					{ShortName: "Ібупрофен", Unit: "уп.", Amount: 0.4},
					{ShortName: "Шприци", Unit: "шт.", Amount: 2},
				},
			},
			{
				VisitID:      3,
				PatientID:    3,
				PatientLabel: "Коваленко І. П.",
				Doses: []report.Dose{
					{ShortName: "Шприци", Unit: "шт.", Amount: 1},
				},
			},
		},
	}

	data, err := report.RenderDaily(b, date("2024-12-15"))
	require.NoError(t, err)

	f, sheet := openSheet(t, data)

	assert.Equal(t, "Відомість видачі медикаментів № 0_20241215 від 15 грудня 2024",
		cell(t, f, sheet, "A1"))

	// колонки медикаментов в порядке появления
	assert.Equal(t, "Ібупрофен", cell(t, f, sheet, "D3"))
	assert.Equal(t, "уп.", cell(t, f, sheet, "D5"))
	assert.Equal(t, "Шприци", cell(t, f, sheet, "E3"))
	assert.Equal(t, "шт.", cell(t, f, sheet, "E5"))

	assert.Equal(t, "1", cell(t, f, sheet, "A7"))
	assert.Equal(t, "е-амб № 1", cell(t, f, sheet, "B7"))
	assert.Equal(t, "Сидоров А. І.", cell(t, f, sheet, "C7"))
	assert.Equal(t, "0.4", cell(t, f, sheet, "D7"))
	assert.Equal(t, "2", cell(t, f, sheet, "E7"))

	assert.Equal(t, "Коваленко І. П.", cell(t, f, sheet, "C8"))
	// у второго пациента нет ибупрофена — клетка пустая
	assert.Equal(t, "", cell(t, f, sheet, "D8"))
	assert.Equal(t, "1", cell(t, f, sheet, "E8"))

	assert.Equal(t, "daily_report_0_20241215.xlsx", report.DailyFileName(b))
}

func TestRenderAct(t *testing.T) {
	items := []medications.ConsumptionTotal{
		{FullName: "Диклофенак натрій 3%", Unit: "фл.", Quantity: 10, PricePerUnit: 50},
		{FullName: "Шприц 5мл", Unit: "шт.", Quantity: 15, PricePerUnit: 20},
	}

	data, err := report.RenderAct(items, "01.12.2024 по 31.12.2024")
	require.NoError(t, err)

	f, sheet := openSheet(t, data)

	assert.Equal(t, "АКТ списання медикаментів за період 01.12.2024 по 31.12.2024",
		cell(t, f, sheet, "A1"))
	assert.Equal(t, "Диклофенак натрій 3%", cell(t, f, sheet, "B4"))
	assert.Equal(t, "500", cell(t, f, sheet, "F4"))
	assert.Equal(t, "300", cell(t, f, sheet, "F5"))
	assert.Equal(t, "ВСЬОГО", cell(t, f, sheet, "E6"))
	assert.Equal(t, "800.00", cell(t, f, sheet, "F6"))
	assert.Equal(t, "Разом: вісімсот грн.", cell(t, f, sheet, "A7"))
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "нуль грн."},
		{"7", "сім грн."},
		{"15", "п’ятнадцять грн."},
		{"42", "сорок дві грн."},
		{"100", "сто грн."},
		{"836", "вісімсот тридцять шість грн."},
		{"1000", "одна тисяча грн."},
		{"2340.05", "дві тисячі триста сорок грн. п’ять коп."},
		{"12000", "дванадцять тисяч грн."},
		{"21500.50", "двадцять одна тисяча п’ятсот грн. п’ятдесят коп."},
	}
	for _, tt := range tests {
		amount, err := decimal.NewFromString(tt.amount)
		require.NoError(t, err)
		assert.Equal(t, tt.want, report.AmountInWords(amount), tt.amount)
	}
}
