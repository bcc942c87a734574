package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/clinic-backend/internal/domain/visits"
	"github.com/Spok95/clinic-backend/internal/report"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func visit(id int64, name, start, end string, meds ...visits.ReportMedication) visits.ReportVisit {
	return visits.ReportVisit{
		VisitID:     id,
		PatientID:   id,
		PatientName: name,
		StartDate:   date(start),
		EndDate:     date(end),
		Medications: meds,
	}
}

func TestProjectDay(t *testing.T) {
	vs := []visits.ReportVisit{
		visit(1, "Сидоров Андрій Іванович", "2024-12-13", "2024-12-17",
			visits.ReportMedication{ShortName: "Ібупрофен", Unit: "уп.", TotalQuantity: 2},
			visits.ReportMedication{ShortName: "Шприци", Unit: "шт.", TotalQuantity: 10},
		),
		// период не включает дату ведомости
		visit(2, "Мельник Андрій Павлович", "2024-12-18", "2024-12-23",
			visits.ReportMedication{ShortName: "Шприци", Unit: "шт.", TotalQuantity: 6},
		),
	}

	batches, err := report.ProjectDay(vs, date("2024-12-15"), 21)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Len(t, batches[0].Rows, 1)

	row := batches[0].Rows[0]
	assert.Equal(t, int64(1), row.VisitID)
	assert.Equal(t, "Сидоров А. І.", row.PatientLabel)
	require.Len(t, row.Doses, 2)
	// 2 уп. на 5 дней — по 0.4 в день; 10 шт. на 5 дней — по 2
	assert.Equal(t, report.Dose{ShortName: "Ібупрофен", Unit: "уп.", Amount: 0.4}, row.Doses[0])
	assert.Equal(t, report.Dose{ShortName: "Шприци", Unit: "шт.", Amount: 2}, row.Doses[1])

	assert.Equal(t, "0_20241215", batches[0].Number)
}

func TestProjectDay_DropsZeroDosePatients(t *testing.T) {
	// 3 шт. на 5 дней: дозы только в первые три дня
	vs := []visits.ReportVisit{
		visit(1, "Коваленко Ірина Петрівна", "2024-12-13", "2024-12-17",
			visits.ReportMedication{ShortName: "Шприци", Unit: "шт.", TotalQuantity: 3},
		),
	}

	batches, err := report.ProjectDay(vs, date("2024-12-15"), 21)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	batches, err = report.ProjectDay(vs, date("2024-12-16"), 21)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestProjectDay_Batching(t *testing.T) {
	var vs []visits.ReportVisit
	for i := int64(1); i <= 5; i++ {
		vs = append(vs, visit(i, "Пацієнт Тест Тестович", "2024-12-15", "2024-12-17",
			visits.ReportMedication{ShortName: "Шприци", Unit: "шт.", TotalQuantity: 3},
		))
	}

	batches, err := report.ProjectDay(vs, date("2024-12-16"), 2)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, "0_20241216", batches[0].Number)
	assert.Equal(t, "1_20241216", batches[1].Number)
	assert.Equal(t, "2_20241216", batches[2].Number)
	assert.Len(t, batches[0].Rows, 2)
	assert.Len(t, batches[1].Rows, 2)
	assert.Len(t, batches[2].Rows, 1)
}

func TestProjectDay_UnknownUnit(t *testing.T) {
	vs := []visits.ReportVisit{
		visit(1, "Сидоров Андрій Іванович", "2024-12-13", "2024-12-17",
			visits.ReportMedication{ShortName: "Щось", Unit: "кг", TotalQuantity: 1},
		),
	}
	_, err := report.ProjectDay(vs, date("2024-12-15"), 21)
	assert.Error(t, err)
}

func TestProjectDay_InvalidBatchSize(t *testing.T) {
	_, err := report.ProjectDay(nil, date("2024-12-15"), 0)
	assert.Error(t, err)
}
