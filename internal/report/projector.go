package report

import (
	"fmt"
	"time"

	"github.com/Spok95/clinic-backend/internal/domain/dosage"
	"github.com/Spok95/clinic-backend/internal/domain/patients"
	"github.com/Spok95/clinic-backend/internal/domain/visits"
)

type Dose struct {
	ShortName string
	Unit      string
	Amount    float64
}

type Row struct {
	VisitID      int64
	PatientID    int64
	PatientLabel string
	Doses        []Dose
}

// Batch — группа пациентов для одного файла ведомости.
// Number воспроизводим: индекс группы + дата, без случайных частей.
type Batch struct {
	Number string
	Rows   []Row
}

// ProjectDay строит строки дневной ведомости: для каждого визита,
// активного на дату, раскладывает назначения по дням и берёт дозу дня.
// Пациенты без единой дозы на эту дату в ведомость не попадают.
func ProjectDay(vs []visits.ReportVisit, target time.Time, batchSize int) ([]Batch, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", batchSize)
	}

	var rows []Row
	for _, v := range vs {
		days := dosage.PeriodDays(v.StartDate, v.EndDate)
		idx := dosage.DayIndex(v.StartDate, target)
		if idx < 0 || idx >= days {
			continue
		}

		var doses []Dose
		for _, med := range v.Medications {
			class, err := dosage.ClassOf(med.Unit)
			if err != nil {
				return nil, fmt.Errorf("visit id=%d: %w", v.VisitID, err)
			}
			schedule, err := dosage.Distribute(med.TotalQuantity, days, class)
			if err != nil {
				return nil, fmt.Errorf("visit id=%d: %w", v.VisitID, err)
			}
			if amount, ok := dosage.ExtractDay(schedule, v.StartDate, target); ok {
				doses = append(doses, Dose{ShortName: med.ShortName, Unit: med.Unit, Amount: amount})
			}
		}
		if len(doses) == 0 {
			continue
		}
		rows = append(rows, Row{
			VisitID:      v.VisitID,
			PatientID:    v.PatientID,
			PatientLabel: patients.Initials(v.PatientName),
			Doses:        doses,
		})
	}

	var batches []Batch
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batches = append(batches, Batch{
			Number: fmt.Sprintf("%d_%s", len(batches), target.Format("20060102")),
			Rows:   rows[i:end],
		})
	}
	return batches, nil
}
