package visits

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, patientID, facilityID int64, startDate time.Time, endDate *time.Time, treatmentType, injuryType string) (*Visit, error) {
	// дата первого контрольного звонка — через 5 дней после начала лечения
	callDate := startDate.AddDate(0, 0, 5)

	row := r.pool.QueryRow(ctx, `
		INSERT INTO visits (patient_id, facility_id, start_date, end_date, call_date, treatment_type, injury_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, patient_id, facility_id, start_date, end_date, call_date,
		          treatment_type, injury_type, status, has_appendix21, created_at
	`, patientID, facilityID, startDate, endDate, callDate, treatmentType, injuryType)

	var v Visit
	if err := row.Scan(&v.ID, &v.PatientID, &v.FacilityID, &v.StartDate, &v.EndDate, &v.CallDate,
		&v.TreatmentType, &v.InjuryType, &v.Status, &v.HasAppendix21, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Visit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT v.id, v.patient_id, p.name, p.phone, v.facility_id, f.name,
		       v.start_date, v.end_date, v.call_date,
		       v.treatment_type, v.injury_type, v.status, v.has_appendix21, v.created_at
		FROM visits v
		JOIN patients p ON p.id = v.patient_id
		JOIN facilities f ON f.id = v.facility_id
		WHERE v.id = $1
	`, id)
	var v Visit
	if err := row.Scan(&v.ID, &v.PatientID, &v.PatientName, &v.PatientPhone, &v.FacilityID, &v.FacilityName,
		&v.StartDate, &v.EndDate, &v.CallDate,
		&v.TreatmentType, &v.InjuryType, &v.Status, &v.HasAppendix21, &v.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// ListForDailyReport — визиты, чей закрытый период [start_date, end_date]
// содержит дату ведомости, с суммарным назначением по каждому медикаменту.
// Визиты без end_date в ведомость не попадают: длина периода не определена.
func (r *Repo) ListForDailyReport(ctx context.Context, date time.Time) ([]ReportVisit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.id, v.patient_id, p.name, v.start_date, v.end_date,
		       m.short_name, m.unit, SUM(mu.quantity)
		FROM visits v
		JOIN patients p ON p.id = v.patient_id
		JOIN medication_usages mu ON mu.visit_id = v.id
		JOIN medications m ON m.id = mu.medication_id
		WHERE v.end_date IS NOT NULL
		  AND v.start_date <= $1::date
		  AND v.end_date >= $1::date
		GROUP BY v.id, v.patient_id, p.name, v.start_date, v.end_date, m.short_name, m.unit
		ORDER BY v.id, m.short_name
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportVisit
	for rows.Next() {
		var (
			visitID, patientID int64
			name               string
			start, end         time.Time
			med                ReportMedication
		)
		if err := rows.Scan(&visitID, &patientID, &name, &start, &end,
			&med.ShortName, &med.Unit, &med.TotalQuantity); err != nil {
			return nil, err
		}
		if n := len(out); n > 0 && out[n-1].VisitID == visitID {
			out[n-1].Medications = append(out[n-1].Medications, med)
			continue
		}
		out = append(out, ReportVisit{
			VisitID:     visitID,
			PatientID:   patientID,
			PatientName: name,
			StartDate:   start,
			EndDate:     end,
			Medications: []ReportMedication{med},
		})
	}
	return out, rows.Err()
}

// PatientsForCall — визиты с контрольным звонком на указанный день.
func (r *Repo) PatientsForCall(ctx context.Context, day time.Time) ([]Visit, error) {
	return r.listJoined(ctx, `WHERE v.call_date = $1::date`, day)
}

// MissingAppendix21 — визиты с боевым ранением без приложения 21.
func (r *Repo) MissingAppendix21(ctx context.Context) ([]Visit, error) {
	return r.listJoined(ctx, `WHERE v.injury_type = 'Бойова' AND v.has_appendix21 = FALSE`)
}

func (r *Repo) listJoined(ctx context.Context, where string, args ...any) ([]Visit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.id, v.patient_id, p.name, p.phone, v.facility_id, f.name,
		       v.start_date, v.end_date, v.call_date,
		       v.treatment_type, v.injury_type, v.status, v.has_appendix21, v.created_at
		FROM visits v
		JOIN patients p ON p.id = v.patient_id
		JOIN facilities f ON f.id = v.facility_id
		`+where+`
		ORDER BY v.id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.PatientID, &v.PatientName, &v.PatientPhone, &v.FacilityID, &v.FacilityName,
			&v.StartDate, &v.EndDate, &v.CallDate,
			&v.TreatmentType, &v.InjuryType, &v.Status, &v.HasAppendix21, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// BumpCallDate переносит следующий звонок на days дней вперёд.
func (r *Repo) BumpCallDate(ctx context.Context, id int64, days int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE visits SET call_date = call_date + $2 * INTERVAL '1 day' WHERE id=$1
	`, id, days)
	return err
}
