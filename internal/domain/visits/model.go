package visits

import "time"

type Visit struct {
	ID            int64
	PatientID     int64
	PatientName   string
	PatientPhone  string
	FacilityID    int64
	FacilityName  string
	StartDate     time.Time
	EndDate       *time.Time // nil — визит без известной даты окончания
	CallDate      *time.Time
	TreatmentType string
	InjuryType    string
	Status        string
	HasAppendix21 bool
	CreatedAt     time.Time
}

// ReportVisit — срез визита для дневной ведомости: период лечения и
// назначенные медикаменты с общим количеством на весь период.
type ReportVisit struct {
	VisitID     int64
	PatientID   int64
	PatientName string
	StartDate   time.Time
	EndDate     time.Time
	Medications []ReportMedication
}

type ReportMedication struct {
	ShortName     string
	Unit          string
	TotalQuantity float64
}
