package usage

import "time"

// Usage — зафиксированное использование медикамента в визите.
// После создания не редактируется: исправления оформляются новой
// записью или пополнением, а не правкой количества.
type Usage struct {
	ID           int64
	VisitID      int64
	MedicationID int64
	Quantity     float64
	CreatedAt    time.Time
}

// Item — позиция запроса на списание.
type Item struct {
	MedicationID int64
	Quantity     float64
}
