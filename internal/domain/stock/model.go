package stock

import "time"

type ChangeType string

const (
	ChangeIncrease ChangeType = "INCREASE"
	ChangeDecrease ChangeType = "DECREASE"
)

// Entry — запись журнала остатков. Журнал только дописывается:
// записи никогда не правятся и не удаляются, по ним восстанавливается
// вся история остатка медикамента.
type Entry struct {
	ID              int64
	MedicationID    int64
	VisitID         *int64 // nil — ручное пополнение без привязки к визиту
	ChangeType      ChangeType
	QuantityChanged float64 // всегда > 0, знак задаёт ChangeType
	PreviousStock   float64
	NewStock        float64
	CreatedAt       time.Time
}

// Delta — подписанное изменение остатка по записи.
func (e Entry) Delta() float64 {
	if e.ChangeType == ChangeDecrease {
		return -e.QuantityChanged
	}
	return e.QuantityChanged
}
