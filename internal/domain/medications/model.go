package medications

import "time"

type Medication struct {
	ID            int64
	ShortName     string
	FullName      string
	Unit          string // единица измерения из таблицы классов (dosage)
	PricePerUnit  float64
	StockQuantity float64 // текущий остаток; меняется только через stock.Ledger
	CreatedAt     time.Time
}

// ConsumptionTotal — итог расхода медикамента за период, для акта списания.
type ConsumptionTotal struct {
	MedicationID int64
	ShortName    string
	FullName     string
	Unit         string
	Quantity     float64
	PricePerUnit float64
}
