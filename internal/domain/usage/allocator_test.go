package usage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/clinic-backend/internal/domain/medications"
	"github.com/Spok95/clinic-backend/internal/domain/stock"
	"github.com/Spok95/clinic-backend/internal/domain/usage"
	"github.com/Spok95/clinic-backend/internal/store/memory"
)

func newAllocator(t *testing.T) (*usage.Allocator, *stock.Ledger, *memory.Store) {
	t.Helper()
	st := memory.New()
	st.AddMedication(medications.Medication{ID: 1, ShortName: "Ібупрофен", Unit: "шт.", StockQuantity: 10})
	st.AddMedication(medications.Medication{ID: 2, ShortName: "Амброксол", Unit: "уп.", StockQuantity: 2})
	st.AddVisit(100)
	ledger := stock.NewLedger(st.Stock())
	return usage.NewAllocator(st.Usage(), ledger), ledger, st
}

func TestAllocator_Allocate(t *testing.T) {
	ctx := context.Background()
	alloc, ledger, st := newAllocator(t)

	got, err := alloc.Allocate(ctx, 100, []usage.Item{
		{MedicationID: 1, Quantity: 4},
		{MedicationID: 2, Quantity: 1.5},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(100), got[0].VisitID)
	assert.Equal(t, 4.0, got[0].Quantity)
	assert.NotZero(t, got[0].ID)

	m1, _ := st.Medication(1)
	m2, _ := st.Medication(2)
	assert.Equal(t, 6.0, m1.StockQuantity)
	assert.Equal(t, 0.5, m2.StockQuantity)

	log, err := ledger.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, log, 1)
	require.NotNil(t, log[0].VisitID)
	assert.Equal(t, int64(100), *log[0].VisitID)
}

// Отказ по любой позиции откатывает весь запрос: ни списаний,
// ни записей использования от успевших позиций не остаётся.
func TestAllocator_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	alloc, ledger, st := newAllocator(t)

	_, err := alloc.Allocate(ctx, 100, []usage.Item{
		{MedicationID: 1, Quantity: 4}, // хватает
		{MedicationID: 2, Quantity: 5}, // не хватает
	})
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	m1, _ := st.Medication(1)
	m2, _ := st.Medication(2)
	assert.Equal(t, 10.0, m1.StockQuantity)
	assert.Equal(t, 2.0, m2.StockQuantity)
	assert.Empty(t, st.Usages())

	log, err := ledger.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestAllocator_VisitNotFound(t *testing.T) {
	ctx := context.Background()
	alloc, _, st := newAllocator(t)

	_, err := alloc.Allocate(ctx, 999, []usage.Item{{MedicationID: 1, Quantity: 1}})
	require.ErrorIs(t, err, stock.ErrNotFound)

	m1, _ := st.Medication(1)
	assert.Equal(t, 10.0, m1.StockQuantity)
}

func TestAllocator_MedicationNotFound(t *testing.T) {
	ctx := context.Background()
	alloc, _, st := newAllocator(t)

	_, err := alloc.Allocate(ctx, 100, []usage.Item{
		{MedicationID: 1, Quantity: 1},
		{MedicationID: 77, Quantity: 1},
	})
	require.ErrorIs(t, err, stock.ErrNotFound)

	m1, _ := st.Medication(1)
	assert.Equal(t, 10.0, m1.StockQuantity)
	assert.Empty(t, st.Usages())
}

func TestAllocator_InvalidRequest(t *testing.T) {
	ctx := context.Background()
	alloc, _, _ := newAllocator(t)

	_, err := alloc.Allocate(ctx, 100, nil)
	assert.ErrorIs(t, err, stock.ErrInvalidQuantity)

	_, err = alloc.Allocate(ctx, 100, []usage.Item{{MedicationID: 1, Quantity: 0}})
	assert.ErrorIs(t, err, stock.ErrInvalidQuantity)
}
