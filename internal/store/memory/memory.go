// Package memory — хранилище в памяти с той же транзакционной семантикой,
// что и Postgres-реализация: глобальная блокировка на транзакцию и полный
// откат изменений при ошибке. Используется в тестах журнала и аллокатора.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Spok95/clinic-backend/internal/domain/medications"
	"github.com/Spok95/clinic-backend/internal/domain/stock"
	"github.com/Spok95/clinic-backend/internal/domain/usage"
)

type Store struct {
	mu        sync.Mutex
	meds      map[int64]medications.Medication
	visits    map[int64]bool
	log       []stock.Entry
	usages    []usage.Usage
	nextLog   int64
	nextUsage int64
}

func New() *Store {
	return &Store{
		meds:   make(map[int64]medications.Medication),
		visits: make(map[int64]bool),
	}
}

func (s *Store) AddMedication(m medications.Medication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meds[m.ID] = m
}

func (s *Store) AddVisit(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits[id] = true
}

func (s *Store) Medication(id int64) (medications.Medication, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meds[id]
	return m, ok
}

func (s *Store) Usages() []usage.Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]usage.Usage, len(s.usages))
	copy(out, s.usages)
	return out
}

// Stock — представление хранилища для журнала остатков.
func (s *Store) Stock() stock.Runner { return stockRunner{s} }

// Usage — представление хранилища для аллокатора.
func (s *Store) Usage() usage.Runner { return usageRunner{s} }

// do исполняет fn под глобальной блокировкой; при ошибке состояние
// восстанавливается из снимка, сделанного до начала.
func (s *Store) do(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&Tx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type state struct {
	meds      map[int64]medications.Medication
	log       []stock.Entry
	usages    []usage.Usage
	nextLog   int64
	nextUsage int64
}

func (s *Store) snapshot() state {
	meds := make(map[int64]medications.Medication, len(s.meds))
	for id, m := range s.meds {
		meds[id] = m
	}
	log := make([]stock.Entry, len(s.log))
	copy(log, s.log)
	usages := make([]usage.Usage, len(s.usages))
	copy(usages, s.usages)
	return state{meds: meds, log: log, usages: usages, nextLog: s.nextLog, nextUsage: s.nextUsage}
}

func (s *Store) restore(st state) {
	s.meds = st.meds
	s.log = st.log
	s.usages = st.usages
	s.nextLog = st.nextLog
	s.nextUsage = st.nextUsage
}

// Tx реализует usage.Tx (и, соответственно, stock.Tx).
type Tx struct {
	s *Store
}

func (t *Tx) MedicationForUpdate(_ context.Context, id int64) (*medications.Medication, error) {
	m, ok := t.s.meds[id]
	if !ok {
		return nil, nil
	}
	c := m
	return &c, nil
}

func (t *Tx) SaveStock(_ context.Context, id int64, qty float64) error {
	m := t.s.meds[id]
	m.StockQuantity = qty
	t.s.meds[id] = m
	return nil
}

func (t *Tx) AppendLog(_ context.Context, e stock.Entry) (stock.Entry, error) {
	t.s.nextLog++
	e.ID = t.s.nextLog
	e.CreatedAt = time.Now()
	t.s.log = append(t.s.log, e)
	return e, nil
}

func (t *Tx) VisitExists(_ context.Context, id int64) (bool, error) {
	return t.s.visits[id], nil
}

func (t *Tx) InsertUsage(_ context.Context, u usage.Usage) (usage.Usage, error) {
	t.s.nextUsage++
	u.ID = t.s.nextUsage
	u.CreatedAt = time.Now()
	t.s.usages = append(t.s.usages, u)
	return u, nil
}

type stockRunner struct{ s *Store }

func (r stockRunner) WithinTx(ctx context.Context, fn func(tx stock.Tx) error) error {
	return r.s.do(ctx, func(tx *Tx) error { return fn(tx) })
}

func (r stockRunner) Log(_ context.Context, medicationID int64) ([]stock.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []stock.Entry
	for _, e := range r.s.log {
		if e.MedicationID == medicationID {
			out = append(out, e)
		}
	}
	return out, nil
}

type usageRunner struct{ s *Store }

func (r usageRunner) WithinTx(ctx context.Context, fn func(tx usage.Tx) error) error {
	return r.s.do(ctx, func(tx *Tx) error { return fn(tx) })
}
