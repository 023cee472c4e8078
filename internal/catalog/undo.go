package catalog

import "time"

// undoSlot holds the single pending delete of one entity kind. Arming a new
// slot cancels the previous one, so only the most recent delete can be
// undone.
type undoSlot[T any] struct {
	record T
	timer  *time.Timer
}

func (u *undoSlot[T]) cancel() {
	if u != nil && u.timer != nil {
		u.timer.Stop()
	}
}

// armMaterialUndo replaces the pending material delete and schedules its
// expiry. Called with the store lock held.
func (s *Store) armMaterialUndo(m Material) {
	s.pendingMaterial.cancel()
	slot := &undoSlot[Material]{record: m}
	slot.timer = time.AfterFunc(s.undoWindow, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.pendingMaterial == slot {
			s.pendingMaterial = nil
		}
	})
	s.pendingMaterial = slot
}

// armFixedCostUndo replaces the pending fixed cost delete and schedules its
// expiry. Called with the store lock held.
func (s *Store) armFixedCostUndo(c FixedCost) {
	s.pendingFixedCost.cancel()
	slot := &undoSlot[FixedCost]{record: c}
	slot.timer = time.AfterFunc(s.undoWindow, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.pendingFixedCost == slot {
			s.pendingFixedCost = nil
		}
	})
	s.pendingFixedCost = slot
}
