package catalog

import "github.com/google/uuid"

// AddMaterial inserts a material and persists the collection. The id is
// assigned here.
func (s *Store) AddMaterial(m Material) (Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = uuid.NewString()
	s.materials = append(s.materials, m)
	if err := s.saveMaterialsLocked(); err != nil {
		return Material{}, err
	}
	return m, nil
}

// AddMaterialsBatch inserts every material in one mutation, assigning each a
// distinct id. Used by the spreadsheet import; the batch is never
// all-or-nothing because invalid rows were already filtered out.
func (s *Store) AddMaterialsBatch(ms []Material) ([]Material, error) {
	if len(ms) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := make([]Material, 0, len(ms))
	for _, m := range ms {
		m.ID = uuid.NewString()
		s.materials = append(s.materials, m)
		inserted = append(inserted, m)
	}
	if err := s.saveMaterialsLocked(); err != nil {
		return nil, err
	}
	return inserted, nil
}

// UpdateMaterial replaces the material with the same id.
func (s *Store) UpdateMaterial(m Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.materials {
		if s.materials[i].ID == m.ID {
			s.materials[i] = m
			return s.saveMaterialsLocked()
		}
	}
	return ErrNotFound
}

// DeleteMaterial removes the material immediately and arms the undo slot.
// Products referencing it keep their dangling reference; lookups resolve it
// as a miss.
func (s *Store) DeleteMaterial(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.materials {
		if s.materials[i].ID == id {
			deleted := s.materials[i]
			s.materials = append(s.materials[:i], s.materials[i+1:]...)
			if err := s.saveMaterialsLocked(); err != nil {
				return err
			}
			s.armMaterialUndo(deleted)
			return nil
		}
	}
	return ErrNotFound
}

// UndoDeleteMaterial restores the pending deleted material, if its window
// has not expired. It reports whether anything was restored.
func (s *Store) UndoDeleteMaterial() (Material, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.pendingMaterial
	if slot == nil {
		return Material{}, false, nil
	}
	slot.cancel()
	s.pendingMaterial = nil

	s.materials = append(s.materials, slot.record)
	if err := s.saveMaterialsLocked(); err != nil {
		return Material{}, false, err
	}
	return slot.record, true, nil
}

// AddFixedCost inserts a fixed cost and persists the collection.
func (s *Store) AddFixedCost(c FixedCost) (FixedCost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	s.fixedCosts = append(s.fixedCosts, c)
	if err := s.saveFixedCostsLocked(); err != nil {
		return FixedCost{}, err
	}
	return c, nil
}

// UpdateFixedCost replaces the fixed cost with the same id.
func (s *Store) UpdateFixedCost(c FixedCost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.fixedCosts {
		if s.fixedCosts[i].ID == c.ID {
			s.fixedCosts[i] = c
			return s.saveFixedCostsLocked()
		}
	}
	return ErrNotFound
}

// DeleteFixedCost removes the fixed cost immediately and arms the undo slot.
func (s *Store) DeleteFixedCost(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.fixedCosts {
		if s.fixedCosts[i].ID == id {
			deleted := s.fixedCosts[i]
			s.fixedCosts = append(s.fixedCosts[:i], s.fixedCosts[i+1:]...)
			if err := s.saveFixedCostsLocked(); err != nil {
				return err
			}
			s.armFixedCostUndo(deleted)
			return nil
		}
	}
	return ErrNotFound
}

// UndoDeleteFixedCost restores the pending deleted fixed cost, if its
// window has not expired.
func (s *Store) UndoDeleteFixedCost() (FixedCost, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.pendingFixedCost
	if slot == nil {
		return FixedCost{}, false, nil
	}
	slot.cancel()
	s.pendingFixedCost = nil

	s.fixedCosts = append(s.fixedCosts, slot.record)
	if err := s.saveFixedCostsLocked(); err != nil {
		return FixedCost{}, false, err
	}
	return slot.record, true, nil
}
