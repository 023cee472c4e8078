package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/silabala/atelie/internal/costing"
)

// HourlyRate derives the current labor rate from the fixed costs and the
// configured working capacity.
func (s *Store) HourlyRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hourlyRateLocked()
}

func (s *Store) hourlyRateLocked() float64 {
	total := 0.0
	for _, c := range s.fixedCosts {
		total += c.MonthlyValue
	}
	return costing.HourlyRate(total, s.settings.WorkHoursPerDay, s.settings.WorkDaysPerMonth)
}

// ProductCost computes labor plus materials cost against the current
// material prices. A materialId that no longer resolves contributes 0.
func (s *Store) ProductCost(timeMinutes float64, used []ProductMaterial) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productCostLocked(timeMinutes, used)
}

func (s *Store) productCostLocked(timeMinutes float64, used []ProductMaterial) float64 {
	uses := make([]costing.MaterialUse, 0, len(used))
	for _, pm := range used {
		m, ok := s.materialByIDLocked(pm.MaterialID)
		if !ok {
			continue
		}
		uses = append(uses, costing.MaterialUse{UnitCost: m.UnitCost, Quantity: pm.Quantity})
	}
	return costing.ProductCost(timeMinutes, s.hourlyRateLocked(), uses)
}

// SuggestedPrice applies the markup margin over the computed product cost.
func (s *Store) SuggestedPrice(timeMinutes float64, used []ProductMaterial, profitMargin float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	cost := s.productCostLocked(timeMinutes, used)
	return costing.SuggestedPrice(cost, profitMargin)
}

// AddProductFromPricing saves a product straight from a pricing
// calculation, snapshotting cost, price and profit at this moment. Later
// material price changes do not touch the saved snapshot.
func (s *Store) AddProductFromPricing(name string, timeMinutes float64, used []ProductMaterial, profitMargin float64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalCost := s.productCostLocked(timeMinutes, used)
	price := costing.SuggestedPrice(totalCost, profitMargin)

	p := Product{
		ID:           uuid.NewString(),
		Name:         name,
		TimeMinutes:  timeMinutes,
		Materials:    used,
		TotalCost:    totalCost,
		Price:        price,
		Profit:       costing.Profit(price, totalCost),
		ProfitMargin: profitMargin,
		Stock:        0,
		Status:       StatusAvailable,
		CreatedAt:    time.Now(),
	}

	s.products = append([]Product{p}, s.products...)
	if err := s.saveProductsLocked(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// AddProduct inserts a fully specified product, newest first.
func (s *Store) AddProduct(p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.products = append([]Product{p}, s.products...)
	if err := s.saveProductsLocked(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// UpdateProduct replaces the product with the same id. Cost and profit are
// whatever the caller computed; the store never recalculates them
// reactively.
func (s *Store) UpdateProduct(p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return s.saveProductsLocked()
		}
	}
	return ErrNotFound
}

// DeleteProduct removes the product. Orders referencing it keep their
// frozen item snapshots.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return s.saveProductsLocked()
		}
	}
	return ErrNotFound
}

// AddCustomer inserts a customer.
func (s *Store) AddCustomer(c Customer) (Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	s.customers = append(s.customers, c)
	if err := s.saveCustomersLocked(); err != nil {
		return Customer{}, err
	}
	return c, nil
}
