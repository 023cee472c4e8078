package catalog

import (
	"time"

	"github.com/google/uuid"
)

// CreateOrder inserts an order, freezing each item's unit price at the
// referenced product's current price and the total as the sum of the frozen
// prices. As a side effect every referenced product's stock is decremented;
// a product whose stock reaches zero or below flips to Esgotado regardless
// of its prior status. Stock replenished later never flips it back
// automatically.
func (s *Store) CreateOrder(o Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = uuid.NewString()
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}
	if o.OrderStatus == "" {
		o.OrderStatus = OrderInProduction
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}

	total := 0.0
	for i := range o.Items {
		if p, ok := s.productByIDLocked(o.Items[i].ProductID); ok {
			o.Items[i].UnitPrice = p.Price
		} else {
			// Dangling product reference: the item contributes nothing.
			o.Items[i].UnitPrice = 0
		}
		total += o.Items[i].UnitPrice * float64(o.Items[i].Quantity)
	}
	o.Total = total

	s.orders = append([]Order{o}, s.orders...)

	for _, item := range o.Items {
		for i := range s.products {
			if s.products[i].ID != item.ProductID {
				continue
			}
			s.products[i].Stock -= item.Quantity
			if s.products[i].Stock <= 0 {
				s.products[i].Status = StatusSoldOut
			}
		}
	}

	if err := s.saveOrdersLocked(); err != nil {
		return Order{}, err
	}
	if err := s.saveProductsLocked(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// SetOrderStatus overwrites the order status. Any transition is allowed,
// including backwards ones.
func (s *Store) SetOrderStatus(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].OrderStatus = status
			return s.saveOrdersLocked()
		}
	}
	return ErrNotFound
}

// SetPaymentStatus overwrites the payment status, unvalidated like
// SetOrderStatus.
func (s *Store) SetPaymentStatus(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].PaymentStatus = status
			return s.saveOrdersLocked()
		}
	}
	return ErrNotFound
}
