// Package seed fills an empty catalog with demo data so a first-time user
// sees a working dashboard instead of empty screens.
package seed

import (
	"fmt"
	"time"

	"github.com/silabala/atelie/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way: each collection is
// filled only when it is empty, so user data is never touched.
func Run(store *catalog.Store, now time.Time) (Stats, error) {
	stats := Stats{}

	materialIDs, err := seedMaterials(store, &stats)
	if err != nil {
		return Stats{}, err
	}
	if err := seedFixedCosts(store, &stats); err != nil {
		return Stats{}, err
	}
	customerIDs, err := seedCustomers(store, &stats)
	if err != nil {
		return Stats{}, err
	}
	productIDs, err := seedProducts(store, materialIDs, now, &stats)
	if err != nil {
		return Stats{}, err
	}
	if err := seedOrders(store, productIDs, customerIDs, now, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func seedMaterials(store *catalog.Store, stats *Stats) ([]string, error) {
	existing := store.Materials()
	if len(existing) > 0 {
		ids := make([]string, len(existing))
		for i, m := range existing {
			ids[i] = m.ID
		}
		return ids, nil
	}

	demo := []catalog.Material{
		{Name: "Fita de Gorgurão Rosa", UnitCost: 2.5, Unit: catalog.UnitMeter, Stock: 50},
		{Name: "Cola Quente Bastão", UnitCost: 0.8, Unit: catalog.UnitPiece, Stock: 100},
		{Name: "Tiara Plástica", UnitCost: 1.2, Unit: catalog.UnitPiece, Stock: 30},
		{Name: "Pérola Sintética", UnitCost: 0.1, Unit: catalog.UnitPiece, Stock: 200},
		{Name: "Fita Cetim Azul", UnitCost: 2.2, Unit: catalog.UnitMeter, Stock: 40},
	}

	inserted, err := store.AddMaterialsBatch(demo)
	if err != nil {
		return nil, fmt.Errorf("seed materials: %w", err)
	}
	stats.Inserts += len(inserted)

	ids := make([]string, len(inserted))
	for i, m := range inserted {
		ids[i] = m.ID
	}
	return ids, nil
}

func seedFixedCosts(store *catalog.Store, stats *Stats) error {
	if len(store.FixedCosts()) > 0 {
		return nil
	}

	demo := []catalog.FixedCost{
		{Name: "Salário/Pró-labore", MonthlyValue: 1000},
		{Name: "Energia Elétrica", MonthlyValue: 80},
		{Name: "Internet", MonthlyValue: 100},
	}
	for _, c := range demo {
		if _, err := store.AddFixedCost(c); err != nil {
			return fmt.Errorf("seed fixed cost %s: %w", c.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedCustomers(store *catalog.Store, stats *Stats) ([]string, error) {
	existing := store.Customers()
	if len(existing) > 0 {
		ids := make([]string, len(existing))
		for i, c := range existing {
			ids[i] = c.ID
		}
		return ids, nil
	}

	demo := []catalog.Customer{
		{Name: "Ana Silva", Phone: "11987654321", Tags: []string{"fiel"}},
		{Name: "Beatriz Costa", Phone: "21912345678", Tags: []string{"novo"}},
	}

	ids := make([]string, 0, len(demo))
	for _, c := range demo {
		inserted, err := store.AddCustomer(c)
		if err != nil {
			return nil, fmt.Errorf("seed customer %s: %w", c.Name, err)
		}
		ids = append(ids, inserted.ID)
		stats.Inserts++
	}
	return ids, nil
}

func seedProducts(store *catalog.Store, materialIDs []string, now time.Time, stats *Stats) ([]string, error) {
	existing := store.Products()
	if len(existing) > 0 {
		ids := make([]string, len(existing))
		for i, p := range existing {
			ids[i] = p.ID
		}
		return ids, nil
	}

	materialAt := func(i int) string {
		if i < len(materialIDs) {
			return materialIDs[i]
		}
		return ""
	}

	demo := []catalog.Product{
		{
			Name:        "Laço Boutique Rosa",
			Description: "Laço de fita de gorgurão com detalhe de pérola.",
			TimeMinutes: 25,
			Materials: []catalog.ProductMaterial{
				{MaterialID: materialAt(0), Quantity: 0.7},
				{MaterialID: materialAt(1), Quantity: 1},
				{MaterialID: materialAt(3), Quantity: 3},
			},
			TotalCost:    6.13,
			Price:        25,
			Profit:       18.87,
			ProfitMargin: 307,
			Stock:        15,
			Status:       catalog.StatusAvailable,
			CreatedAt:    now.AddDate(0, 0, -5),
		},
		{
			Name:        "Tiara Azul com Laço",
			Description: "Tiara encapada com laço de cetim azul.",
			TimeMinutes: 35,
			Materials: []catalog.ProductMaterial{
				{MaterialID: materialAt(2), Quantity: 1},
				{MaterialID: materialAt(4), Quantity: 0.5},
				{MaterialID: materialAt(1), Quantity: 1},
			},
			TotalCost:    9.87,
			Price:        35,
			Profit:       25.13,
			ProfitMargin: 254,
			Stock:        8,
			Status:       catalog.StatusAvailable,
			CreatedAt:    now.AddDate(0, 0, -10),
		},
	}

	ids := make([]string, 0, len(demo))
	for _, p := range demo {
		inserted, err := store.AddProduct(p)
		if err != nil {
			return nil, fmt.Errorf("seed product %s: %w", p.Name, err)
		}
		ids = append(ids, inserted.ID)
		stats.Inserts++
	}
	return ids, nil
}

// seedOrders spreads demo orders over the trailing week, the current month
// and the current year so every chart period has data.
func seedOrders(store *catalog.Store, productIDs, customerIDs []string, now time.Time, stats *Stats) error {
	if len(store.Orders()) > 0 || len(productIDs) == 0 || len(customerIDs) == 0 {
		return nil
	}

	productAt := func(i int) string { return productIDs[i%len(productIDs)] }
	customerAt := func(i int) string { return customerIDs[i%len(customerIDs)] }

	type demoOrder struct {
		daysAgo       int
		date          time.Time
		productIdx    int
		quantity      int
		paymentStatus string
		orderStatus   string
		paymentMethod string
	}

	demos := []demoOrder{
		{daysAgo: 1, productIdx: 0, quantity: 2, paymentStatus: catalog.PaymentPaid, orderStatus: catalog.OrderDelivered, paymentMethod: catalog.PaymentPix},
		{daysAgo: 3, productIdx: 1, quantity: 1, paymentStatus: catalog.PaymentPaid, orderStatus: catalog.OrderDelivered, paymentMethod: catalog.PaymentCard},
		{daysAgo: 6, productIdx: 0, quantity: 1, paymentStatus: catalog.PaymentPaid, orderStatus: catalog.OrderDelivered, paymentMethod: catalog.PaymentCash},
		{daysAgo: 2, productIdx: 1, quantity: 1, paymentStatus: catalog.PaymentPending, orderStatus: catalog.OrderInProduction, paymentMethod: catalog.PaymentPix},
	}

	if now.Day() > 10 {
		demos = append(demos,
			demoOrder{date: time.Date(now.Year(), now.Month(), 2, 12, 0, 0, 0, now.Location()), productIdx: 0, quantity: 1, paymentStatus: catalog.PaymentPaid, orderStatus: catalog.OrderDelivered, paymentMethod: catalog.PaymentCard},
			demoOrder{date: time.Date(now.Year(), now.Month(), 5, 12, 0, 0, 0, now.Location()), productIdx: 1, quantity: 1, paymentStatus: catalog.PaymentPaid, orderStatus: catalog.OrderDelivered, paymentMethod: catalog.PaymentCard},
		)
	}
	for offset := 1; offset <= 2; offset++ {
		if int(now.Month())-offset < 1 {
			break
		}
		demos = append(demos, demoOrder{
			date:          time.Date(now.Year(), now.Month()-time.Month(offset), 15, 12, 0, 0, 0, now.Location()),
			productIdx:    0,
			quantity:      2,
			paymentStatus: catalog.PaymentPaid,
			orderStatus:   catalog.OrderDelivered,
			paymentMethod: catalog.PaymentCash,
		})
	}

	for i, d := range demos {
		date := d.date
		if date.IsZero() {
			date = now.AddDate(0, 0, -d.daysAgo)
		}
		_, err := store.CreateOrder(catalog.Order{
			CustomerID:    customerAt(i),
			Items:         []catalog.OrderItem{{ProductID: productAt(d.productIdx), Quantity: d.quantity}},
			OrderStatus:   d.orderStatus,
			PaymentStatus: d.paymentStatus,
			PaymentMethod: d.paymentMethod,
			OrderDate:     date,
		})
		if err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
		stats.Inserts++
	}

	return nil
}
