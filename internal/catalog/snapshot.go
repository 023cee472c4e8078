package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Snapshot keys. The silabala_ namespace is kept from the data the app has
// always written, so existing databases keep working.
const (
	keyMaterials  = "silabala_materials"
	keyFixedCosts = "silabala_fixedCosts"
	keyProducts   = "silabala_products"
	keyCustomers  = "silabala_customers"
	keyOrders     = "silabala_orders"
	keySettings   = "silabala_settings"
)

// saveSnapshotLocked rewrites one collection's snapshot in full and commits
// the mutation. There are no delta writes; the JSON blob is the unit of
// persistence.
func (s *Store) saveSnapshotLocked(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (key, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}

	s.committed()
	return nil
}

func (s *Store) saveMaterialsLocked() error  { return s.saveSnapshotLocked(keyMaterials, s.materials) }
func (s *Store) saveFixedCostsLocked() error { return s.saveSnapshotLocked(keyFixedCosts, s.fixedCosts) }
func (s *Store) saveProductsLocked() error   { return s.saveSnapshotLocked(keyProducts, s.products) }
func (s *Store) saveCustomersLocked() error  { return s.saveSnapshotLocked(keyCustomers, s.customers) }
func (s *Store) saveOrdersLocked() error     { return s.saveSnapshotLocked(keyOrders, s.orders) }
func (s *Store) saveSettingsLocked() error   { return s.saveSnapshotLocked(keySettings, s.settings) }

// loadSnapshot reads one snapshot blob. Missing keys are not an error.
func (s *Store) loadSnapshot(key string) ([]byte, bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return []byte(data), true, nil
}

// loadAll populates every collection from its snapshot. Runs once in Open,
// before the store is shared, so no locking is needed here.
func (s *Store) loadAll() error {
	if data, ok, err := s.loadSnapshot(keyMaterials); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal(data, &s.materials); err != nil {
			return fmt.Errorf("decode materials snapshot: %w", err)
		}
	}

	if data, ok, err := s.loadSnapshot(keyFixedCosts); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal(data, &s.fixedCosts); err != nil {
			return fmt.Errorf("decode fixed costs snapshot: %w", err)
		}
	}

	if data, ok, err := s.loadSnapshot(keyCustomers); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal(data, &s.customers); err != nil {
			return fmt.Errorf("decode customers snapshot: %w", err)
		}
	}

	if data, ok, err := s.loadSnapshot(keySettings); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal(data, &s.settings); err != nil {
			return fmt.Errorf("decode settings snapshot: %w", err)
		}
	}

	if data, ok, err := s.loadSnapshot(keyProducts); err != nil {
		return err
	} else if ok {
		products, err := s.decodeProducts(data)
		if err != nil {
			return err
		}
		s.products = products
	}

	if data, ok, err := s.loadSnapshot(keyOrders); err != nil {
		return err
	} else if ok {
		s.orders = decodeOrders(data)
	}

	return nil
}

// legacyProduct is the pre-pricing-rework product shape, where the sell
// price lived in finalPrice and cost/profit were not stored. Ids were
// numeric back then.
type legacyProduct struct {
	ID           json.Number             `json:"id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	ImageURL     string                  `json:"imageUrl"`
	TimeMinutes  float64                 `json:"timeMinutes"`
	Materials    []legacyProductMaterial `json:"materials"`
	FinalPrice   float64                 `json:"finalPrice"`
	ProfitMargin float64                 `json:"profitMargin"`
	Stock        int                     `json:"stock"`
	Status       string                  `json:"status"`
	CreatedAt    string                  `json:"createdAt"`
}

type legacyProductMaterial struct {
	MaterialID json.Number `json:"materialId"`
	Quantity   float64     `json:"quantity"`
}

// decodeProducts handles the current shape first and falls back to the
// known legacy shape, recomputing the cost snapshot from current material
// prices the way the old app did on upgrade.
func (s *Store) decodeProducts(data []byte) ([]Product, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode products snapshot: %w", err)
	}

	products := make([]Product, 0, len(items))
	for _, item := range items {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(item, &probe); err != nil {
			return nil, fmt.Errorf("decode product entry: %w", err)
		}

		_, hasFinalPrice := probe["finalPrice"]
		_, hasPrice := probe["price"]
		if hasFinalPrice && !hasPrice {
			var legacy legacyProduct
			if err := json.Unmarshal(item, &legacy); err != nil {
				return nil, fmt.Errorf("decode legacy product entry: %w", err)
			}
			products = append(products, s.migrateLegacyProduct(legacy))
			continue
		}

		var p Product
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, fmt.Errorf("decode product entry: %w", err)
		}
		products = append(products, p)
	}

	return products, nil
}

func (s *Store) migrateLegacyProduct(legacy legacyProduct) Product {
	materials := make([]ProductMaterial, 0, len(legacy.Materials))
	for _, pm := range legacy.Materials {
		materials = append(materials, ProductMaterial{
			MaterialID: pm.MaterialID.String(),
			Quantity:   pm.Quantity,
		})
	}

	totalCost := s.productCostLocked(legacy.TimeMinutes, materials)
	price := legacy.FinalPrice

	status := legacy.Status
	if status == "" {
		if legacy.Stock > 0 {
			status = StatusAvailable
		} else {
			status = StatusSoldOut
		}
	}

	createdAt, err := time.Parse(time.RFC3339, legacy.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}

	return Product{
		ID:           legacy.ID.String(),
		Name:         legacy.Name,
		Description:  legacy.Description,
		ImageURL:     legacy.ImageURL,
		TimeMinutes:  legacy.TimeMinutes,
		Materials:    materials,
		TotalCost:    totalCost,
		Price:        price,
		Profit:       price - totalCost,
		ProfitMargin: legacy.ProfitMargin,
		Stock:        legacy.Stock,
		Status:       status,
		CreatedAt:    createdAt,
	}
}

// decodeOrders drops the whole collection when the stored shape predates
// the orderStatus/paymentStatus split (old entries carried a single status
// field). Demo seeding refills an empty collection on next start.
func decodeOrders(data []byte) []Order {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	if len(items) > 0 {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(items[0], &probe); err != nil {
			return nil
		}
		if _, legacy := probe["status"]; legacy {
			return nil
		}
	}

	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil
	}
	return orders
}
