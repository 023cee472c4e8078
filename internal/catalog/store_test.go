package catalog

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSnapshotTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	_, err = db.Exec(`
		CREATE TABLE snapshots (
			key TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	db := newSnapshotTestDB(t)
	store, err := Open(db)
	require.NoError(t, err)
	return store, db
}

func TestAddMaterialPersistsAcrossReopen(t *testing.T) {
	store, db := newTestStore(t)

	m, err := store.AddMaterial(Material{Name: "Fita de Gorgurão Rosa", UnitCost: 2.5, Unit: UnitMeter, Stock: 50})
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)

	reopened, err := Open(db)
	require.NoError(t, err)

	got, ok := reopened.MaterialByID(m.ID)
	require.True(t, ok)
	require.Equal(t, m, got)
}

func TestUpdateMaterialUnknownIDReturnsNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.UpdateMaterial(Material{ID: "missing", Name: "x", Unit: UnitPiece})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMaterialUndoBeforeTimeoutRestoresSameRecord(t *testing.T) {
	store, _ := newTestStore(t)
	store.undoWindow = time.Minute

	m, err := store.AddMaterial(Material{Name: "Pérola Sintética", UnitCost: 0.1, Unit: UnitPiece, Stock: 200})
	require.NoError(t, err)

	require.NoError(t, store.DeleteMaterial(m.ID))
	_, ok := store.MaterialByID(m.ID)
	require.False(t, ok, "material must be gone immediately after delete")

	restored, ok, err := store.UndoDeleteMaterial()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, m, restored, "undo must restore the same id and field values")

	got, ok := store.MaterialByID(m.ID)
	require.True(t, ok)
	require.Equal(t, m, got)
}

func TestUndoAfterTimeoutIsNoOp(t *testing.T) {
	store, _ := newTestStore(t)
	store.undoWindow = 10 * time.Millisecond

	m, err := store.AddMaterial(Material{Name: "Tiara Plástica", UnitCost: 1.2, Unit: UnitPiece, Stock: 30})
	require.NoError(t, err)
	require.NoError(t, store.DeleteMaterial(m.ID))

	time.Sleep(50 * time.Millisecond)

	_, ok, err := store.UndoDeleteMaterial()
	require.NoError(t, err)
	require.False(t, ok, "expired undo must restore nothing")
	_, ok = store.MaterialByID(m.ID)
	require.False(t, ok)
}

func TestSecondDeleteReplacesPendingUndo(t *testing.T) {
	store, _ := newTestStore(t)
	store.undoWindow = time.Minute

	first, err := store.AddMaterial(Material{Name: "Fita Cetim Azul", UnitCost: 2.2, Unit: UnitMeter, Stock: 40})
	require.NoError(t, err)
	second, err := store.AddMaterial(Material{Name: "Cola Quente Bastão", UnitCost: 0.8, Unit: UnitPiece, Stock: 100})
	require.NoError(t, err)

	require.NoError(t, store.DeleteMaterial(first.ID))
	require.NoError(t, store.DeleteMaterial(second.ID))

	restored, ok, err := store.UndoDeleteMaterial()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, second.ID, restored.ID, "only the most recent delete is undoable")

	// The first delete's undo opportunity is gone.
	_, ok, err = store.UndoDeleteMaterial()
	require.NoError(t, err)
	require.False(t, ok)
	_, ok = store.MaterialByID(first.ID)
	require.False(t, ok)
}

func TestFixedCostDeleteAndUndo(t *testing.T) {
	store, _ := newTestStore(t)
	store.undoWindow = time.Minute

	c, err := store.AddFixedCost(FixedCost{Name: "Internet", MonthlyValue: 100})
	require.NoError(t, err)
	require.NoError(t, store.DeleteFixedCost(c.ID))
	require.Empty(t, store.FixedCosts())

	restored, ok, err := store.UndoDeleteFixedCost()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, c, restored)
	require.Len(t, store.FixedCosts(), 1)
}

func TestHourlyRateUsesSettingsAndFixedCosts(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.AddFixedCost(FixedCost{Name: "Salário", MonthlyValue: 1000})
	require.NoError(t, err)
	_, err = store.AddFixedCost(FixedCost{Name: "Energia", MonthlyValue: 760})
	require.NoError(t, err)

	// 1760 over 8h × 22d.
	require.InDelta(t, 10.0, store.HourlyRate(), 1e-9)

	require.NoError(t, store.UpdateSettings(Settings{WorkHoursPerDay: 0, WorkDaysPerMonth: 22}))
	require.Zero(t, store.HourlyRate())
}

func TestProductCostIgnoresDanglingMaterialReference(t *testing.T) {
	store, _ := newTestStore(t)

	m, err := store.AddMaterial(Material{Name: "Fita", UnitCost: 2.0, Unit: UnitMeter, Stock: 10})
	require.NoError(t, err)

	used := []ProductMaterial{
		{MaterialID: m.ID, Quantity: 3},
		{MaterialID: "deleted-long-ago", Quantity: 99},
	}

	// No fixed costs: labor is free, only the resolvable material counts.
	require.InDelta(t, 6.0, store.ProductCost(0, used), 1e-9)
}

func TestAddProductFromPricingSnapshotsCostAndPrice(t *testing.T) {
	store, _ := newTestStore(t)

	m, err := store.AddMaterial(Material{Name: "Fita", UnitCost: 5.0, Unit: UnitMeter, Stock: 10})
	require.NoError(t, err)

	used := []ProductMaterial{{MaterialID: m.ID, Quantity: 2}}
	p, err := store.AddProductFromPricing("Laço Boutique", 0, used, 50)
	require.NoError(t, err)
	require.InDelta(t, 10.0, p.TotalCost, 1e-9)
	require.InDelta(t, 15.0, p.Price, 1e-9)
	require.InDelta(t, 5.0, p.Profit, 1e-9)
	require.Equal(t, StatusAvailable, p.Status)

	// Raising the material price must not touch the saved snapshot.
	m.UnitCost = 50
	require.NoError(t, store.UpdateMaterial(m))
	got, ok := store.ProductByID(p.ID)
	require.True(t, ok)
	require.InDelta(t, 10.0, got.TotalCost, 1e-9)
	require.InDelta(t, 15.0, got.Price, 1e-9)
}

func TestCreateOrderDecrementsStockAndFlipsSoldOut(t *testing.T) {
	store, _ := newTestStore(t)

	a, err := store.AddProduct(Product{Name: "Laço Rosa", Price: 25, Stock: 5, Status: StatusAvailable})
	require.NoError(t, err)
	b, err := store.AddProduct(Product{Name: "Tiara Azul", Price: 35, Stock: 2, Status: StatusInProduction})
	require.NoError(t, err)

	o, err := store.CreateOrder(Order{
		CustomerID:    "c1",
		Items:         []OrderItem{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 2}},
		PaymentMethod: PaymentPix,
	})
	require.NoError(t, err)
	require.InDelta(t, 2*25.0+2*35.0, o.Total, 1e-9)

	gotA, _ := store.ProductByID(a.ID)
	require.Equal(t, 3, gotA.Stock)
	require.Equal(t, StatusAvailable, gotA.Status)

	gotB, _ := store.ProductByID(b.ID)
	require.Equal(t, 0, gotB.Stock)
	require.Equal(t, StatusSoldOut, gotB.Status, "stock hitting zero flips status regardless of prior status")
}

func TestOrderTotalIsFrozenAgainstLaterPriceEdits(t *testing.T) {
	store, _ := newTestStore(t)

	p, err := store.AddProduct(Product{Name: "Laço", Price: 25, Stock: 10, Status: StatusAvailable})
	require.NoError(t, err)

	o, err := store.CreateOrder(Order{
		CustomerID: "c1",
		Items:      []OrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	p, _ = store.ProductByID(p.ID)
	p.Price = 99
	require.NoError(t, store.UpdateProduct(p))

	orders := store.Orders()
	require.Len(t, orders, 1)
	require.Equal(t, o.ID, orders[0].ID)
	require.InDelta(t, 25.0, orders[0].Total, 1e-9)
	require.InDelta(t, 25.0, orders[0].Items[0].UnitPrice, 1e-9)
}

func TestCreateOrderToleratesDanglingProduct(t *testing.T) {
	store, _ := newTestStore(t)

	o, err := store.CreateOrder(Order{
		CustomerID: "c1",
		Items:      []OrderItem{{ProductID: "gone", Quantity: 3}},
	})
	require.NoError(t, err)
	require.Zero(t, o.Total)
	require.Zero(t, o.Items[0].UnitPrice)
}

func TestStatusTransitionsAreUnvalidatedOverwrites(t *testing.T) {
	store, _ := newTestStore(t)

	o, err := store.CreateOrder(Order{CustomerID: "c1"})
	require.NoError(t, err)

	require.NoError(t, store.SetOrderStatus(o.ID, OrderDelivered))
	require.NoError(t, store.SetOrderStatus(o.ID, OrderInProduction), "backwards transitions stay allowed")
	require.NoError(t, store.SetPaymentStatus(o.ID, PaymentPaid))

	orders := store.Orders()
	require.Equal(t, OrderInProduction, orders[0].OrderStatus)
	require.Equal(t, PaymentPaid, orders[0].PaymentStatus)

	require.ErrorIs(t, store.SetOrderStatus("missing", OrderReady), ErrNotFound)
}

func TestVersionBumpsOnEveryMutation(t *testing.T) {
	store, _ := newTestStore(t)

	notified := 0
	store.Subscribe(func() { notified++ })

	before := store.Version()
	_, err := store.AddCustomer(Customer{Name: "Ana Silva", Phone: "11987654321", Tags: []string{"fiel"}})
	require.NoError(t, err)
	require.Greater(t, store.Version(), before)
	require.Equal(t, 1, notified)
}

func TestOpenMigratesLegacyProductShape(t *testing.T) {
	db := newSnapshotTestDB(t)

	// Legacy shape: numeric ids, finalPrice instead of price/totalCost/profit.
	_, err := db.Exec(`INSERT INTO snapshots (key, data) VALUES (?, ?)`,
		"silabala_materials",
		`[{"id":"7","name":"Fita","unitCost":2.0,"unit":"m","stock":10}]`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO snapshots (key, data) VALUES (?, ?)`,
		"silabala_products",
		`[{"id":101,"name":"Laço Antigo","timeMinutes":0,"materials":[{"materialId":7,"quantity":3}],"finalPrice":25,"profitMargin":300,"stock":4}]`)
	require.NoError(t, err)

	store, err := Open(db)
	require.NoError(t, err)

	products := store.Products()
	require.Len(t, products, 1)
	p := products[0]
	require.Equal(t, "101", p.ID)
	require.Equal(t, "Laço Antigo", p.Name)
	require.InDelta(t, 25.0, p.Price, 1e-9)
	require.InDelta(t, 6.0, p.TotalCost, 1e-9, "cost recomputed from current material prices")
	require.InDelta(t, 19.0, p.Profit, 1e-9)
	require.Equal(t, StatusAvailable, p.Status)
	require.Equal(t, "7", p.Materials[0].MaterialID)
}

func TestOpenDiscardsLegacyOrderShape(t *testing.T) {
	db := newSnapshotTestDB(t)

	_, err := db.Exec(`INSERT INTO snapshots (key, data) VALUES (?, ?)`,
		"silabala_orders",
		`[{"id":1,"customerId":1,"status":"Entregue","total":50}]`)
	require.NoError(t, err)

	store, err := Open(db)
	require.NoError(t, err)
	require.Empty(t, store.Orders())
}

func TestSettingsPersistAcrossReopen(t *testing.T) {
	store, db := newTestStore(t)

	require.Equal(t, DefaultSettings(), store.Settings())
	require.NoError(t, store.UpdateSettings(Settings{WorkHoursPerDay: 6, WorkDaysPerMonth: 20}))

	reopened, err := Open(db)
	require.NoError(t, err)
	require.Equal(t, Settings{WorkHoursPerDay: 6, WorkDaysPerMonth: 20}, reopened.Settings())
}
