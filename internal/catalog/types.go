package catalog

import "time"

// Material unit tags, stored verbatim. The area tags get special handling:
// a material bought as a whole sheet (m2) is normalized at creation time to
// a per-cm² cost (cm2).
const (
	UnitMeter            = "m"
	UnitPiece            = "un"
	UnitCentimeter       = "cm"
	UnitPack             = "pct"
	UnitGram             = "g"
	UnitMilliliter       = "ml"
	UnitSquareMeter      = "m2"
	UnitSquareCentimeter = "cm2"
)

// ValidUnits lists every recognized material unit tag.
var ValidUnits = []string{
	UnitMeter,
	UnitPiece,
	UnitCentimeter,
	UnitPack,
	UnitGram,
	UnitMilliliter,
	UnitSquareMeter,
	UnitSquareCentimeter,
}

// IsValidUnit reports whether tag is a recognized material unit.
func IsValidUnit(tag string) bool {
	for _, unit := range ValidUnits {
		if tag == unit {
			return true
		}
	}
	return false
}

// Material is a raw input the seller keeps in stock.
type Material struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	UnitCost float64 `json:"unitCost"`
	Unit     string  `json:"unit"`
	Stock    int     `json:"stock"`
	ImageURL string  `json:"imageUrl,omitempty"`
	WidthCm  float64 `json:"widthCm,omitempty"`
	HeightCm float64 `json:"heightCm,omitempty"`
}

// FixedCost is a recurring monthly expense amortized into the labor rate.
type FixedCost struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MonthlyValue float64 `json:"monthlyValue"`
}

// ProductMaterial references a material by id with the quantity one unit of
// the product consumes. The reference is weak: deleting the material leaves
// it dangling and lookups tolerate the miss.
type ProductMaterial struct {
	MaterialID string  `json:"materialId"`
	Quantity   float64 `json:"quantity"`
}

// Product statuses, stored exactly as displayed.
const (
	StatusAvailable    = "Disponível"
	StatusSoldOut      = "Esgotado"
	StatusInProduction = "Em produção"
)

// Product is a finished good. TotalCost, Price and Profit are snapshots
// taken when the product is saved; they are not recomputed when material
// prices change later.
type Product struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	ImageURL     string            `json:"imageUrl,omitempty"`
	TimeMinutes  float64           `json:"timeMinutes"`
	Materials    []ProductMaterial `json:"materials"`
	TotalCost    float64           `json:"totalCost"`
	Price        float64           `json:"price"`
	Profit       float64           `json:"profit"`
	ProfitMargin float64           `json:"profitMargin"`
	Stock        int               `json:"stock"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Customer is a buyer with free-form labels.
type Customer struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Tags  []string `json:"tags"`
}

// Order statuses. Transitions are plain overwrites; no ordering is enforced.
const (
	OrderInProduction = "Em produção"
	OrderReady        = "Pronto"
	OrderDelivered    = "Entregue"
)

// Payment statuses.
const (
	PaymentPending = "Pendente"
	PaymentPaid    = "Pago"
)

// Payment methods.
const (
	PaymentCash  = "Dinheiro"
	PaymentPix   = "Pix"
	PaymentCard  = "Cartão"
	PaymentOther = "Outro"
)

// OrderItem freezes the product's unit price at the moment the order is
// created. Later price edits on the product never touch it.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order is a sale. Total is computed once at creation and never changes.
type Order struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customerId"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	OrderStatus   string      `json:"orderStatus"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentMethod string      `json:"paymentMethod"`
	OrderDate     time.Time   `json:"orderDate"`
	DeliveryDate  *time.Time  `json:"deliveryDate,omitempty"`
	Notes         string      `json:"notes,omitempty"`
}

// Settings holds the working capacity used to amortize fixed costs.
type Settings struct {
	WorkHoursPerDay  float64 `json:"workHoursPerDay"`
	WorkDaysPerMonth float64 `json:"workDaysPerMonth"`
}

// DefaultSettings returns the capacity assumed for a new workshop.
func DefaultSettings() Settings {
	return Settings{WorkHoursPerDay: 8, WorkDaysPerMonth: 22}
}
