// Package sales computes the dashboard's time-bucketed sales series and
// KPI roll-ups from the order history. Everything here is a pure scan over
// the slices the caller passes in; the store is never touched.
package sales

import (
	"fmt"
	"time"

	"github.com/silabala/atelie/internal/catalog"
)

// Period selects the bucketing of the sales chart.
type Period string

const (
	PeriodWeek  Period = "7d"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// monthLabels are the chart labels for the year view.
var monthLabels = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// Bucket is one bar of the sales chart. HeightPct is the bar height
// relative to the tallest bucket; an all-empty chart renders flat zeros.
type Bucket struct {
	Label     string  `json:"label"`
	Amount    float64 `json:"amount"`
	HeightPct float64 `json:"heightPct"`
}

// Series buckets paid orders into the chosen period. Buckets are always
// emitted in chronological order and empty buckets stay in place as zeros.
func Series(orders []catalog.Order, period Period, now time.Time) []Bucket {
	switch period {
	case PeriodMonth:
		return monthSeries(orders, now)
	case PeriodYear:
		return yearSeries(orders, now)
	default:
		return weekSeries(orders, now)
	}
}

func weekSeries(orders []catalog.Order, now time.Time) []Bucket {
	labels := make([]string, 0, 7)
	amounts := make(map[string]float64, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		key := day.Format("02/01")
		labels = append(labels, key)
		amounts[key] = 0
	}

	start := now.AddDate(0, 0, -6)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	for _, o := range orders {
		if o.PaymentStatus != catalog.PaymentPaid {
			continue
		}
		if o.OrderDate.Before(start) || o.OrderDate.After(end) {
			continue
		}
		key := o.OrderDate.Format("02/01")
		if _, ok := amounts[key]; ok {
			amounts[key] += o.Total
		}
	}

	return toBuckets(labels, amounts)
}

func monthSeries(orders []catalog.Order, now time.Time) []Bucket {
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()

	labels := make([]string, 0, daysInMonth)
	amounts := make(map[string]float64, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		key := fmt.Sprintf("%d", day)
		labels = append(labels, key)
		amounts[key] = 0
	}

	for _, o := range orders {
		if o.PaymentStatus != catalog.PaymentPaid {
			continue
		}
		if o.OrderDate.Year() != now.Year() || o.OrderDate.Month() != now.Month() {
			continue
		}
		key := fmt.Sprintf("%d", o.OrderDate.Day())
		amounts[key] += o.Total
	}

	return toBuckets(labels, amounts)
}

func yearSeries(orders []catalog.Order, now time.Time) []Bucket {
	amounts := make(map[string]float64, len(monthLabels))
	for _, label := range monthLabels {
		amounts[label] = 0
	}

	for _, o := range orders {
		if o.PaymentStatus != catalog.PaymentPaid {
			continue
		}
		if o.OrderDate.Year() != now.Year() {
			continue
		}
		amounts[monthLabels[o.OrderDate.Month()-1]] += o.Total
	}

	return toBuckets(monthLabels, amounts)
}

func toBuckets(labels []string, amounts map[string]float64) []Bucket {
	// Max floor of 1 keeps heights defined when every bucket is empty.
	max := 1.0
	for _, amount := range amounts {
		if amount > max {
			max = amount
		}
	}

	buckets := make([]Bucket, 0, len(labels))
	for _, label := range labels {
		amount := amounts[label]
		buckets = append(buckets, Bucket{
			Label:     label,
			Amount:    amount,
			HeightPct: amount / max * 100,
		})
	}
	return buckets
}

// MonthSales sums the totals of paid orders placed in the current month.
func MonthSales(orders []catalog.Order, now time.Time) float64 {
	total := 0.0
	for _, o := range orders {
		if o.PaymentStatus != catalog.PaymentPaid {
			continue
		}
		if o.OrderDate.Year() == now.Year() && o.OrderDate.Month() == now.Month() {
			total += o.Total
		}
	}
	return total
}

// PendingOrders counts orders not yet delivered.
func PendingOrders(orders []catalog.Order) int {
	count := 0
	for _, o := range orders {
		if o.OrderStatus != catalog.OrderDelivered {
			count++
		}
	}
	return count
}

// EstimatedMonthProfit sums, over this month's orders, each item's profit
// taken from the current product snapshot (price minus cost at save time).
// Items whose product is gone contribute nothing.
func EstimatedMonthProfit(orders []catalog.Order, products []catalog.Product, now time.Time) float64 {
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	total := 0.0
	for _, o := range orders {
		if o.OrderDate.Year() != now.Year() || o.OrderDate.Month() != now.Month() {
			continue
		}
		for _, item := range o.Items {
			if p, ok := byID[item.ProductID]; ok {
				total += (p.Price - p.TotalCost) * float64(item.Quantity)
			}
		}
	}
	return total
}

// lowStockThreshold marks materials worth restocking.
const lowStockThreshold = 10

// LowStockCount counts materials below the restock threshold.
func LowStockCount(materials []catalog.Material) int {
	count := 0
	for _, m := range materials {
		if m.Stock < lowStockThreshold {
			count++
		}
	}
	return count
}

// UpcomingDeliveries returns undelivered orders due within the next seven
// days, soonest first.
func UpcomingDeliveries(orders []catalog.Order, now time.Time) []catalog.Order {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, 7)

	upcoming := make([]catalog.Order, 0)
	for _, o := range orders {
		if o.DeliveryDate == nil || o.OrderStatus == catalog.OrderDelivered {
			continue
		}
		due := *o.DeliveryDate
		if due.Before(today) || due.After(horizon) {
			continue
		}
		upcoming = append(upcoming, o)
	}

	for i := 1; i < len(upcoming); i++ {
		for j := i; j > 0 && upcoming[j].DeliveryDate.Before(*upcoming[j-1].DeliveryDate); j-- {
			upcoming[j], upcoming[j-1] = upcoming[j-1], upcoming[j]
		}
	}
	return upcoming
}

// Suggestions builds up to two friendly nudges for the seller: restock for
// the best-selling product and a low-stock material warning.
func Suggestions(orders []catalog.Order, products []catalog.Product, materials []catalog.Material) []string {
	suggestions := make([]string, 0, 2)

	sold := make(map[string]int)
	for _, o := range orders {
		for _, item := range o.Items {
			sold[item.ProductID] += item.Quantity
		}
	}
	topID, topQty := "", 0
	for id, qty := range sold {
		if qty > topQty {
			topID, topQty = id, qty
		}
	}
	if topID != "" {
		for _, p := range products {
			if p.ID == topID {
				suggestions = append(suggestions, fmt.Sprintf("Você vendeu muito %s! Que tal repor os materiais?", p.Name))
				break
			}
		}
	}

	for _, m := range materials {
		if m.Stock < lowStockThreshold {
			suggestions = append(suggestions, fmt.Sprintf("O material %s está acabando. Adicione à sua lista de compras!", m.Name))
			break
		}
	}

	return suggestions
}
