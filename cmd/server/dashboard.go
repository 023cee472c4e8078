package main

import (
	"net/http"
	"time"

	"github.com/silabala/atelie/internal/sales"
)

type dashboardResponse struct {
	MonthSales           float64         `json:"monthSales"`
	PendingOrders        int             `json:"pendingOrders"`
	EstimatedMonthProfit float64         `json:"estimatedMonthProfit"`
	LowStockCount        int             `json:"lowStockCount"`
	Chart                []sales.Bucket  `json:"chart"`
	UpcomingDeliveries   []orderResponse `json:"upcomingDeliveries"`
	Suggestions          []string        `json:"suggestions"`
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	period := sales.Period(r.URL.Query().Get("period"))
	switch period {
	case sales.PeriodWeek, sales.PeriodMonth, sales.PeriodYear:
	case "":
		period = sales.PeriodWeek
	default:
		writeError(w, http.StatusBadRequest, "Período inválido. Use 7d, month ou year.")
		return
	}

	now := time.Now()
	orders := s.store.Orders()
	products := s.store.Products()
	materials := s.store.Materials()

	upcoming := sales.UpcomingDeliveries(orders, now)
	upcomingViews := make([]orderResponse, len(upcoming))
	for i, o := range upcoming {
		upcomingViews[i] = s.toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		MonthSales:           sales.MonthSales(orders, now),
		PendingOrders:        sales.PendingOrders(orders),
		EstimatedMonthProfit: sales.EstimatedMonthProfit(orders, products, now),
		LowStockCount:        sales.LowStockCount(materials),
		Chart:                sales.Series(orders, period, now),
		UpcomingDeliveries:   upcomingViews,
		Suggestions:          sales.Suggestions(orders, products, materials),
	})
}

func (s *server) handleVerse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"verse": s.verses.Daily(r.Context())})
}
