package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/silabala/atelie/internal/catalog"
	"github.com/silabala/atelie/internal/costing"
)

type ratesResponse struct {
	HourlyRate       float64 `json:"hourlyRate"`
	MonthlyFixedCost float64 `json:"monthlyFixedCost"`
	WorkHoursPerDay  float64 `json:"workHoursPerDay"`
	WorkDaysPerMonth float64 `json:"workDaysPerMonth"`
}

func (s *server) handleRates(w http.ResponseWriter, r *http.Request) {
	total := 0.0
	for _, c := range s.store.FixedCosts() {
		total += c.MonthlyValue
	}

	settings := s.store.Settings()
	writeJSON(w, http.StatusOK, ratesResponse{
		HourlyRate:       s.store.HourlyRate(),
		MonthlyFixedCost: total,
		WorkHoursPerDay:  settings.WorkHoursPerDay,
		WorkDaysPerMonth: settings.WorkDaysPerMonth,
	})
}

type settingsRequest struct {
	WorkHoursPerDay  float64 `json:"workHoursPerDay"`
	WorkDaysPerMonth float64 `json:"workDaysPerMonth"`
}

func (s *server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.WorkHoursPerDay < 0 || req.WorkDaysPerMonth < 0 {
		writeError(w, http.StatusBadRequest, "A jornada de trabalho não pode ser negativa.")
		return
	}

	settings := catalog.Settings{
		WorkHoursPerDay:  req.WorkHoursPerDay,
		WorkDaysPerMonth: req.WorkDaysPerMonth,
	}
	if err := s.store.UpdateSettings(settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao salvar as configurações.")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type pricingRequest struct {
	Name         string                    `json:"name"`
	TimeMinutes  float64                   `json:"timeMinutes"`
	Materials    []catalog.ProductMaterial `json:"materials"`
	ProfitMargin float64                   `json:"profitMargin"`
}

func (req pricingRequest) validate() error {
	if req.TimeMinutes < 0 {
		return errors.New("O tempo de produção não pode ser negativo.")
	}
	for _, use := range req.Materials {
		if use.Quantity < 0 {
			return errors.New("A quantidade de material não pode ser negativa.")
		}
	}
	return nil
}

type pricingPreviewResponse struct {
	HourlyRate     float64 `json:"hourlyRate"`
	TotalCost      float64 `json:"totalCost"`
	SuggestedPrice float64 `json:"suggestedPrice"`
	Profit         float64 `json:"profit"`
}

func (s *server) handlePricingPreview(w http.ResponseWriter, r *http.Request) {
	var req pricingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	totalCost := s.store.ProductCost(req.TimeMinutes, req.Materials)
	price := costing.SuggestedPrice(totalCost, req.ProfitMargin)
	writeJSON(w, http.StatusOK, pricingPreviewResponse{
		HourlyRate:     s.store.HourlyRate(),
		TotalCost:      totalCost,
		SuggestedPrice: price,
		Profit:         costing.Profit(price, totalCost),
	})
}

func (s *server) handlePricingSave(w http.ResponseWriter, r *http.Request) {
	var req pricingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "O nome do produto é obrigatório.")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddProductFromPricing(strings.TrimSpace(req.Name), req.TimeMinutes, req.Materials, req.ProfitMargin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao salvar o produto.")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
