package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/silabala/atelie/internal/catalog"
)

type productResponse struct {
	catalog.Product
	MaterialNames []string `json:"materialNames"`
}

// materialNames resolves each material reference to its display name.
// Dangling references render as N/A instead of breaking the listing.
func (s *server) materialNames(p catalog.Product) []string {
	names := make([]string, len(p.Materials))
	for i, use := range p.Materials {
		if m, ok := s.store.MaterialByID(use.MaterialID); ok {
			names[i] = m.Name
		} else {
			names[i] = "N/A"
		}
	}
	return names
}

func (s *server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	products := s.store.Products()
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = productResponse{Product: p, MaterialNames: s.materialNames(p)}
	}
	writeJSON(w, http.StatusOK, out)
}

type productRequest struct {
	Name         string                    `json:"name"`
	Description  string                    `json:"description"`
	ImageURL     string                    `json:"imageUrl"`
	TimeMinutes  float64                   `json:"timeMinutes"`
	Materials    []catalog.ProductMaterial `json:"materials"`
	TotalCost    float64                   `json:"totalCost"`
	Price        float64                   `json:"price"`
	Profit       float64                   `json:"profit"`
	ProfitMargin float64                   `json:"profitMargin"`
	Stock        int                       `json:"stock"`
	Status       string                    `json:"status"`
}

func (req productRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("O nome do produto é obrigatório.")
	}
	if req.Stock < 0 {
		return errors.New("O estoque não pode ser negativo.")
	}
	switch req.Status {
	case "", catalog.StatusAvailable, catalog.StatusSoldOut, catalog.StatusInProduction:
	default:
		return fmt.Errorf("Status inválido: %s.", req.Status)
	}
	return nil
}

func (req productRequest) toProduct() catalog.Product {
	status := req.Status
	if status == "" {
		status = catalog.StatusAvailable
	}
	return catalog.Product{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		TimeMinutes:  req.TimeMinutes,
		Materials:    req.Materials,
		TotalCost:    req.TotalCost,
		Price:        req.Price,
		Profit:       req.Profit,
		ProfitMargin: req.ProfitMargin,
		Stock:        req.Stock,
		Status:       status,
	}
}

func (s *server) handleProductsCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddProduct(req.toProduct())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao salvar o produto.")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleProductsUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, ok := s.store.ProductByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Produto não encontrado.")
		return
	}

	p := req.toProduct()
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateProduct(p); err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao salvar o produto.")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handleProductsDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteProduct(id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Produto não encontrado.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Erro ao excluir o produto.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

