package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/silabala/atelie/internal/catalog"
	"github.com/silabala/atelie/internal/costing"
)

type materialRequest struct {
	Name     string  `json:"name"`
	UnitCost float64 `json:"unitCost"`
	Unit     string  `json:"unit"`
	Stock    int     `json:"stock"`
	ImageURL string  `json:"imageUrl"`
	WidthCm  float64 `json:"widthCm"`
	HeightCm float64 `json:"heightCm"`

	// Area mode: the material was bought as a whole sheet and its cost is
	// normalized to per cm² before storing.
	PurchaseCost float64 `json:"purchaseCost"`
}

func (req materialRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("O nome do material é obrigatório.")
	}
	if !catalog.IsValidUnit(req.Unit) {
		return fmt.Errorf("Unidade inválida: %s.", req.Unit)
	}
	if req.UnitCost < 0 || req.PurchaseCost < 0 {
		return errors.New("O custo não pode ser negativo.")
	}
	if req.Stock < 0 {
		return errors.New("O estoque não pode ser negativo.")
	}
	return nil
}

// toMaterial converts the request, applying area normalization when the
// material comes in as a whole sheet.
func (req materialRequest) toMaterial() catalog.Material {
	m := catalog.Material{
		Name:     strings.TrimSpace(req.Name),
		UnitCost: req.UnitCost,
		Unit:     req.Unit,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
		WidthCm:  req.WidthCm,
		HeightCm: req.HeightCm,
	}

	if req.Unit == catalog.UnitSquareMeter && req.PurchaseCost > 0 {
		m.UnitCost = costing.NormalizeAreaCost(req.PurchaseCost, req.WidthCm, req.HeightCm)
		m.Unit = catalog.UnitSquareCentimeter
	}

	return m
}

func (s *server) handleMaterialsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Materials())
}

func (s *server) handleMaterialsCreate(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddMaterial(req.toMaterial())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao salvar o material.")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleMaterialsUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req materialRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := req.toMaterial()
	m.ID = id
	if err := s.store.UpdateMaterial(m); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Material não encontrado.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Erro ao salvar o material.")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *server) handleMaterialsDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteMaterial(id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Material não encontrado.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Erro ao excluir o material.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleMaterialsUndo(w http.ResponseWriter, r *http.Request) {
	restored, ok, err := s.store.UndoDeleteMaterial()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao desfazer a exclusão.")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Nada para desfazer.")
		return
	}
	writeJSON(w, http.StatusOK, restored)
}
