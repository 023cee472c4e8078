package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/silabala/atelie/internal/catalog"
)

type fixedCostRequest struct {
	Name         string  `json:"name"`
	MonthlyValue float64 `json:"monthlyValue"`
}

func (req fixedCostRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("O nome do custo é obrigatório.")
	}
	if req.MonthlyValue < 0 {
		return errors.New("O valor mensal não pode ser negativo.")
	}
	return nil
}

func (s *server) handleCostsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.FixedCosts())
}

func (s *server) handleCostsCreate(w http.ResponseWriter, r *http.Request) {
	var req fixedCostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddFixedCost(catalog.FixedCost{
		Name:         strings.TrimSpace(req.Name),
		MonthlyValue: req.MonthlyValue,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao salvar o custo fixo.")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleCostsUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req fixedCostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := catalog.FixedCost{ID: id, Name: strings.TrimSpace(req.Name), MonthlyValue: req.MonthlyValue}
	if err := s.store.UpdateFixedCost(c); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Custo fixo não encontrado.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Erro ao salvar o custo fixo.")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleCostsDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteFixedCost(id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Custo fixo não encontrado.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Erro ao excluir o custo fixo.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCostsUndo(w http.ResponseWriter, r *http.Request) {
	restored, ok, err := s.store.UndoDeleteFixedCost()
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
