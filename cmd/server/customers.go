package main

import (
	"net/http"
	"strings"

	"github.com/silabala/atelie/internal/catalog"
)

type customerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Tags  string `json:"tags"`
}

// parseTags splits a comma separated label list, dropping blanks.
func parseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (s *server) handleCustomersList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Customers())
}

func (s *server) handleCustomersCreate(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "O nome do cliente é obrigatório.")
		return
	}

	created, err := s.store.AddCustomer(catalog.Customer{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Tags:  parseTags(req.Tags),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao salvar o cliente.")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
