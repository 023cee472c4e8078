package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/silabala/atelie/internal/catalog"
)

type orderItemView struct {
	catalog.OrderItem
	ProductName string `json:"productName"`
}

type orderResponse struct {
	catalog.Order
	CustomerName string          `json:"customerName"`
	Items        []orderItemView `json:"items"`
}

// toOrderResponse resolves the weak customer and product references for
// display. Deleted records show as N/A; the frozen prices stay untouched.
func (s *server) toOrderResponse(o catalog.Order) orderResponse {
	resp := orderResponse{Order: o, CustomerName: "N/A"}
	if c, ok := s.store.CustomerByID(o.CustomerID); ok {
		resp.CustomerName = c.Name
	}

	resp.Items = make([]orderItemView, len(o.Items))
	for i, item := range o.Items {
		view := orderItemView{OrderItem: item, ProductName: "N/A"}
		if p, ok := s.store.ProductByID(item.ProductID); ok {
			view.ProductName = p.Name
		}
		resp.Items[i] = view
	}
	return resp
}

func (s *server) handleOrdersList(w http.ResponseWriter, r *http.Request) {
	orders := s.store.Orders()
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = s.toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

type orderRequest struct {
	CustomerID    string              `json:"customerId"`
	Items         []catalog.OrderItem `json:"items"`
	OrderStatus   string              `json:"orderStatus"`
	PaymentStatus string              `json:"paymentStatus"`
	PaymentMethod string              `json:"paymentMethod"`
	OrderDate     *time.Time          `json:"orderDate"`
	DeliveryDate  *time.Time          `json:"deliveryDate"`
	Notes         string              `json:"notes"`
}

func (req orderRequest) validate() error {
	if len(req.Items) == 0 {
		return errors.New("O pedido precisa de pelo menos um item.")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return errors.New("A quantidade de cada item deve ser maior que zero.")
		}
	}
	return nil
}

func (s *server) handleOrdersCreate(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o := catalog.Order{
		CustomerID:    req.CustomerID,
		Items:         req.Items,
		OrderStatus:   req.OrderStatus,
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
		DeliveryDate:  req.DeliveryDate,
		Notes:         req.Notes,
	}
	if req.OrderDate != nil {
		o.OrderDate = *req.OrderDate
	}

	created, err := s.store.CreateOrder(o)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao criar o pedido.")
		return
	}
	writeJSON(w, http.StatusCreated, s.toOrderResponse(created))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	switch req.Status {
	case catalog.OrderInProduction, catalog.OrderReady, catalog.OrderDelivered:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Status de pedido inválido: %s.", req.Status))
		return
	}

	if err := s.store.SetOrderStatus(id, req.Status); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pedido não encontrado.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Erro ao atualizar o pedido.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleOrderPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	switch req.Status {
	case catalog.PaymentPending, catalog.PaymentPaid:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Status de pagamento inválido: %s.", req.Status))
		return
	}

	if err := s.store.SetPaymentStatus(id, req.Status); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pedido não encontrado.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Erro ao atualizar o pedido.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
