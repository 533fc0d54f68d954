package handler

import (
	"net/http"

	"github.com/safar/labecommerce/internal/service"
)

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.svc.Purchases.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePurchaseRequest
	if err := readJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	purchase, err := h.svc.Purchases.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, purchase)
}
