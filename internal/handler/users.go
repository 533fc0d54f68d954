package handler

import (
	"net/http"

	"github.com/safar/labecommerce/internal/service"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := readJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.svc.Users.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if err := readPatch(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.svc.Users.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) listUserPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.svc.Users.ListPurchases(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}
