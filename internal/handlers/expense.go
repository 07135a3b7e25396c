package handlers

import (
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"
)

// ExpenseHandler handles shared expense HTTP requests
type ExpenseHandler struct {
	expenses *services.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenses *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// List handles GET /api/v1/expenses
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list expenses")
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

// Summary handles GET /api/v1/expenses/summary
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.expenses.Summary(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err, "Failed to summarize expenses")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Create handles POST /api/v1/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ExpenseInput
	if !decodeJSON(w, r, &in) {
		return
	}
	expense, err := h.expenses.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create expense")
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

// Update handles PUT /api/v1/expenses with the id in the body
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ExpenseInput
	if !decodeJSON(w, r, &in) {
		return
	}
	expense, err := h.expenses.Update(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, in.ID), in)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update expense")
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

// Delete handles DELETE /api/v1/expenses?id=
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.expenses.Delete(r.Context(), middleware.GetUserID(r.Context()), resourceID(r, "")); err != nil {
		respondServiceError(w, r, err, "Failed to delete expense")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
