package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CartService is the slice of the cart service the handlers need.
type CartService interface {
	GetCart(ctx context.Context, customerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, customerID, productRef, title string, unitPrice float64, qty int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, customerID, productRef string, qty int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, customerID, productRef string) (*domain.Cart, error)
	ClearCart(ctx context.Context, customerID string) error
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{carts: carts, timeout: timeout}
}

type AddLineRequestDTO struct {
	ProductRef string  `json:"product_ref"`
	Title      string  `json:"title"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Lines []domain.CartLine `json:"lines"`
	Total float64           `json:"total"`
}

func cartResponse(cart *domain.Cart) CartResponseDTO {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponseDTO{Lines: lines, Total: cart.Total()}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(ctx, session.CustomerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req AddLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductRef == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_ref", "product_ref is required")
		return
	}
	if req.UnitPrice < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "unit_price must not be negative")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	cart, err := h.carts.AddLine(ctx, session.CustomerID, req.ProductRef, req.Title, req.UnitPrice, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not update cart")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(cart))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	productRef := chi.URLParam(r, "product_ref")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// zero and below remove the line, mirroring the domain rule
	cart, err := h.carts.SetQuantity(ctx, session.CustomerID, productRef, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not update cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	productRef := chi.URLParam(r, "product_ref")

	cart, err := h.carts.RemoveLine(ctx, session.CustomerID, productRef)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not update cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.carts.ClearCart(ctx, session.CustomerID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not clear cart")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
