package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/gateway"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/orders"
)

type PaymentHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewPaymentHandler(svc OrderService, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{orders: svc, timeout: timeout}
}

type webhookEventDTO struct {
	GatewayOrderRef string `json:"gateway_order_ref"`
	Outcome         string `json:"outcome"`
	PaymentRef      string `json:"payment_reference"`
}

// Webhook is the HTTP inbound channel for gateway outcomes. It shares
// the reconcile entry point with the kafka consumer, so redeliveries on
// either channel collapse into one effective transition.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var event webhookEventDTO
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var outcome domain.GatewayEventOutcome
	switch event.Outcome {
	case string(domain.GatewayOutcomeSuccess):
		outcome = domain.GatewayOutcomeSuccess
	case string(domain.GatewayOutcomeFailure):
		outcome = domain.GatewayOutcomeFailure
	default:
		respondError(w, http.StatusBadRequest, "invalid_outcome", "outcome must be success or failure")
		return
	}

	err := h.orders.ReconcilePayment(ctx, domain.GatewayEvent{
		GatewayOrderRef: event.GatewayOrderRef,
		Outcome:         outcome,
		PaymentRef:      event.PaymentRef,
	})
	if err != nil {
		// a 2xx stops the gateway from retrying events we cannot use;
		// unknown refs are logged for manual review
		if errors.Is(err, orders.ErrOrderNotFound) {
			log.Printf("webhook for unknown gateway ref %q, dropping", event.GatewayOrderRef)
			respondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
			return
		}
		log.Printf("webhook reconcile failed for %q: %v", event.GatewayOrderRef, err)
		respondError(w, http.StatusInternalServerError, "reconcile_failed", "event could not be applied")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ReturnResponseDTO struct {
	GatewayOrderRef string `json:"gateway_order_ref"`
	// PaymentRefHint echoes the redirect's payment id for display while
	// the authoritative record catches up. It never drives a transition.
	PaymentRefHint string `json:"payment_ref_hint,omitempty"`
	Processing     bool   `json:"processing"`
}

// Return handles the browser coming back from the hosted payment page.
// The query parameters are client-visible and untrusted: the response
// only tells the client what to poll, not whether payment succeeded.
func (h *PaymentHandler) Return(w http.ResponseWriter, r *http.Request) {
	params := gateway.ParseRedirect(r.URL.Query())
	if params.OrderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "order_id query parameter is required")
		return
	}

	respondJSON(w, http.StatusOK, ReturnResponseDTO{
		GatewayOrderRef: params.OrderID,
		PaymentRefHint:  params.PaymentID,
		Processing:      true,
	})
}
