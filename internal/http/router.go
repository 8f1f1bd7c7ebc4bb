package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
)

type RouterDeps struct {
	Sessions SessionResolver
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Payment  *PaymentHandler
	Auth     *AuthHandler

	RequestTimeout time.Duration
}

// NewRouter wires every handler behind the shared middleware stack.
// Anything under /api/v1 that touches a cart or an order requires a
// signed-in customer; staff transitions additionally require a staff role.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(deps.Sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Gateway-facing endpoints: the webhook authenticates by payload,
	// the return URL is where the hosted page sends the browser back.
	r.Post("/webhooks/payment", deps.Payment.Webhook)
	r.Get("/payment/return", deps.Payment.Return)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
			r.Post("/logout", deps.Auth.Logout)
			r.Post("/reset/request", deps.Auth.RequestReset)
			r.Post("/reset/complete", deps.Auth.CompleteReset)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(CustomerLoginPath,
				domain.RoleCustomer, domain.RolePartner, domain.RoleAdmin))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.GetCart)
				r.Post("/items", deps.Cart.AddLine)
				r.Put("/items/{product_ref}", deps.Cart.UpdateQuantity)
				r.Delete("/items/{product_ref}", deps.Cart.RemoveLine)
				r.Delete("/", deps.Cart.ClearCart)
			})

			r.Post("/checkout", deps.Checkout.Checkout)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", deps.Orders.ListOrders)
				r.Get("/{order_id}", deps.Orders.GetOrder)
			})
		})

		// Fulfilment transitions are staff-only. Partners prepare kits,
		// so review sits behind the partner login; delivery confirmation
		// is the admin's call.
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(PartnerLoginPath, domain.RolePartner, domain.RoleAdmin))
			r.Post("/orders/{order_id}/review", deps.Orders.AdvanceToReview)
		})
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(AdminLoginPath, domain.RoleAdmin))
			r.Post("/orders/{order_id}/delivered", deps.Orders.AdvanceToDelivered)
		})
	})

	return r
}
