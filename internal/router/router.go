package router

import (
	"net/http"

	"pva-store/internal/handler"
	"pva-store/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	customerHandler *handler.CustomerHandler,
	cartHandler *handler.CartHandler,
	kitHandler *handler.KitHandler,
	orderHandler *handler.OrderHandler,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/sku/{sku}", productHandler.GetBySKU)
			r.Get("/{id}", productHandler.GetByID)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
			r.Put("/{id}/stock", productHandler.SetStock)
			r.Get("/{id}/availability", productHandler.Availability)
		})

		r.Route("/kits", func(r chi.Router) {
			r.Get("/", kitHandler.List)
			r.Post("/", kitHandler.Create)
			r.Get("/{id}", kitHandler.GetByID)
			r.Get("/{id}/availability", kitHandler.Availability)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", customerHandler.GetByEmail)
			r.Post("/", customerHandler.Create)

			r.Route("/{customerId}", func(r chi.Router) {
				r.Get("/", customerHandler.GetByID)
				r.Put("/", customerHandler.Update)
				r.Delete("/", customerHandler.Delete)

				r.Get("/orders", orderHandler.ListByCustomer)

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", cartHandler.Get)
					r.Delete("/", cartHandler.Clear)
					r.Get("/validate", cartHandler.Validate)
					r.Get("/total", orderHandler.CartTotal)
					r.Post("/items", cartHandler.AddItem)
					r.Put("/items/{productId}", cartHandler.UpdateItem)
					r.Delete("/items/{productId}", cartHandler.RemoveItem)
				})
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.ListByStatus)
			r.Post("/", orderHandler.Create)
			r.Get("/number/{number}", orderHandler.GetByNumber)
			r.Get("/{id}", orderHandler.GetByID)
			r.Put("/{id}/status", orderHandler.UpdateStatus)
			r.Put("/{id}/payment", orderHandler.UpdatePaymentStatus)
			r.Post("/{id}/cancel", orderHandler.Cancel)
		})
	})

	return r
}
