package handlers

import (
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RegisterRoutes регистрирует маршруты витрины и админки. Мидлвар сессий
// должен стоять выше: обработчикам нужен посетитель в контексте.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.HealthHandler)
	r.Get("/", h.Home)
	r.Get("/portal", h.Portal)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/products/{id}/price", h.ProductPrice)
		r.Get("/gallery", h.ListGallery)
		r.Get("/testimonials", h.ListTestimonials)
		r.Get("/settings", h.GetSettings)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Patch("/items/{id}", h.UpdateCartItem)
			r.Delete("/items/{id}", h.RemoveCartItem)
			r.Post("/open", h.OpenCart)
			r.Post("/close", h.CloseCart)
		})
		r.Post("/checkout", h.Checkout)

		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/me", h.Me)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.sessions.Guard(models.RoleAdmin))

		r.Get("/products", h.AdminListProducts)
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
		r.Patch("/inventory/{id}", h.UpdateInventory)

		r.Get("/orders", h.ListOrders)
		r.Patch("/orders/{id}/status", h.UpdateOrderStatus)

		r.Post("/gallery", h.CreateGalleryItem)
		r.Delete("/gallery/{id}", h.DeleteGalleryItem)

		r.Post("/testimonials", h.CreateTestimonial)
		r.Patch("/testimonials/{id}/approval", h.ApproveTestimonial)
		r.Delete("/testimonials/{id}", h.DeleteTestimonial)

		r.Put("/settings", h.UpdateSettings)
		r.Post("/refresh", h.Refresh)
	})
}
