package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emekaobi/naijamart-backend/api/controllers"
	"github.com/emekaobi/naijamart-backend/api/middleware"
	"github.com/emekaobi/naijamart-backend/internal/auth"
	"github.com/emekaobi/naijamart-backend/internal/blog"
	cartsvc "github.com/emekaobi/naijamart-backend/internal/cart"
	checkoutsvc "github.com/emekaobi/naijamart-backend/internal/checkout"
	"github.com/emekaobi/naijamart-backend/internal/contact"
	"github.com/emekaobi/naijamart-backend/internal/newsflash"
	ordersvc "github.com/emekaobi/naijamart-backend/internal/orders"
	"github.com/emekaobi/naijamart-backend/internal/products"
	"github.com/emekaobi/naijamart-backend/internal/users"
	"github.com/emekaobi/naijamart-backend/pkg/auth/session"
	"github.com/emekaobi/naijamart-backend/pkg/config"
	"github.com/emekaobi/naijamart-backend/pkg/db"
	"github.com/emekaobi/naijamart-backend/pkg/logger"
	"github.com/emekaobi/naijamart-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       redis.Pinger
	Sessions    session.AccessSessionChecker
	Registry    *prometheus.Registry
	AuthService auth.Service
	UserService users.Service
	Products    products.Service
	Cart        cartsvc.Service
	Checkout    checkoutsvc.Service
	Orders      ordersvc.Service
	Blog        blog.Service
	NewsFlash   newsflash.Service
	Contact     contact.Service
}

// NewRouter assembles the full route tree. Public storefront routes carry a
// cart token; checkout and direct order submission accept but never require
// a signed-in customer; everything under /api/admin requires the admin role.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, p.Sessions, logg)).Get("/me", controllers.AuthMe(p.AuthService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AdminAuthLogin(p.AuthService, logg))
		r.With(
			middleware.Auth(cfg.JWT, p.Sessions, logg),
			middleware.RequireAdmin(logg),
		).Get("/me", controllers.AuthMe(p.AuthService, logg))
	})

	r.Route("/api/v1/profile", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Get("/", controllers.ProfileFetch(p.UserService, logg))
		r.Put("/", controllers.ProfileUpdate(p.UserService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(p.Products, logg))
		r.Get("/{productId}", controllers.ProductDetail(p.Products, logg))
	})

	r.Route("/api/v1/blog", func(r chi.Router) {
		r.Get("/", controllers.BlogList(p.Blog, logg))
		r.Get("/{slug}", controllers.BlogDetail(p.Blog, logg))
	})

	r.Get("/api/v1/news-flashes", controllers.NewsFlashActive(p.NewsFlash, logg))
	r.Post("/api/v1/contact", controllers.ContactSubmit(p.Contact, logg))

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.CartToken(logg))
		r.Get("/", controllers.CartFetch(p.Cart, logg))
		r.Post("/items", controllers.CartAddItem(p.Cart, logg))
		r.Patch("/items/{productId}", controllers.CartUpdateQuantity(p.Cart, logg))
		r.Delete("/items/{productId}", controllers.CartRemoveItem(p.Cart, logg))
		r.Delete("/", controllers.CartClear(p.Cart, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(
			middleware.CartToken(logg),
			middleware.OptionalAuth(cfg.JWT, p.Sessions, logg),
		)
		r.Post("/drawer", controllers.CheckoutOpenDrawer(p.Checkout, logg))
		r.Post("/form", controllers.CheckoutOpenForm(p.Checkout, logg))
		r.Post("/place-order", controllers.CheckoutPlaceOrder(p.Checkout, logg))
		r.Post("/confirm", controllers.CheckoutConfirmDispatch(p.Checkout, logg))
		r.Post("/cancel", controllers.CheckoutCancel(p.Checkout, logg))
		r.Post("/inquiry", controllers.CheckoutCartInquiry(p.Checkout, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.With(middleware.OptionalAuth(cfg.JWT, p.Sessions, logg)).Post("/", controllers.OrderSubmit(p.Orders, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Get("/", controllers.MyOrders(p.Orders, logg))
			r.Get("/{orderId}", controllers.MyOrderDetail(p.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, p.Sessions, logg),
			middleware.RequireAdmin(logg),
		)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(p.Products, logg))
			r.Post("/", controllers.AdminProductCreate(p.Products, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(p.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDeactivate(p.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(p.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(p.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(p.Orders, logg))
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", controllers.AdminBlogList(p.Blog, logg))
			r.Post("/", controllers.AdminBlogCreate(p.Blog, logg))
			r.Put("/{postId}", controllers.AdminBlogUpdate(p.Blog, logg))
			r.Delete("/{postId}", controllers.AdminBlogDelete(p.Blog, logg))
		})

		r.Route("/news-flashes", func(r chi.Router) {
			r.Get("/", controllers.AdminNewsFlashList(p.NewsFlash, logg))
			r.Post("/", controllers.AdminNewsFlashCreate(p.NewsFlash, logg))
			r.Put("/{flashId}", controllers.AdminNewsFlashUpdate(p.NewsFlash, logg))
			r.Delete("/{flashId}", controllers.AdminNewsFlashDelete(p.NewsFlash, logg))
		})

		r.Route("/contact-messages", func(r chi.Router) {
			r.Get("/", controllers.AdminContactList(p.Contact, logg))
			r.Post("/{messageId}/resolve", controllers.AdminContactResolve(p.Contact, logg))
		})
	})

	return r
}
