package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/foodbridge/backend/api/handler"
	"github.com/foodbridge/backend/internal/middleware"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Food   *apiHandler.FoodHandler
	Admin  *apiHandler.AdminHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.GET("/api/v1/auth/profile", authMiddleware(handlers.Auth.GetProfile))
	r.PUT("/api/v1/auth/profile", authMiddleware(handlers.Auth.UpdateProfile))

	// Public feed - available foods only
	r.GET("/api/v1/foods", handlers.Food.Feed)

	// Protected food routes
	r.POST("/api/v1/foods", authMiddleware(handlers.Food.Create))
	r.PUT("/api/v1/foods/claim/{id}", authMiddleware(handlers.Food.Claim))
	r.GET("/api/v1/foods/my-posts", authMiddleware(handlers.Food.MyPosts))
	r.GET("/api/v1/foods/my-claims", authMiddleware(handlers.Food.MyClaims))
	r.GET("/api/v1/foods/all", authMiddleware(handlers.Food.ListAll))
	r.GET("/api/v1/foods/{id}", authMiddleware(handlers.Food.Get))
	r.PUT("/api/v1/foods/{id}", authMiddleware(handlers.Food.Update))
	r.DELETE("/api/v1/foods/{id}", authMiddleware(handlers.Food.Delete))

	// Admin routes
	r.GET("/api/v1/admin/users", authMiddleware(handlers.Admin.ListUsers))
	r.DELETE("/api/v1/admin/users/{id}", authMiddleware(handlers.Admin.DeleteUser))
	r.GET("/api/v1/admin/claims/activity", authMiddleware(handlers.Admin.ClaimActivity))

	return r
}

// Handler wraps the router with the global middleware chain.
func Handler(r *router.Router) fasthttp.RequestHandler {
	return middleware.CORS(r.Handler)
}
