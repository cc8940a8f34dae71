package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"learnhub/internal/config"
	"learnhub/internal/handler"
	"learnhub/internal/middleware"
	"learnhub/internal/model"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	courseHandler *handler.CourseHandler,
	orderHandler *handler.OrderHandler,
	notificationHandler *handler.NotificationHandler,
	analyticsHandler *handler.AnalyticsHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)
	admin := authMiddleware.RequireRoles(model.RoleAdmin)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.NotFound(handler.NotFound)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/activate", authHandler.Activate)
			auth.Post("/login", authHandler.Login)
			auth.Post("/social", authHandler.SocialAuth)
			auth.Post("/refresh", authHandler.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.Route("/users", func(users chi.Router) {
			users.With(authMiddleware.RequireAuth).Put("/info", userHandler.UpdateInfo)
			users.With(authMiddleware.RequireAuth).Put("/password", userHandler.UpdatePassword)
			users.With(authMiddleware.RequireAuth).Put("/avatar", userHandler.UpdateAvatar)
			users.With(authMiddleware.RequireAuth, admin).Get("/", userHandler.List)
			users.With(authMiddleware.RequireAuth, admin).Put("/role", userHandler.UpdateRole)
			users.With(authMiddleware.RequireAuth, admin).Delete("/{id}", userHandler.Delete)
		})

		api.Route("/courses", func(courses chi.Router) {
			courses.Get("/", courseHandler.List)
			courses.Get("/{id}", courseHandler.Get)
			courses.With(authMiddleware.RequireAuth).Get("/{id}/content", courseHandler.GetContent)
			courses.With(authMiddleware.RequireAuth).Put("/question", courseHandler.AddQuestion)
			courses.With(authMiddleware.RequireAuth).Put("/answer", courseHandler.AddAnswer)
			courses.With(authMiddleware.RequireAuth).Put("/{id}/review", courseHandler.AddReview)
			courses.With(authMiddleware.RequireAuth, admin).Put("/review-reply", courseHandler.AddReviewReply)
			courses.With(authMiddleware.RequireAuth, admin).Post("/", courseHandler.Create)
			courses.With(authMiddleware.RequireAuth, admin).Put("/{id}", courseHandler.Update)
			courses.With(authMiddleware.RequireAuth, admin).Delete("/{id}", courseHandler.Delete)
		})

		api.Route("/orders", func(orders chi.Router) {
			orders.With(authMiddleware.RequireAuth).Post("/", orderHandler.Create)
			orders.With(authMiddleware.RequireAuth, admin).Get("/", orderHandler.List)
		})

		api.Route("/notifications", func(notifications chi.Router) {
			notifications.With(authMiddleware.RequireAuth, admin).Get("/", notificationHandler.List)
			notifications.With(authMiddleware.RequireAuth, admin).Put("/{id}", notificationHandler.MarkRead)
		})

		api.Route("/analytics", func(analytics chi.Router) {
			analytics.With(authMiddleware.RequireAuth, admin).Get("/users", analyticsHandler.Users)
			analytics.With(authMiddleware.RequireAuth, admin).Get("/courses", analyticsHandler.Courses)
			analytics.With(authMiddleware.RequireAuth, admin).Get("/orders", analyticsHandler.Orders)
		})
	})

	return r
}
