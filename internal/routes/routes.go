package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups everything the route table dispatches to.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Jobs         *handlers.JobHandler
	Applications *handlers.ApplicationHandler
	Users        *handlers.UserHandler
	Admin        *handlers.AdminHandler
	Health       *handlers.HealthHandler
}

// Setup mounts /metrics and the /api tree. storage backs the rate limiters
// and may be nil for in-process counters.
func Setup(app *fiber.App, cfg *config.Config, tokens *services.TokenService, storage fiber.Storage, h Handlers) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")
	api.Use(rateLimit("api", cfg.RateLimitMax, storage))

	api.Get("/health", h.Health.Check)

	protected := middleware.JWTProtected(tokens)
	employer := middleware.RequireRole(models.RoleEmployer)
	applicant := middleware.RequireRole(models.RoleApplicant)
	recruiter := middleware.RequireRole(models.RoleEmployer, models.RoleAdmin)
	authLimit := rateLimit("auth", cfg.AuthRateLimitMax, storage)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", authLimit, h.Auth.Signup)
	auth.Post("/login", authLimit, h.Auth.Login)
	auth.Post("/logout", h.Auth.Logout)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Get("/me", protected, h.Auth.Me)

	// Jobs; static paths come before /:id
	jobs := api.Group("/jobs")
	jobs.Get("/", h.Jobs.List)
	jobs.Get("/categories", h.Jobs.Categories)
	jobs.Get("/stats", h.Jobs.Stats)
	jobs.Get("/my", protected, employer, h.Jobs.Mine)
	jobs.Post("/", protected, recruiter, h.Jobs.Create)
	jobs.Get("/:id", h.Jobs.Get)
	jobs.Put("/:id", protected, h.Jobs.Update)
	jobs.Delete("/:id", protected, h.Jobs.Delete)

	// Applications
	apps := api.Group("/applications", protected)
	apps.Post("/", applicant, h.Applications.Apply)
	apps.Get("/me", applicant, h.Applications.Mine)
	apps.Get("/stats", h.Applications.Stats)
	apps.Get("/job/:id", recruiter, h.Applications.ForJob)
	apps.Get("/:id", h.Applications.Get)
	apps.Put("/:id", recruiter, h.Applications.SetStatus)
	apps.Delete("/:id", h.Applications.Withdraw)

	// Users
	users := api.Group("/users", protected)
	users.Get("/me", h.Users.Me)
	users.Put("/me", h.Users.UpdateMe)
	users.Put("/me/skills", h.Users.ReplaceSkills)
	users.Post("/me/skills", h.Users.AddSkill)
	users.Delete("/me/skills", h.Users.RemoveSkill)
	users.Put("/me/education", h.Users.ReplaceEducation)
	users.Post("/me/education", h.Users.AddEducation)
	users.Put("/me/experience", h.Users.ReplaceExperience)
	users.Post("/me/experience", h.Users.AddExperience)
	users.Get("/search", recruiter, h.Users.Search)
	users.Get("/:id", h.Users.Get)
	users.Put("/:id", h.Users.Update)

	// Admin
	admin := api.Group("/admin", protected, middleware.RequireRole(models.RoleAdmin))
	admin.Get("/dashboard", h.Admin.Dashboard)
	admin.Get("/reports", h.Admin.Reports)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Get("/users/:id", h.Admin.GetUser)
	admin.Put("/users/:id", h.Admin.UpdateUser)
	admin.Delete("/users/:id", h.Admin.DeactivateUser)
	admin.Get("/jobs", h.Admin.ListJobs)
	admin.Put("/jobs/:id", h.Admin.UpdateJobStatus)
	admin.Delete("/jobs/:id", h.Admin.DeleteJob)
	admin.Get("/applications", h.Admin.ListApplications)
}

// rateLimit allows limit requests per minute per IP. scope keeps limiters
// apart when they share a storage.
func rateLimit(scope string, limit int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return scope + ":" + c.IP() },
		Storage:           storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.Fail("Too many requests, please try again later"))
		},
	})
}
