package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/CoachFinance/internal/config"
	"github.com/saeid-a/CoachFinance/internal/handlers"
	"github.com/saeid-a/CoachFinance/internal/middleware"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/internal/repository"
	"github.com/saeid-a/CoachFinance/internal/services"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Finance      *handlers.FinanceHandler
	Plans        *handlers.PlanHandler
	Subscription *handlers.SubscriptionHandler
	Assignments  *handlers.AssignmentHandler
	Users        *handlers.UserHandler
}

type RateLimit struct {
	Store  middleware.LimiterStore
	Limit  int
	Window time.Duration
}

func RegisterRoutes(
	app *fiber.App,
	cfg *config.Config,
	db *pgxpool.Pool,
	limiter middleware.LimiterStore,
	logger *zap.Logger,
) {
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	programRepo := repository.NewProgramRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	financeService := services.NewFinanceService(paymentRepo, assignmentRepo, userRepo, logger)
	planService := services.NewPlanService(planRepo, logger)
	subscriptionService := services.NewSubscriptionService(
		db,
		planRepo,
		subscriptionRepo,
		userRepo,
		cfg.CoachSharePercent,
		logger,
	)
	assignmentService := services.NewAssignmentService(db, programRepo, assignmentRepo, userRepo, logger)
	userService := services.NewUserService(userRepo, logger)

	Mount(app, cfg.JWTSecret, Handlers{
		Auth:         handlers.NewAuthHandler(userRepo, cfg.JWTSecret, logger),
		Finance:      handlers.NewFinanceHandler(financeService, logger),
		Plans:        handlers.NewPlanHandler(planService, logger),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService, logger),
		Assignments:  handlers.NewAssignmentHandler(assignmentService, logger),
		Users:        handlers.NewUserHandler(userService, logger),
	}, RateLimit{
		Store:  limiter,
		Limit:  cfg.AdminRateLimit,
		Window: cfg.AdminRateWindow,
	}, logger)
}

// Mount attaches every route. Admin mutations pass through the rate limiter.
func Mount(app *fiber.App, jwtSecret string, h Handlers, limit RateLimit, logger *zap.Logger) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/me", middleware.AuthRequired(jwtSecret), h.Auth.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(jwtSecret))

	authProtected.Get("/plans", h.Plans.ListActive)

	subscriptions := authProtected.Group("/subscriptions")
	subscriptions.Post("/finalize", h.Subscription.Finalize)
	subscriptions.Get("/me", h.Subscription.Me)

	programs := authProtected.Group("/programs")
	programs.Get("", h.Assignments.ListPrograms)
	programs.Post("", h.Assignments.CreateProgram)

	assignments := authProtected.Group("/assignments")
	assignments.Post("", h.Assignments.Assign)
	assignments.Get("/:userId", h.Assignments.Current)

	authProtected.Get("/coach/finance", middleware.RequireRole(models.RoleCoach), h.Finance.MyFinancials)

	admin := authProtected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	limited := middleware.RateLimit(limit.Store, middleware.UserKey, limit.Limit, limit.Window, logger)

	admin.Get("/finance/overview", h.Finance.Overview)
	admin.Get("/finance/coaches/:id", h.Finance.CoachFinancials)

	admin.Get("/payments", h.Finance.ListPayments)
	admin.Delete("/payments", limited, h.Finance.ClearAllPayments)
	admin.Put("/payments/:id", limited, h.Finance.UpdatePayment)
	admin.Delete("/payments/:id", limited, h.Finance.DeletePayment)
	admin.Post("/payments/:id/payout", limited, h.Finance.MarkPaidOut)
	admin.Post("/coaches/:id/payouts", limited, h.Finance.ReleaseCoachPayouts)

	admin.Get("/plans", h.Plans.ListAll)
	admin.Post("/plans", limited, h.Plans.Create)
	admin.Put("/plans/:id", limited, h.Plans.Update)
	admin.Delete("/plans/:id", limited, h.Plans.Delete)

	admin.Get("/subscriptions", h.Subscription.List)
	admin.Put("/subscriptions/:id/status", limited, h.Subscription.UpdateStatus)

	admin.Put("/users/:id/coach", limited, h.Users.SetCoach)
}
