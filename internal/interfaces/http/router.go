package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/analytics"
	"github.com/jhoicas/stock-peinture-api/internal/application/auth"
	"github.com/jhoicas/stock-peinture-api/internal/application/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/application/onboarding"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	OrganizationUC   *usecase.OrganizationUseCase
	CategoryUC       *usecase.CategoryUseCase
	ProductUC        *usecase.ProductUseCase
	TechnicianUC     *usecase.TechnicianUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Dashboard        *analytics.DashboardUseCase
	Evolution        *analytics.EvolutionUseCase
	Wizard           *onboarding.WizardUseCase
	Members          memberChecker
	JWTSecret        string
	Logger           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	orgHandler := NewOrganizationHandler(deps.OrganizationUC)
	protected.Post("/organizations", orgHandler.Create)
	protected.Get("/organizations", orgHandler.ListMine)
	protected.Post("/invitations/accept", orgHandler.AcceptInvitation)

	// Todo lo que cuelga de una organización exige membresía.
	org := protected.Group("/organizations/:orgID", RequireMembership(deps.Members, deps.Logger))
	managers := RequireRole(entity.RoleOwner, entity.RoleAdmin)

	org.Get("/", orgHandler.Get)
	org.Put("/", managers, orgHandler.Update)
	org.Delete("/", RequireRole(entity.RoleOwner), orgHandler.Delete)
	org.Get("/members", orgHandler.ListMembers)
	org.Delete("/members/:userID", managers, orgHandler.RemoveMember)
	org.Post("/invitations", managers, orgHandler.Invite)
	org.Get("/invitations", managers, orgHandler.ListInvitations)

	// Categories
	categories := org.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Evolution)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.Get)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
	categories.Get("/:id/breakdown", categoryHandler.Breakdown)

	// Products (/stats antes de /:id)
	products := org.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Evolution)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/stats", productHandler.Stats)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Archive)
	products.Get("/:id/evolution", productHandler.Evolution)

	// Technicians
	technicians := org.Group("/technicians")
	technicianHandler := NewTechnicianHandler(deps.TechnicianUC, deps.RegisterMovement)
	technicians.Post("/", technicianHandler.Create)
	technicians.Get("/", technicianHandler.List)
	technicians.Get("/:id", technicianHandler.Get)
	technicians.Put("/:id", technicianHandler.Update)
	technicians.Delete("/:id", technicianHandler.Archive)
	technicians.Get("/:id/inventory", technicianHandler.Inventory)
	technicians.Get("/:id/history", technicianHandler.History)
	technicians.Post("/:id/restock", technicianHandler.Restock)

	// Stock movements
	movements := org.Group("/movements")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	movements.Post("/", inventoryHandler.RegisterMovement)
	movements.Get("/", inventoryHandler.List)

	// Dashboard
	dashboard := org.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.Dashboard, deps.Evolution)
	dashboard.Get("/stats", dashboardHandler.Stats)
	dashboard.Get("/evolution", dashboardHandler.Evolution)
	dashboard.Post("/evolution/multi", dashboardHandler.MultiEvolution)
	dashboard.Get("/breakdown", dashboardHandler.Breakdown)

	// Onboarding
	ob := org.Group("/onboarding")
	onboardingHandler := NewOnboardingHandler(deps.Wizard)
	ob.Get("/", onboardingHandler.State)
	ob.Delete("/", onboardingHandler.Reset)
	ob.Post("/categories", onboardingHandler.AddCategory)
	ob.Delete("/categories/:key", onboardingHandler.RemoveCategory)
	ob.Post("/products", onboardingHandler.AddProduct)
	ob.Delete("/products/:key", onboardingHandler.RemoveProduct)
	ob.Post("/technicians", onboardingHandler.AddTechnician)
	ob.Delete("/technicians/:key", onboardingHandler.RemoveTechnician)
	ob.Post("/steps/:step/save", onboardingHandler.SaveStep)
	ob.Post("/steps/:step/skip", onboardingHandler.SkipStep)
}
