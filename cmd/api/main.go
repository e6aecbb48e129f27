package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-peinture-api/internal/application/analytics"
	"github.com/jhoicas/stock-peinture-api/internal/application/auth"
	"github.com/jhoicas/stock-peinture-api/internal/application/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/application/onboarding"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/cache"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-peinture-api/internal/interfaces/http"
	"github.com/jhoicas/stock-peinture-api/pkg/config"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

type closableCache interface {
	ports.Cache
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.App.Location().String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if applied, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	} else if len(applied) > 0 {
		log.Info().Strs("versions", applied).Msg("migraciones aplicadas")
	}

	// Redis opcional: sin él las estadísticas y los borradores viven en memoria del proceso.
	var appCache closableCache = cache.NewMemoryCache()
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se usa caché en memoria")
		} else {
			appCache = rc
		}
	}
	defer appCache.Close()

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	technicianRepo := postgres.NewTechnicianRepository(pool)
	techInventoryRepo := postgres.NewTechnicianInventoryRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, orgRepo, memberRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	organizationUC := usecase.NewOrganizationUseCase(orgRepo, memberRepo, userRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, appCache, log.Component("categories"))
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, txRunner, appCache, log.Component("products"))
	technicianUC := usecase.NewTechnicianUseCase(technicianRepo, techInventoryRepo, appCache, log.Component("technicians"))
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, movementRepo, technicianRepo, appCache, log.Component("movements"))
	dashboardUC := analytics.NewDashboardUseCase(statsRepo, appCache, cfg.Redis.StatsTTL, cfg.App.Location(), log.Component("dashboard"))
	evolutionUC := analytics.NewEvolutionUseCase(productRepo, categoryRepo, movementRepo, analytics.EvolutionOptions{
		DefaultMonths: cfg.Evolution.DefaultMonths,
		MaxMonths:     cfg.Evolution.MaxMonths,
		Location:      cfg.App.Location(),
	})
	wizardUC := onboarding.NewWizardUseCase(appCache, cfg.Redis.DraftTTL, categoryUC, productUC, technicianUC, log.Component("onboarding"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Peinture API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		OrganizationUC:   organizationUC,
		CategoryUC:       categoryUC,
		ProductUC:        productUC,
		TechnicianUC:     technicianUC,
		RegisterMovement: registerMovementUC,
		Dashboard:        dashboardUC,
		Evolution:        evolutionUC,
		Wizard:           wizardUC,
		Members:          memberRepo,
		JWTSecret:        cfg.JWT.Secret,
		Logger:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
