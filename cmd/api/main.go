package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contalibre/conteo-api/internal/application/counting"
	"github.com/contalibre/conteo-api/internal/application/stock"
	"github.com/contalibre/conteo-api/internal/application/usecase"
	"github.com/contalibre/conteo-api/internal/infrastructure/postgres"
	"github.com/contalibre/conteo-api/internal/infrastructure/report"
	httpRouter "github.com/contalibre/conteo-api/internal/interfaces/http"
	"github.com/contalibre/conteo-api/pkg/config"
	"github.com/contalibre/conteo-api/pkg/logger"
)

// runMigrations aplica las migraciones goose pendientes antes de abrir el pool.
func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := runMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	sessionRepo := postgres.NewCountSessionRepository(pool)
	positionRepo := postgres.NewCountPositionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	itemUC := usecase.NewItemUseCase(itemRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	ledgerUC := stock.NewLedgerUseCase(txRunner, movementRepo, itemRepo, locationRepo)
	lowStockUC := stock.NewLowStockUseCase(movementRepo)
	sessionUC := counting.NewSessionUseCase(txRunner, sessionRepo, positionRepo, locationRepo)
	recordCountUC := counting.NewRecordCountUseCase(positionRepo, sessionRepo)
	completeUC := counting.NewCompleteSessionUseCase(txRunner, sessionRepo)
	exportUC := counting.NewExportUseCase(
		sessionRepo, positionRepo,
		report.NewExcelCountSheet(), report.NewMarotoSessionReport(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Conteo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:          itemUC,
		LocationUC:      locationUC,
		Ledger:          ledgerUC,
		LowStock:        lowStockUC,
		Sessions:        sessionUC,
		RecordCount:     recordCountUC,
		CompleteSession: completeUC,
		Export:          exportUC,
		JWTSecret:       cfg.JWT.Secret,
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
