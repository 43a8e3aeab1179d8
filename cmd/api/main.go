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

	"github.com/greenriver-post/almacen-api/internal/application/auth"
	"github.com/greenriver-post/almacen-api/internal/application/inventory"
	appmanifest "github.com/greenriver-post/almacen-api/internal/application/manifest"
	"github.com/greenriver-post/almacen-api/internal/application/report"
	"github.com/greenriver-post/almacen-api/internal/application/usecase"
	infraexcel "github.com/greenriver-post/almacen-api/internal/infrastructure/excel"
	infrapdf "github.com/greenriver-post/almacen-api/internal/infrastructure/pdf"
	"github.com/greenriver-post/almacen-api/internal/infrastructure/postgres"
	infraqr "github.com/greenriver-post/almacen-api/internal/infrastructure/qr"
	httpRouter "github.com/greenriver-post/almacen-api/internal/interfaces/http"
	"github.com/greenriver-post/almacen-api/pkg/config"
	"github.com/greenriver-post/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("nivel", cfg.App.LogLevel).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	manifestRepo := postgres.NewManifestRepository(pool)
	labelRepo := postgres.NewLabelRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	qrGen := infraqr.NewGenerator(cfg.Storage.DataDir, cfg.Storage.FrontendURL)
	pdfGen := infrapdf.NewMarotoManifestGenerator()
	excelGen := infraexcel.NewReportGenerator()
	artifactPaths := appmanifest.ArtifactPaths{DataDir: cfg.Storage.DataDir}

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo)
	transformUC := inventory.NewTransformUseCase(txRunner, productRepo)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, categoryRepo, clientRepo, labelRepo, qrGen)
	clientUC := usecase.NewClientUseCase(clientRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)

	createManifestUC := appmanifest.NewCreateManifestUseCase(
		txRunner, clientRepo, productRepo, registerMovementUC, qrGen, pdfGen, artifactPaths,
	)
	confirmDeliveryUC := appmanifest.NewConfirmDeliveryUseCase(txRunner, clientRepo, pdfGen, artifactPaths)
	updateStatusUC := appmanifest.NewUpdateStatusUseCase(manifestRepo)
	manifestQueryUC := appmanifest.NewQueryUseCase(manifestRepo, clientRepo, productRepo)

	reportUC := report.NewReportUseCase(movementRepo, manifestRepo, excelGen, cfg.Storage.DataDir)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ProductUC:        productUC,
		ClientUC:         clientUC,
		CategoryUC:       categoryUC,
		RegisterMovement: registerMovementUC,
		Transform:        transformUC,
		CreateManifest:   createManifestUC,
		ConfirmDelivery:  confirmDeliveryUC,
		UpdateStatus:     updateStatusUC,
		ManifestQuery:    manifestQueryUC,
		ReportUC:         reportUC,
		MovementRepo:     movementRepo,
		JWTSecret:        cfg.JWT.Secret,
		DataDir:          cfg.Storage.DataDir,
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
