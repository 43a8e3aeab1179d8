package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/greenriver-post/almacen-api/internal/application/auth"
	"github.com/greenriver-post/almacen-api/internal/application/inventory"
	"github.com/greenriver-post/almacen-api/internal/application/manifest"
	"github.com/greenriver-post/almacen-api/internal/application/report"
	"github.com/greenriver-post/almacen-api/internal/application/usecase"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *usecase.ProductUseCase
	ClientUC         *usecase.ClientUseCase
	CategoryUC       *usecase.CategoryUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Transform        *inventory.TransformUseCase
	CreateManifest   *manifest.CreateManifestUseCase
	ConfirmDelivery  *manifest.ConfirmDeliveryUseCase
	UpdateStatus     *manifest.UpdateStatusUseCase
	ManifestQuery    *manifest.QueryUseCase
	ReportUC         *report.ReportUseCase
	MovementRepo     repository.MovementRepository
	JWTSecret        string
	DataDir          string
}

// Router registra las rutas de la API. Los roles por ruta siguen la matriz de
// permisos: 1=Administrador 2=Oficina 3=Operario 4=Delivery.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	admin := entity.RoleAdministrador
	oficina := entity.RoleOficina
	operario := entity.RoleOperario
	delivery := entity.RoleDelivery

	// Auth (login público; registro y usuarios solo Administrador)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", AuthMiddleware(deps.JWTSecret), RequireRole(admin), authHandler.Register)

	usuarios := api.Group("/usuarios", AuthMiddleware(deps.JWTSecret), RequireRole(admin))
	usuarios.Get("/", authHandler.ListUsers)
	usuarios.Put("/:id", authHandler.UpdateUser)

	// Manifiestos con acceso público por código de verificación
	manifestHandler := NewManifestHandler(deps.CreateManifest, deps.ConfirmDelivery, deps.UpdateStatus, deps.ManifestQuery)
	api.Get("/manifiestos/:id", OptionalAuthMiddleware(deps.JWTSecret), manifestHandler.GetByID)
	api.Put("/manifiestos/:id/firma-cliente", manifestHandler.ConfirmDelivery)

	// PDFs de manifiestos: el final es público, el de proceso exige token
	fileHandler := NewFileHandler(deps.DataDir)
	api.Get("/files/manifiestos/:filename", OptionalAuthMiddleware(deps.JWTSecret), fileHandler.ServeManifestPDF)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Productos
	productHandler := NewProductHandler(deps.ProductUC, deps.Transform)
	productos := protected.Group("/productos")
	productos.Get("/", RequireRole(admin, oficina, operario), productHandler.List)
	productos.Post("/", RequireRole(admin, oficina), productHandler.Create)
	productos.Post("/transformar", RequireRole(admin, operario), productHandler.Transform)
	productos.Get("/:id", RequireRole(admin, oficina, operario), productHandler.GetByID)
	productos.Put("/:id", RequireRole(admin, oficina), productHandler.Update)
	productos.Delete("/:id", RequireRole(admin), productHandler.Delete)

	// Movimientos
	movementHandler := NewMovementHandler(deps.RegisterMovement, deps.MovementRepo)
	movimientos := protected.Group("/movimientos", RequireRole(admin, oficina))
	movimientos.Get("/", movementHandler.List)
	movimientos.Post("/", movementHandler.Create)

	// Manifiestos (rutas internas)
	manifiestos := protected.Group("/manifiestos")
	manifiestos.Get("/", RequireRole(admin, oficina, operario, delivery), manifestHandler.List)
	manifiestos.Post("/", RequireRole(admin, oficina), manifestHandler.Create)
	manifiestos.Put("/:id/estado", RequireRole(admin, oficina, delivery), manifestHandler.UpdateStatus)

	// Clientes
	clientHandler := NewClientHandler(deps.ClientUC)
	clientes := protected.Group("/clientes")
	clientes.Get("/", RequireRole(admin, oficina, delivery), clientHandler.List)
	clientes.Post("/", RequireRole(admin, oficina), clientHandler.Create)
	clientes.Get("/:id", RequireRole(admin, oficina, delivery), clientHandler.GetByID)
	clientes.Put("/:id", RequireRole(admin, oficina), clientHandler.Update)
	clientes.Delete("/:id", RequireRole(admin), clientHandler.Delete)

	// Categorías
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categorias := protected.Group("/categorias")
	categorias.Get("/", categoryHandler.List)
	categorias.Post("/", RequireRole(admin, oficina), categoryHandler.Create)
	categorias.Put("/:id", RequireRole(admin, oficina), categoryHandler.Update)
	categorias.Delete("/:id", RequireRole(admin), categoryHandler.Delete)

	// Reportes Excel
	reportHandler := NewReportHandler(deps.ReportUC)
	reportes := protected.Group("/reportes", RequireRole(admin, oficina))
	reportes.Get("/movimientos", reportHandler.Movements)
	reportes.Get("/entregas", reportHandler.Deliveries)

	// Etiquetas QR de productos (cualquier usuario autenticado)
	protected.Get("/files/qr/:filename", fileHandler.ServeQR)
}
