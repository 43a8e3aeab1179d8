package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/application/identifier"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// Intentos máximos de re-tiro del código de correlación antes de rendirse.
// La constraint única al insertar sigue siendo el respaldo final.
const maxCodigoAttempts = 5

// EstadoInicial estado por defecto de un producto recién creado.
const EstadoInicial = "No terminado"

// ProductUseCase casos de uso de productos. La cantidad nunca se edita
// directamente: nace con el movimiento inicial de entrada y después solo
// cambia vía movimientos, transformaciones o despachos de manifiesto.
type ProductUseCase struct {
	txRunner     ProductTxRunner
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	clientRepo   repository.ClientRepository
	labelRepo    repository.LabelRepository
	qrGen        ProductQRGenerator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner ProductTxRunner,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	clientRepo repository.ClientRepository,
	labelRepo repository.LabelRepository,
	qrGen ProductQRGenerator,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		clientRepo:   clientRepo,
		labelRepo:    labelRepo,
		qrGen:        qrGen,
	}
}

// Create crea el producto con su código QR único, la etiqueta PNG y el
// movimiento inicial de entrada ("Stock inicial"), todo en una transacción.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Name) < 3 || len(in.Name) > 200 {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	category, err := uc.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if in.ClientID != "" {
		client, err := uc.clientRepo.GetByID(in.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
	}

	state := in.State
	if state == "" {
		state = EstadoInicial
	}

	// Re-tiro del código mientras exista uno igual. Es un chequeo por sondeo,
	// no una garantía: la constraint única al insertar cubre la carrera entre
	// dos creaciones concurrentes.
	codigo, err := uc.uniqueCodigo()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Unit:       in.Unit,
		State:      state,
		Quantity:   in.Quantity,
		ClientID:   in.ClientID,
		CodigoQR:   codigo,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = uc.txRunner.RunProduct(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		labelRepo repository.LabelRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}

		labelPath, err := uc.qrGen.GenerateProductQR(product.ID, codigo)
		if err != nil {
			return fmt.Errorf("%w: qr producto: %v", domain.ErrArtifact, err)
		}
		if err := labelRepo.Create(&entity.Label{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Type:      "qr_producto",
			FilePath:  labelPath,
			Format:    "png",
			CreatedAt: now,
		}); err != nil {
			return err
		}

		return movRepo.Create(&entity.Movement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Type:      entity.MovementEntrada,
			Quantity:  in.Quantity,
			Notes:     "Stock inicial",
			UserID:    userID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (uc *ProductUseCase) uniqueCodigo() (string, error) {
	for i := 0; i < maxCodigoAttempts; i++ {
		codigo := identifier.CorrelationCode(identifier.PrefixProducto)
		existing, err := uc.productRepo.GetByCodigoQR(codigo)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return codigo, nil
		}
	}
	return "", domain.ErrDuplicate
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter, page dto.PageRequest) ([]*entity.Product, dto.Pagination, error) {
	page.Normalize()
	items, total, err := uc.productRepo.List(filter, page.PerPage, page.Offset())
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	return items, dto.NewPagination(page, total), nil
}

// Update actualiza los campos editables. La cantidad no se toca por aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		if len(*in.Name) < 3 || len(*in.Name) > 200 {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.State != nil {
		product.State = *in.State
	}
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
		product.CategoryID = *in.CategoryID
	}
	if in.ClientID != nil {
		if *in.ClientID != "" {
			client, err := uc.clientRepo.GetByID(*in.ClientID)
			if err != nil {
				return nil, err
			}
			if client == nil {
				return nil, domain.ErrNotFound
			}
		}
		product.ClientID = *in.ClientID
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete elimina un producto (override administrativo, solo Administrador).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}

// Label devuelve la etiqueta QR registrada para un producto, si existe.
func (uc *ProductUseCase) Label(ctx context.Context, productID string) (*entity.Label, error) {
	return uc.labelRepo.GetByProduct(productID)
}

// Response proyecta el producto con categoría, cliente y etiqueta resueltos.
func (uc *ProductUseCase) Response(ctx context.Context, p *entity.Product) (*dto.ProductResponse, error) {
	resp := &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Unit:      p.Unit,
		State:     p.State,
		Quantity:  p.Quantity,
		CodigoQR:  p.CodigoQR,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	category, err := uc.categoryRepo.GetByID(p.CategoryID)
	if err != nil {
		return nil, err
	}
	if category != nil {
		resp.Category = &dto.CategoryResponse{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			CreatedAt:   category.CreatedAt,
		}
	}

	if p.ClientID != "" {
		client, err := uc.clientRepo.GetByID(p.ClientID)
		if err != nil {
			return nil, err
		}
		if client != nil {
			resp.Client = &dto.ClientResponse{
				ID:        client.ID,
				Name:      client.Name,
				Email:     client.Email,
				Phone:     client.Phone,
				Address:   client.Address,
				RucDNI:    client.RucDNI,
				CreatedAt: client.CreatedAt,
			}
		}
	}

	label, err := uc.labelRepo.GetByProduct(p.ID)
	if err != nil {
		return nil, err
	}
	if label != nil {
		resp.LabelPath = label.FilePath
	}
	return resp, nil
}
