package manifest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/application/identifier"
	"github.com/greenriver-post/almacen-api/internal/application/inventory"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// CreateManifestUseCase crea un manifiesto de entrega: asigna consecutivo y
// código QR, persiste cabecera y líneas, descuenta stock por línea con su
// movimiento de salida y genera los artefactos QR y PDF, todo en una sola
// transacción. Si cualquier artefacto falla no queda ningún manifiesto.
type CreateManifestUseCase struct {
	txRunner    TxRunner
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	inventoryUC *inventory.RegisterMovementUseCase
	qrGen       QRGenerator
	pdfGen      PDFGenerator
	paths       ArtifactPaths
}

// NewCreateManifestUseCase construye el caso de uso.
func NewCreateManifestUseCase(
	txRunner TxRunner,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	inventoryUC *inventory.RegisterMovementUseCase,
	qrGen QRGenerator,
	pdfGen PDFGenerator,
	paths ArtifactPaths,
) *CreateManifestUseCase {
	return &CreateManifestUseCase{
		txRunner:    txRunner,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		inventoryUC: inventoryUC,
		qrGen:       qrGen,
		pdfGen:      pdfGen,
		paths:       paths,
	}
}

// Create valida y crea el manifiesto completo. Si alguna línea no tiene stock
// suficiente, el error lista todos los productos insuficientes y no se crea
// nada parcial.
func (uc *CreateManifestUseCase) Create(ctx context.Context, userID string, in dto.CreateManifestRequest) (*entity.Manifest, []*entity.ManifestLine, error) {
	if in.ClientID == "" || len(in.Lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, nil, domain.ErrNotFound
	}

	// Pre-lectura de productos: existencia y chequeo preliminar de stock.
	// El chequeo definitivo se repite dentro de la tx sobre filas bloqueadas.
	products := make(map[string]*entity.Product, len(in.Lines))
	for _, line := range in.Lines {
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			return nil, nil, domain.ErrNotFound
		}
		products[line.ProductID] = p
	}

	now := time.Now()
	var m *entity.Manifest
	var lines []*entity.ManifestLine

	err = uc.txRunner.RunManifest(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		manifestRepo repository.ManifestRepository,
	) error {
		// Bloqueo de todas las filas de producto en orden canónico (ID
		// ascendente), misma disciplina que las transformaciones.
		ids := make([]string, 0, len(products))
		for id := range products {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		locked := make(map[string]*entity.Product, len(ids))
		for _, id := range ids {
			p, err := productRepo.GetForUpdate(id)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			locked[id] = p
		}

		// Requerido total por producto (una línea puede repetir producto) y
		// chequeo de suficiencia que acumula TODOS los faltantes.
		required := make(map[string]decimal.Decimal, len(ids))
		for _, line := range in.Lines {
			required[line.ProductID] = required[line.ProductID].Add(line.Quantity)
		}
		var stockErr domain.ManifestStockError
		for _, id := range ids {
			p := locked[id]
			if p.Quantity.LessThan(required[id]) {
				stockErr.Shortages = append(stockErr.Shortages, &domain.InsufficientStockError{
					ProductName: p.Name,
					Available:   p.Quantity,
					Requested:   required[id],
				})
			}
		}
		if len(stockErr.Shortages) > 0 {
			return &stockErr
		}

		// Consecutivo del día + código de correlación. El conteo se hace
		// dentro de la tx; la constraint única sobre numero es el respaldo
		// ante dos creaciones concurrentes el mismo día.
		count, err := manifestRepo.CountByDate(now)
		if err != nil {
			return err
		}
		numero := identifier.ManifestNumber(now, count+1)
		codigo := identifier.CorrelationCode(identifier.PrefixManifest)

		m = &entity.Manifest{
			ID:            uuid.New().String(),
			Numero:        numero,
			ClientID:      in.ClientID,
			State:         entity.ManifestEnProceso,
			CodigoQR:      codigo,
			FirmaOperador: in.FirmaOperador,
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := manifestRepo.Create(m); err != nil {
			return err
		}

		lines = lines[:0]
		for _, lr := range in.Lines {
			line := &entity.ManifestLine{
				ID:         uuid.New().String(),
				ManifestID: m.ID,
				ProductID:  lr.ProductID,
				Quantity:   lr.Quantity,
				UnitPrice:  lr.UnitPrice,
				Subtotal:   lr.Subtotal,
			}
			if err := manifestRepo.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)

			// Descuento de stock + movimiento de salida referenciando el
			// manifiesto, en la misma transacción.
			if err := uc.inventoryUC.RegisterSalidaInTx(
				movRepo, productRepo,
				lr.ProductID, lr.Quantity,
				fmt.Sprintf("Manifiesto %s", numero), userID, now,
			); err != nil {
				return err
			}
		}

		// Artefactos: QR de verificación y PDF en proceso. Cualquier fallo
		// revierte toda la transacción.
		qrPath, err := uc.qrGen.GenerateManifestQR(numero, codigo)
		if err != nil {
			return fmt.Errorf("%w: qr manifiesto: %v", domain.ErrArtifact, err)
		}
		pdfPath := uc.paths.InProcessPDF(numero)
		if err := uc.pdfGen.GenerateManifestPDF(m, client, uc.linesForPDF(in.Lines, products), qrPath, pdfPath, false); err != nil {
			return fmt.Errorf("%w: pdf manifiesto: %v", domain.ErrArtifact, err)
		}

		m.PDFPathProceso = pdfPath
		return manifestRepo.Update(m)
	})
	if err != nil {
		return nil, nil, err
	}
	return m, lines, nil
}

func (uc *CreateManifestUseCase) linesForPDF(lines []dto.ManifestLineRequest, products map[string]*entity.Product) []LineForPDF {
	out := make([]LineForPDF, 0, len(lines))
	for _, lr := range lines {
		p := products[lr.ProductID]
		out = append(out, LineForPDF{
			ProductName: p.Name,
			Unit:        p.Unit,
			Quantity:    lr.Quantity,
			UnitPrice:   lr.UnitPrice,
			Subtotal:    lr.Subtotal,
		})
	}
	return out
}
