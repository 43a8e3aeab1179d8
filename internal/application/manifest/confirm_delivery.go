package manifest

import (
	"context"
	"fmt"
	"time"

	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// ConfirmDeliveryUseCase confirma la entrega de un manifiesto. Es la única
// operación mutante sin rol: se autoriza por posesión del código QR. Un código
// equivocado responde ErrInvalidCode, no ErrNotFound, para no filtrar la
// existencia del manifiesto.
type ConfirmDeliveryUseCase struct {
	txRunner   TxRunner
	clientRepo repository.ClientRepository
	pdfGen     PDFGenerator
	paths      ArtifactPaths
}

// NewConfirmDeliveryUseCase construye el caso de uso.
func NewConfirmDeliveryUseCase(
	txRunner TxRunner,
	clientRepo repository.ClientRepository,
	pdfGen PDFGenerator,
	paths ArtifactPaths,
) *ConfirmDeliveryUseCase {
	return &ConfirmDeliveryUseCase{txRunner: txRunner, clientRepo: clientRepo, pdfGen: pdfGen, paths: paths}
}

// Confirm fija la firma del cliente, pasa el estado a entregado, sella la
// fecha de entrega y regenera el PDF final con ambas firmas. Si el PDF final
// falla, toda la operación se revierte.
func (uc *ConfirmDeliveryUseCase) Confirm(ctx context.Context, manifestID, codigoQR, firmaCliente string) (*entity.Manifest, error) {
	if codigoQR == "" || firmaCliente == "" {
		return nil, domain.ErrInvalidInput
	}

	var m *entity.Manifest
	err := uc.txRunner.RunManifest(ctx, func(
		_ repository.MovementRepository,
		productRepo repository.ProductRepository,
		manifestRepo repository.ManifestRepository,
	) error {
		var err error
		// FOR UPDATE: dos confirmaciones concurrentes se serializan y la
		// segunda observa el estado entregado.
		m, err = manifestRepo.GetForUpdate(manifestID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.CodigoQR != codigoQR {
			return domain.ErrInvalidCode
		}
		if m.State == entity.ManifestEntregado {
			return domain.ErrAlreadyDelivered
		}
		if m.State != entity.ManifestEnProceso && m.State != entity.ManifestEnTransito {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		m.FirmaCliente = firmaCliente
		m.State = entity.ManifestEntregado
		m.DeliveredAt = &now
		m.UpdatedAt = now

		client, err := uc.clientRepo.GetByID(m.ClientID)
		if err != nil {
			return err
		}
		rawLines, err := manifestRepo.GetLines(m.ID)
		if err != nil {
			return err
		}
		lines := make([]LineForPDF, 0, len(rawLines))
		for _, l := range rawLines {
			p, err := productRepo.GetByID(l.ProductID)
			if err != nil {
				return err
			}
			line := LineForPDF{Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal}
			if p != nil {
				line.ProductName = p.Name
				line.Unit = p.Unit
			}
			lines = append(lines, line)
		}

		finalPath := uc.paths.FinalPDF(m.Numero)
		qrPath := uc.paths.ManifestQR(m.Numero)
		if err := uc.pdfGen.GenerateManifestPDF(m, client, lines, qrPath, finalPath, true); err != nil {
			return fmt.Errorf("%w: pdf final: %v", domain.ErrArtifact, err)
		}

		m.PDFPathFinal = finalPath
		return manifestRepo.Update(m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
