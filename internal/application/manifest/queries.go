package manifest

import (
	"context"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// QueryUseCase proyecciones de solo lectura sobre manifiestos. El ensamblado
// de la respuesta es explícito: recibe entidades ya cargadas, sin traversal
// perezoso dentro de código transaccional.
type QueryUseCase struct {
	manifestRepo repository.ManifestRepository
	clientRepo   repository.ClientRepository
	productRepo  repository.ProductRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	manifestRepo repository.ManifestRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
) *QueryUseCase {
	return &QueryUseCase{manifestRepo: manifestRepo, clientRepo: clientRepo, productRepo: productRepo}
}

// Get devuelve un manifiesto. Acceso público si codigoQR coincide; si viene
// vacío el caller debe estar autenticado (authenticated).
func (uc *QueryUseCase) Get(ctx context.Context, id, codigoQR string, authenticated bool) (*dto.ManifestResponse, error) {
	m, err := uc.manifestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if codigoQR != "" {
		if m.CodigoQR != codigoQR {
			return nil, domain.ErrInvalidCode
		}
	} else if !authenticated {
		return nil, domain.ErrUnauthorized
	}
	return uc.assemble(m)
}

// List devuelve manifiestos filtrados y paginados, más recientes primero.
func (uc *QueryUseCase) List(ctx context.Context, filter repository.ManifestFilter, page dto.PageRequest) ([]*dto.ManifestResponse, dto.Pagination, error) {
	page.Normalize()
	items, total, err := uc.manifestRepo.List(filter, page.PerPage, page.Offset())
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	out := make([]*dto.ManifestResponse, 0, len(items))
	for _, m := range items {
		resp, err := uc.assemble(m)
		if err != nil {
			return nil, dto.Pagination{}, err
		}
		out = append(out, resp)
	}
	return out, dto.NewPagination(page, total), nil
}

// assemble proyecta manifiesto + cliente + líneas a la respuesta de la API.
func (uc *QueryUseCase) assemble(m *entity.Manifest) (*dto.ManifestResponse, error) {
	resp := &dto.ManifestResponse{
		ID:             m.ID,
		Numero:         m.Numero,
		State:          m.State,
		CodigoQR:       m.CodigoQR,
		FirmaOperador:  m.FirmaOperador,
		FirmaCliente:   m.FirmaCliente,
		PDFPathProceso: m.PDFPathProceso,
		PDFPathFinal:   m.PDFPathFinal,
		CreatedAt:      m.CreatedAt,
		DeliveredAt:    m.DeliveredAt,
	}

	client, err := uc.clientRepo.GetByID(m.ClientID)
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

	lines, err := uc.manifestRepo.GetLines(m.ID)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		lr := dto.ManifestLineResponse{
			ID:        l.ID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
		p, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			lr.Product = &dto.ProductSummary{ID: p.ID, Name: p.Name, Quantity: p.Quantity}
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp, nil
}
