package manifest

import (
	"context"
	"time"

	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// UpdateStatusUseCase cambia el estado de un manifiesto (personal interno).
// Sin efectos de stock; cancelado es alcanzable solo por esta vía.
type UpdateStatusUseCase struct {
	manifestRepo repository.ManifestRepository
}

// NewUpdateStatusUseCase construye el caso de uso.
func NewUpdateStatusUseCase(manifestRepo repository.ManifestRepository) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{manifestRepo: manifestRepo}
}

// UpdateStatus valida el estado destino antes de buscar el manifiesto: un
// estado no reconocido responde ErrNotFound sin tocar almacenamiento.
// deliveryUID solo se vincula cuando el destino es en_transito.
func (uc *UpdateStatusUseCase) UpdateStatus(ctx context.Context, manifestID, state, deliveryUID string) (*entity.Manifest, error) {
	if !entity.ValidManifestState(state) {
		return nil, domain.ErrNotFound
	}

	m, err := uc.manifestRepo.GetByID(manifestID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}

	m.State = state
	if state == entity.ManifestEnTransito && deliveryUID != "" {
		m.DeliveredBy = deliveryUID
	}
	m.UpdatedAt = time.Now()

	if err := uc.manifestRepo.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}
