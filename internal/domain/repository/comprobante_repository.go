package repository

import (
	"context"

	"github.com/jhoicas/facturacion-sri/internal/domain/entity"
)

// ComprobanteRepository puerto de persistencia del estado de los comprobantes.
type ComprobanteRepository interface {
	// Upsert crea el registro o actualiza estado, autorización y mensajes si ya existe.
	// ImporteTotal y CodDoc solo se fijan en la creación.
	Upsert(ctx context.Context, c *entity.Comprobante) error
	// GetByClave devuelve nil, nil si no existe.
	GetByClave(ctx context.Context, clave string) (*entity.Comprobante, error)
	// ListByEstado para tableros y reprocesos (más recientes primero).
	ListByEstado(ctx context.Context, estado string, limit int) ([]*entity.Comprobante, error)
}
