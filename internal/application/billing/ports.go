package billing

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks Transport,RIDEGenerator

import (
	"context"
	"crypto/tls"

	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri"
)

// Transport puerto de salida hacia el SRI. La implementación es *sri.Client; en tests
// se inyecta un mock.
type Transport interface {
	SendWithContingency(ctx context.Context, signed []byte) (sri.ReceptionResult, error)
	PollAuthorization(ctx context.Context, clave string) (sri.AuthorizationResult, error)
	SendBatch(ctx context.Context, signedDocs [][]byte) (sri.LoteResult, error)
	RetryPending(ctx context.Context) (sri.RetryReport, error)
}

// IdentityLoader entrega el certificado de firma vigente (p. ej. signer.LoadIdentity).
type IdentityLoader func() (tls.Certificate, error)

// RIDEGenerator genera la representación impresa (PDF) de un comprobante autorizado.
type RIDEGenerator interface {
	GenerateRIDE(ctx context.Context, data RIDEData) ([]byte, error)
}

var _ Transport = (*sri.Client)(nil)
