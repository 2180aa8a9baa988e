package sri

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/facturacion-sri/internal/infrastructure/metrics"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/storage"
	"github.com/jhoicas/facturacion-sri/pkg/logger"
)

// ── Configuración ────────────────────────────────────────────────────────────

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 3 * time.Second
	DefaultConcurrency = 4
	MaxBatchSize       = 50
)

// Emisor datos del contribuyente que firma las claves de lote.
type Emisor struct {
	RUC      string
	Ambiente string
	Serie    string // establecimiento + punto de emisión
}

// ClientConfig política de reintentos y datos de lote.
type ClientConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
	Concurrency int // reintentos de contingencia en paralelo
	Emisor      Emisor
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	return c
}

// ── Cliente ──────────────────────────────────────────────────────────────────

// Client agrega reintentos, lotes y contingencia sobre un Gateway.
type Client struct {
	gateway Gateway
	store   storage.Store
	locks   *KeyLocker
	log     *logger.Logger
	metrics *metrics.Metrics
	cfg     ClientConfig
	now     func() time.Time
}

// NewClient construye el cliente. locks puede compartirse con el orquestador para que
// submit y RetryPending no compitan por la misma clave; nil crea uno propio.
func NewClient(gateway Gateway, store storage.Store, locks *KeyLocker, log *logger.Logger, m *metrics.Metrics, cfg ClientConfig) *Client {
	if locks == nil {
		locks = NewKeyLocker()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		gateway: gateway,
		store:   store,
		locks:   locks,
		log:     log,
		metrics: m,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
	}
}

// Locks candados por clave de acceso.
func (c *Client) Locks() *KeyLocker { return c.locks }

// Send transmite el comprobante firmado. Solo las fallas de transporte se reintentan;
// DEVUELTA es una respuesta válida y terminal. Si el envío llega al SRI, el payload
// queda copiado en enviados.
func (c *Client) Send(ctx context.Context, signed []byte) (ReceptionResult, error) {
	clave, _ := ClaveAccesoOf(signed)
	res, err := withRetry(ctx, c, "validarComprobante", clave, func(ctx context.Context) (ReceptionResult, error) {
		return c.gateway.Validar(ctx, signed)
	})
	if err != nil {
		return res, err
	}
	if clave != "" {
		if _, werr := c.store.Write(storage.StageEnviados, clave, signed); werr != nil {
			c.log.Warn().Err(werr).Str("clave_acceso", clave).Msg("sri: no se pudo copiar a enviados")
		}
	}
	c.log.Info().Str("clave_acceso", clave).Str("estado", res.Estado).Msg("sri: recepción")
	return res, nil
}

// PollAuthorization consulta la autorización con la misma política de reintentos.
func (c *Client) PollAuthorization(ctx context.Context, clave string) (AuthorizationResult, error) {
	res, err := withRetry(ctx, c, "autorizacionComprobante", clave, func(ctx context.Context) (AuthorizationResult, error) {
		return c.gateway.Autorizacion(ctx, clave)
	})
	if err != nil {
		return res, err
	}
	c.log.Info().Str("clave_acceso", clave).Str("estado", string(res.Status)).
		Int("autorizaciones", len(res.Autorizaciones)).Msg("sri: autorización")
	return res, nil
}

// withRetry ejecuta fn hasta MaxAttempts veces con RetryDelay fijo entre intentos.
// La espera respeta ctx; una cancelación corta la secuencia sin agotar intentos.
func withRetry[T any](ctx context.Context, c *Client, op, clave string, fn func(context.Context) (T, error)) (T, error) {
	var (
		res  T
		last error
	)
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		var err error
		res, err = fn(ctx)
		if err == nil {
			c.metrics.ObserveAttempt(op, "ok")
			return res, nil
		}
		if !IsRetryable(err) {
			c.metrics.ObserveAttempt(op, "error")
			return res, err
		}
		c.metrics.ObserveAttempt(op, "fault")
		last = err
		c.log.Warn().Err(err).Str("op", op).Str("clave_acceso", clave).
			Int("attempt", attempt).Int("max_attempts", c.cfg.MaxAttempts).Msg("sri: falla de transporte")

		if attempt < c.cfg.MaxAttempts {
			if err := WaitContext(ctx, c.cfg.RetryDelay); err != nil {
				return res, fmt.Errorf("sri: %s cancelado tras %d intentos: %w", op, attempt, err)
			}
		}
	}
	return res, &TransportExhaustedError{Op: op, ClaveAcceso: clave, Attempts: c.cfg.MaxAttempts, Err: last}
}

// WaitContext espera d o hasta que ctx termine.
func WaitContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ClaveAccesoOf extrae la primera claveAcceso del XML (comprobante o lote).
func ClaveAccesoOf(data []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("sri: leer clave de acceso: %w", err)
	}
	el := doc.FindElement("//claveAcceso")
	if el == nil {
		return "", fmt.Errorf("sri: XML sin claveAcceso")
	}
	return strings.TrimSpace(el.Text()), nil
}
