package sri

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/facturacion-sri/internal/infrastructure/storage"
)

// SendWithContingency intenta Send; ante cualquier falla deja una copia del payload en
// contingencia y devuelve el error original envuelto con ErrQueuedForContingency.
// La copia es para recuperación posterior, no un sustituto del envío.
func (c *Client) SendWithContingency(ctx context.Context, signed []byte) (ReceptionResult, error) {
	res, err := c.Send(ctx, signed)
	if err == nil {
		return res, nil
	}

	name, cerr := ClaveAccesoOf(signed)
	if cerr != nil || name == "" {
		name = "sin_clave_" + uuid.NewString()
	}
	path, werr := c.store.Write(storage.StageContingencia, name, signed)
	if werr != nil {
		c.log.Error().Err(werr).Str("clave_acceso", name).Msg("sri: no se pudo guardar en contingencia")
		return res, errors.Join(err, werr)
	}
	c.log.Warn().Err(err).Str("clave_acceso", name).Str("path", path).Msg("sri: comprobante en contingencia")
	return res, fmt.Errorf("%w: %w", ErrQueuedForContingency, err)
}

// RetryReport resultado de RetryPending (claves ordenadas).
type RetryReport struct {
	Sent   []string
	Failed []string
}

// RetryPending reenvía cada comprobante de contingencia. Una entrada se borra solo si
// el envío llegó al SRI; las fallas quedan para la próxima ejecución. Si el SRI recibió
// un envío previo cuya entrada no llegó a borrarse, habrá un reenvío duplicado.
func (c *Client) RetryPending(ctx context.Context) (RetryReport, error) {
	names, err := c.store.List(storage.StageContingencia)
	if err != nil {
		return RetryReport{}, err
	}

	var (
		mu     sync.Mutex
		report RetryReport
	)
	record := func(name string, ok bool) {
		mu.Lock()
		defer mu.Unlock()
		if ok {
			report.Sent = append(report.Sent, name)
		} else {
			report.Failed = append(report.Failed, name)
		}
	}

	var g errgroup.Group
	g.SetLimit(c.cfg.Concurrency)
	for _, name := range names {
		g.Go(func() error {
			record(name, c.retryOne(ctx, name))
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Sent)
	sort.Strings(report.Failed)
	c.metrics.SetContingencyPending(len(report.Failed))
	c.log.Info().Int("enviados", len(report.Sent)).Int("pendientes", len(report.Failed)).
		Msg("sri: reintento de contingencia")
	return report, ctx.Err()
}

func (c *Client) retryOne(ctx context.Context, name string) bool {
	unlock, err := c.locks.Lock(ctx, name)
	if err != nil {
		return false
	}
	defer unlock()

	// otro proceso pudo haberlo enviado mientras esperábamos el candado
	if !c.store.Exists(storage.StageContingencia, name) {
		return true
	}
	data, err := c.store.Read(storage.StageContingencia, name)
	if err != nil {
		c.log.Warn().Err(err).Str("clave_acceso", name).Msg("sri: contingencia ilegible")
		return false
	}
	if _, err := c.Send(ctx, data); err != nil {
		c.log.ForClave(name).Warn().Err(err).Msg("sri: reintento fallido")
		return false
	}
	if err := c.store.Remove(storage.StageContingencia, name); err != nil {
		c.log.Warn().Err(err).Str("clave_acceso", name).Msg("sri: enviado pero no se pudo borrar de contingencia")
	}
	return true
}
