package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
	"github.com/jhoicas/facturacion-sri/internal/domain/entity"
	"github.com/jhoicas/facturacion-sri/internal/domain/repository"
	domsri "github.com/jhoicas/facturacion-sri/internal/domain/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/metrics"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/storage"
	"github.com/jhoicas/facturacion-sri/pkg/logger"
	sricat "github.com/jhoicas/facturacion-sri/pkg/sri"
)

// DefaultSettleDelay espera entre la recepción y la primera consulta de autorización.
const DefaultSettleDelay = 3 * time.Second

// Mensajes sintéticos (identificador "0") cuando el SRI no devuelve autorizaciones.
const (
	mensajeSinAutorizacion = "el SRI no devolvió autorizaciones para la clave"
	mensajeNoEncontrado    = "no encontrado"
)

// OrchestratorConfig parámetros del orquestador.
type OrchestratorConfig struct {
	SettleDelay time.Duration
}

// SRIOrchestrator orquesta el ciclo completo de un comprobante electrónico SRI:
//
//	Build → generados → Firma XAdES-BES → firmados → Recepción (con contingencia)
//	→ espera → Autorización → autorizados
//
// Cada clave de acceso se procesa bajo su propio candado, compartido con el reintento
// de contingencia, así que submit, checkStatus y retryPending nunca se cruzan.
type SRIOrchestrator struct {
	transport Transport
	signer    sricat.Signer
	identity  IdentityLoader
	store     storage.Store
	repo      repository.ComprobanteRepository // opcional
	locks     *sri.KeyLocker
	log       *logger.Logger
	metrics   *metrics.Metrics
	cfg       OrchestratorConfig
}

// NewSRIOrchestrator construye el orquestador. repo, m y log pueden ser nil.
func NewSRIOrchestrator(
	transport Transport,
	signer sricat.Signer,
	identity IdentityLoader,
	store storage.Store,
	repo repository.ComprobanteRepository,
	locks *sri.KeyLocker,
	log *logger.Logger,
	m *metrics.Metrics,
	cfg OrchestratorConfig,
) *SRIOrchestrator {
	if locks == nil {
		locks = sri.NewKeyLocker()
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	return &SRIOrchestrator{
		transport: transport,
		signer:    signer,
		identity:  identity,
		store:     store,
		repo:      repo,
		locks:     locks,
		log:       log,
		metrics:   m,
		cfg:       cfg,
	}
}

// Submit construye, firma, envía y consulta la autorización del comprobante.
// El error solo se usa para precondiciones (datos, certificado, firma, disco); todo lo
// que responde o deja de responder el SRI viaja en el Outcome.
func (o *SRIOrchestrator) Submit(ctx context.Context, doc comprobante.Documento) (Outcome, error) {
	start := time.Now()
	defer o.metrics.ObserveSubmit(start)

	// ═══════════════════════════════════════════════════════════════════════════
	// 1. Construir el XML en orden XSD (calcula la clave de acceso)
	// ═══════════════════════════════════════════════════════════════════════════
	built, err := sri.BuildDocumento(doc)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	clave := built.ClaveAcceso.String()
	log := o.log.ForClave(clave)

	unlock, err := o.locks.Lock(ctx, clave)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Ya autorizado: no se vuelve a firmar ni a enviar.
	if o.store.Exists(storage.StageAutorizados, clave) {
		log.Info().Msg("[SRI] comprobante ya autorizado, no se reenvía")
		return o.observe(o.authorizedFromStore(clave))
	}

	importe := importeOf(doc)
	if _, err := o.store.Write(storage.StageGenerados, clave, built.XML); err != nil {
		return nil, fmt.Errorf("guardar generado: %w", err)
	}
	o.record(ctx, clave, built.CodDoc, entity.EstadoGenerado, importe, nil, sri.Autorizacion{})

	// ═══════════════════════════════════════════════════════════════════════════
	// 2. Firma XAdES-BES
	// ═══════════════════════════════════════════════════════════════════════════
	cert, err := o.identity()
	if err != nil {
		o.record(ctx, clave, built.CodDoc, entity.EstadoError, importe, nil, sri.Autorizacion{})
		return nil, fmt.Errorf("certificado: %w", err)
	}
	signed, err := o.signer.Sign(built.XML, cert)
	if err != nil {
		o.record(ctx, clave, built.CodDoc, entity.EstadoError, importe, nil, sri.Autorizacion{})
		return nil, fmt.Errorf("firma: %w", err)
	}
	if _, err := o.store.Write(storage.StageFirmados, clave, signed); err != nil {
		return nil, fmt.Errorf("guardar firmado: %w", err)
	}
	o.record(ctx, clave, built.CodDoc, entity.EstadoFirmado, importe, nil, sri.Autorizacion{})

	// ═══════════════════════════════════════════════════════════════════════════
	// 3. Recepción (reintentos y contingencia en el transporte)
	// ═══════════════════════════════════════════════════════════════════════════
	recepcion, err := o.transport.SendWithContingency(ctx, signed)
	if err != nil {
		estado := entity.EstadoError
		if errors.Is(err, sri.ErrQueuedForContingency) {
			estado = entity.EstadoContingencia
		}
		o.record(ctx, clave, built.CodDoc, estado, importe, nil, sri.Autorizacion{})
		log.Warn().Err(err).Str("estado", estado).Msg("[SRI] recepción fallida")
		return o.observe(TransportError{ClaveAcceso: clave, Detail: err.Error(), Err: err}, nil)
	}

	switch recepcion.Status {
	case sri.StatusReceived:
		o.record(ctx, clave, built.CodDoc, entity.EstadoRecibido, importe, nil, sri.Autorizacion{})
	case sri.StatusNotReceived:
		msgs := recepcion.Messages()
		if _, err := o.store.Copy(storage.StageFirmados, storage.StageRechazados, clave); err != nil {
			log.Warn().Err(err).Msg("[SRI] no se pudo copiar a rechazados")
		}
		o.record(ctx, clave, built.CodDoc, entity.EstadoDevuelto, importe, msgs, sri.Autorizacion{})
		log.Info().Int("mensajes", len(msgs)).Msg("[SRI] comprobante DEVUELTO")
		return o.observe(NotReceived{ClaveAcceso: clave, Messages: msgs}, nil)
	default:
		err := fmt.Errorf("%w: estado de recepción %q", sri.ErrUnexpectedResponse, recepcion.Estado)
		o.record(ctx, clave, built.CodDoc, entity.EstadoError, importe, nil, sri.Autorizacion{})
		return o.observe(TransportError{ClaveAcceso: clave, Detail: err.Error(), Err: err}, nil)
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 4. Espera de procesamiento en el SRI
	// ═══════════════════════════════════════════════════════════════════════════
	if err := sri.WaitContext(ctx, o.cfg.SettleDelay); err != nil {
		log.Info().Err(err).Msg("[SRI] espera cancelada, queda pendiente de autorización")
		return o.observe(Pending{ClaveAcceso: clave}, nil)
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 5. Autorización y persistencia
	// ═══════════════════════════════════════════════════════════════════════════
	return o.observe(o.poll(ctx, clave, built.CodDoc, importe, mensajeSinAutorizacion), nil)
}

// CheckStatus vuelve a consultar la autorización. Si ya está en autorizados devuelve
// lo guardado sin consultar ni reescribir el archivo.
func (o *SRIOrchestrator) CheckStatus(ctx context.Context, clave string) (Outcome, error) {
	ca := domsri.ClaveAcceso(clave)
	if !ca.Valid() {
		return nil, fmt.Errorf("%w: clave de acceso %q", domain.ErrInvalidInput, clave)
	}

	unlock, err := o.locks.Lock(ctx, clave)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if o.store.Exists(storage.StageAutorizados, clave) {
		return o.observe(o.authorizedFromStore(clave))
	}
	return o.observe(o.poll(ctx, clave, ca.CodDoc(), decimal.Zero, mensajeNoEncontrado), nil)
}

// SubmitBatch envía en un lote los comprobantes ya firmados de las claves dadas.
func (o *SRIOrchestrator) SubmitBatch(ctx context.Context, claves []string) (sri.LoteResult, error) {
	if len(claves) > sri.MaxBatchSize {
		return sri.LoteResult{}, &sri.BatchSizeError{Size: len(claves), Max: sri.MaxBatchSize}
	}
	docs := make([][]byte, 0, len(claves))
	for _, c := range claves {
		data, err := o.store.Read(storage.StageFirmados, c)
		if err != nil {
			return sri.LoteResult{}, err
		}
		docs = append(docs, data)
	}
	return o.transport.SendBatch(ctx, docs)
}

// RetryContingency reintenta los comprobantes en contingencia.
func (o *SRIOrchestrator) RetryContingency(ctx context.Context) (sri.RetryReport, error) {
	return o.transport.RetryPending(ctx)
}

// poll consulta la autorización y traduce la respuesta. Debe llamarse con el candado tomado.
func (o *SRIOrchestrator) poll(ctx context.Context, clave, codDoc string, importe decimal.Decimal, sinAutorizacion string) Outcome {
	res, err := o.transport.PollAuthorization(ctx, clave)
	if err != nil {
		o.log.ForClave(clave).Warn().Err(err).Msg("[SRI] consulta de autorización fallida")
		return TransportError{ClaveAcceso: clave, Detail: err.Error(), Err: err}
	}

	// Sin autorizaciones el SRI aún no termina de procesar: se puede volver a consultar.
	aut, ok := res.First()
	if !ok {
		msgs := []sri.Mensaje{{Identificador: "0", Mensaje: sinAutorizacion, Tipo: "INFORMATIVO"}}
		o.record(ctx, clave, codDoc, entity.EstadoEnProceso, importe, msgs, sri.Autorizacion{})
		o.log.ForClave(clave).Info().Msg("[SRI] sin autorizaciones, queda pendiente")
		return Pending{ClaveAcceso: clave, Messages: msgs}
	}

	switch aut.Status() {
	case sri.StatusAuthorized:
		path, err := o.persistAuthorized(clave, aut)
		if err != nil {
			o.log.ForClave(clave).Error().Err(err).Msg("[SRI] autorizado pero no se pudo guardar")
			return TransportError{ClaveAcceso: clave, Detail: err.Error(), Err: err}
		}
		o.record(ctx, clave, codDoc, entity.EstadoAutorizado, importe, aut.Mensajes, aut)
		o.log.ForClave(clave).Info().Str("numero_autorizacion", aut.NumeroAutorizacion).
			Str("path", path).Msg("[SRI] comprobante AUTORIZADO")
		return Authorized{
			ClaveAcceso:        clave,
			Path:               path,
			NumeroAutorizacion: aut.NumeroAutorizacion,
			FechaAutorizacion:  aut.FechaAutorizacion,
		}
	case sri.StatusNotAuthorized:
		if o.store.Exists(storage.StageFirmados, clave) {
			if _, err := o.store.Copy(storage.StageFirmados, storage.StageNoAutorizados, clave); err != nil {
				o.log.ForClave(clave).Warn().Err(err).Msg("[SRI] no se pudo copiar a no_autorizados")
			}
		}
		o.record(ctx, clave, codDoc, entity.EstadoNoAutorizado, importe, aut.Mensajes, aut)
		return Denied{ClaveAcceso: clave, Messages: aut.Mensajes}
	case sri.StatusPending:
		o.record(ctx, clave, codDoc, entity.EstadoEnProceso, importe, aut.Mensajes, sri.Autorizacion{})
		return Pending{ClaveAcceso: clave, Messages: aut.Mensajes}
	default:
		err := fmt.Errorf("%w: estado de autorización %q", sri.ErrUnexpectedResponse, aut.Estado)
		return TransportError{ClaveAcceso: clave, Detail: err.Error(), Err: err}
	}
}

// persistAuthorized escribe el sobre <autorizacion> una sola vez por clave. El comprobante
// es el que devuelve el SRI; la copia firmada local solo cubre respuestas sin él.
func (o *SRIOrchestrator) persistAuthorized(clave string, aut sri.Autorizacion) (string, error) {
	if o.store.Exists(storage.StageAutorizados, clave) {
		return o.store.Path(storage.StageAutorizados, clave), nil
	}
	local, err := o.store.Read(storage.StageFirmados, clave)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	env, err := sri.NewAuthorizedEnvelope(aut, local)
	if err != nil {
		return "", err
	}
	data, err := env.Marshal()
	if err != nil {
		return "", err
	}
	return o.store.Write(storage.StageAutorizados, clave, data)
}

func (o *SRIOrchestrator) authorizedFromStore(clave string) (Outcome, error) {
	data, err := o.store.Read(storage.StageAutorizados, clave)
	if err != nil {
		return nil, err
	}
	env, err := sri.ParseAuthorizedEnvelope(data)
	if err != nil {
		return nil, err
	}
	return Authorized{
		ClaveAcceso:        clave,
		Path:               o.store.Path(storage.StageAutorizados, clave),
		NumeroAutorizacion: env.NumeroAutorizacion,
		FechaAutorizacion:  env.FechaAutorizacion,
	}, nil
}

func (o *SRIOrchestrator) observe(out Outcome, err error) (Outcome, error) {
	if out != nil {
		o.metrics.ObserveOutcome(string(out.Kind()))
	}
	return out, err
}

// record refleja la transición en el repositorio. Un fallo de BD no detiene el flujo:
// el estado autoritativo son los archivos por etapa.
func (o *SRIOrchestrator) record(ctx context.Context, clave, codDoc, estado string, importe decimal.Decimal, msgs []sri.Mensaje, aut sri.Autorizacion) {
	if o.repo == nil {
		return
	}
	rec := &entity.Comprobante{
		ClaveAcceso:        clave,
		CodDoc:             codDoc,
		Estado:             estado,
		NumeroAutorizacion: aut.NumeroAutorizacion,
		FechaAutorizacion:  aut.FechaAutorizacion,
		ImporteTotal:       importe,
		Mensajes:           toEntityMensajes(msgs),
	}
	if err := o.repo.Upsert(ctx, rec); err != nil {
		o.log.ForClave(clave).Error().Err(err).Str("estado", estado).Msg("[SRI] no se pudo persistir el estado")
	}
}

func toEntityMensajes(in []sri.Mensaje) []entity.MensajeSRI {
	out := make([]entity.MensajeSRI, 0, len(in))
	for _, m := range in {
		out = append(out, entity.MensajeSRI{
			Identificador:        m.Identificador,
			Mensaje:              m.Mensaje,
			InformacionAdicional: m.InformacionAdicional,
			Tipo:                 m.Tipo,
		})
	}
	return out
}

func importeOf(doc comprobante.Documento) decimal.Decimal {
	switch d := doc.(type) {
	case *comprobante.Factura:
		return d.Totales.ImporteTotal
	case *comprobante.NotaCredito:
		return d.ValorModificacion
	default:
		return decimal.Zero
	}
}
