package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-sri/internal/application/billing"
	"github.com/jhoicas/facturacion-sri/internal/application/dto"
	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
	"github.com/jhoicas/facturacion-sri/internal/domain/entity"
	"github.com/jhoicas/facturacion-sri/internal/domain/repository"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri/signer"
)

// comprobanteService lo implementa *billing.SRIOrchestrator.
type comprobanteService interface {
	Submit(ctx context.Context, doc comprobante.Documento) (billing.Outcome, error)
	CheckStatus(ctx context.Context, clave string) (billing.Outcome, error)
	SubmitBatch(ctx context.Context, claves []string) (sri.LoteResult, error)
	RetryContingency(ctx context.Context) (sri.RetryReport, error)
}

// rideService lo implementa *billing.RIDEUseCase.
type rideService interface {
	Download(ctx context.Context, clave string) ([]byte, string, error)
}

// ComprobanteHandler maneja emisión, consulta y RIDE de comprobantes (protegido).
type ComprobanteHandler struct {
	svc    comprobanteService
	ride   rideService
	emisor billing.Emisor
	repo   repository.ComprobanteRepository // nil: listado deshabilitado
}

// NewComprobanteHandler construye el handler.
func NewComprobanteHandler(svc comprobanteService, ride rideService, emisor billing.Emisor, repo repository.ComprobanteRepository) *ComprobanteHandler {
	return &ComprobanteHandler{svc: svc, ride: ride, emisor: emisor, repo: repo}
}

// CreateFactura godoc
// @Summary      Emitir factura
// @Description  Construye, firma, envía al SRI y consulta la autorización.
// @Tags         comprobantes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FacturaRequest  true  "Factura sin datos del emisor"
// @Success      201   {object}  dto.OutcomeResponse  "authorized"
// @Success      202   {object}  dto.OutcomeResponse  "pending"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.OutcomeResponse  "denied / not_received"
// @Failure      502   {object}  dto.OutcomeResponse  "transport_error"
// @Router       /api/comprobantes/facturas [post]
func (h *ComprobanteHandler) CreateFactura(c *fiber.Ctx) error {
	var in dto.FacturaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.emisor.Factura(in)
	if err != nil {
		return writeError(c, err)
	}
	return h.submit(c, doc)
}

// CreateNotaCredito godoc
// @Summary      Emitir nota de crédito
// @Tags         comprobantes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NotaCreditoRequest  true  "Nota de crédito sin datos del emisor"
// @Success      201   {object}  dto.OutcomeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.OutcomeResponse
// @Router       /api/comprobantes/notas-credito [post]
func (h *ComprobanteHandler) CreateNotaCredito(c *fiber.Ctx) error {
	var in dto.NotaCreditoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.emisor.NotaCredito(in)
	if err != nil {
		return writeError(c, err)
	}
	return h.submit(c, doc)
}

func (h *ComprobanteHandler) submit(c *fiber.Ctx, doc comprobante.Documento) error {
	out, err := h.svc.Submit(c.Context(), doc)
	if err != nil {
		return writeError(c, err)
	}
	return writeOutcome(c, out)
}

// GetEstado godoc
// @Summary      Consultar autorización
// @Description  Vuelve a consultar el SRI; si ya está autorizado responde lo guardado.
// @Tags         comprobantes
// @Security     Bearer
// @Produce      json
// @Param        clave  path  string  true  "Clave de acceso (49 dígitos)"
// @Success      200  {object}  dto.OutcomeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/comprobantes/{clave}/estado [get]
func (h *ComprobanteHandler) GetEstado(c *fiber.Ctx) error {
	out, err := h.svc.CheckStatus(c.Context(), c.Params("clave"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toOutcomeResponse(out))
}

// GetRIDE godoc
// @Summary      Descargar RIDE (PDF)
// @Tags         comprobantes
// @Security     Bearer
// @Produce      application/pdf
// @Param        clave  path  string  true  "Clave de acceso"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/comprobantes/{clave}/ride [get]
func (h *ComprobanteHandler) GetRIDE(c *fiber.Ctx) error {
	pdf, filename, err := h.ride.Download(c.Context(), c.Params("clave"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(pdf)
}

// List godoc
// @Summary      Listar comprobantes por estado
// @Tags         comprobantes
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  true   "GENERADO, FIRMADO, RECIBIDO, DEVUELTO, AUTORIZADO, NO_AUTORIZADO, EN_PROCESO, CONTINGENCIA, ERROR"
// @Param        limit   query  int     false  "máximo 100"
// @Success      200  {array}   dto.ComprobanteResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/comprobantes [get]
func (h *ComprobanteHandler) List(c *fiber.Ctx) error {
	if h.repo == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: "repositorio de estados no configurado"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil || page.Estado == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado requerido"})
	}
	page.DefaultPage()
	rows, err := h.repo.ListByEstado(c.Context(), page.Estado, page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ComprobanteResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toComprobanteResponse(r))
	}
	return c.JSON(out)
}

// SubmitBatch godoc
// @Summary      Enviar lote
// @Description  Envía en un solo lote (máximo 50) comprobantes ya firmados.
// @Tags         lotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoteRequest  true  "Claves de acceso"
// @Success      200   {object}  dto.LoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lotes [post]
func (h *ComprobanteHandler) SubmitBatch(c *fiber.Ctx) error {
	var in dto.LoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.svc.SubmitBatch(c.Context(), in.Claves)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LoteResponse{
		ClaveAcceso: res.ClaveAcceso,
		Estado:      res.Recepcion.Estado,
		Mensajes:    toMensajes(res.Recepcion.Messages()),
	})
}

// RetryContingency godoc
// @Summary      Reintentar contingencia
// @Tags         contingencia
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RetryResponse
// @Router       /api/contingencia/reintentar [post]
func (h *ComprobanteHandler) RetryContingency(c *fiber.Ctx) error {
	rep, err := h.svc.RetryContingency(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.RetryResponse{Sent: nonNil(rep.Sent), Failed: nonNil(rep.Failed)})
}

// ── mapeo de resultados ──────────────────────────────────────────────────────

func writeOutcome(c *fiber.Ctx, out billing.Outcome) error {
	status := fiber.StatusOK
	switch out.(type) {
	case billing.Authorized:
		status = fiber.StatusCreated
	case billing.Pending:
		status = fiber.StatusAccepted
	case billing.Denied, billing.NotReceived:
		status = fiber.StatusUnprocessableEntity
	case billing.TransportError:
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(toOutcomeResponse(out))
}

func toOutcomeResponse(out billing.Outcome) dto.OutcomeResponse {
	resp := dto.OutcomeResponse{
		Kind:        string(out.Kind()),
		ClaveAcceso: out.Clave(),
		Mensajes:    toMensajes(billing.MessagesOf(out)),
	}
	switch v := out.(type) {
	case billing.Authorized:
		resp.NumeroAutorizacion = v.NumeroAutorizacion
		resp.FechaAutorizacion = v.FechaAutorizacion
	case billing.TransportError:
		resp.Detail = v.Detail
	}
	return resp
}

func toMensajes(in []sri.Mensaje) []dto.MensajeResponse {
	if len(in) == 0 {
		return nil
	}
	out := make([]dto.MensajeResponse, 0, len(in))
	for _, m := range in {
		out = append(out, dto.MensajeResponse{
			Identificador:        m.Identificador,
			Mensaje:              m.Mensaje,
			InformacionAdicional: m.InformacionAdicional,
			Tipo:                 m.Tipo,
		})
	}
	return out
}

func toComprobanteResponse(r *entity.Comprobante) dto.ComprobanteResponse {
	resp := dto.ComprobanteResponse{
		ClaveAcceso:        r.ClaveAcceso,
		CodDoc:             r.CodDoc,
		Estado:             r.Estado,
		NumeroAutorizacion: r.NumeroAutorizacion,
		FechaAutorizacion:  r.FechaAutorizacion,
		ImporteTotal:       r.ImporteTotal,
		UpdatedAt:          r.UpdatedAt.Format(time.RFC3339),
	}
	for _, m := range r.Mensajes {
		resp.Mensajes = append(resp.Mensajes, dto.MensajeResponse{
			Identificador:        m.Identificador,
			Mensaje:              m.Mensaje,
			InformacionAdicional: m.InformacionAdicional,
			Tipo:                 m.Tipo,
		})
	}
	return resp
}

// writeError traduce errores de precondición, certificado y lote a HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidFieldWidth),
		errors.Is(err, domain.ErrMissingRequiredField),
		errors.Is(err, domain.ErrInvalidIdentification),
		errors.Is(err, domain.ErrUnsupportedDocument):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: details(err)})
	case errors.Is(err, sri.ErrBatchEmpty), errors.Is(err, sri.ErrBatchSizeExceeded):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrAuthorizedNotAvailable), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, signer.ErrCertificateNotFound),
		errors.Is(err, signer.ErrInvalidPassphrase),
		errors.Is(err, signer.ErrCertificateExpired),
		errors.Is(err, signer.ErrCertificateNotYetValid),
		errors.Is(err, signer.ErrUnsupportedKey):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CERTIFICATE", Message: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CANCELED", Message: "operación cancelada"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// details separa los errores agregados con errors.Join.
func details(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
