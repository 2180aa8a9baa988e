package sri

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
)

// ── Endpoints ────────────────────────────────────────────────────────────────

const (
	recepcionURLPruebas       = "https://celcer.sri.gob.ec/comprobantes-electronicos-ws/RecepcionComprobantesOffline"
	autorizacionURLPruebas    = "https://celcer.sri.gob.ec/comprobantes-electronicos-ws/AutorizacionComprobantesOffline"
	recepcionURLProduccion    = "https://cel.sri.gob.ec/comprobantes-electronicos-ws/RecepcionComprobantesOffline"
	autorizacionURLProduccion = "https://cel.sri.gob.ec/comprobantes-electronicos-ws/AutorizacionComprobantesOffline"

	soapNS         = "http://schemas.xmlsoap.org/soap/envelope/"
	nsRecepcion    = "http://ec.gob.sri.ws.recepcion"
	nsAutorizacion = "http://ec.gob.sri.ws.autorizacion"

	// DefaultTimeout tiempo de conexión del web service.
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 4 << 20 // el comprobante autorizado viaja completo en la respuesta
)

// Endpoints URLs de recepción y autorización.
type Endpoints struct {
	Recepcion    string
	Autorizacion string
}

// EndpointsFor URLs oficiales según ambiente (1 pruebas, 2 producción).
func EndpointsFor(ambiente string) Endpoints {
	if ambiente == comprobante.AmbienteProduccion {
		return Endpoints{Recepcion: recepcionURLProduccion, Autorizacion: autorizacionURLProduccion}
	}
	return Endpoints{Recepcion: recepcionURLPruebas, Autorizacion: autorizacionURLPruebas}
}

// ── Implementación SOAP ──────────────────────────────────────────────────────

// SOAPClient implementa Gateway contra los servicios offline del SRI.
type SOAPClient struct {
	httpClient *http.Client
	endpoints  Endpoints
}

// NewSOAPClient construye el cliente. El SRI publica certificados que no validan con
// las CA del sistema, por eso la verificación TLS va deshabilitada.
func NewSOAPClient(endpoints Endpoints, timeout time.Duration) *SOAPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
		TLSHandshakeTimeout: timeout,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
	}
	return &SOAPClient{
		httpClient: &http.Client{Timeout: 2 * timeout, Transport: transport},
		endpoints:  endpoints,
	}
}

// NewSOAPClientWithHTTP permite inyectar el http.Client (tests con httptest).
func NewSOAPClientWithHTTP(endpoints Endpoints, httpClient *http.Client) *SOAPClient {
	return &SOAPClient{httpClient: httpClient, endpoints: endpoints}
}

// ── Estructuras SOAP ─────────────────────────────────────────────────────────

type soapEnvelope struct {
	XMLName  xml.Name   `xml:"soapenv:Envelope"`
	XmlnsEnv string     `xml:"xmlns:soapenv,attr"`
	Header   soapHeader `xml:"soapenv:Header"`
	Body     soapBody   `xml:"soapenv:Body"`
}

type soapHeader struct{}

type soapBody struct {
	Content interface{}
}

func (b soapBody) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = "soapenv:Body"
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Encode(b.Content); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

type validarComprobanteBody struct {
	XMLName xml.Name `xml:"ec:validarComprobante"`
	XmlnsEc string   `xml:"xmlns:ec,attr"`
	XML     string   `xml:"xml"` // comprobante firmado en Base64
}

type autorizacionComprobanteBody struct {
	XMLName     xml.Name `xml:"ec:autorizacionComprobante"`
	XmlnsEc     string   `xml:"xmlns:ec,attr"`
	ClaveAcceso string   `xml:"claveAccesoComprobante"`
}

// ── Estructuras de respuesta SOAP ────────────────────────────────────────────
// Los grupos repetibles se decodifican como slices: cero, uno o varios nodos
// quedan siempre como una secuencia ordenada.

type soapResponseEnvelope struct {
	Body soapResponseBody `xml:"Body"`
}

type soapResponseBody struct {
	Recepcion    *respuestaRecepcion    `xml:"validarComprobanteResponse>RespuestaRecepcionComprobante"`
	Autorizacion *respuestaAutorizacion `xml:"autorizacionComprobanteResponse>RespuestaAutorizacionComprobante"`
	Fault        *soapFault             `xml:"Fault"`
}

type soapFault struct {
	FaultCode   string `xml:"faultcode"`
	FaultString string `xml:"faultstring"`
}

type respuestaRecepcion struct {
	Estado       string              `xml:"estado"`
	Comprobantes []comprobanteWSNode `xml:"comprobantes>comprobante"`
}

type comprobanteWSNode struct {
	ClaveAcceso string        `xml:"claveAcceso"`
	Mensajes    []mensajeNode `xml:"mensajes>mensaje"`
}

type mensajeNode struct {
	Identificador        string `xml:"identificador"`
	Mensaje              string `xml:"mensaje"`
	InformacionAdicional string `xml:"informacionAdicional"`
	Tipo                 string `xml:"tipo"`
}

type respuestaAutorizacion struct {
	ClaveAccesoConsultada string             `xml:"claveAccesoConsultada"`
	NumeroComprobantes    string             `xml:"numeroComprobantes"`
	Autorizaciones        []autorizacionNode `xml:"autorizaciones>autorizacion"`
}

type autorizacionNode struct {
	Estado             string        `xml:"estado"`
	NumeroAutorizacion string        `xml:"numeroAutorizacion"`
	FechaAutorizacion  string        `xml:"fechaAutorizacion"`
	Ambiente           string        `xml:"ambiente"`
	Comprobante        string        `xml:"comprobante"`
	Mensajes           []mensajeNode `xml:"mensajes>mensaje"`
}

// ── Operaciones ──────────────────────────────────────────────────────────────

// Validar envía el comprobante firmado a recepción.
func (c *SOAPClient) Validar(ctx context.Context, signed []byte) (ReceptionResult, error) {
	body := &validarComprobanteBody{
		XmlnsEc: nsRecepcion,
		XML:     base64.StdEncoding.EncodeToString(signed),
	}
	resp, err := c.call(ctx, "validarComprobante", c.endpoints.Recepcion, body)
	if err != nil {
		return ReceptionResult{Status: StatusError}, err
	}
	if resp.Recepcion == nil {
		return ReceptionResult{Status: StatusError}, fmt.Errorf("%w: validarComprobante sin RespuestaRecepcionComprobante", ErrUnexpectedResponse)
	}
	return toReception(resp.Recepcion), nil
}

// Autorizacion consulta el estado de autorización de la clave.
func (c *SOAPClient) Autorizacion(ctx context.Context, clave string) (AuthorizationResult, error) {
	body := &autorizacionComprobanteBody{
		XmlnsEc:     nsAutorizacion,
		ClaveAcceso: clave,
	}
	resp, err := c.call(ctx, "autorizacionComprobante", c.endpoints.Autorizacion, body)
	if err != nil {
		return AuthorizationResult{Status: StatusError}, err
	}
	if resp.Autorizacion == nil {
		return AuthorizationResult{Status: StatusError}, fmt.Errorf("%w: autorizacionComprobante sin RespuestaAutorizacionComprobante", ErrUnexpectedResponse)
	}
	return toAuthorization(resp.Autorizacion), nil
}

// call serializa el envelope, hace el POST y clasifica el resultado. Red, HTTP 5xx y
// SOAP Fault son TransportFault; lo que no se puede interpretar es ErrUnexpectedResponse.
func (c *SOAPClient) call(ctx context.Context, op, url string, body interface{}) (*soapResponseBody, error) {
	envelope := soapEnvelope{
		XmlnsEnv: soapNS,
		Body:     soapBody{Content: body},
	}
	payload, err := xml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("soap: serializar envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("soap: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("soap: %s cancelado: %w", op, ctx.Err())
		}
		return nil, &TransportFault{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportFault{Op: op, Err: fmt.Errorf("leer respuesta: %w", err)}
	}

	var envResp soapResponseEnvelope
	parseErr := xml.Unmarshal(raw, &envResp)
	if parseErr == nil && envResp.Body.Fault != nil {
		f := envResp.Body.Fault
		return nil, &TransportFault{Op: op, Err: fmt.Errorf("SOAP Fault [%s]: %s", strings.TrimSpace(f.FaultCode), strings.TrimSpace(f.FaultString))}
	}
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &TransportFault{Op: op, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s HTTP %d", ErrUnexpectedResponse, op, resp.StatusCode)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnexpectedResponse, op, parseErr)
	}
	return &envResp.Body, nil
}

// ── Normalización ────────────────────────────────────────────────────────────

func toReception(r *respuestaRecepcion) ReceptionResult {
	estado := strings.TrimSpace(r.Estado)
	out := ReceptionResult{
		Estado:       estado,
		Status:       StatusFromEstado(estado),
		Comprobantes: make([]ComprobanteRecibido, 0, len(r.Comprobantes)),
	}
	for _, c := range r.Comprobantes {
		out.Comprobantes = append(out.Comprobantes, ComprobanteRecibido{
			ClaveAcceso: strings.TrimSpace(c.ClaveAcceso),
			Mensajes:    toMensajes(c.Mensajes),
		})
	}
	return out
}

func toAuthorization(r *respuestaAutorizacion) AuthorizationResult {
	out := AuthorizationResult{
		ClaveAccesoConsultada: strings.TrimSpace(r.ClaveAccesoConsultada),
		NumeroComprobantes:    strings.TrimSpace(r.NumeroComprobantes),
		Autorizaciones:        make([]Autorizacion, 0, len(r.Autorizaciones)),
	}
	for _, a := range r.Autorizaciones {
		out.Autorizaciones = append(out.Autorizaciones, Autorizacion{
			Estado:             strings.TrimSpace(a.Estado),
			NumeroAutorizacion: strings.TrimSpace(a.NumeroAutorizacion),
			FechaAutorizacion:  strings.TrimSpace(a.FechaAutorizacion),
			Ambiente:           strings.TrimSpace(a.Ambiente),
			Comprobante:        strings.TrimSpace(a.Comprobante),
			Mensajes:           toMensajes(a.Mensajes),
		})
	}
	if first, ok := out.First(); ok {
		out.Status = first.Status()
	} else {
		out.Status = StatusPending
	}
	return out
}

func toMensajes(in []mensajeNode) []Mensaje {
	out := make([]Mensaje, 0, len(in))
	for _, m := range in {
		out = append(out, Mensaje{
			Identificador:        strings.TrimSpace(m.Identificador),
			Mensaje:              strings.TrimSpace(m.Mensaje),
			InformacionAdicional: strings.TrimSpace(m.InformacionAdicional),
			Tipo:                 strings.TrimSpace(m.Tipo),
		})
	}
	return out
}

var _ Gateway = (*SOAPClient)(nil)
