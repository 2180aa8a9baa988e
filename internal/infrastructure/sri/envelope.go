package sri

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// AuthorizedEnvelope contenido del archivo autorizado que consume el RIDE.
type AuthorizedEnvelope struct {
	Estado             string
	NumeroAutorizacion string
	FechaAutorizacion  string
	Ambiente           string
	Comprobante        string // XML firmado
}

// NewAuthorizedEnvelope toma el comprobante devuelto por el SRI; si la respuesta no lo
// trae, usa la copia firmada local. El archivo autorizado siempre tiene esta forma.
func NewAuthorizedEnvelope(a Autorizacion, localSigned []byte) (AuthorizedEnvelope, error) {
	comp := strings.TrimSpace(a.Comprobante)
	if comp == "" {
		comp = strings.TrimSpace(string(localSigned))
	}
	if comp == "" {
		return AuthorizedEnvelope{}, fmt.Errorf("%w: autorización sin comprobante y sin copia firmada", ErrUnexpectedResponse)
	}
	return AuthorizedEnvelope{
		Estado:             a.Estado,
		NumeroAutorizacion: a.NumeroAutorizacion,
		FechaAutorizacion:  a.FechaAutorizacion,
		Ambiente:           a.Ambiente,
		Comprobante:        comp,
	}, nil
}

// Marshal serializa <autorizacion> con el comprobante en CDATA.
func (e AuthorizedEnvelope) Marshal() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("autorizacion")
	root.CreateElement("estado").SetText(e.Estado)
	root.CreateElement("numeroAutorizacion").SetText(e.NumeroAutorizacion)
	root.CreateElement("fechaAutorizacion").SetText(e.FechaAutorizacion)
	root.CreateElement("ambiente").SetText(e.Ambiente)
	root.CreateElement("comprobante").CreateCData(e.Comprobante)
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("sri: serializar autorización: %w", err)
	}
	return out, nil
}

// ParseAuthorizedEnvelope lee un archivo autorizado.
func ParseAuthorizedEnvelope(data []byte) (AuthorizedEnvelope, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return AuthorizedEnvelope{}, fmt.Errorf("%w: archivo autorizado: %v", ErrUnexpectedResponse, err)
	}
	root := doc.SelectElement("autorizacion")
	if root == nil {
		return AuthorizedEnvelope{}, fmt.Errorf("%w: archivo autorizado sin <autorizacion>", ErrUnexpectedResponse)
	}
	text := func(tag string) string {
		if el := root.SelectElement(tag); el != nil {
			return strings.TrimSpace(el.Text())
		}
		return ""
	}
	env := AuthorizedEnvelope{
		Estado:             text("estado"),
		NumeroAutorizacion: text("numeroAutorizacion"),
		FechaAutorizacion:  text("fechaAutorizacion"),
		Ambiente:           text("ambiente"),
		Comprobante:        text("comprobante"),
	}
	if env.Comprobante == "" {
		return AuthorizedEnvelope{}, fmt.Errorf("%w: archivo autorizado sin comprobante", ErrUnexpectedResponse)
	}
	return env, nil
}
