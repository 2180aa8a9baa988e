// Package sri: interfaz para firma digital de comprobantes XML (XAdES-BES, SRI Ecuador).

package sri

import "crypto/tls"

// Signer firma un comprobante y devuelve el XML con ds:Signature como último hijo de la raíz.
type Signer interface {
	// Sign toma el XML del comprobante (sin firma) y el certificado con llave privada.
	Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error)
}
