// Carga de la identidad de firma desde .p12 (PKCS#12).

package signer

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"golang.org/x/crypto/pkcs12"
)

// Errores de certificado: fatales, nunca se reintentan.
var (
	ErrCertificateNotFound    = errors.New("signer: certificado no encontrado")
	ErrInvalidPassphrase      = errors.New("signer: clave del certificado incorrecta")
	ErrCertificateExpired     = errors.New("signer: el certificado ha expirado")
	ErrCertificateNotYetValid = errors.New("signer: el certificado aún no es válido")
	ErrMalformedDocument      = errors.New("signer: XML mal formado")
	ErrUnsupportedKey         = errors.New("signer: el certificado debe incluir llave privada RSA")
)

// LoadIdentity carga certificado y llave privada desde un archivo .p12/.pfx y valida
// su vigencia contra now.
func LoadIdentity(path, password string, now time.Time) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tls.Certificate{}, fmt.Errorf("%w: %s", ErrCertificateNotFound, path)
		}
		return tls.Certificate{}, fmt.Errorf("leer p12: %w", err)
	}
	return ParseIdentity(data, password, now)
}

// ParseIdentity decodifica el contenido PKCS#12. Los .p12 emitidos por entidades
// ecuatorianas suelen traer la cadena completa; pkcs12.Decode solo acepta hoja y
// llave, así que en ese caso se recurre a ToPEM y se elige el certificado de la llave.
func ParseIdentity(data []byte, password string, now time.Time) (tls.Certificate, error) {
	priv, cert, err := pkcs12.Decode(data, password)
	if errors.Is(err, pkcs12.ErrIncorrectPassword) {
		return tls.Certificate{}, ErrInvalidPassphrase
	}
	if err != nil {
		priv, cert, err = decodeChain(data, password)
		if err != nil {
			return tls.Certificate{}, err
		}
	}
	key, ok := priv.(*rsa.PrivateKey)
	if !ok {
		return tls.Certificate{}, ErrUnsupportedKey
	}
	if now.After(cert.NotAfter) {
		return tls.Certificate{}, fmt.Errorf("%w: venció el %s", ErrCertificateExpired, cert.NotAfter.Format(time.RFC3339))
	}
	if now.Before(cert.NotBefore) {
		return tls.Certificate{}, fmt.Errorf("%w: vigente desde %s", ErrCertificateNotYetValid, cert.NotBefore.Format(time.RFC3339))
	}
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
		Leaf:        cert,
	}, nil
}

func decodeChain(data []byte, password string) (crypto.PrivateKey, *x509.Certificate, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if errors.Is(err, pkcs12.ErrIncorrectPassword) {
		return nil, nil, ErrInvalidPassphrase
	}
	if err != nil {
		return nil, nil, fmt.Errorf("decodificar p12: %w", err)
	}
	var key *rsa.PrivateKey
	var certs []*x509.Certificate
	for _, b := range blocks {
		switch b.Type {
		case "PRIVATE KEY":
			if key, err = parseRSAKey(b); err != nil {
				return nil, nil, err
			}
		case "CERTIFICATE":
			c, err := x509.ParseCertificate(b.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("parsear certificado: %w", err)
			}
			certs = append(certs, c)
		}
	}
	if key == nil {
		return nil, nil, ErrUnsupportedKey
	}
	for _, c := range certs {
		if pub, ok := c.PublicKey.(*rsa.PublicKey); ok && pub.Equal(&key.PublicKey) {
			return key, c, nil
		}
	}
	return nil, nil, fmt.Errorf("decodificar p12: ningún certificado corresponde a la llave privada")
}

func parseRSAKey(b *pem.Block) (*rsa.PrivateKey, error) {
	if k, err := x509.ParsePKCS1PrivateKey(b.Bytes); err == nil {
		return k, nil
	}
	k, err := x509.ParsePKCS8PrivateKey(b.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsear llave privada: %w", err)
	}
	rk, ok := k.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrUnsupportedKey
	}
	return rk, nil
}

// CertDigestAndIssuerSerial devuelve el digest SHA-1 del certificado (Base64), el emisor
// y el serial en decimal para XAdES.
func CertDigestAndIssuerSerial(cert *x509.Certificate) (digestB64 string, issuerName string, serial string) {
	h := sha1.Sum(cert.Raw)
	digestB64 = base64.StdEncoding.EncodeToString(h[:])
	issuerName = cert.Issuer.String()
	serial = cert.SerialNumber.String()
	return digestB64, issuerName, serial
}

// leafOf devuelve el certificado hoja, parseándolo si Leaf no está cargado.
func leafOf(cert tls.Certificate) (*x509.Certificate, error) {
	if cert.Leaf != nil {
		return cert.Leaf, nil
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("signer: certificado vacío")
	}
	return x509.ParseCertificate(cert.Certificate[0])
}

func rsaKeyValue(pub *rsa.PublicKey) (modulus, exponent string) {
	e := new(bytes.Buffer)
	for v := pub.E; v > 0; v >>= 8 {
		e.WriteByte(byte(v))
	}
	exp := e.Bytes()
	for i, j := 0, len(exp)-1; i < j; i, j = i+1, j-1 {
		exp[i], exp[j] = exp[j], exp[i]
	}
	return base64.StdEncoding.EncodeToString(pub.N.Bytes()), base64.StdEncoding.EncodeToString(exp)
}
