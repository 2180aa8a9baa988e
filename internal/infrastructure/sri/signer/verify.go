package signer

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrSignatureInvalid la firma no corresponde al contenido o al certificado.
var ErrSignatureInvalid = errors.New("signer: firma inválida")

// Verify recalcula los digest de cada Reference y valida SignatureValue con el
// certificado embebido en KeyInfo.
func Verify(signed []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(signed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("%w: documento sin raíz", ErrMalformedDocument)
	}
	sig := root.SelectElement("ds:Signature")
	if sig == nil {
		return fmt.Errorf("%w: sin ds:Signature", ErrSignatureInvalid)
	}
	signedInfo := sig.SelectElement("ds:SignedInfo")
	if signedInfo == nil {
		return fmt.Errorf("%w: sin ds:SignedInfo", ErrSignatureInvalid)
	}

	rootURI := "#" + root.SelectAttrValue("id", "")
	for _, ref := range signedInfo.SelectElements("ds:Reference") {
		uri := ref.SelectAttrValue("URI", "")
		dv := ref.SelectElement("ds:DigestValue")
		if dv == nil {
			return fmt.Errorf("%w: Reference %s sin DigestValue", ErrSignatureInvalid, uri)
		}
		var got string
		if uri == rootURI {
			d, err := documentDigest(doc)
			if err != nil {
				return err
			}
			got = d
		} else {
			el := sig.FindElement(".//*[@Id='" + strings.TrimPrefix(uri, "#") + "']")
			if el == nil {
				return fmt.Errorf("%w: Reference %s no encontrada", ErrSignatureInvalid, uri)
			}
			d, err := elementDigest(el)
			if err != nil {
				return err
			}
			got = d
		}
		if got != strings.TrimSpace(dv.Text()) {
			return fmt.Errorf("%w: digest de %s no coincide", ErrSignatureInvalid, uri)
		}
	}

	certEl := sig.FindElement(".//ds:X509Certificate")
	valueEl := sig.SelectElement("ds:SignatureValue")
	if certEl == nil || valueEl == nil {
		return fmt.Errorf("%w: faltan X509Certificate o SignatureValue", ErrSignatureInvalid)
	}
	der, err := base64.StdEncoding.DecodeString(strings.TrimSpace(certEl.Text()))
	if err != nil {
		return fmt.Errorf("%w: certificado: %v", ErrSignatureInvalid, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return fmt.Errorf("%w: certificado: %v", ErrSignatureInvalid, err)
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return ErrUnsupportedKey
	}
	value, err := base64.StdEncoding.DecodeString(strings.TrimSpace(valueEl.Text()))
	if err != nil {
		return fmt.Errorf("%w: SignatureValue: %v", ErrSignatureInvalid, err)
	}
	canonicalInfo, err := canonical(signedInfo)
	if err != nil {
		return fmt.Errorf("signer: canonicalizar SignedInfo: %w", err)
	}
	h := sha1.Sum(canonicalInfo)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA1, h[:], value); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}

// documentDigest aplica el enveloped transform: quita ds:Signature y canonicaliza.
func documentDigest(doc *etree.Document) (string, error) {
	cp := doc.Copy()
	if s := cp.Root().SelectElement("ds:Signature"); s != nil {
		cp.Root().RemoveChild(s)
	}
	return elementDigest(cp.Root())
}

func elementDigest(el *etree.Element) (string, error) {
	out, err := canonical(el)
	if err != nil {
		return "", fmt.Errorf("signer: canonicalizar %s: %w", el.FullTag(), err)
	}
	return digestB64(out), nil
}
