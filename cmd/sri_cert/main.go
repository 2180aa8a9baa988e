// sri_cert diagnostica el certificado .p12 de firma electrónica antes de emitir.
//
// Uso: go run ./cmd/sri_cert [ruta.p12] [clave]
// Sin argumentos usa SRI_CERT_PATH y SRI_CERT_PASSWORD de la configuración.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri/signer"
	"github.com/jhoicas/facturacion-sri/pkg/config"
)

func main() {
	certPath, certPass := "", ""
	if len(os.Args) > 2 {
		certPath, certPass = os.Args[1], os.Args[2]
	} else {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
			os.Exit(1)
		}
		certPath, certPass = cfg.SRI.CertPath, cfg.SRI.CertPassword
	}

	fmt.Println("🔍 DIAGNÓSTICO DE CERTIFICADO SRI")
	fmt.Println("---------------------------------")
	fmt.Printf("📂 Archivo: %s\n", certPath)

	now := time.Now()
	id, err := signer.LoadIdentity(certPath, certPass, now)
	switch {
	case errors.Is(err, signer.ErrCertificateNotFound):
		fmt.Println("\n❌ El archivo no existe. Revisa SRI_CERT_PATH.")
		os.Exit(1)
	case errors.Is(err, signer.ErrInvalidPassphrase):
		fmt.Println("\n❌ La clave del certificado es incorrecta. Revisa SRI_CERT_PASSWORD.")
		os.Exit(1)
	case errors.Is(err, signer.ErrCertificateExpired), errors.Is(err, signer.ErrCertificateNotYetValid):
		fmt.Printf("\n❌ Certificado fuera de vigencia: %v\n", err)
		os.Exit(1)
	case errors.Is(err, signer.ErrUnsupportedKey):
		fmt.Println("\n❌ El .p12 no trae llave privada RSA.")
		os.Exit(1)
	case err != nil:
		fmt.Printf("\n❌ No se pudo leer el certificado: %v\n", err)
		os.Exit(1)
	}

	leaf := id.Leaf
	fmt.Printf("👤 Titular:  %s\n", leaf.Subject.String())
	fmt.Printf("🏛  Emisor:   %s\n", leaf.Issuer.String())
	fmt.Printf("🔢 Serie:    %s\n", leaf.SerialNumber.String())
	fmt.Printf("📅 Vigencia: %s → %s\n", leaf.NotBefore.Format("2006-01-02"), leaf.NotAfter.Format("2006-01-02"))

	if days := int(leaf.NotAfter.Sub(now).Hours() / 24); days < 30 {
		fmt.Printf("\n⚠️  Vence en %d días.\n", days)
	}
	fmt.Println("\n✨ Certificado y clave correctos.")
}
