// sri_token emite un Bearer Token para integraciones (ERP, POS) que consumen la API.
//
// Uso: go run ./cmd/sri_token <admin|emisor|consulta> [user_id] [company_id]
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/facturacion-sri/pkg/config"
	"github.com/jhoicas/facturacion-sri/pkg/jwt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: sri_token <admin|emisor|consulta> [user_id] [company_id]")
		os.Exit(2)
	}
	role := os.Args[1]
	if !jwt.ValidRole(role) {
		fmt.Fprintf(os.Stderr, "Rol desconocido: %s\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no configurado")
		os.Exit(1)
	}

	userID := uuid.NewString()
	if len(os.Args) > 2 {
		userID = os.Args[2]
	}
	companyID := cfg.SRI.Emisor.RUC
	if len(os.Args) > 3 {
		companyID = os.Args[3]
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, userID, companyID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
