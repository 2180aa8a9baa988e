// sri_contingencia reenvía los comprobantes que quedaron en contingencia cuando el
// SRI no respondió. Pensado para cron; sale con código 1 si alguno sigue pendiente.
//
// Uso: go run ./cmd/sri_contingencia
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/storage"
	"github.com/jhoicas/facturacion-sri/pkg/config"
	"github.com/jhoicas/facturacion-sri/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := storage.NewFileStore(cfg.Storage.Root)
	if err := store.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Directorios de comprobantes: %v\n", err)
		os.Exit(1)
	}

	endpoints := sri.EndpointsFor(cfg.SRI.Ambiente)
	if cfg.SRI.RecepcionURL != "" {
		endpoints.Recepcion = cfg.SRI.RecepcionURL
	}
	// Mismo directorio de candados que la API: no reenvía una clave que la API esté procesando.
	locks := sri.NewKeyLocker(sri.WithLockDir(store.LockDir(), sri.DefaultLockStale))
	client := sri.NewClient(sri.NewSOAPClient(endpoints, cfg.SRI.Timeout()), store, locks, log, nil, sri.ClientConfig{
		MaxAttempts: cfg.SRI.MaxReintentos,
		RetryDelay:  cfg.SRI.Espera(),
		Concurrency: cfg.SRI.LoteConcurrencia,
	})

	report, err := client.RetryPending(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer contingencia: %v\n", err)
		os.Exit(1)
	}

	for _, clave := range report.Sent {
		fmt.Printf("  enviado   %s\n", clave)
	}
	for _, clave := range report.Failed {
		fmt.Printf("  pendiente %s\n", clave)
	}
	fmt.Printf("Contingencia: %d enviados, %d pendientes\n", len(report.Sent), len(report.Failed))
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
