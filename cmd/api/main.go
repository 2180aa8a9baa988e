package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/jhoicas/facturacion-sri/docs"
	"github.com/jhoicas/facturacion-sri/internal/application/billing"
	"github.com/jhoicas/facturacion-sri/internal/domain/repository"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/facturacion-sri/internal/infrastructure/pdf"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/postgres"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri/signer"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/facturacion-sri/internal/interfaces/http"
	"github.com/jhoicas/facturacion-sri/pkg/config"
	"github.com/jhoicas/facturacion-sri/pkg/logger"
)

// @title                      Facturación Electrónica SRI
// @version                    1.0
// @description                Emisión, firma XAdES-BES y autorización de comprobantes electrónicos del SRI Ecuador.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("ambiente", cfg.SRI.Ambiente).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Estados en PostgreSQL: opcionales, el almacén de archivos es la fuente de verdad.
	var comprobanteRepo repository.ComprobanteRepository
	if cfg.DB.Enabled() {
		repo, closePool, err := postgres.Open(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer closePool()
		comprobanteRepo = repo
	} else {
		log.Warn().Msg("DATABASE_URL no configurada: sin registro de estados")
	}

	store := storage.NewFileStore(cfg.Storage.Root)
	if err := store.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Str("root", cfg.Storage.Root).Msg("directorios de comprobantes")
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	endpoints := sri.EndpointsFor(cfg.SRI.Ambiente)
	if cfg.SRI.RecepcionURL != "" {
		endpoints.Recepcion = cfg.SRI.RecepcionURL
	}
	if cfg.SRI.AutorizacionURL != "" {
		endpoints.Autorizacion = cfg.SRI.AutorizacionURL
	}
	gateway := sri.NewSOAPClient(endpoints, cfg.SRI.Timeout())

	// Un solo juego de candados para el cliente (contingencia) y el orquestador; el
	// archivo por clave excluye también al cron sri_contingencia.
	locks := sri.NewKeyLocker(sri.WithLockDir(store.LockDir(), sri.DefaultLockStale))
	transport := sri.NewClient(gateway, store, locks, log, m, sri.ClientConfig{
		MaxAttempts: cfg.SRI.MaxReintentos,
		RetryDelay:  cfg.SRI.Espera(),
		Concurrency: cfg.SRI.LoteConcurrencia,
		Emisor: sri.Emisor{
			RUC:      cfg.SRI.Emisor.RUC,
			Ambiente: cfg.SRI.Ambiente,
			Serie:    cfg.SRI.Emisor.Establecimiento + cfg.SRI.Emisor.PuntoEmision,
		},
	})

	// El certificado se lee en cada firma para detectar renovaciones y vencimientos.
	signerSvc := signer.NewDigitalSignatureService()
	identity := func() (tls.Certificate, error) {
		return signer.LoadIdentity(cfg.SRI.CertPath, cfg.SRI.CertPassword, time.Now())
	}

	orchestrator := billing.NewSRIOrchestrator(
		transport, signerSvc, identity, store, comprobanteRepo, locks, log, m,
		billing.OrchestratorConfig{SettleDelay: cfg.SRI.Espera()},
	)

	// RIDE: representación impresa del comprobante autorizado
	rideUC := billing.NewRIDEUseCase(store, infrapdf.NewMarotoRIDEGenerator())

	comprobanteHandler := httpRouter.NewComprobanteHandler(
		orchestrator, rideUC, billing.EmisorFromConfig(cfg.SRI), comprobanteRepo,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 120, // submit espera recepción, pausa y autorización
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturación SRI API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "ambiente": cfg.SRI.Ambiente})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Comprobantes: comprobanteHandler,
		JWTSecret:    cfg.JWT.Secret,
		Gatherer:     registry,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
