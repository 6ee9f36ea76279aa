package main

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"fidelyaAPI/handlers"
	"fidelyaAPI/internal/config"
	"fidelyaAPI/internal/database"
	"fidelyaAPI/internal/notification"
	"fidelyaAPI/internal/realtime"
	"fidelyaAPI/middleware"
	"fidelyaAPI/services"

	_ "net/http/pprof"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	cfg    *config.Config
	logger zerolog.Logger
	dbPool *pgxpool.Pool

	asociacionService   *services.AsociacionService
	socioService        *services.SocioService
	comercioService     *services.ComercioService
	beneficioService    *services.BeneficioService
	validacionService   *services.ValidacionService
	notificationService *services.NotificationService
	realtimeManager     *realtime.Manager
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger = config.NewLogger(cfg)
	zlog.Logger = logger

	clerk.SetKey(cfg.ClerkSecretKey)
	logger.Info().Msg("Clerk initialized")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPool, err = database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	logger.Info().Msg("connected to PostgreSQL")

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load embedded migrations")
	}
	if err := database.RunMigrations(cfg.DatabaseURL, migrations, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	asociacionService = services.NewAsociacionService(dbPool, logger)
	socioService = services.NewSocioService(dbPool, logger)
	comercioService = services.NewComercioService(dbPool, cfg.QRBaseURI, logger)
	beneficioService = services.NewBeneficioService(dbPool, logger)
	notificationService = services.NewNotificationService(dbPool, logger)
	validacionService = services.NewValidacionService(dbPool, logger)
	validacionService.SetNotificaciones(notificationService)

	fcmService, err := notification.NewFCMService(cfg.FCMServiceAccountJSON, cfg.FCMCredentialsFile, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("FCM unavailable, validations will not push")
	} else {
		notificationService.SetPushProvider(fcmService)
		logger.Info().Msg("FCM push provider initialized")
	}

	realtimeManager = realtime.NewManager(cfg.FeedPollInterval, logger)

	middleware.InitPrometheus()
	services.InitMetrics()
}

func main() {
	defer func() {
		logger.Info().Msg("closing database connection pool")
		dbPool.Close()
	}()
	defer realtimeManager.Cerrar()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	asociacionHandler := handlers.NewAsociacionHandler(asociacionService)
	socioHandler := handlers.NewSocioHandler(socioService)
	comercioHandler := handlers.NewComercioHandler(comercioService)
	beneficioHandler := handlers.NewBeneficioHandler(beneficioService)
	validacionHandler := handlers.NewValidacionHandler(validacionService, realtimeManager, cfg.FeedWaitTimeout)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors(rootCtx)

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass, promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(cfg.PprofSecret, http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "fidelya-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER (requires auth)
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.ClerkAuthMiddleware)

	api.HandleFunc("/validaciones/validar", validacionHandler.Validar).Methods("POST")
	api.HandleFunc("/validaciones/historial", validacionHandler.Historial).Methods("GET")
	api.HandleFunc("/validaciones/{id}/usar-beneficio", validacionHandler.UsarBeneficio).Methods("POST")

	api.HandleFunc("/comercios", comercioHandler.Create).Methods("POST")
	api.HandleFunc("/comercios/{id}", comercioHandler.Get).Methods("GET")
	api.HandleFunc("/comercios/{id}", comercioHandler.Update).Methods("PUT")
	api.HandleFunc("/comercios/{id}/asociaciones", comercioHandler.VincularAsociacion).Methods("POST")
	api.HandleFunc("/comercios/{id}/asociaciones", comercioHandler.DesvincularAsociacion).Methods("DELETE")
	api.HandleFunc("/comercios/{id}/qr", comercioHandler.GenerarQR).Methods("GET")
	api.HandleFunc("/comercios/{id}/estadisticas", validacionHandler.Estadisticas).Methods("GET")
	api.HandleFunc("/comercios/{id}/feed", validacionHandler.Feed).Methods("GET")

	api.HandleFunc("/socios", socioHandler.Create).Methods("POST")
	api.HandleFunc("/socios", socioHandler.ListPorAsociacion).Methods("GET")
	api.HandleFunc("/socios/{id}", socioHandler.Get).Methods("GET")
	api.HandleFunc("/socios/{id}", socioHandler.Update).Methods("PUT")

	api.HandleFunc("/beneficios", beneficioHandler.Create).Methods("POST")
	api.HandleFunc("/beneficios", beneficioHandler.ListPorComercio).Methods("GET")
	api.HandleFunc("/beneficios/{id}", beneficioHandler.Get).Methods("GET")
	api.HandleFunc("/beneficios/{id}", beneficioHandler.Update).Methods("PUT")
	api.HandleFunc("/beneficios/{id}", beneficioHandler.Desactivar).Methods("DELETE")

	api.HandleFunc("/asociaciones", asociacionHandler.Create).Methods("POST")
	api.HandleFunc("/asociaciones", asociacionHandler.List).Methods("GET")
	api.HandleFunc("/asociaciones/{id}", asociacionHandler.Get).Methods("GET")

	api.HandleFunc("/notificaciones/registrar-dispositivo", notificationHandler.RegistrarDispositivo).Methods("POST")

	// CORS configuration
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("error starting server")
		}
	}()

	<-rootCtx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}

	logger.Info().Msg("server shutdown complete")
}
