package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alerta-utec/incident_dashboard/internal/backend"
	"github.com/alerta-utec/incident_dashboard/internal/cache"
	"github.com/alerta-utec/incident_dashboard/internal/config"
	v1 "github.com/alerta-utec/incident_dashboard/internal/handler/http/v1"
	"github.com/alerta-utec/incident_dashboard/internal/notify"
	"github.com/alerta-utec/incident_dashboard/internal/service"
	"github.com/alerta-utec/incident_dashboard/internal/session"
	"github.com/alerta-utec/incident_dashboard/internal/ws"
	"github.com/alerta-utec/incident_dashboard/pkg/logger"
	redisclient "github.com/alerta-utec/incident_dashboard/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/alerta-utec/incident_dashboard/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Alerta UTEC Dashboard API
// @version 1.0
// @description Backend-for-frontend del panel de incidentes Alerta UTEC.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Carga de configuración
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Inicialización del logger
	log := logger.New(cfg.LogLevel)

	// Contexto para el apagado ordenado del worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cliente de Redis (sesiones, caché de incidentes y cola de eventos)
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Cliente del backend de incidentes
	backendClient := backend.NewClient(cfg, log)

	// Hub de WebSocket y worker de entrega de eventos
	hub := ws.NewHub(log)
	eventPublisher := notify.NewRedisEventPublisher(redisClient)
	eventWorker := notify.NewEventWorker(redisClient, hub, log, cfg)
	eventWorker.Start(ctx)

	// Sesiones y caché
	sessionStore := session.NewStore(redisClient, cfg.SessionTTL, log)
	incidentCache := cache.NewIncidentCache(redisClient, cfg.CacheTTL)

	// Servicio del panel
	dashboardService := service.NewDashboardService(backendClient, incidentCache, sessionStore, eventPublisher, log, cfg)

	// Handlers
	handler := v1.NewHandler(dashboardService, sessionStore, hub, log, cfg)

	// Router de Gin
	router := gin.Default()
	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		router.Use(cors.New(corsConfig))
	}
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Servidor HTTP
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Apagado ordenado
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
