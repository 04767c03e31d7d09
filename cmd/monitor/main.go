package main

import (
	"context"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Krimson/patient-monitor/internal/analysis"
	"github.com/Krimson/patient-monitor/internal/charts"
	"github.com/Krimson/patient-monitor/internal/config"
	"github.com/Krimson/patient-monitor/internal/hardware"
	"github.com/Krimson/patient-monitor/internal/inference"
	"github.com/Krimson/patient-monitor/internal/server"
	"github.com/Krimson/patient-monitor/internal/session"
	"github.com/Krimson/patient-monitor/internal/simulator"
	"github.com/Krimson/patient-monitor/internal/store"

	_ "github.com/Krimson/patient-monitor/docs" // Swagger docs
)

const defaultPatientAge = 35

// @title Patient Monitor API
// @version 1.0
// @description Сервис панели мониторинга пациента: сессии наблюдения,
// @description показатели жизнедеятельности, трехканальная ЭКГ с WebSocket
// @description трансляцией и пост-сессионный анализ с отчетами.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	cfg := config.Load()

	setupLogging(cfg.LogFile)

	log.Printf("[INFO] Starting patient monitor: http_port=%s tick=%s session_duration=%s",
		cfg.HTTPPort, cfg.Session.TickInterval, cfg.Session.Duration)

	// Redis: кеш отчетов и снимков графиков
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	var cache *store.RedisStore
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Redis unavailable, report cache disabled: %v", err)
	} else {
		cache = store.NewRedisStore(redisClient, cfg.ReportTTL)
		log.Printf("[INFO] Connected to Redis at %s", cfg.RedisAddr)
	}
	cancel()

	// PostgreSQL: долговременный архив отчетов
	var reports *store.ReportRepository
	repo, err := store.NewReportRepositoryFromDSN(cfg.PostgresDSN)
	if err != nil {
		log.Printf("[WARN] PostgreSQL unavailable, report archive disabled: %v", err)
	} else {
		schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repo.EnsureSchema(schemaCtx); err != nil {
			log.Printf("[WARN] Failed to ensure reports schema: %v", err)
		}
		schemaCancel()
		reports = repo
		defer repo.Close()
		log.Printf("[INFO] Connected to PostgreSQL")
	}

	// Внешние сервисы пост-обработки
	classifier := inference.NewClient(cfg.Inference.URL, cfg.Inference.SampleRate, cfg.Inference.Timeout)
	renderer := charts.NewHTTPRenderer(cfg.Charts.URL, cfg.Charts.Timeout)
	pipeline := analysis.NewPipeline(cfg, classifier, renderer)

	// Доставка отчетов: лог всегда, Redis и PostgreSQL по доступности
	deliverers := []session.Reporter{&session.LogReporter{}}
	if cache != nil {
		deliverers = append(deliverers, cache)
	}
	if reports != nil {
		deliverers = append(deliverers, reports)
	}
	reporter := session.NewCompositeReporter(deliverers...)

	controller := session.NewController(cfg.Session, cfg.ECG.Baseline, pipeline, reporter)

	hub := server.NewHub()
	go hub.Run()
	controller.SetNotifier(hub.BroadcastLive)

	simulatorFactory := func(age int) (session.Source, error) {
		return simulator.New(cfg, age, rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	var hardwareSource session.Source
	switch cfg.Hardware.Mode {
	case "tcp":
		hardwareSource = hardware.NewTCPSource(cfg.Hardware.Addr)
		log.Printf("[INFO] Hardware source enabled: tcp addr=%s", cfg.Hardware.Addr)
	case "mqtt":
		hardwareSource = hardware.NewMQTTSource(cfg.Hardware)
		log.Printf("[INFO] Hardware source enabled: mqtt broker=%s topic=%s",
			cfg.Hardware.MQTTBroker, cfg.Hardware.MQTTTopic)
	case "":
		log.Printf("[INFO] Hardware source disabled, simulator only")
	default:
		log.Fatalf("[FATAL] Unknown HARDWARE_MODE %q, expected tcp, mqtt or empty", cfg.Hardware.Mode)
	}

	httpHandler := server.NewHTTPHandler(controller, hub, simulatorFactory, hardwareSource, reports, cache, defaultPatientAge)

	router := mux.NewRouter()
	httpHandler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      enableCORS(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("[INFO] HTTP server listening on :%s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		log.Printf("[ERROR] Server error: %v", err)

	case sig := <-shutdownChan:
		log.Printf("[INFO] Received signal %v, starting graceful shutdown...", sig)

		// Активная сессия завершается штатно: снимок, анализ, отчет
		controller.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] HTTP server forced to shutdown: %v", err)
		}

		log.Printf("[INFO] Graceful shutdown completed")
	}

	log.Printf("[INFO] Server stopped")
}

// setupLogging направляет лог в файл с ротацией, если задан LOG_FILE
func setupLogging(logFile string) {
	if logFile == "" {
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // мегабайт
		MaxBackups: 3,
		MaxAge:     28, // дней
		Compress:   true,
	}))
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			return
		}

		next.ServeHTTP(w, r)
	})
}
