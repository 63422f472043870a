package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	adapterhttp "github.com/clinicare-bj/maternity-reminder-engine/internal/adapters/in/http"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/adapters/in/rabbitmq"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/adapters/in/scheduler"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/adapters/out/cache"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/adapters/out/email"
	adapterfs "github.com/clinicare-bj/maternity-reminder-engine/internal/adapters/out/firestore"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/adapters/out/inapp"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/adapters/out/logger"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/adapters/out/sms"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/config"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/json_types"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/services"
)

func main() {
	// Chargement de la configuration
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	location := cfg.Location()
	json_types.DefaultLocation = location

	// Initialisation du logger avec la timezone de la clinique
	mainLogger, err := logger.NewZapLogger(cfg.App.Timezone, cfg.IsLocal())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":          cfg.App.Version,
		"env":              cfg.App.Env,
		"timezone":         cfg.App.Timezone,
		"smsConfigured":    cfg.SmsConfigured(),
		"emailConfigured":  cfg.EmailConfigured(),
		"schedulerEnabled": cfg.Scheduler.Enabled,
		"rabbitmqEnabled":  cfg.RabbitMQ.Enabled,
		"cacheEnabled":     cfg.Cache.Enabled,
	})

	// Mode Gin selon l'environnement
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Adaptateurs sortants
	store, err := adapterfs.NewFirestoreAdapter(ctx, cfg, mainLogger.WithModule("FirestoreAdapter"))
	if err != nil {
		log.Error("app.firestore.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer store.Close()

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		lruCache, err := cache.NewIdentityCacheAdapter(cfg, mainLogger.WithModule("IdentityCacheAdapter"))
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = lruCache
	}

	inAppAdapter := inapp.NewInAppAdapter(store, mainLogger)
	smsAdapter := sms.NewTwilioAdapter(cfg, mainLogger)
	emailAdapter := email.NewSMTPAdapter(cfg, mainLogger)

	// Service central
	reminderService := services.NewReminderService(
		store,
		cacheAdapter,
		inAppAdapter,
		smsAdapter,
		emailAdapter,
		location,
		mainLogger,
	)

	// Planificateur
	schedulerHandle := scheduler.NewHandle(reminderService, cfg, location, mainLogger)
	if cfg.Scheduler.Enabled {
		if err := schedulerHandle.Start(); err != nil {
			log.Error("app.scheduler.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer schedulerHandle.Stop()
	}

	// Surface HTTP de déclenchement
	router := gin.Default()
	controller := adapterhttp.NewReminderController(reminderService, cfg)
	controller.RegisterRoutes(router)

	// Écouteur RabbitMQ seulement s'il est activé
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewTriggerListener(reminderService, cfg, mainLogger)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
