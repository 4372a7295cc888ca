package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"splitledger-backend/config"
	_ "splitledger-backend/docs"
	"splitledger-backend/internal/controller"
	"splitledger-backend/internal/elasticsearch"
	"splitledger-backend/internal/fetcher"
	"splitledger-backend/internal/filestate"
	"splitledger-backend/internal/kafka"
	"splitledger-backend/internal/logger"
	"splitledger-backend/internal/parser"
	"splitledger-backend/internal/postgres"
	"splitledger-backend/internal/scheduler"
	"splitledger-backend/internal/service"
	"splitledger-backend/internal/settlement"
	"splitledger-backend/internal/store"
)

// @title           SplitLedger API
// @version         1.0
// @description     Settles shared-expense ledgers into a minimal list of transfers and aggregates exception counts from remote log files into quarter-hour buckets.

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         logs
// @tag.description  Log aggregation reports

// @tag.name         settlements
// @tag.description  Ledger settlement and balances

// @tag.name         health
// @tag.description  API health check operations

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		// Core Dependencies
		fx.Provide(
			config.NewConfig,
			logger.New,
		),
		// Infrastructure Dependencies
		fx.Provide(
			NewGinEngine,
			NewFetcher,
			NewLogNormalizer,
			NewFileStateManager,
			NewReportStore,
			postgres.ProvidePool,
			postgres.NewLedgerRepository,
			kafka.NewKafkaReportProducer,
			kafka.NewKafkaJobConsumer,
			elasticsearch.ProvideClient,
			elasticsearch.NewElasticReportIndexer,
			elasticsearch.NewElasticsearchBucketRepository,
		),
		// Domain
		fx.Provide(
			settlement.NewEngine,
			service.NewLogReportService,
			service.NewSettlementService,
			service.NewReportJobWorker,
			controller.NewLogController,
			controller.NewSettlementController,
		),
		fx.Invoke(RegisterAPIRoutes,
			RegisterScheduler,
			func(lc fx.Lifecycle, worker service.ReportJobWorker) {
				startReportJobWorker(lc, &wg, worker)
			},
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait()
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	logController *controller.LogController,
	settlementController *controller.SettlementController,
) {
	controller.RegisterHealthRoutes(router)
	controller.RegisterLogRoutes(router, logController)
	controller.RegisterSettlementRoutes(router, settlementController)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Factory Functions ---

func NewFetcher(cfg *config.Config, logger zerolog.Logger) fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.Config{Timeout: cfg.LogProcessor.FetchTimeout}, nil, logger)
}

func NewLogNormalizer(cfg *config.Config, logger zerolog.Logger) parser.LogNormalizer {
	return parser.NewLogNormalizer(parser.ParsePolicyFromString(cfg.LogProcessor.ParsePolicy), logger)
}

func NewFileStateManager(cfg *config.Config, logger zerolog.Logger) filestate.Manager {
	return filestate.NewManager(cfg.ReportState.FilePath, logger)
}

func NewReportStore(cfg *config.Config, state filestate.Manager, logger zerolog.Logger) (store.ReportStore, error) {
	return store.NewReportStore(state, cfg.ReportState.Retention, logger)
}

// --- Invoker Functions ---

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, reports service.LogReportService, logger zerolog.Logger) error {
	_, err := scheduler.NewScheduler(lc, cfg, reports, logger)
	return err
}

// startReportJobWorker runs the Kafka job worker in a goroutine managed by the fx lifecycle.
func startReportJobWorker(lc fx.Lifecycle, wg *sync.WaitGroup, worker service.ReportJobWorker) {
	if worker == nil {
		log.Info().Msg("Report job worker disabled")
		return
	}
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting report job worker goroutine")
			go worker.Run(ctx, wg)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling report job worker to stop...")
			cancel()
			return nil
		},
	})
}
