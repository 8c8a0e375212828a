package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/config"
	"github.com/alimikegami/e-commerce/catalog-service/internal/controller"
	"github.com/alimikegami/e-commerce/catalog-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/e-commerce/catalog-service/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/catalog-service/internal/infrastructure/tracing"
	"github.com/alimikegami/e-commerce/catalog-service/internal/middleware"
	"github.com/alimikegami/e-commerce/catalog-service/internal/repository"
	"github.com/alimikegami/e-commerce/catalog-service/internal/service"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "catalog-service"

type App struct {
	DB            *mongo.Database
	Config        *config.Config
	Producer      kafka.MessageWriter
	Reader        kafka.MessageReader
	ImageProvider storage.ImageProvider
	Server        *echo.Echo

	metrics        *echo.Echo
	scheduler      gocron.Scheduler
	traceProvider  *sdktrace.TracerProvider
	stopConsumer   context.CancelFunc
	consumerDone   chan struct{}
	cleanupService service.ImageCleanupService
}

func initLogger(environment string) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Setup wires every dependency and registers the routes without listening.
func (app *App) Setup(ctx context.Context) error {
	initLogger(app.Config.Environment)

	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost, serviceName, app.Config.Environment)
	if err != nil {
		return err
	}
	app.traceProvider = traceProvider

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler

	e.Use(middleware.Tracer(traceProvider.Tracer(serviceName)))

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(middleware.Logger)

	productRepo := repository.CreateNewMongoDBRepository(app.DB)
	subcategoryRepo := repository.CreateNewMongoDBSubcategoryRepository(app.DB)
	shopRepo := repository.CreateNewMongoDBShopRepository(app.DB)
	cleanupRepo := repository.CreateNewMongoDBImageCleanupRepository(app.DB)

	if err := productRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := shopRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	publisher := kafka.CreatePublisher(app.Producer)

	app.cleanupService = service.CreateImageCleanupService(cleanupRepo, app.ImageProvider, publisher, app.Reader, app.Config.ImageCleanupConfig)
	productSvc := service.CreateProductService(productRepo, subcategoryRepo, cleanupRepo, app.cleanupService, publisher)
	shopSvc := service.CreateShopService(shopRepo)

	g := e.Group("/api/v1")
	isLoggedIn := middleware.IsLoggedIn(app.Config.JWTSecret)

	controller.CreateProductController(g, productSvc, isLoggedIn)
	controller.CreateShopController(g, shopSvc, isLoggedIn)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, http.StatusOK, echo.Map{"message": "pong"})
	})

	app.Server = e
	return nil
}

// Start runs the HTTP server, the metrics server, the cleanup consumer and the
// sweeper, and blocks until the HTTP server stops.
func (app *App) Start() error {
	if app.Server == nil {
		if err := app.Setup(context.Background()); err != nil {
			return err
		}
	}

	app.metrics = echo.New()
	app.metrics.HideBanner = true
	app.metrics.GET("/metrics", echoprometheus.NewHandler())
	go func() {
		if err := app.metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to start metrics server")
		}
	}()

	consumerCtx, cancel := context.WithCancel(context.Background())
	app.stopConsumer = cancel
	app.consumerDone = make(chan struct{})
	go func() {
		defer close(app.consumerDone)
		app.cleanupService.ConsumeEvent(consumerCtx)
	}()

	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			app.Config.ImageCleanupConfig.SweepInterval,
		),
		gocron.NewTask(
			app.cleanupService.RetryPendingTasks,
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	s.Start()
	app.scheduler = s

	err = app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errList []error

	if app.Server != nil {
		errList = append(errList, app.Server.Shutdown(ctx))
	}

	if app.metrics != nil {
		errList = append(errList, app.metrics.Shutdown(ctx))
	}

	if app.scheduler != nil {
		errList = append(errList, app.scheduler.Shutdown())
	}

	if app.stopConsumer != nil {
		app.stopConsumer()
		select {
		case <-app.consumerDone:
		case <-ctx.Done():
		}
	}

	if closer, ok := app.Reader.(io.Closer); ok {
		errList = append(errList, closer.Close())
	}

	if app.traceProvider != nil {
		errList = append(errList, app.traceProvider.Shutdown(ctx))
	}

	return errors.Join(errList...)
}
