package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	token_adapter "real-estate-system/internal/adapters/jwt"
	logger_adapter "real-estate-system/internal/adapters/logger"
	"real-estate-system/internal/adapters/notifier"
	postgres_adapter "real-estate-system/internal/adapters/postgres"
	rabbitmq_adapter "real-estate-system/internal/adapters/rabbitmq"
	"real-estate-system/internal/adapters/rest"
	system_adapter "real-estate-system/internal/adapters/system"
	"real-estate-system/internal/configs"
	"real-estate-system/internal/constants"
	"real-estate-system/internal/contracts"
	"real-estate-system/internal/core/port"
	"real-estate-system/internal/core/usecase"
	"real-estate-system/migrations"
	fluentlogger "real-estate-system/pkg/fluent_logger"
	"real-estate-system/pkg/postgres"
	"real-estate-system/pkg/rabbitmq/rabbitmq_common"
	"real-estate-system/pkg/rabbitmq/rabbitmq_consumer"
	"real-estate-system/pkg/rabbitmq/rabbitmq_producer"
	"real-estate-system/schemas"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config *configs.AppConfig
	dbPool *pgxpool.Pool

	apiServer   *rest.Server
	sseNotifier *notifier.SSENotifier

	connManager *rabbitmq_common.ConnectionManager
	producer    *rabbitmq_producer.Publisher
	listener    port.EventListenerPort

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// NewLogger собирает логгер сервиса: stdout через slog и, если включен, Fluent Bit.
func NewLogger(appConfig *configs.AppConfig) (port.LoggerPort, *fluent.Fluent, error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:         appConfig.FluentBit.Host,
			Port:         appConfig.FluentBit.Port,
			TagPrefix:    appConfig.AppName, // Используем имя приложения как префикс
			Async:        appConfig.FluentBit.Async,
			WriteTimeout: 3 * time.Second,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	return multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName}), fluentClient, nil
}

func NewApp(appConfig *configs.AppConfig) (*App, error) {
	// --- 1. ЛОГГЕРЫ ---
	baseLogger, fluentClient, err := NewLogger(appConfig)
	if err != nil {
		return nil, err
	}

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{"fluent_enabled": appConfig.FluentBit.Enabled})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}
	// при ошибке сборки освобождаем уже созданные ресурсы
	ok := false
	defer func() {
		if !ok {
			application.shutdown()
			application.closeFluent()
		}
	}()

	loc, err := appConfig.Agreements.Location()
	if err != nil {
		return nil, err
	}

	// --- 2. POSTGRES ---
	application.dbPool, err = postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL:     appConfig.Database.URL,
		MaxConns:        appConfig.Database.MaxConns,
		MinConns:        appConfig.Database.MinConns,
		MaxConnLifetime: appConfig.Database.MaxConnLifetime,
		ConnectTimeout:  appConfig.Database.ConnectTimeout,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	agreementRepo, err := postgres_adapter.NewPostgresAgreementRepository(application.dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create agreement repository: %w", err)
	}
	propertyRepo, err := postgres_adapter.NewPropertyRepository(application.dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create property repository: %w", err)
	}
	userRepo, err := postgres_adapter.NewUserRepository(application.dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}
	notificationRepo, err := postgres_adapter.NewNotificationRepository(application.dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification repository: %w", err)
	}

	// --- 3. КОНТРАКТЫ, ТОКЕНЫ, СИСТЕМНЫЕ АДАПТЕРЫ ---
	registry, err := contracts.NewRegistry(schemas.SchemasFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract schemas: %w", err)
	}
	appLogger.Info("Contract schemas loaded", port.Fields{"schemas": len(registry.Keys())})

	tokenService, err := token_adapter.NewTokenService(appConfig.JWT.Secret, appConfig.JWT.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	clock := system_adapter.NewClock(loc)
	seed := appConfig.Agreements.UniqueNumberSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	numbers := system_adapter.NewRandomNumberGenerator(seed)

	// --- 4. RABBITMQ ---
	bridgeLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))
	application.connManager, err = rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{
		URL:               appConfig.RabbitMQ.URL,
		ReconnectInterval: appConfig.RabbitMQ.ReconnectInterval,
	}, bridgeLogger)
	if err != nil {
		appLogger.Error("Failed to connect to RabbitMQ", err, nil)
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	application.producer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:             constants.AgreementEventsExchange,
		ExchangeType:             constants.AgreementEventsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   bridgeLogger,
	}, application.connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create rabbitmq publisher: %w", err)
	}

	eventPublisher, err := rabbitmq_adapter.NewAgreementEventPublisherAdapter(application.producer, constants.RoutingKeyAgreementNotification)
	if err != nil {
		return nil, fmt.Errorf("failed to create agreement event publisher: %w", err)
	}

	application.sseNotifier = notifier.NewSSENotifier(baseLogger)

	// --- 5. USE CASES ---
	rules := appConfig.Agreements.Rules()
	ttl := appConfig.JWT.TTL

	agreementUseCases := rest.AgreementUseCases{
		Create:    usecase.NewCreateAgreementUseCase(agreementRepo, propertyRepo, userRepo, eventPublisher, numbers, clock, rules),
		Accept:    usecase.NewAcceptAgreementUseCase(agreementRepo, eventPublisher, clock),
		Decline:   usecase.NewDeclineAgreementUseCase(agreementRepo, eventPublisher, clock),
		Counter:   usecase.NewCounterAgreementUseCase(agreementRepo, eventPublisher, numbers, clock, rules),
		Update:    usecase.NewUpdateAgreementUseCase(agreementRepo, clock, rules),
		Delete:    usecase.NewDeleteAgreementUseCase(agreementRepo),
		List:      usecase.NewListAgreementsUseCase(agreementRepo, loc),
		GetByID:   usecase.NewGetAgreementByIdUseCase(agreementRepo),
		GetLatest: usecase.NewGetLatestAgreementsUseCase(agreementRepo),
		Totals:    usecase.NewGetAgreementTotalsUseCase(agreementRepo, clock),
	}
	registerUC := usecase.NewRegisterUserUseCase(userRepo, tokenService, ttl)
	loginUC := usecase.NewLoginUserUseCase(userRepo, tokenService, ttl)
	validateTokenUC := usecase.NewValidateTokenUseCase(tokenService)

	processNotificationUC := usecase.NewProcessNotificationUseCase(userRepo, notificationRepo, application.sseNotifier, clock)
	getNotificationsUC := usecase.NewGetNotificationsUseCase(notificationRepo)
	latestNotificationsUC := usecase.NewGetLatestNotificationsUseCase(notificationRepo)
	markReadUC := usecase.NewMarkNotificationsReadUseCase(notificationRepo)

	// --- 6. КОНСЬЮМЕР УВЕДОМЛЕНИЙ ---
	consumer, err := rabbitmq_adapter.NewNotificationConsumerAdapter(rabbitmq_consumer.ConsumerConfig{
		QueueName:              constants.QueueAgreementNotifications,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.AgreementEventsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.AgreementEventsExchangeType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyAgreementNotification,
		PrefetchCount:          appConfig.RabbitMQ.PrefetchCount,
		ConsumerTag:            constants.ConsumerTagNotifications,
		Retry: rabbitmq_consumer.RetryConfig{
			Enabled:            true,
			RetryExchange:      constants.RetryExchange,
			RetryQueue:         constants.WaitQueue,
			RetryTTL:           int(appConfig.RabbitMQ.RetryTTL.Milliseconds()),
			FinalDLXExchange:   constants.FinalDLXExchange,
			FinalDLQ:           constants.FinalDLQ,
			FinalDLQRoutingKey: constants.FinalDLQRoutingKey,
			MaxRetries:         appConfig.RabbitMQ.MaxRetries,
		},
	}, registry, processNotificationUC, baseLogger, application.connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}
	application.listener = consumer

	// --- 7. REST API ---
	handlers := rest.Handlers{
		Agreements:    rest.NewAgreementHandler(agreementUseCases, registry, loc),
		Auth:          rest.NewAuthHandler(registerUC, loginUC),
		Notifications: rest.NewNotificationHandler(getNotificationsUC, latestNotificationsUC, markReadUC, application.sseNotifier),
	}
	application.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.Port,
		AllowedOrigins: appConfig.Rest.AllowedOrigins,
		ReadTimeout:    appConfig.Rest.ReadHeaderTimeout,
	}, handlers, rest.NewAuthMiddleware(validateTokenUC), baseLogger)
	appLogger.Info("REST API server configured.", nil)

	ok = true
	return application, nil
}

// Migrate применяет встроенные миграции к базе приложения.
func (a *App) Migrate(ctx context.Context) error {
	list, err := migrations.Load()
	if err != nil {
		return err
	}
	_, err = migrations.NewMigrator(a.dbPool, list, a.logger).Up(ctx)
	return err
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	errorsCh := make(chan error, 2)

	a.logger.Info("Application is starting...", nil)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.listener.Start(appCtx); err != nil {
			errorsCh <- fmt.Errorf("notification consumer stopped: %w", err)
		}
	}()

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.Port})
		if err := a.apiServer.Start(); err != nil {
			errorsCh <- err
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("Component failed, shutting down", runErr, nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()
	a.shutdown()
	wg.Wait()

	a.logger.Info("Application shut down gracefully.", nil)
	a.closeFluent()
	return runErr
}

// shutdown останавливает компоненты в обратном порядке. Пустые поля пропускаются.
func (a *App) shutdown() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	// сначала закрываем SSE-потоки, иначе Shutdown сервера ждет их до таймаута
	if a.sseNotifier != nil {
		a.sseNotifier.Close()
	}

	if a.apiServer != nil {
		timeout := a.config.Rest.ShutdownTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
		cancel()
	}

	if a.listener != nil {
		if err := a.listener.Close(); err != nil {
			a.logger.Error("Error closing notification consumer", err, nil)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("Error closing rabbitmq publisher", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing rabbitmq connection", err, nil)
		}
	}

	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}
}

func (a *App) closeFluent() {
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// Логируем в stdout, так как fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
