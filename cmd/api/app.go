package main

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tvdoutor/contratos/internal/auth"
	"github.com/tvdoutor/contratos/internal/config"
	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/infra/cache"
	"github.com/tvdoutor/contratos/internal/infra/database"
	"github.com/tvdoutor/contratos/internal/infra/http/handlers"
	"github.com/tvdoutor/contratos/internal/infra/http/middleware"
	"github.com/tvdoutor/contratos/internal/infra/integration/docgen"
	"github.com/tvdoutor/contratos/internal/infra/mail"
	"github.com/tvdoutor/contratos/internal/infra/memory"
	"github.com/tvdoutor/contratos/internal/infra/queue"
	"github.com/tvdoutor/contratos/internal/infra/storage"
	"github.com/tvdoutor/contratos/internal/infra/worker"
	"github.com/tvdoutor/contratos/internal/usecase"
)

// repositories é o que muda entre postgres e o fixture em memória.
type repositories struct {
	contracts entity.ContractRepositoryInterface
	users     entity.UserRepositoryInterface
	logs      entity.ActivityLogRepositoryInterface
	reports   entity.ReportRepositoryInterface
}

type application struct {
	Router *handlers.Router

	cfg       *config.Config
	repos     repositories
	drafts    *usecase.DraftService
	processor *usecase.ProcessDocumentUseCase
	rabbit    *queue.RabbitMQ
	closers   []io.Closer
}

func build(ctx context.Context, cfg *config.Config) (*application, error) {
	app := &application{cfg: cfg}
	health := handlers.NewHealthHandler(cfg.BackendMode)

	switch cfg.BackendMode {
	case config.BackendPostgres:
		db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db)
		applied, err := database.Migrate(ctx, db)
		if err != nil {
			app.Close()
			return nil, err
		}
		if len(applied) > 0 {
			log.Info().Strs("migrations", applied).Msg("migrações aplicadas")
		}
		app.repos = postgresRepositories(db)
		health.Register("database", db.PingContext)
	default:
		store := memory.NewStore(time.Now)
		hash, err := auth.HashPassword(cfg.DemoPassword, 0)
		if err != nil {
			return nil, err
		}
		if err := store.Seed(ctx, hash); err != nil {
			return nil, err
		}
		log.Warn().Str("admin", memory.DemoAdminEmail).Msg("modo demonstração: dados em memória, nada é persistido")
		app.repos = repositories{contracts: store.Contracts, users: store.Users, logs: store.Logs, reports: store.Reports}
		health.Register("database", nil)
	}

	var blacklist auth.Blacklist = auth.NewMemoryBlacklist()
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn().Err(err).Msg("redis indisponível, blacklist de tokens em memória")
			middleware.RecordIntegrationError("redis")
		} else {
			app.closers = append(app.closers, client)
			tb := cache.NewTokenBlacklist(client)
			blacklist = tb
			health.Register("redis", tb.Ping)
		}
	}

	var archive usecase.ContractArchive = memory.NewArchive()
	if cfg.MinioEndpoint != "" {
		a, err := storage.NewMinIOArchive(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Warn().Err(err).Msg("minio indisponível, texto dos contratos fica só no banco")
			middleware.RecordIntegrationError("minio")
			archive = nil
		} else {
			archive = a
			health.Register("minio", a.Ping)
		}
	}

	var generator usecase.DocumentGenerator = memory.DocumentGenerator{BaseURL: "http://localhost:" + cfg.Port + "/demo-documents"}
	if cfg.DocumentWebhookURL != "" {
		generator = docgen.NewClient(cfg.DocumentWebhookURL, cfg.DocumentTimeout)
	}

	var mailer usecase.EmailService
	if cfg.SMTPHost != "" {
		mailer = mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	app.processor = usecase.NewProcessDocumentUseCase(app.repos.contracts, meteredGenerator{next: generator}, mailer)

	var publisher usecase.ContractEventPublisher = &usecase.InlinePublisher{Processor: app.processor}
	if cfg.RabbitMQURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq indisponível, documentos gerados inline")
			middleware.RecordIntegrationError("rabbitmq")
		} else {
			app.rabbit = rabbit
			app.closers = append(app.closers, rabbit)
			publisher = queue.NewProducer(rabbit.Ch)
			health.Register("rabbitmq", func(context.Context) error { return rabbit.Ping() })
		}
	}

	creator := usecase.NewCreateContractUseCase(app.repos.contracts, archive, publisher)
	app.drafts = usecase.NewDraftService(usecase.NewMemoryDraftStore(), cfg.DraftTTL)
	manager := auth.NewManager(app.repos.users, blacklist, cfg.JWTSecret, cfg.JWTTTL)

	app.Router = &handlers.Router{
		Logger:         log.Logger,
		AllowedOrigins: cfg.AllowedOrigins,
		LoginLimiter:   middleware.LoginRateLimit(cfg.LoginRateLimit),
		Auth:           manager,
		Health:         health,
		Sessions:       handlers.NewAuthHandler(manager),
		Drafts:         handlers.NewDraftHandler(app.drafts, creator),
		Contracts:      handlers.NewContractHandler(creator, usecase.NewContractQueries(app.repos.contracts)),
		Users:          handlers.NewUserHandler(usecase.NewManageUsersUseCase(app.repos.users, app.repos.logs, auth.BcryptHasher{})),
		Reports: handlers.NewReportHandler(
			usecase.NewReportsUseCase(app.repos.reports),
			usecase.NewDashboardUseCase(app.repos.reports, app.repos.contracts, app.repos.users),
		),
	}
	return app, nil
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		contracts: database.NewContractRepository(db),
		users:     database.NewUserRepository(db),
		logs:      database.NewActivityLogRepository(db),
		reports:   database.NewReportRepository(db),
	}
}

// StartWorkers sobe o consumidor da fila (se houver broker) e o expirador.
func (a *application) StartWorkers(ctx context.Context) {
	if a.rabbit != nil {
		w := queue.NewWorker(a.rabbit.Ch, a.processor)
		go func() {
			if err := w.Start(ctx, queue.QueueName); err != nil {
				log.Error().Err(err).Msg("worker de documentos parou")
			}
		}()
	}

	expirer := worker.NewProcessingTimeoutWorker(a.repos.contracts, a.drafts, a.cfg.ProcessingTimeout)
	go expirer.Start(ctx)
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("erro ao fechar recurso")
		}
	}
}

// meteredGenerator conta sucesso e falha da geração de documentos.
type meteredGenerator struct {
	next usecase.DocumentGenerator
}

func (g meteredGenerator) GenerateDocument(ctx context.Context, event entity.ContractGeneratedEvent) (string, error) {
	url, err := g.next.GenerateDocument(ctx, event)
	if err != nil {
		middleware.RecordIntegrationError("docgen")
		middleware.RecordDocumentProcessed(string(entity.ProcessingError))
		return "", err
	}
	middleware.RecordDocumentProcessed(string(entity.ProcessingCompleted))
	return url, nil
}
