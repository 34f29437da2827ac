package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/trace"

	cacheadapter "github.com/kartik99Lm10/SuckDSA/internal/adapters/cache"
	"github.com/kartik99Lm10/SuckDSA/internal/adapters/completion"
	eventadapter "github.com/kartik99Lm10/SuckDSA/internal/adapters/events"
	httpadapter "github.com/kartik99Lm10/SuckDSA/internal/adapters/http"
	"github.com/kartik99Lm10/SuckDSA/internal/adapters/mail"
	"github.com/kartik99Lm10/SuckDSA/internal/adapters/memory"
	"github.com/kartik99Lm10/SuckDSA/internal/adapters/metrics"
	"github.com/kartik99Lm10/SuckDSA/internal/adapters/mongostore"
	"github.com/kartik99Lm10/SuckDSA/internal/adapters/postgres"
	"github.com/kartik99Lm10/SuckDSA/internal/adapters/security"
	"github.com/kartik99Lm10/SuckDSA/internal/application"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type Runtime struct {
	cfg         Config
	logger      *slog.Logger
	httpServer  *http.Server
	maintenance *cron.Cron
	cleanup     []func(context.Context)
}

type storageSet struct {
	users ports.UserRepository
	chats ports.ChatRepository
	otps  ports.OTPStore
	jobs  []maintenanceJob
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("bootstrapping suckdsa api",
		"service", "suckdsa",
		"layer", "bootstrap",
		"http_port", cfg.HTTPPort,
		"environment", cfg.Environment,
		"store_driver", cfg.StoreDriver,
		"registration_mode", cfg.EffectiveRegistrationMode(),
	)

	rt := &Runtime{cfg: cfg, logger: logger}
	fail := func(err error) (*Runtime, error) {
		rt.runCleanup(context.Background())
		return nil, err
	}

	tp, shutdownTracing, err := newTracerProvider(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	rt.cleanup = append(rt.cleanup, func(ctx context.Context) { _ = shutdownTracing(ctx) })

	storage, err := rt.openStorage(ctx)
	if err != nil {
		return fail(err)
	}

	var rateStore ports.RateLimitStore
	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fail(fmt.Errorf("connect redis: %w", err))
		}
		rt.cleanup = append(rt.cleanup, func(context.Context) { _ = redisClient.Close() })
		storage.otps = cacheadapter.NewRedisOTPStore(redisClient)
		rateStore = cacheadapter.NewRedisRateLimitStore(redisClient)
	} else {
		memStore := memory.NewRateLimitStore()
		rateStore = memStore
		storage.jobs = append(storage.jobs, maintenanceJob{
			name: "sweep_rate_limits",
			spec: "*/5 * * * *",
			run: func(_ context.Context, now time.Time) (int64, error) {
				return int64(memStore.Sweep(now)), nil
			},
		})
	}

	tokens, err := security.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fail(fmt.Errorf("init jwt issuer: %w", err))
	}
	policy, err := application.NewRegistrationPolicy(domain.RegistrationMode(cfg.EffectiveRegistrationMode()))
	if err != nil {
		return fail(err)
	}
	completionClient, err := buildCompletion(cfg, tp, logger)
	if err != nil {
		return fail(err)
	}
	publisher, err := rt.buildPublisher()
	if err != nil {
		return fail(err)
	}
	promMetrics := metrics.NewPrometheus()

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			OTPTTL:            cfg.OTPTTL,
			CompletionTimeout: cfg.CompletionTimeout,
		},
		Policy:     policy,
		Users:      storage.users,
		OTPs:       storage.otps,
		Chats:      storage.chats,
		Hasher:     security.NewBcryptHasher(cfg.BcryptCost),
		Tokens:     tokens,
		Mailer:     rt.buildMailer(),
		Completion: completionClient,
		Publisher:  publisher,
		Metrics:    promMetrics,
	})

	trustedProxies, err := httpadapter.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fail(err)
	}
	handler := httpadapter.NewHandler(svc, httpadapter.Options{
		Limiter:        application.NewRateLimiter(rateStore, promMetrics),
		GlobalRule:     application.RateLimitRule{Name: "global", Limit: cfg.GlobalRateLimit, Window: cfg.GlobalRateWindow},
		ChatRule:       application.RateLimitRule{Name: "chat", Limit: cfg.ChatRateLimit, Window: cfg.ChatRateWindow},
		Observer:       promMetrics,
		MetricsHandler: promMetrics.Handler(),
		Environment:    cfg.Environment,
		BaseURL:        cfg.BaseURL,
		TrustedProxies: trustedProxies,
	})
	rt.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	rt.maintenance, err = newMaintenance(logger, storage.jobs)
	if err != nil {
		return fail(fmt.Errorf("schedule maintenance: %w", err))
	}
	return rt, nil
}

func (r *Runtime) openStorage(ctx context.Context) (storageSet, error) {
	cfg := r.cfg
	switch cfg.StoreDriver {
	case StorePostgres:
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if err != nil {
			return storageSet{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return storageSet{}, fmt.Errorf("gorm sql db: %w", err)
		}
		r.cleanup = append(r.cleanup, func(context.Context) { _ = sqlDB.Close() })
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return storageSet{}, fmt.Errorf("run migrations: %w", err)
		}
		repos := postgres.NewRepositories(db)
		return storageSet{
			users: repos.Users,
			chats: repos.Chats,
			otps:  repos.OTPs,
			jobs: []maintenanceJob{{
				name: "purge_expired_otps",
				spec: "* * * * *",
				run:  repos.OTPs.PurgeExpired,
			}},
		}, nil
	case StoreMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return storageSet{}, err
		}
		r.cleanup = append(r.cleanup, func(ctx context.Context) { _ = store.Close(ctx) })
		return storageSet{users: store.Users(), chats: store.Chats(), otps: store.OTPs()}, nil
	default:
		r.logger.Warn("using in-memory storage; data is lost on restart",
			"service", "suckdsa",
			"layer", "bootstrap",
			"operation", "open_storage",
		)
		return storageSet{
			users: memory.NewUserRepository(),
			chats: memory.NewChatRepository(),
			otps:  memory.NewOTPStore(nil),
		}, nil
	}
}

func (r *Runtime) buildMailer() ports.Mailer {
	if !r.cfg.MailConfigured() {
		r.logger.Warn("EMAIL_USER/EMAIL_PASS not set; otp emails are logged instead of sent",
			"service", "suckdsa",
			"module", "mail",
			"layer", "bootstrap",
		)
		return mail.NewLoggingMailer()
	}
	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     r.cfg.SMTPHost,
		Port:     r.cfg.SMTPPort,
		Username: r.cfg.EmailUser,
		Password: r.cfg.EmailPass,
		FromName: r.cfg.EmailFromName,
		OTPTTL:   r.cfg.OTPTTL,
	})
	if err != nil {
		r.logger.Warn("smtp mailer unavailable; falling back to log mailer", "error", err)
		return mail.NewLoggingMailer()
	}
	return mailer
}

func (r *Runtime) buildPublisher() (ports.EventPublisher, error) {
	if len(r.cfg.KafkaBrokers) == 0 {
		return eventadapter.NewLoggingPublisher(r.logger), nil
	}
	publisher, err := eventadapter.NewKafkaPublisher(r.cfg.KafkaBrokers, r.cfg.KafkaTopicPrefix)
	if err != nil {
		return nil, fmt.Errorf("init kafka publisher: %w", err)
	}
	r.cleanup = append(r.cleanup, func(context.Context) { _ = publisher.Close() })
	return publisher, nil
}

var defaultIrisModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-latest",
	"ollama":    "llama3.2",
}

// buildCompletion wraps the configured backend with tracing and outbound pacing.
func buildCompletion(cfg Config, tp trace.TracerProvider, logger *slog.Logger) (ports.CompletionClient, error) {
	var (
		client ports.CompletionClient
		err    error
	)
	switch cfg.CompletionProvider {
	case "none":
		return completion.Unavailable{}, nil
	case "gemini":
		if cfg.CompletionAPIKey == "" {
			logger.Warn("GEMINI_API_KEY not set; chat will answer from fallbacks",
				"service", "suckdsa",
				"module", "completion",
				"layer", "bootstrap",
			)
			return completion.Unavailable{}, nil
		}
		client, err = completion.NewGeminiClient(completion.GeminiConfig{
			Model:   cfg.CompletionModel,
			APIKey:  cfg.CompletionAPIKey,
			Timeout: cfg.CompletionTimeout,
		})
	default:
		model := cfg.CompletionModel
		if model == "" {
			model = defaultIrisModels[cfg.CompletionProvider]
		}
		client, err = completion.NewIrisClient(cfg.CompletionProvider, cfg.CompletionAPIKey, model)
	}
	if err != nil {
		return nil, fmt.Errorf("init completion client: %w", err)
	}
	traced := completion.NewTraced(client, cfg.CompletionProvider, tp)
	return completion.NewPaced(traced, cfg.CompletionRPS, cfg.CompletionBurst), nil
}

func (r *Runtime) runCleanup(ctx context.Context) {
	for i := len(r.cleanup) - 1; i >= 0; i-- {
		r.cleanup[i](ctx)
	}
	r.cleanup = nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	r.maintenance.Start()

	var runErr error
	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		r.logger.Error("server failure", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	select {
	case <-r.maintenance.Stop().Done():
	case <-shutdownCtx.Done():
	}
	r.runCleanup(shutdownCtx)
	return runErr
}
