package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/handler"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/notification"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/becbilldesk-api/shared/auth"
	"github.com/vasapolrittideah/becbilldesk-api/shared/logger"
	"github.com/vasapolrittideah/becbilldesk-api/shared/mailer"
	"github.com/vasapolrittideah/becbilldesk-api/shared/registry"
	"github.com/vasapolrittideah/becbilldesk-api/shared/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.AppEnv, cfg.LogLevel, cfg.Service.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()

	if err != nil {
		log.Fatal().Err(err).Msg("auth service stopped")
	}
}

func run(ctx context.Context, cfg *config.AuthServiceConfig, log *zerolog.Logger) error {
	client, err := connectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	db := client.Database(cfg.Mongo.Database)

	userRepo, err := repository.NewUserMongoRepository(ctx, db)
	if err != nil {
		return fmt.Errorf("init user repository: %w", err)
	}

	var sender notification.Sender
	if cfg.Mailer.Enabled() {
		m, err := mailer.NewMailer(cfg.Mailer)
		if err != nil {
			return fmt.Errorf("init mailer: %w", err)
		}
		sender = m
	} else {
		log.Warn().Msg("smtp is not configured, emails will only be logged")
	}
	notifier := notification.NewEmailNotifier(sender, cfg.DashboardURL, log)

	authUsecase := usecase.NewAuthUsecase(userRepo, notifier, cfg.Token.VerificationCodeExpiresIn, log)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(
		userRepo,
		notifier,
		cfg.ClientURL,
		cfg.Token.PasswordResetTokenExpiresIn,
		log,
	)

	requestValidator, err := validator.New()
	if err != nil {
		return fmt.Errorf("init validator: %w", err)
	}

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.SessionSecret, cfg.Token.Issuer, cfg.Token.Issuer)
	sessions := auth.NewSessionManager(jwtAuth, cfg.Token.SessionExpiresIn, cfg.IsProduction())

	pinger := handler.PingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           handler.NewRouter(authUsecase, passwordResetUsecase, sessions, requestValidator, pinger, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	deregister, err := registerService(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to register with consul")
	}

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	if deregister != nil {
		deregister()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}

// registerService registers the instance with Consul when an agent address is
// configured. The returned func deregisters it.
func registerService(cfg *config.AuthServiceConfig, log *zerolog.Logger) (func(), error) {
	if cfg.Consul.Address == "" {
		return nil, nil
	}

	consul, err := registry.NewConsulRegistry(cfg.Consul.Address, log)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(cfg.Service.Address, strconv.Itoa(cfg.HTTP.Port))
	svc := registry.Service{
		ID:        cfg.Service.Name + "-" + uuid.NewString(),
		Name:      cfg.Service.Name,
		Address:   cfg.Service.Address,
		Port:      cfg.HTTP.Port,
		HealthURL: "http://" + addr + "/healthz",
		Tags:      []string{"http", "auth"},
	}

	if err := consul.Register(svc); err != nil {
		return nil, err
	}

	return func() {
		if err := consul.Deregister(svc.ID); err != nil {
			log.Error().Err(err).Msg("failed to deregister from consul")
		}
	}, nil
}
