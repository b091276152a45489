// Wires storage, services and HTTP transport, then runs until SIGINT/SIGTERM.
package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/mmk_universe/config"
	"github.com/ds124wfegd/mmk_universe/internal/database/otp"
	repository "github.com/ds124wfegd/mmk_universe/internal/database/postgres"
	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/ds124wfegd/mmk_universe/internal/pkg/mailer"
	"github.com/ds124wfegd/mmk_universe/internal/pkg/processor"
	"github.com/ds124wfegd/mmk_universe/internal/pkg/storage"
	"github.com/ds124wfegd/mmk_universe/internal/pkg/token"
	"github.com/ds124wfegd/mmk_universe/internal/service"
	"github.com/ds124wfegd/mmk_universe/internal/transport"
	"github.com/ds124wfegd/mmk_universe/internal/worker"
	"github.com/ds124wfegd/mmk_universe/pkg/postgres"
	"github.com/ds124wfegd/mmk_universe/pkg/redis"
	"github.com/ds124wfegd/mmk_universe/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	paymentRepo := repository.NewPaymentRepository(db)
	attendeeRepo := repository.NewAttendeeRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	userRepo := repository.NewUserRepository(db)

	var otpStore otp.Store
	if cfg.Redis.Host != "" {
		redisClient, err := redis.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		otpStore = otp.NewRedisStore(redisClient)
		logrus.Info("OTP store backed by Redis")
	} else {
		otpStore = otp.NewMemoryStore()
		logrus.Warn("Redis host not configured, OTPs are kept in memory")
	}

	files, err := storage.NewFileStorage(cfg.Uploads.Dir)
	if err != nil {
		logrus.Fatalf("Failed to prepare uploads directory: %v", err)
	}

	var notifier service.AdminNotifier
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		notifier = telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		logrus.Info("Telegram admin alerts enabled")
	}

	mail := mailer.New(cfg.Email)
	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		logrus.Fatalf("Invalid JWT configuration, set JWT_SECRET: %v", err)
	}

	paymentService := service.NewPaymentService(
		paymentRepo, attendeeRepo, targetRepo,
		files, processor.NewScreenshotProcessor(cfg.Uploads.MaxSide, cfg.Uploads.Quality, cfg.Uploads.MaxPixels),
		mail, notifier,
	)
	targetService := service.NewTargetService(targetRepo, attendeeRepo)
	authService := service.NewAuthService(userRepo, otpStore, mail, tokens, cfg.Redis.OTPTTL, cfg.Auth.AdminEmails)

	sweeper := worker.NewUploadSweeper(files, paymentRepo, cfg.Worker.SweepInterval, cfg.Worker.SweepGrace)
	go sweeper.Start(ctx)

	if cfg.Server.Mode == "release" || cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := &transport.Handlers{
		EventPayments:   transport.NewPaymentHandler(paymentService, entity.KindEvent, cfg.Uploads.MaxBytes),
		ProgramPayments: transport.NewPaymentHandler(paymentService, entity.KindProgram, cfg.Uploads.MaxBytes),
		Events:          transport.NewTargetHandler(targetService, entity.KindEvent),
		Programs:        transport.NewTargetHandler(targetService, entity.KindProgram),
		Attendees:       transport.NewAttendeeHandler(targetService),
		Auth:            transport.NewAuthHandler(authService),
	}
	router := transport.InitRoutes(handlers, tokens, transport.RouterConfig{
		UploadsDir:     files.Dir(),
		AllowOrigins:   cfg.Server.AllowOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("version", cfg.Server.AppVersion).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
