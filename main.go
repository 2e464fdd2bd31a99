package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-site-backend/api"
	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/mediastore"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(config.New())
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogger(cfg)
	log.Info().Str("env", cfg.Environment).Msg("Initializing app...")

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  cfg.Environment != "production",
		},
	)

	db, err := database.Open(cfg.Database, gormLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}
	currentDB := database.New(db)

	store, err := mediastore.NewS3Store(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing media store")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Leave the interfaces nil when a channel is not configured
	var mailer services.Mailer
	if smtp := services.NewSMTPMailer(cfg.Mail); smtp != nil {
		mailer = smtp
	} else {
		log.Warn().Msg("SMTP not configured, contact emails are disabled")
	}
	var sms services.SMSSender
	if twilio := services.NewTwilioSMS(cfg.SMS); twilio != nil {
		sms = twilio
	}

	limiter := api.NewRateLimiter(cfg.Redis)
	defer limiter.Close()

	settings := services.NewSettingsService(currentDB.SettingsRepo(), cfg.Mail.Enabled(), cfg.Mail.AdminEmail)
	projects := services.NewProjectService(currentDB.ProjectRepo())

	server, err := api.NewServer(cfg, api.Dependencies{
		Projects: projects,
		Media:    services.NewMediaService(currentDB.ProjectRepo(), store, services.NewOEmbedTitleLookup(), m, cfg.Storage.RootFolder),
		Auth:     services.NewAuthService(currentDB.UserRepo(), issuer),
		Contacts: services.NewContactService(currentDB.ContactRepo(), mailer, sms, settings, m),
		Profile:  services.NewProfileService(currentDB.ProfileRepo(), store, m, cfg.Storage.RootFolder),
		Settings: settings,
		DB:       currentDB.SettingsRepo(),
		Limiter:  limiter,
		Metrics:  m,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	// both the server and the signal listener may send
	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogger(cfg config.App) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Environment != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
