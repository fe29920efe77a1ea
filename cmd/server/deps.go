package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"inventory/internal/auth"
	"inventory/internal/cache"
	"inventory/internal/config"
	"inventory/internal/db"
	"inventory/internal/handler"
	"inventory/internal/mailer"
	"inventory/internal/repository"
	"inventory/internal/service"
)

// app holds the wired dependencies shared by the subcommands.
type app struct {
	cfg   *config.Config
	db    *gorm.DB
	cache *cache.Client

	jwt       *auth.JWTService
	userRepo  repository.UserRepository
	resetRepo repository.ResetTokenRepository

	authService    service.AuthService
	userService    service.UserService
	contactService service.ContactService
}

// newApp connects to MySQL and Redis and builds repositories and services.
func newApp(cfg *config.Config) (*app, error) {
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB, hasher)
	resetRepo := repository.NewResetTokenRepository(gormDB)

	smtp := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
	})

	// Initialize services
	resetService := service.NewResetService(userRepo, resetRepo, cfg.ResetTokenTTL)
	authService := service.NewAuthService(userRepo, hasher, jwtService, resetService, smtp, service.AuthSettings{
		FrontendURL: cfg.FrontendURL,
		EmailFrom:   cfg.EmailFrom,
	})

	return &app{
		cfg:            cfg,
		db:             gormDB,
		cache:          cacheClient,
		jwt:            jwtService,
		userRepo:       userRepo,
		resetRepo:      resetRepo,
		authService:    authService,
		userService:    service.NewUserService(userRepo, cacheClient),
		contactService: service.NewContactService(userRepo, smtp, cfg.EmailFrom, cfg.SupportEmail),
	}, nil
}

func (a *app) handlers() (*handler.AuthHandler, *handler.UserHandler, *handler.ContactHandler) {
	return handler.NewAuthHandler(a.authService, handler.CookieConfig{Secure: a.cfg.CookieSecure}),
		handler.NewUserHandler(a.userService),
		handler.NewContactHandler(a.contactService)
}

// Close releases the database pool and the cache client.
func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		log.Warn().Err(err).Msg("close cache")
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}
}
