package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mynotif/mynotif/internal/config"
	"github.com/mynotif/mynotif/internal/domain/account"
	"github.com/mynotif/mynotif/internal/domain/device"
	"github.com/mynotif/mynotif/internal/domain/notification"
	"github.com/mynotif/mynotif/internal/domain/nurse"
	"github.com/mynotif/mynotif/internal/domain/patient"
	"github.com/mynotif/mynotif/internal/domain/prescription"
	"github.com/mynotif/mynotif/internal/platform/auth"
	"github.com/mynotif/mynotif/internal/platform/blobstore"
	"github.com/mynotif/mynotif/internal/platform/db"
	"github.com/mynotif/mynotif/internal/platform/email"
	"github.com/mynotif/mynotif/internal/platform/middleware"
	"github.com/mynotif/mynotif/internal/platform/push"
)

// version is overridable at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mynotif-server",
		Short: "Home-care nurse back office API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(notifyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// notifyCmd runs the expiry campaign once and exits. It is the entry point
// for the scheduled job (cron or equivalent).
func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Send the prescription-expiry push campaign once",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			sender, err := push.NewClient(push.Config{
				AppID:  cfg.OneSignalAppID,
				APIKey: cfg.OneSignalAPIKey,
			})
			if err != nil {
				return err
			}

			engine, cleanup, err := buildEngine(ctx, cfg, pool, sender, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			return engine.Run(ctx)
		},
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

// buildEngine wires the notification pipeline from its domain services. The
// returned cleanup closes the redis ledger when one is configured.
func buildEngine(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, sender push.Sender, logger zerolog.Logger) (*notification.Engine, func(), error) {
	nurseSvc := nurse.NewService(nurse.NewRepoPG(pool))
	prescriptionSvc := prescription.NewService(prescription.NewRepoPG(pool), nurse.NewCareTeamAdapter(nurseSvc), nil, nil)
	deviceSvc := device.NewService(device.NewRepoPG(pool))

	cleanup := func() {}
	var ledger notification.Ledger
	if cfg.RedisURL != "" {
		redisLedger, err := notification.NewRedisLedger(ctx, cfg.RedisURL, time.Duration(cfg.NotifySuppressHours)*time.Hour)
		if err != nil {
			return nil, nil, fmt.Errorf("redis ledger: %w", err)
		}
		ledger = redisLedger
		cleanup = func() { redisLedger.Close() }
		logger.Info().Msg("notification suppression ledger enabled")
	}

	engine := notification.NewEngine(prescriptionSvc, nurseSvc, deviceSvc, sender, ledger, logger)
	engine.SetHorizon(time.Duration(cfg.ExpiringSoonDays) * 24 * time.Hour)
	return engine, cleanup, nil
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Platform services
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	var blobs blobstore.Store
	if cfg.IsProduction() {
		s3Store, err := blobstore.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialise S3 blob store")
		}
		blobs = s3Store
	} else {
		blobs = blobstore.NewMemoryStore()
		logger.Warn().Msg("using in-memory blob store; documents do not survive restarts")
	}

	var mail email.Sender
	if cfg.EmailHost != "" {
		smtpSender, err := email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.EmailHost,
			Port:     cfg.EmailPort,
			Username: cfg.EmailHostUser,
			Password: cfg.EmailHostPassword,
			From:     cfg.EmailFrom,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialise SMTP sender")
		}
		mail = smtpSender
	} else {
		logger.Warn().Msg("EMAIL_HOST not set; doctor emails are disabled")
	}

	// Domain services
	nurseSvc := nurse.NewService(nurse.NewRepoPG(pool))
	careTeam := nurse.NewCareTeamAdapter(nurseSvc)

	accountSvc := account.NewService(account.NewRepoPG(pool), issuer)
	accountSvc.SetProvisioner(nurse.NewProvisionAdapter(nurseSvc))

	patientSvc := patient.NewService(patient.NewRepoPG(pool), careTeam)
	prescriptionSvc := prescription.NewService(prescription.NewRepoPG(pool), careTeam, blobs, mail)
	deviceSvc := device.NewService(device.NewRepoPG(pool))

	// Push dispatch is optional: without OneSignal credentials the manual
	// trigger endpoint is simply not registered.
	var engineHandler *notification.Handler
	cleanup := func() {}
	if sender, err := push.NewClient(push.Config{AppID: cfg.OneSignalAppID, APIKey: cfg.OneSignalAPIKey}); err != nil {
		logger.Warn().Err(err).Msg("push dispatch disabled")
	} else {
		engine, c, err := buildEngine(ctx, cfg, pool, sender, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build notification engine")
		}
		cleanup = c
		engineHandler = notification.NewHandler(engine)
	}
	defer cleanup()

	// Routes
	e.GET("/health", db.HealthHandler(pool))

	public := e.Group("/api/v1")
	public.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"version": version})
	})
	api := e.Group("/api/v1")
	if cfg.IsDev() && cfg.JWTSecret == "" {
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.TokenMiddleware(issuer))
	}

	account.NewHandler(accountSvc).RegisterRoutes(public, api)
	nurse.NewHandler(nurseSvc).RegisterRoutes(api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	prescription.NewHandler(prescriptionSvc).RegisterRoutes(api)
	device.NewHandler(deviceSvc).RegisterRoutes(api)
	if engineHandler != nil {
		engineHandler.RegisterRoutes(api)
	}

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("starting server")
	return e.Start(addr)
}
