package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cauamenezes/sistema-timesheet/internal/application/auth"
	"github.com/cauamenezes/sistema-timesheet/internal/application/onboarding"
	"github.com/cauamenezes/sistema-timesheet/internal/application/timesheet"
	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/mail"
	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/metrics"
	infrapdf "github.com/cauamenezes/sistema-timesheet/internal/infrastructure/pdf"
	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/postgres"
	infraxlsx "github.com/cauamenezes/sistema-timesheet/internal/infrastructure/xlsx"
	httpRouter "github.com/cauamenezes/sistema-timesheet/internal/interfaces/http"
	"github.com/cauamenezes/sistema-timesheet/pkg/config"
	"github.com/cauamenezes/sistema-timesheet/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("smtp", cfg.SMTP.Enabled()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	employeeRepo := postgres.NewEmployeeRepository(pool)
	timesheetRepo := postgres.NewTimesheetRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	m := metrics.NewMetrics()
	mailer := mail.NewSMTPMailer(cfg.SMTP, log.Named("mail")).WithRecorder(m)
	if !mailer.Enabled() {
		log.Warn().Msg("SMTP_HOST vacío: correo deshabilitado (recuperación de contraseña y envío de timesheets)")
	}
	if cfg.Mail.FinanceEmail == "" {
		log.Warn().Msg("FINANCE_EMAIL vacío: las submisiones no enviarán resumen")
	}

	authUC := auth.NewAuthUseCase(employeeRepo, mailer, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, auth.ResetConfig{FrontendURL: cfg.Mail.FrontendURL}, log.Named("auth"))
	onboardingUC := onboarding.NewOnboardingUseCase(txRunner, employeeRepo)
	timesheetUC := timesheet.NewTimesheetUseCase(
		txRunner, timesheetRepo, employeeRepo, mailer,
		infrapdf.NewMarotoTimesheetReport(), infraxlsx.NewExcelizeExporter(),
		cfg.Mail.FinanceEmail, log.Named("timesheet"),
	).WithRecorder(m)

	errs := httpRouter.ErrorWriter{Log: log.Named("http"), Dev: cfg.App.IsDevelopment()}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(errs),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(httpRouter.RequestLogger(log.Named("http"), m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Sistema Timesheet API",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:            authUC,
		OnboardingUC:      onboardingUC,
		TimesheetUC:       timesheetUC,
		DB:                pool,
		JWTSecret:         cfg.JWT.Secret,
		Errors:            errs,
		AllowSelfRegister: cfg.Auth.AllowSelfRegister,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
