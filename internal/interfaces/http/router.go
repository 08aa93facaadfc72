package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cauamenezes/sistema-timesheet/internal/application/auth"
	"github.com/cauamenezes/sistema-timesheet/internal/application/onboarding"
	"github.com/cauamenezes/sistema-timesheet/internal/application/timesheet"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC            *auth.AuthUseCase
	OnboardingUC      *onboarding.OnboardingUseCase
	TimesheetUC       *timesheet.TimesheetUseCase
	DB                Pinger
	JWTSecret         string
	Errors            ErrorWriter
	AllowSelfRegister bool
}

// Router registra las rutas de la API. Las rutas cuelgan de la raíz: el front-end
// existente llama /auth/login, /timesheets, etc. sin prefijo.
func Router(app fiber.Router, deps RouterDeps) {
	health := NewHealthHandler(deps.DB, deps.Errors)
	app.Get("/health", health.Health)
	app.Get("/db/health", health.DB)

	// Auth (público)
	authGroup := app.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Errors, deps.AllowSelfRegister)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/recover", authHandler.Recover)
	authGroup.Post("/reset", authHandler.Reset)
	authGroup.Post("/register", authHandler.Register)

	authn := AuthMiddleware(deps.JWTSecret)

	// Colaboradores (solo adm)
	employees := app.Group("/colaboradores", authn, RequireRole(entity.RoleAdmin))
	employeeHandler := NewEmployeeHandler(deps.OnboardingUC, deps.Errors)
	employees.Post("/cadastro", employeeHandler.Register)
	employees.Get("/listagem", employeeHandler.List)

	// Timesheets (cualquier perfil autenticado)
	timesheets := app.Group("/timesheets", authn)
	timesheetHandler := NewTimesheetHandler(deps.TimesheetUC, deps.Errors)
	timesheets.Post("/", timesheetHandler.Create)
	timesheets.Get("/", timesheetHandler.List)
	timesheets.Post("/submit", timesheetHandler.Submit)
	timesheets.Get("/report", timesheetHandler.Report)
	timesheets.Get("/export", timesheetHandler.Export)
}
