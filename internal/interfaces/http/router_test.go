package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cauamenezes/sistema-timesheet/internal/application/auth"
	"github.com/cauamenezes/sistema-timesheet/internal/application/dto"
	"github.com/cauamenezes/sistema-timesheet/internal/application/onboarding"
	"github.com/cauamenezes/sistema-timesheet/internal/application/timesheet"
	"github.com/cauamenezes/sistema-timesheet/internal/domain"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/pdf"
	"github.com/cauamenezes/sistema-timesheet/internal/infrastructure/xlsx"
	apphttp "github.com/cauamenezes/sistema-timesheet/internal/interfaces/http"
	"github.com/cauamenezes/sistema-timesheet/internal/testsupport/memstore"
	"github.com/cauamenezes/sistema-timesheet/pkg/logger"
)

const testPassword = "senha123"

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type httpObserver struct {
	routes   []string
	statuses []int
}

func (o *httpObserver) ObserveHTTP(_, route string, status int, _ time.Duration) {
	o.routes = append(o.routes, route)
	o.statuses = append(o.statuses, status)
}

type server struct {
	app      *fiber.App
	store    *memstore.Store
	mailer   *memstore.Mailer
	observer *httpObserver
}

type serverOpts struct {
	dev           bool
	allowRegister bool
	db            apphttp.Pinger
}

func newServer(t *testing.T, opts serverOpts) *server {
	t.Helper()
	s := &server{store: memstore.New(), mailer: &memstore.Mailer{}, observer: &httpObserver{}}
	log := logger.Nop()
	errs := apphttp.ErrorWriter{Log: log, Dev: opts.dev}

	authUC := auth.NewAuthUseCase(s.store.Employees(), s.mailer,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 480, Issuer: testIssuer},
		auth.ResetConfig{FrontendURL: "http://localhost:5500"}, log)
	onboardingUC := onboarding.NewOnboardingUseCase(s.store, s.store.Employees())
	timesheetUC := timesheet.NewTimesheetUseCase(s.store, s.store.Entries(), s.store.Employees(),
		s.mailer, pdf.NewMarotoTimesheetReport(), xlsx.NewExcelizeExporter(), "financeiro@cidic.com.br", log)

	db := opts.db
	if db == nil {
		db = fakePinger{}
	}
	s.app = fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(errs)})
	s.app.Use(apphttp.RequestLogger(log, s.observer))
	apphttp.Router(s.app, apphttp.RouterDeps{
		AuthUC:            authUC,
		OnboardingUC:      onboardingUC,
		TimesheetUC:       timesheetUC,
		DB:                db,
		JWTSecret:         testJWTSecret,
		Errors:            errs,
		AllowSelfRegister: opts.allowRegister,
	})
	return s
}

func (s *server) seed(t *testing.T, name, email, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	emp := &entity.Employee{FullName: name, Email: email, CPF: email, Role: role, Active: true, PasswordHash: string(hash)}
	require.NoError(t, s.store.Employees().Create(context.Background(), emp))
}

func (s *server) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rdr = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *server) login(t *testing.T, email string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: email, Password: testPassword})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ── Flujo completo ───────────────────────────────────────────────────────────

func TestTimesheets_FlujoDraftSubmitted(t *testing.T) {
	s := newServer(t, serverOpts{})
	s.seed(t, "Ana Souza", "ana@cidic.com.br", entity.RoleConsultant)
	token := s.login(t, "ana@cidic.com.br")

	resp := s.do(t, http.MethodPost, "/timesheets", token, map[string]any{
		"cliente_id": 7, "projeto_id": 42, "data": "2024-03-04", "horas": 2.5, "descricao": "Reunião",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CreateEntryResponse](t, resp)
	require.NotZero(t, created.ID)

	drafts := decode[[]dto.EntryResponse](t, s.do(t, http.MethodGet, "/timesheets?status=draft", token, nil))
	require.Len(t, drafts, 1)
	assert.Equal(t, created.ID, drafts[0].ID)
	assert.Equal(t, "Ana Souza", drafts[0].FullName)
	assert.Equal(t, 2.5, drafts[0].Hours)

	resp = s.do(t, http.MethodPost, "/timesheets/submit", token, dto.SubmitRequest{From: "2024-03-01", To: "2024-03-31"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sub := decode[dto.SubmitResponse](t, resp)
	assert.True(t, sub.OK)
	assert.Equal(t, 2.5, sub.TotalHours)
	assert.Equal(t, 1, sub.Count)
	require.NotNil(t, sub.SentTo)
	assert.Equal(t, "financeiro@cidic.com.br", *sub.SentTo)

	submitted := decode[[]dto.EntryResponse](t, s.do(t, http.MethodGet, "/timesheets?status=submitted", token, nil))
	require.Len(t, submitted, 1)
	assert.Equal(t, created.ID, submitted[0].ID)

	drafts = decode[[]dto.EntryResponse](t, s.do(t, http.MethodGet, "/timesheets?status=draft", token, nil))
	assert.Empty(t, drafts)

	sent := s.mailer.Sent()
	require.Len(t, sent, 1)
	require.Len(t, sent[0].Attachments, 1)

	// Segunda submisión del mismo período: nada pendiente.
	resp = s.do(t, http.MethodPost, "/timesheets/submit", token, dto.SubmitRequest{From: "2024-03-01", To: "2024-03-31"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NO_ENTRIES", decode[dto.ErrorResponse](t, resp).Code)
}

func TestTimesheets_ReportYExport(t *testing.T) {
	s := newServer(t, serverOpts{})
	s.seed(t, "Ana Souza", "ana@cidic.com.br", entity.RoleConsultant)
	token := s.login(t, "ana@cidic.com.br")
	resp := s.do(t, http.MethodPost, "/timesheets", token, map[string]any{
		"cliente_id": 1, "projeto_id": 2, "data": "2024-03-05", "horas": "8", "descricao": "Desenvolvimento",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/timesheets/report?from=2024-03-01&to=2024-03-31", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "timesheet_1_2024-03-01_2024-03-31.pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp = s.do(t, http.MethodGet, "/timesheets/export?status=draft", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "spreadsheetml")
	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "xlsx es un zip")

	// Report exige período.
	resp = s.do(t, http.MethodGet, "/timesheets/report", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTimesheets_ErroresDeEntrada(t *testing.T) {
	s := newServer(t, serverOpts{})
	s.seed(t, "Ana Souza", "ana@cidic.com.br", entity.RoleConsultant)
	token := s.login(t, "ana@cidic.com.br")

	resp := s.do(t, http.MethodPost, "/timesheets", token, "{no-json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodPost, "/timesheets", token, map[string]any{
		"cliente_id": 1, "projeto_id": 2, "data": "04/03/2024", "horas": 2,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodGet, "/timesheets?status=aprovado", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/timesheets?colaborador_id=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/timesheets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestAuth_LoginYRecuperacion(t *testing.T) {
	s := newServer(t, serverOpts{})
	s.seed(t, "Ana Souza", "ana@cidic.com.br", entity.RoleConsultant)

	resp := s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "ana@cidic.com.br", Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodPost, "/auth/recover", "", dto.RecoverRequest{Email: "ana@cidic.com.br"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.OKResponse](t, resp).OK)
	require.Len(t, s.mailer.Sent(), 1)

	emp, err := s.store.Employees().GetByEmail(context.Background(), "ana@cidic.com.br")
	require.NoError(t, err)
	require.NotEmpty(t, emp.ResetToken)

	resp = s.do(t, http.MethodPost, "/auth/reset", "", dto.ResetRequest{Token: emp.ResetToken, NewPassword: "nova-senha"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "ana@cidic.com.br", Password: "nova-senha"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/auth/recover", "", dto.RecoverRequest{Email: "ninguem@cidic.com.br"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuth_RegisterDeshabilitadoPorDefecto(t *testing.T) {
	s := newServer(t, serverOpts{})
	resp := s.do(t, http.MethodPost, "/auth/register", "", dto.SelfRegisterRequest{FullName: "X", Email: "x@y.z", Password: "123456"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	s = newServer(t, serverOpts{allowRegister: true})
	resp = s.do(t, http.MethodPost, "/auth/register", "", dto.SelfRegisterRequest{FullName: "X", Email: "x@y.z", Password: "123456"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, entity.RoleConsultant, out.Role)
	assert.NotEmpty(t, out.Token)
}

// ── Colaboradores ────────────────────────────────────────────────────────────

func TestColaboradores_SoloAdm(t *testing.T) {
	s := newServer(t, serverOpts{})
	s.seed(t, "Carla Admin", "carla@cidic.com.br", entity.RoleAdmin)
	s.seed(t, "Ana Souza", "ana@cidic.com.br", entity.RoleConsultant)
	adm := s.login(t, "carla@cidic.com.br")
	consultor := s.login(t, "ana@cidic.com.br")

	body := dto.RegisterEmployeeRequest{
		FullName: "Diego Reis", CPF: "123.456.789-00", Email: "diego@cidic.com.br", Password: "senha123",
		TradeName: "Reis Consultoria", CNPJ: "12.345.678/0001-90",
		Agency: "0001", Account: "12345-6", PixKey: "diego@cidic.com.br",
	}

	resp := s.do(t, http.MethodPost, "/colaboradores/cadastro", consultor, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/colaboradores/cadastro", adm, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Colaborador cadastrado com sucesso", decode[dto.MessageResponse](t, resp).Message)
	assert.Equal(t, 1, s.store.CompanyCount())
	assert.Equal(t, 1, s.store.BankCount())

	resp = s.do(t, http.MethodPost, "/colaboradores/cadastro", adm, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	list := decode[[]dto.EmployeeListItem](t, s.do(t, http.MethodGet, "/colaboradores/listagem", adm, nil))
	require.Len(t, list, 3)
	assert.Equal(t, "diego@cidic.com.br", list[0].Email)

	resp = s.do(t, http.MethodGet, "/colaboradores/listagem", consultor, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ── Salud, errores y middleware ──────────────────────────────────────────────

func TestHealth(t *testing.T) {
	s := newServer(t, serverOpts{})
	resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, bodyString(t, resp))

	resp = s.do(t, http.MethodGet, "/db/health", "", nil)
	assert.JSONEq(t, `{"db":"ok"}`, bodyString(t, resp))
}

func TestDBHealth_DetalleSoloEnDesarrollo(t *testing.T) {
	down := fakePinger{err: errors.New("connection refused")}

	s := newServer(t, serverOpts{db: down})
	resp := s.do(t, http.MethodGet, "/db/health", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"db":"error"}`, bodyString(t, resp))

	s = newServer(t, serverOpts{db: down, dev: true})
	resp = s.do(t, http.MethodGet, "/db/health", "", nil)
	assert.JSONEq(t, `{"db":"error","detail":"connection refused"}`, bodyString(t, resp))
}

func TestErrorWriter_Clasificacion(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		dev    bool
		status int
		code   string
		detail bool
	}{
		{"validación con mensaje", domain.E(domain.ErrInvalidInput, "horas inválidas"), false, 400, "VALIDATION", false},
		{"conflicto envuelto", errors.Join(errors.New("insert"), domain.ErrConflict), false, 409, "CONFLICT", false},
		{"correo no disponible en dev", domain.ErrMailUnavailable, true, 500, "MAIL_UNAVAILABLE", true},
		{"desconocido en prod", errors.New("boom"), false, 500, "INTERNAL", false},
		{"desconocido en dev", errors.New("boom"), true, 500, "INTERNAL", true},
		{"fiber 404", fiber.ErrNotFound, false, 404, "HTTP_404", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := apphttp.ErrorWriter{Log: logger.Nop(), Dev: tc.dev}
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return w.Write(c, tc.err) })
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tc.detail, body.Detail != "")
		})
	}
}

func TestErrorWriter_MensajeDelDominio(t *testing.T) {
	w := apphttp.ErrorWriter{Log: logger.Nop()}
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return w.Write(c, domain.E(domain.ErrConflict, "CPF já cadastrado"))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "CPF já cadastrado", decode[dto.ErrorResponse](t, resp).Error)
}

func TestRequestLogger_RequestIDYMetricas(t *testing.T) {
	s := newServer(t, serverOpts{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp = s.do(t, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID), "se genera uno si no llega")

	resp = s.do(t, http.MethodGet, "/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.Len(t, s.observer.statuses, 3)
	assert.Equal(t, "/health", s.observer.routes[0])
	assert.Equal(t, http.StatusNotFound, s.observer.statuses[2])
}
