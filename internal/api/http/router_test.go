package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Behnamfe76/expense-ledger/internal/api/http/handlers"
	"github.com/Behnamfe76/expense-ledger/internal/auth"
	"github.com/Behnamfe76/expense-ledger/internal/events"
	"github.com/Behnamfe76/expense-ledger/internal/observability"
	"github.com/Behnamfe76/expense-ledger/internal/service"
	"github.com/Behnamfe76/expense-ledger/internal/testutil"
)

var today = time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	app   *fiber.App
	store *testutil.Store
}

func newTestServer(t *testing.T, authMiddleware *auth.AuthMiddleware) *testServer {
	t.Helper()
	store := testutil.NewStore()
	deps := service.Dependencies{
		DepartmentRepo: store.Departments(),
		ExpenseRepo:    store.Expenses(),
		Dispatcher:     events.NewInMemoryDispatcher(),
		Clock:          func() time.Time { return today },
	}
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, MiddlewareConfig{Timeout: time.Second, CORSAllowOrigins: "*"})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("expense-ledger", "test", stubPinger{}, nil, metrics),
		Departments:    handlers.NewDepartmentsHandler(service.NewDepartmentService(deps)),
		Expenses:       handlers.NewExpensesHandler(service.NewExpenseService(deps)),
		AuthMiddleware: authMiddleware,
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func errorMessage(t *testing.T, raw []byte) string {
	return decode[map[string]string](t, raw)["error"]
}

func TestCreateDepartment_Endpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	status, raw := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 301, "monto": 50000}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	body := decode[map[string]any](t, raw)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, float64(301), body["numero"])
	assert.Equal(t, float64(50000), body["monto"])
	assert.Equal(t, true, body["estado"])
}

func TestCreateDepartment_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		msg         string
	}{
		{name: "wrong content type", body: `{"numero":1,"monto":1}`, contentType: "text/plain", msg: "El Content-Type debe ser application/json"},
		{name: "empty object", body: `{}`, msg: "No se recibieron datos"},
		{name: "missing monto", body: `{"numero": 3}`, msg: "Faltan campos requeridos (numero, monto)"},
		{name: "non numeric", body: `{"numero": "tres", "monto": 1}`, msg: "Los campos deben ser numéricos"},
		{name: "null value", body: `{"numero": null, "monto": 1}`, msg: "Los campos deben ser numéricos"},
		{name: "zero numero", body: `{"numero": 0, "monto": 1}`, msg: "El número de departamento debe ser positivo"},
		{name: "fraction truncates to zero", body: `{"numero": "0.9", "monto": 1}`, msg: "El número de departamento debe ser positivo"},
		{name: "negative monto", body: `{"numero": 2, "monto": -1}`, msg: "El monto no puede ser negativo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil)
			var headers []string
			if tt.contentType != "" {
				headers = []string{"Content-Type", tt.contentType}
			}
			status, raw := srv.do(t, fiber.MethodPost, "/departamentos", tt.body, headers...)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tt.msg, errorMessage(t, raw))
		})
	}
}

func TestCreateDepartment_StringNumbersTruncate(t *testing.T) {
	srv := newTestServer(t, nil)

	status, raw := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": "5", "monto": "5.9"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	body := decode[map[string]any](t, raw)
	assert.Equal(t, float64(5), body["numero"])
	assert.Equal(t, float64(5), body["monto"])
}

func TestCreateDepartment_DuplicateIsConflict(t *testing.T) {
	srv := newTestServer(t, nil)

	status, _ := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 301, "monto": 50000}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, raw := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 301, "monto": 1}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "El departamento número 301 ya está registrado", errorMessage(t, raw))
}

func TestListDepartments_Endpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, n := range []string{"30", "10", "20"} {
		status, _ := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": `+n+`, "monto": 100}`)
		require.Equal(t, fiber.StatusCreated, status)
	}

	status, raw := srv.do(t, fiber.MethodGet, "/departamentos", "")
	require.Equal(t, fiber.StatusOK, status)
	depts := decode[[]map[string]any](t, raw)
	require.Len(t, depts, 3)
	assert.Equal(t, float64(10), depts[0]["numero"])
	assert.Equal(t, float64(30), depts[2]["numero"])
}

func TestListDepartments_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t, nil)

	status, raw := srv.do(t, fiber.MethodGet, "/departamentos", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestListDepartments_StoreErrorLeaksMessage(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.store.FailDepartmentList = errors.New("JWT expired")

	status, raw := srv.do(t, fiber.MethodGet, "/departamentos", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "JWT expired", errorMessage(t, raw))
}

func TestCreateDepartment_StoreErrorIsGeneric(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.store.FailDepartmentCreate = errors.New("insert failed: disk full")

	status, raw := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 1, "monto": 1}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Error interno del servidor", errorMessage(t, raw))
}

func TestExpenseWorkflow(t *testing.T) {
	srv := newTestServer(t, nil)

	status, _ := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 301, "monto": 50000}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, raw := srv.do(t, fiber.MethodPost, "/gastos/generar", `{"id_depa": 1, "monto_gasto": 20000}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	assert.JSONEq(t, `{
		"id_gastos": 1, "id_depa": 1, "monto_gasto": 20000,
		"fecha_emision": "2024-05-02", "total_pago": 70000,
		"pago": false, "fecha_pago": null, "numero_depto": 301
	}`, string(raw))

	status, raw = srv.do(t, fiber.MethodGet, "/departamentos/estado", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[{"id":1,"numero":301,"monto":50000,"estado":true,"gastos_pendientes":1,"total_adeudado":70000}]`, string(raw))

	status, raw = srv.do(t, fiber.MethodPut, "/gastos/1/pago", `{"pago": true}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.JSONEq(t, `{
		"id_gastos": 1, "id_depa": 1, "monto_gasto": 20000,
		"fecha_emision": "2024-05-02", "total_pago": 70000,
		"pago": true, "fecha_pago": "2024-05-02"
	}`, string(raw))

	status, raw = srv.do(t, fiber.MethodGet, "/departamentos/estado", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[{"id":1,"numero":301,"monto":50000,"estado":true,"gastos_pendientes":0,"total_adeudado":0}]`, string(raw))

	status, raw = srv.do(t, fiber.MethodPut, "/gastos/1/pago", `{"pago": false}`)
	require.Equal(t, fiber.StatusOK, status)
	body := decode[map[string]any](t, raw)
	assert.Nil(t, body["fecha_pago"])
	assert.Equal(t, false, body["pago"])

	status, raw = srv.do(t, fiber.MethodGet, "/departamentos", "")
	require.Equal(t, fiber.StatusOK, status)
	depts := decode[[]map[string]any](t, raw)
	require.Len(t, depts, 1)
	assert.Equal(t, false, depts[0]["estado"])
}

func TestGenerateExpense_Errors(t *testing.T) {
	srv := newTestServer(t, nil)
	status, _ := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 1, "monto": 10}`)
	require.Equal(t, fiber.StatusCreated, status)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "missing amount", body: `{"id_depa": 1}`, status: fiber.StatusBadRequest},
		{name: "fractional amount", body: `{"id_depa": 1, "monto_gasto": 1.5}`, status: fiber.StatusBadRequest},
		{name: "zero amount", body: `{"id_depa": 1, "monto_gasto": 0}`, status: fiber.StatusBadRequest},
		{name: "text id", body: `{"id_depa": "uno", "monto_gasto": 5}`, status: fiber.StatusBadRequest},
		{name: "unknown department", body: `{"id_depa": 99, "monto_gasto": 5}`, status: fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := srv.do(t, fiber.MethodPost, "/gastos/generar", tt.body)
			assert.Equal(t, tt.status, status, string(raw))
			assert.NotEmpty(t, errorMessage(t, raw))
		})
	}
	assert.Zero(t, srv.store.ExpenseCount())
}

func TestListExpensesByDepartment_Endpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	status, _ := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 12, "monto": 10}`)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = srv.do(t, fiber.MethodPost, "/gastos/generar", `{"id_depa": 1, "monto_gasto": 5}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, raw := srv.do(t, fiber.MethodGet, "/gastos/departamento/1", "")
	require.Equal(t, fiber.StatusOK, status)
	items := decode[[]map[string]any](t, raw)
	require.Len(t, items, 1)
	assert.Equal(t, float64(12), items[0]["numero_depto"])
	assert.Equal(t, float64(15), items[0]["total_pago"])

	status, _ = srv.do(t, fiber.MethodGet, "/gastos/departamento/2", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = srv.do(t, fiber.MethodGet, "/gastos/departamento/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestListExpenses_Endpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	status, _ := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 12, "monto": 10}`)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = srv.do(t, fiber.MethodPost, "/gastos/generar", `{"id_depa": 1, "monto_gasto": 5}`)
	require.Equal(t, fiber.StatusCreated, status)
	srv.store.DeleteDepartment(1)

	status, raw := srv.do(t, fiber.MethodGet, "/gastos", "")
	require.Equal(t, fiber.StatusOK, status)
	items := decode[[]map[string]any](t, raw)
	require.Len(t, items, 1)
	v, ok := items[0]["numero_depto"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestUpdatePayment_Errors(t *testing.T) {
	srv := newTestServer(t, nil)

	status, raw := srv.do(t, fiber.MethodPut, "/gastos/1/pago", `{"otro": true}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Falta el campo requerido (pago)", errorMessage(t, raw))

	status, _ = srv.do(t, fiber.MethodPut, "/gastos/1/pago", `{"pago": "si"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = srv.do(t, fiber.MethodPut, "/gastos/x/pago", `{"pago": true}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = srv.do(t, fiber.MethodPut, "/gastos/77/pago", `{"pago": true}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestMutatingRoutesRequireTokenWhenAuthEnabled(t *testing.T) {
	tokens := auth.NewTokenManager("secret", 5)
	srv := newTestServer(t, auth.NewAuthMiddleware(tokens))

	status, raw := srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 1, "monto": 1}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.NotEmpty(t, errorMessage(t, raw))

	status, _ = srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 1, "monto": 1}`, "Authorization", "Bearer nope")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	token, _, err := tokens.GenerateToken("admin")
	require.NoError(t, err)
	status, _ = srv.do(t, fiber.MethodPost, "/departamentos", `{"numero": 1, "monto": 1}`, "Authorization", "Bearer "+token)
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = srv.do(t, fiber.MethodGet, "/departamentos", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	status, raw := srv.do(t, fiber.MethodGet, "/health/live", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", decode[map[string]any](t, raw)["status"])

	status, raw = srv.do(t, fiber.MethodGet, "/health/ready", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", decode[map[string]any](t, raw)["status"])

	status, raw = srv.do(t, fiber.MethodGet, "/health/metrics", "")
	require.Equal(t, fiber.StatusOK, status)
	snap := decode[observability.MetricsSnapshot](t, raw)
	assert.Equal(t, int64(1), snap.Requests["/health/live|GET|200"])
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	srv := newTestServer(t, nil)

	status, raw := srv.do(t, fiber.MethodGet, "/nope", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.NotEmpty(t, errorMessage(t, raw))
}
