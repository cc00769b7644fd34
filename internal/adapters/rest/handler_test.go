package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/employee-directory/internal/adapters/repository/memory"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

type employeeBody struct {
	ID       *int64          `json:"id"`
	Name     string          `json:"nombre"`
	Position string          `json:"puesto"`
	Salary   json.RawMessage `json:"salario"`
}

func newTestServer(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()

	m := metrics.New()
	svc := employee.NewService(memory.NewEmployeeRepository(), nil, nil)
	h := NewEmployeeHandler(svc, m, nil, fixedClock{now: testNow})
	return NewRouter(h, m), m
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestEmployeeHandler_CreateAndGet(t *testing.T) {
	t.Parallel()

	h, m := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/employees", `{"nombre":"Ana García","puesto":"Diseñadora","salario":60000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created employeeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.ID)
	assert.Equal(t, "Ana García", created.Name)
	assert.Equal(t, "Diseñadora", created.Position)
	assert.Equal(t, "60000", string(created.Salary))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = do(t, h, http.MethodGet, "/api/employees/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var found employeeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Equal(t, *created.ID, *found.ID)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.EmployeesCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues("http", "create_employee", "ok")))
}

func TestEmployeeHandler_CreateIgnoresSuppliedID(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/employees", `{"id":77,"nombre":"Juan","puesto":"QA","salario":"1500.50"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created employeeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), *created.ID)
	assert.Equal(t, "1500.5", string(created.Salary))
}

func TestEmployeeHandler_CreateValidationFailed(t *testing.T) {
	t.Parallel()

	h, m := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/employees", `{"nombre":"","puesto":"Diseñadora","salario":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Errores de validación", body.Error)
	assert.Equal(t, "Los datos proporcionados no son válidos", body.Message)
	assert.Equal(t, map[string]string{
		"nombre":  "El nombre es obligatorio",
		"salario": "El salario debe ser mayor a 0",
	}, body.FieldErrors)

	list := do(t, h, http.MethodGet, "/api/employees", "")
	assert.JSONEq(t, `[]`, list.Body.String())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues("http", "create_employee", "validation_failed")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.EmployeesCreated))
}

func TestEmployeeHandler_CreateMalformedJSON(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	for _, body := range []string{`{"nombre":`, `{"nombre":"a","puesto":"b","salario":"abc"}`} {
		rec := do(t, h, http.MethodPost, "/api/employees", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Solicitud inválida", resp.Error)
		assert.Equal(t, 400, resp.Status)
	}
}

func TestEmployeeHandler_GetNotFound(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/employees/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{
		Error:     "Empleado no encontrado",
		Message:   "No existe un empleado con ID: 999",
		Timestamp: "2024-01-15T10:30:00",
		Status:    404,
	}, body)
}

func TestEmployeeHandler_GetMalformedID(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/employees/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Solicitud inválida", body.Error)
	assert.Contains(t, body.Message, "abc")
}

func TestEmployeeHandler_Search(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/employees", `{"nombre":"Juan Arrua","puesto":"Desarrollador","salario":75000}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/employees", `{"nombre":"Ana García","puesto":"Diseñadora","salario":60000}`).Code)

	rec := do(t, h, http.MethodGet, "/api/employees/search?puesto=Desarrollador", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var found []employeeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Juan Arrua", found[0].Name)

	rec = do(t, h, http.MethodGet, "/api/employees/search?puesto=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/employees/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployeeHandler_List(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/employees", `{"nombre":"Juan","puesto":"Dev","salario":1}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/employees", `{"nombre":"Ana","puesto":"QA","salario":2}`).Code)

	rec := do(t, h, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var all []employeeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "Juan", all[0].Name)
	assert.Equal(t, "Ana", all[1].Name)
}

type failingUseCase struct {
	err   error
	panic bool
}

func (f failingUseCase) ListEmployees(context.Context) ([]*employee.EmployeeDTO, error) {
	if f.panic {
		panic("boom")
	}
	return nil, f.err
}

func (f failingUseCase) GetEmployee(context.Context, int64) (*employee.EmployeeDTO, error) {
	return nil, f.err
}

func (f failingUseCase) SearchEmployees(context.Context, string) ([]*employee.EmployeeDTO, error) {
	return nil, f.err
}

func (f failingUseCase) CreateEmployee(context.Context, *employee.EmployeeDTO) (*employee.EmployeeDTO, error) {
	return nil, f.err
}

func TestEmployeeHandler_UnclassifiedErrorBecomesInternal(t *testing.T) {
	t.Parallel()

	h := NewRouter(NewEmployeeHandler(failingUseCase{err: errors.New("pq: password authentication failed")}, nil, nil, fixedClock{now: testNow}), nil)

	rec := do(t, h, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Error interno del servidor", body.Error)
	assert.Equal(t, employee.MessageInternal, body.Message)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestEmployeeHandler_PanicBecomesInternal(t *testing.T) {
	t.Parallel()

	h := NewRouter(NewEmployeeHandler(failingUseCase{panic: true}, nil, nil, fixedClock{now: testNow}), nil)

	rec := do(t, h, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error interno del servidor")
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/unknown", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Recurso no encontrado")

	rec = do(t, h, http.MethodDelete, "/api/employees/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	do(t, h, http.MethodGet, "/api/employees/999", "")
	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `employee_requests_total{operation="get_employee",outcome="not_found",transport="http"} 1`)
}

func TestRequestID_PropagatesValidHeader(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "4f9c8a4e-5d2b-4c6b-9a57-0f2f0d1f6e11")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "4f9c8a4e-5d2b-4c6b-9a57-0f2f0d1f6e11", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}
