package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/platform/metrics"
	"go.uber.org/zap"
)

const (
	transportName   = "http"
	maxRequestBytes = 1 << 20
	positionParam   = "puesto"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// EmployeeHandler は社員ユースケースを HTTP に公開します。
type EmployeeHandler struct {
	svc     employee.UseCase
	metrics *metrics.Metrics
	logger  *zap.Logger
	clock   Clock
}

// NewEmployeeHandler は EmployeeHandler を生成します。metrics, logger, clock は nil を許容します。
func NewEmployeeHandler(svc employee.UseCase, m *metrics.Metrics, logger *zap.Logger, clock Clock) *EmployeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = realClock{}
	}
	return &EmployeeHandler{
		svc:     svc,
		metrics: m,
		logger:  logger.Named("employee.http"),
		clock:   clock,
	}
}

// Routes は /api/employees 配下のルートを返します。
func (h *EmployeeHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListEmployees)
	r.Post("/", h.CreateEmployee)
	r.Get("/search", h.SearchEmployees)
	r.Get("/{id}", h.GetEmployee)
	return r
}

// ListEmployees は全社員を返します。
func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	employees, err := h.svc.ListEmployees(r.Context())
	h.observe("list_employees", err, start)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, employees)
}

// GetEmployee は ID で社員を返します。
func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	found, err := h.getEmployee(r)
	h.observe("get_employee", err, start)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

func (h *EmployeeHandler) getEmployee(r *http.Request) (*employee.EmployeeDTO, error) {
	id, err := employee.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return h.svc.GetEmployee(r.Context(), id)
}

// SearchEmployees は役職で社員を検索します。
func (h *EmployeeHandler) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	found, err := h.searchEmployees(r)
	h.observe("search_employees", err, start)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

func (h *EmployeeHandler) searchEmployees(r *http.Request) ([]*employee.EmployeeDTO, error) {
	values := r.URL.Query()
	if !values.Has(positionParam) {
		return nil, employee.NewInvalidArgumentError("El parámetro 'puesto' es obligatorio")
	}
	return h.svc.SearchEmployees(r.Context(), values.Get(positionParam))
}

// CreateEmployee は社員を作成し 201 を返します。
func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	created, err := h.createEmployee(w, r)
	h.observe("create_employee", err, start)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.metrics.IncrementEmployeesCreated()
	writeJSON(w, http.StatusCreated, created)
}

func (h *EmployeeHandler) createEmployee(w http.ResponseWriter, r *http.Request) (*employee.EmployeeDTO, error) {
	var in employee.EmployeeDTO
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, employee.NewInvalidArgumentError("El cuerpo de la solicitud es demasiado grande")
		}
		return nil, employee.NewInvalidArgumentError("El cuerpo de la solicitud no es un JSON válido")
	}
	in.ID = nil

	return h.svc.CreateEmployee(r.Context(), &in)
}

func (h *EmployeeHandler) fail(w http.ResponseWriter, err error) {
	writeError(w, h.logger, h.clock.Now(), err)
}

func (h *EmployeeHandler) observe(operation string, err error, start time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = employee.Classify(err).Kind.String()
	}
	h.metrics.ObserveRequest(transportName, operation, outcome, start)
}
