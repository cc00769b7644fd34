package handler

import (
	"context"
	"time"

	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/platform/metrics"
)

const transportName = "grpc"

var errRequestRequired = employee.NewInvalidArgumentError("La solicitud es obligatoria")

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc     employee.UseCase
	metrics *metrics.Metrics
}

var _ EmployeeServiceServer = (*EmployeeGrpcHandler)(nil)

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。metrics は nil を許容します。
func NewEmployeeGrpcHandler(svc employee.UseCase, m *metrics.Metrics) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc, metrics: m}
}

// ListEmployees は全社員を返します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, req *ListEmployeesRequest) (*ListEmployeesResponse, error) {
	start := time.Now()

	employees, err := h.svc.ListEmployees(ctx)
	h.observe("list_employees", err, start)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ListEmployeesResponse{Employees: employees}, nil
}

// GetEmployee は ID で社員を返します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *GetEmployeeRequest) (*EmployeeResponse, error) {
	start := time.Now()

	var (
		found *employee.EmployeeDTO
		err   error
	)
	if req == nil {
		err = errRequestRequired
	} else {
		found, err = h.svc.GetEmployee(ctx, req.ID)
	}
	h.observe("get_employee", err, start)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &EmployeeResponse{Employee: found}, nil
}

// SearchEmployees は役職で社員を検索します。
func (h *EmployeeGrpcHandler) SearchEmployees(ctx context.Context, req *SearchEmployeesRequest) (*ListEmployeesResponse, error) {
	start := time.Now()

	var (
		found []*employee.EmployeeDTO
		err   error
	)
	if req == nil {
		err = errRequestRequired
	} else {
		found, err = h.svc.SearchEmployees(ctx, req.Position)
	}
	h.observe("search_employees", err, start)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ListEmployeesResponse{Employees: found}, nil
}

// CreateEmployee は社員を作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*EmployeeResponse, error) {
	start := time.Now()

	var (
		created *employee.EmployeeDTO
		err     error
	)
	if req == nil || req.Employee == nil {
		err = employee.NewInvalidArgumentError("El empleado es obligatorio")
	} else {
		in := *req.Employee
		in.ID = nil
		created, err = h.svc.CreateEmployee(ctx, &in)
	}
	h.observe("create_employee", err, start)
	if err != nil {
		return nil, toStatusError(err)
	}

	h.metrics.IncrementEmployeesCreated()
	return &EmployeeResponse{Employee: created}, nil
}

func (h *EmployeeGrpcHandler) observe(operation string, err error, start time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = employee.Classify(err).Kind.String()
	}
	h.metrics.ObserveRequest(transportName, operation, outcome, start)
}
