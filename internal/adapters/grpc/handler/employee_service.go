package handler

import (
	"context"

	"github.com/ogurasousui/employee-directory/internal/adapters/grpc/codec"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"google.golang.org/grpc"
)

// EmployeeServiceName は gRPC サービスの完全修飾名です。
const EmployeeServiceName = "etica.employee.v1.EmployeeService"

const (
	listEmployeesMethod   = "ListEmployees"
	getEmployeeMethod     = "GetEmployee"
	searchEmployeesMethod = "SearchEmployees"
	createEmployeeMethod  = "CreateEmployee"
)

// ListEmployeesRequest は全件取得の要求です。
type ListEmployeesRequest struct{}

// ListEmployeesResponse は社員一覧の応答です。
type ListEmployeesResponse struct {
	Employees []*employee.EmployeeDTO `json:"employees"`
}

// GetEmployeeRequest は ID による取得要求です。
type GetEmployeeRequest struct {
	ID int64 `json:"id"`
}

// SearchEmployeesRequest は役職検索の要求です。
type SearchEmployeesRequest struct {
	Position string `json:"puesto"`
}

// CreateEmployeeRequest は社員作成の要求です。
type CreateEmployeeRequest struct {
	Employee *employee.EmployeeDTO `json:"employee"`
}

// EmployeeResponse は単一社員の応答です。
type EmployeeResponse struct {
	Employee *employee.EmployeeDTO `json:"employee"`
}

// EmployeeServiceServer は EmployeeService のサーバー側インターフェースです。
type EmployeeServiceServer interface {
	ListEmployees(ctx context.Context, req *ListEmployeesRequest) (*ListEmployeesResponse, error)
	GetEmployee(ctx context.Context, req *GetEmployeeRequest) (*EmployeeResponse, error)
	SearchEmployees(ctx context.Context, req *SearchEmployeesRequest) (*ListEmployeesResponse, error)
	CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*EmployeeResponse, error)
}

// EmployeeServiceDesc は EmployeeService の登録情報です。メッセージは json コーデックで運ばれます。
var EmployeeServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(listEmployeesMethod, EmployeeServiceServer.ListEmployees),
		unaryMethod(getEmployeeMethod, EmployeeServiceServer.GetEmployee),
		unaryMethod(searchEmployeesMethod, EmployeeServiceServer.SearchEmployees),
		unaryMethod(createEmployeeMethod, EmployeeServiceServer.CreateEmployee),
	},
	Metadata: "etica/employee/v1/employee_service",
}

// RegisterEmployeeServiceServer は srv を s に登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + EmployeeServiceName + "/" + method
}

func unaryMethod[Req, Resp any](name string, call func(EmployeeServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(EmployeeServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(EmployeeServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// EmployeeServiceClient は EmployeeService のクライアントです。
type EmployeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient は EmployeeServiceClient を生成します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) *EmployeeServiceClient {
	return &EmployeeServiceClient{cc: cc}
}

// ListEmployees は全社員を取得します。
func (c *EmployeeServiceClient) ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error) {
	out := new(ListEmployeesResponse)
	if err := c.invoke(ctx, listEmployeesMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEmployee は ID で社員を取得します。
func (c *EmployeeServiceClient) GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	out := new(EmployeeResponse)
	if err := c.invoke(ctx, getEmployeeMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchEmployees は役職で社員を検索します。
func (c *EmployeeServiceClient) SearchEmployees(ctx context.Context, in *SearchEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error) {
	out := new(ListEmployeesResponse)
	if err := c.invoke(ctx, searchEmployeesMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEmployee は社員を作成します。
func (c *EmployeeServiceClient) CreateEmployee(ctx context.Context, in *CreateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	out := new(EmployeeResponse)
	if err := c.invoke(ctx, createEmployeeMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}
