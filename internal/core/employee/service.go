package employee

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は社員ユースケースの公開インターフェースです。
// 返却されるエラーは常に *Error です。
type UseCase interface {
	ListEmployees(ctx context.Context) ([]*EmployeeDTO, error)
	GetEmployee(ctx context.Context, id int64) (*EmployeeDTO, error)
	SearchEmployees(ctx context.Context, position string) ([]*EmployeeDTO, error)
	CreateEmployee(ctx context.Context, in *EmployeeDTO) (*EmployeeDTO, error)
}

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	mapper Mapper
	tx     TransactionManager
	logger *zap.Logger
}

var _ UseCase = (*Service)(nil)

// NewService は Service を生成します。tx と logger は nil を許容します。
func NewService(repo Repository, tx TransactionManager, logger *zap.Logger) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		// Mapper は状態を持たないゼロ値で足りるため、ここで固定する。
		mapper: Mapper{},
		tx:     tx,
		logger: logger.Named("employee.service"),
	}
}

// ListEmployees は全社員をストアの順序で返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*EmployeeDTO, error) {
	var found []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, s.internal("list employees", err)
	}

	return s.mapper.ToDTOs(found), nil
}

// GetEmployee は ID で社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, id int64) (*EmployeeDTO, error) {
	if id <= 0 {
		return nil, NewInvalidArgumentError("El ID del empleado debe ser un número positivo")
	}

	var found *Employee
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = result
		return nil
	})
	switch {
	case errors.Is(err, ErrRecordNotFound):
		return nil, NewNotFoundError(id)
	case err != nil:
		return nil, s.internal("get employee", err, zap.Int64("id", id))
	case found == nil:
		return nil, NewNotFoundError(id)
	}

	return s.mapper.ToDTO(found), nil
}

// SearchEmployees は役職が完全一致する社員を返します。空の検索語は空の結果になります。
func (s *Service) SearchEmployees(ctx context.Context, position string) ([]*EmployeeDTO, error) {
	if strings.TrimSpace(position) == "" {
		return []*EmployeeDTO{}, nil
	}

	var found []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByPosition(txCtx, position)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, s.internal("search employees", err, zap.String("position", position))
	}

	return s.mapper.ToDTOs(found), nil
}

// CreateEmployee は検証後に社員を作成し、採番済みの表現を返します。
func (s *Service) CreateEmployee(ctx context.Context, in *EmployeeDTO) (*EmployeeDTO, error) {
	if in == nil {
		return nil, NewInvalidArgumentError("El cuerpo de la solicitud es obligatorio")
	}

	if fieldErrs := Validate(in); len(fieldErrs) > 0 {
		return nil, NewValidationError(fieldErrs)
	}

	record := s.mapper.ToEntity(in)

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Insert(txCtx, record)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, s.internal("create employee", err)
	}

	if created == nil || created.ID == 0 {
		return nil, s.internal("create employee", errors.New("store returned no identifier"))
	}

	s.logger.Debug("employee created", zap.Int64("id", created.ID))
	return s.mapper.ToDTO(created), nil
}

func (s *Service) internal(op string, err error, fields ...zap.Field) *Error {
	s.logger.Error(op+" failed", append(fields, zap.Error(err))...)
	return NewInternalError(err)
}
