package memory

import (
	"context"
	"sync"

	"github.com/ogurasousui/employee-directory/internal/core/employee"
)

// EmployeeRepository はプロセス内メモリに社員を保持するリポジトリです。
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[int64]employee.Employee
	order     []int64
	sequence  int64
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は空の EmployeeRepository を生成します。
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[int64]employee.Employee)}
}

// Insert は ID を採番して社員を保存します。
func (r *EmployeeRepository) Insert(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sequence++
	stored := *e
	stored.ID = r.sequence
	r.employees[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	return &stored, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.employees[id]
	if !ok {
		return nil, employee.ErrRecordNotFound
	}
	return &stored, nil
}

// FindAll は挿入順に全社員を返します。
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	return r.filter(ctx, func(employee.Employee) bool { return true })
}

// FindByPosition は役職が完全一致する社員を返します。
func (r *EmployeeRepository) FindByPosition(ctx context.Context, position string) ([]*employee.Employee, error) {
	return r.filter(ctx, func(e employee.Employee) bool { return e.Position == position })
}

func (r *EmployeeRepository) filter(ctx context.Context, keep func(employee.Employee) bool) ([]*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*employee.Employee, 0, len(r.order))
	for _, id := range r.order {
		stored := r.employees[id]
		if keep(stored) {
			out = append(out, &stored)
		}
	}
	return out, nil
}
