package employee

import "context"

// Repository は社員永続化の抽象です。
// FindByID は該当がない場合 ErrRecordNotFound を返します。
type Repository interface {
	Insert(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindAll(ctx context.Context) ([]*Employee, error)
	FindByPosition(ctx context.Context, position string) ([]*Employee, error)
}
