package core

import (
	"context"

	"maplehr/internal/domain/shared"
)

type StoreAPI interface {
	List(ctx context.Context, limit, offset int) ([]EmployeeWithUser, error)
	Search(ctx context.Context, query string, limit, offset int) ([]EmployeeWithUser, error)
	Count(ctx context.Context) (int, error)
	CountMatching(ctx context.Context, query string) (int, error)
	Get(ctx context.Context, id int64) (*EmployeeWithUser, error)
	GetByUserID(ctx context.Context, userID string) (*EmployeeWithUser, error)
	Create(ctx context.Context, payload NewEmployee) (*EmployeeWithUser, error)
	Update(ctx context.Context, id int64, patch shared.Patch) (*EmployeeWithUser, error)
}
