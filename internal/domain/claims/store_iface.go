package claims

import (
	"context"
	"time"

	"maplehr/internal/domain/shared"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]ClaimWithEmployee, error)
	Get(ctx context.Context, id int64) (*ClaimWithEmployee, error)
	Create(ctx context.Context, payload NewClaim) (*ClaimWithEmployee, error)
	Update(ctx context.Context, id int64, patch shared.Patch) (*ClaimWithEmployee, error)
	Stats(ctx context.Context) (Stats, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]Claim, error)
	CategoryTotal(ctx context.Context, employeeID int64, category string, from, to time.Time, excludeID int64) (string, error)
}
