package performance

import (
	"context"

	"maplehr/internal/domain/shared"
)

type StoreAPI interface {
	List(ctx context.Context, employeeID *int64, limit, offset int) ([]Review, error)
	Get(ctx context.Context, id int64) (*Review, error)
	Create(ctx context.Context, payload NewReview) (*Review, error)
	Update(ctx context.Context, id int64, patch shared.Patch) (*Review, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	Summary(ctx context.Context) (Summary, error)
}
