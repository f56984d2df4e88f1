package leave

import (
	"context"

	"maplehr/internal/domain/shared"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]LeaveRequestWithEmployee, error)
	Get(ctx context.Context, id int64) (*LeaveRequestWithEmployee, error)
	Create(ctx context.Context, payload NewLeaveRequest) (*LeaveRequestWithEmployee, error)
	Update(ctx context.Context, id int64, patch shared.Patch) (*LeaveRequestWithEmployee, error)
	Stats(ctx context.Context) (Stats, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]LeaveRequest, error)
	ApprovedDays(ctx context.Context, employeeID int64, leaveType string, year int, excludeID int64) (int, error)
}
