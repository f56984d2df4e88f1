package tickets

import (
	"context"

	"maplehr/internal/domain/shared"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]TicketWithEmployee, error)
	Get(ctx context.Context, id int64) (*TicketWithEmployee, error)
	Create(ctx context.Context, payload NewTicket) (*TicketWithEmployee, error)
	Update(ctx context.Context, id int64, patch shared.Patch) (*TicketWithEmployee, error)
	Stats(ctx context.Context) (Stats, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]Ticket, error)
}
