package member

import "context"

// Repository is the member directory. The loan ledger only reads from it.
type Repository interface {
	Create(ctx context.Context, m *Member) error
	// Update writes name, join date and contributions; the PIN is never changed here.
	Update(ctx context.Context, m *Member) error
	List(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Member, error)
	GetByPIN(ctx context.Context, pin string) (*Member, error)
}
